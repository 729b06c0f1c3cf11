package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCart = errors.New("cart is empty")
	// ErrProductGone means a cart line points at a product deleted since it
	// was added. Nothing is committed in that case.
	ErrProductGone = errors.New("cart references a product that no longer exists")
)

// TxBeginner matches *pgxpool.Pool's Begin for mocking.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// CheckoutService converts a user's cart into an order inside one
// transaction: read cart lines with current product prices, insert the order
// and its item snapshots, delete the cart lines, commit. Any failure rolls
// the whole thing back.
type CheckoutService struct {
	pool TxBeginner
}

func NewCheckoutService(pool TxBeginner) *CheckoutService {
	return &CheckoutService{pool: pool}
}

func (s *CheckoutService) Checkout(ctx context.Context, userID string) (*Details, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	lines, err := lockCartLines(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	o := Order{ID: uuid.NewString(), UserID: userID, DeliveryStatus: StatusPending}
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (id, user_id, delivery_status)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, o.ID, o.UserID, o.DeliveryStatus).Scan(&o.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	items := make([]Item, 0, len(lines))
	for i, ln := range lines {
		if !ln.price.Valid {
			return nil, ErrProductGone
		}
		it := Item{
			ID:        uuid.NewString(),
			OrderID:   o.ID,
			ProductID: ln.productID,
			Price:     ln.price.Decimal,
			Quantity:  ln.quantity,
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, product_id, price, quantity, line_no)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, it.ID, it.OrderID, it.ProductID, it.Price, it.Quantity, i+1)
		if err != nil {
			return nil, fmt.Errorf("insert order_item: %w", err)
		}
		items = append(items, it)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id=$1`, userID); err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return &Details{Order: o, Items: items}, nil
}

type cartLine struct {
	productID string
	quantity  int
	price     decimal.NullDecimal
}

// lockCartLines reads the user's cart joined with live product prices and
// locks the cart rows, so a concurrent checkout for the same user blocks
// until this transaction finishes and then sees an empty cart. A NULL price
// marks a line whose product has been deleted.
func lockCartLines(ctx context.Context, tx pgx.Tx, userID string) ([]cartLine, error) {
	rows, err := tx.Query(ctx, `
		SELECT ci.product_id, ci.quantity, p.price
		FROM cart_items ci
		LEFT JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id=$1
		ORDER BY ci.created_at, ci.id
		FOR UPDATE OF ci
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("lock cart: %w", err)
	}
	defer rows.Close()

	var lines []cartLine
	for rows.Next() {
		var ln cartLine
		if err := rows.Scan(&ln.productID, &ln.quantity, &ln.price); err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		lines = append(lines, ln)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return lines, nil
}
