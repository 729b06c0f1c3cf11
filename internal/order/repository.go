package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrNotFound = errors.New("order not found")

// DBPool matches the methods from *pgxpool.Pool that we use.
// This allows us to mock the database in tests.
type DBPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]Details, error)
	GetByID(ctx context.Context, orderID string) (*Details, error)
	UpdateDeliveryStatus(ctx context.Context, orderID string, status Status) (*Order, error)
	Delete(ctx context.Context, orderID string) error
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]Details, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, delivery_status, created_at
		FROM orders
		WHERE user_id=$1
		ORDER BY created_at DESC, id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	details := make([]Details, 0)
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.DeliveryStatus, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		details = append(details, Details{Order: o})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	for i := range details {
		items, err := r.loadItems(ctx, details[i].Order.ID)
		if err != nil {
			return nil, err
		}
		details[i].Items = items
	}

	return details, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, orderID string) (*Details, error) {
	var o Order
	row := r.pool.QueryRow(ctx,
		`SELECT id, user_id, delivery_status, created_at FROM orders WHERE id=$1`,
		orderID)
	if err := row.Scan(&o.ID, &o.UserID, &o.DeliveryStatus, &o.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select order: %w", err)
	}

	items, err := r.loadItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}

	return &Details{Order: o, Items: items}, nil
}

func (r *PostgresRepository) loadItems(ctx context.Context, orderID string) ([]Item, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, order_id, product_id, price, quantity
		FROM order_items
		WHERE order_id=$1
		ORDER BY line_no
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("select order_items: %w", err)
	}
	defer rows.Close()

	items := make([]Item, 0)
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Price, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan order_item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return items, nil
}

func (r *PostgresRepository) UpdateDeliveryStatus(ctx context.Context, orderID string, status Status) (*Order, error) {
	o := Order{ID: orderID, DeliveryStatus: status}
	row := r.pool.QueryRow(ctx, `
		UPDATE orders
		SET delivery_status=$2
		WHERE id=$1
		RETURNING user_id, created_at
	`, orderID, status)
	if err := row.Scan(&o.UserID, &o.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update delivery status: %w", err)
	}
	return &o, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, orderID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id=$1`, orderID)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
