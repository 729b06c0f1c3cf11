package order

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	orderCols = []string{"id", "user_id", "delivery_status", "created_at"}
	itemCols  = []string{"id", "order_id", "product_id", "price", "quantity"}
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func TestPostgresRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	mock := newMock(t)
	repo := NewPostgresRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM orders WHERE id=$1`)).
		WithArgs("o1").
		WillReturnRows(pgxmock.NewRows(orderCols).AddRow("o1", "user-1", "pending", now))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM order_items`)).
		WithArgs("o1").
		WillReturnRows(pgxmock.NewRows(itemCols).
			AddRow("i1", "o1", "p1", decimal.RequireFromString("10.00"), 2).
			AddRow("i2", "o1", "p2", decimal.RequireFromString("4.25"), 1))

	d, err := repo.GetByID(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", d.Order.UserID)
	assert.Equal(t, StatusPending, d.Order.DeliveryStatus)
	require.Len(t, d.Items, 2)
	assert.True(t, d.Items[0].Price.Equal(decimal.RequireFromString("10.00")))
}

func TestPostgresRepository_GetByIDMissing(t *testing.T) {
	ctx := context.Background()

	mock := newMock(t)
	repo := NewPostgresRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM orders WHERE id=$1`)).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresRepository_ListByUser(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	mock := newMock(t)
	repo := NewPostgresRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM orders`)).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows(orderCols).
			AddRow("o2", "user-1", "pending", now).
			AddRow("o1", "user-1", "delivered", now.Add(-time.Hour)))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM order_items`)).
		WithArgs("o2").
		WillReturnRows(pgxmock.NewRows(itemCols).
			AddRow("i2", "o2", "p1", decimal.RequireFromString("2.00"), 1))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM order_items`)).
		WithArgs("o1").
		WillReturnRows(pgxmock.NewRows(itemCols))

	details, err := repo.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, details, 2)
	assert.Equal(t, "o2", details[0].Order.ID)
	require.Len(t, details[0].Items, 1)
	assert.Empty(t, details[1].Items)
}

func TestPostgresRepository_UpdateDeliveryStatus(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	mock := newMock(t)
	repo := NewPostgresRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(`SET delivery_status=$2`)).
		WithArgs("o1", StatusShipped).
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "created_at"}).AddRow("user-1", now))

	o, err := repo.UpdateDeliveryStatus(ctx, "o1", StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, o.DeliveryStatus)
	assert.Equal(t, "user-1", o.UserID)
}

func TestPostgresRepository_UpdateDeliveryStatusMissing(t *testing.T) {
	ctx := context.Background()

	mock := newMock(t)
	repo := NewPostgresRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(`SET delivery_status=$2`)).
		WithArgs("missing", StatusShipped).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.UpdateDeliveryStatus(ctx, "missing", StatusShipped)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes", func(t *testing.T) {
		mock := newMock(t)
		repo := NewPostgresRepository(mock)

		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM orders WHERE id=$1`)).
			WithArgs("o1").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		require.NoError(t, repo.Delete(ctx, "o1"))
	})

	t.Run("missing", func(t *testing.T) {
		mock := newMock(t)
		repo := NewPostgresRepository(mock)

		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM orders WHERE id=$1`)).
			WithArgs("missing").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		assert.ErrorIs(t, repo.Delete(ctx, "missing"), ErrNotFound)
	})
}
