package catalog

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productCols = []string{"id", "name", "description", "price", "created_at", "updated_at"}

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

func TestPostgresRepository_List(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	mock := newMock(t)
	repo := NewPostgresRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, description, price, created_at, updated_at FROM products ORDER BY name ASC`)).
		WillReturnRows(pgxmock.NewRows(productCols).
			AddRow("p1", "Apple", "fruit", decimal.RequireFromString("1.50"), now, now).
			AddRow("p2", "Bread", "bakery", decimal.RequireFromString("3.00"), now, now))

	products, err := repo.List(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Apple", products[0].Name)
	assert.True(t, products[0].Price.Equal(decimal.RequireFromString("1.50")))
}

func TestPostgresRepository_ListSearchAndOrdering(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	mock := newMock(t)
	repo := NewPostgresRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE name ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%' ORDER BY price DESC`)).
		WithArgs("apple").
		WillReturnRows(pgxmock.NewRows(productCols).
			AddRow("p1", "Apple", "fruit", decimal.RequireFromString("1.50"), now, now))

	products, err := repo.List(ctx, ListOptions{Search: "apple", Ordering: "-price"})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "p1", products[0].ID)
}

func TestPostgresRepository_ListUnknownOrderingFallsBack(t *testing.T) {
	ctx := context.Background()

	mock := newMock(t)
	repo := NewPostgresRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY name ASC`)).
		WillReturnRows(pgxmock.NewRows(productCols))

	products, err := repo.List(ctx, ListOptions{Ordering: "id; DROP TABLE products"})
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestPostgresRepository_Get(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	mock := newMock(t)
	repo := NewPostgresRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM products WHERE id=$1`)).
		WithArgs("p1").
		WillReturnRows(pgxmock.NewRows(productCols).
			AddRow("p1", "Apple", "fruit", decimal.RequireFromString("1.50"), now, now))

	p, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Apple", p.Name)
}

func TestPostgresRepository_GetMissing(t *testing.T) {
	ctx := context.Background()

	mock := newMock(t)
	repo := NewPostgresRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM products WHERE id=$1`)).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	mock := newMock(t)
	repo := NewPostgresRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO products (id, name, description, price)`)).
		WithArgs(pgxmock.AnyArg(), "Apple", "fruit", decimal.RequireFromString("1.50")).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	p := Product{Name: "Apple", Description: "fruit", Price: decimal.RequireFromString("1.50")}
	require.NoError(t, repo.Create(ctx, &p))
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, now, p.CreatedAt)
}

func TestPostgresRepository_UpdateMissing(t *testing.T) {
	ctx := context.Background()

	mock := newMock(t)
	repo := NewPostgresRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE products`)).
		WithArgs("missing", "Apple", "", decimal.RequireFromString("1.50")).
		WillReturnError(pgx.ErrNoRows)

	p := Product{ID: "missing", Name: "Apple", Price: decimal.RequireFromString("1.50")}
	assert.ErrorIs(t, repo.Update(ctx, &p), ErrNotFound)
}

func TestPostgresRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes", func(t *testing.T) {
		mock := newMock(t)
		repo := NewPostgresRepository(mock)

		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM products WHERE id=$1`)).
			WithArgs("p1").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		require.NoError(t, repo.Delete(ctx, "p1"))
	})

	t.Run("missing", func(t *testing.T) {
		mock := newMock(t)
		repo := NewPostgresRepository(mock)

		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM products WHERE id=$1`)).
			WithArgs("missing").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		assert.ErrorIs(t, repo.Delete(ctx, "missing"), ErrNotFound)
	})

	t.Run("referenced by order items", func(t *testing.T) {
		mock := newMock(t)
		repo := NewPostgresRepository(mock)

		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM products WHERE id=$1`)).
			WithArgs("p1").
			WillReturnError(&pgconn.PgError{Code: "23503"})

		assert.ErrorIs(t, repo.Delete(ctx, "p1"), ErrInUse)
	})

	t.Run("other errors pass through", func(t *testing.T) {
		mock := newMock(t)
		repo := NewPostgresRepository(mock)

		boom := errors.New("boom")
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM products WHERE id=$1`)).
			WithArgs("p1").
			WillReturnError(boom)

		assert.ErrorIs(t, repo.Delete(ctx, "p1"), boom)
	})
}
