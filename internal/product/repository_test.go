package product

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "name", "slug", "price", "stock", "image", "created_at"}).
			AddRow("p1", "Shirt", "shirt", "25.00", 5, "img", time.Now())

		mock.ExpectQuery(`(?s)SELECT id, name, slug, price, stock, image, created_at`).
			WithArgs("p1").
			WillReturnRows(rows)

		p, err := repo.GetByID(ctx, "p1")
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, "Shirt", p.Name)
		assert.Equal(t, 5, p.Stock)
		assert.True(t, p.Price.Equal(decimal.NewFromInt(25)))
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`(?s)SELECT id, name, slug, price, stock, image, created_at`).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		p, err := repo.GetByID(ctx, "missing")
		assert.NoError(t, err)
		assert.Nil(t, p)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetVariantByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"id", "product_id", "color_id", "size_id", "price", "stock", "image"}).
		AddRow("v1", "p1", "c1", nil, "30.00", 2, nil)

	mock.ExpectQuery(`(?s)SELECT id, product_id, color_id, size_id, price, stock, image`).
		WithArgs("v1").
		WillReturnRows(rows)

	v, err := repo.GetVariantByID(ctx, "v1")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "p1", v.ProductID)
	assert.Nil(t, v.SizeID)
	assert.Equal(t, 2, v.Stock)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_DecrementStockTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(`(?s)UPDATE products`).
		WithArgs(3, "p1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`(?s)UPDATE product_variants`).
		WithArgs(3, "v1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)

	assert.NoError(t, repo.DecrementStockTx(ctx, tx, "p1", 3))
	assert.NoError(t, repo.DecrementVariantStockTx(ctx, tx, "v1", 3))
	require.NoError(t, tx.Commit())

	assert.NoError(t, mock.ExpectationsWereMet())
}
