package cart

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-be/internal/pricing"
)

func cartRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "session_cart_id", "items",
		"items_price", "shipping_price", "tax_price", "total_price",
		"version", "created_at", "updated_at",
	})
}

func TestRepository_GetByOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("BySession", func(t *testing.T) {
		rows := cartRows().AddRow(
			"c1", nil, "sess1", []byte(`[{"productId":"p1","name":"Shirt","slug":"shirt","image":"img","price":"25","qty":2}]`),
			"50.00", "10.00", "9.00", "69.00",
			3, time.Now(), time.Now(),
		)

		mock.ExpectQuery(`(?s)SELECT .* FROM carts WHERE session_cart_id = \$1`).
			WithArgs("sess1").
			WillReturnRows(rows)

		c, err := repo.GetByOwner(ctx, nil, "sess1")
		assert.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, "c1", c.ID)
		assert.Equal(t, 3, c.Version)
		require.Len(t, c.Items, 1)
		assert.Equal(t, "p1", c.Items[0].ProductID)
		assert.Equal(t, 2, c.Items[0].Qty)
		assert.True(t, c.TotalPrice.Equal(decimal.NewFromInt(69)))
	})

	t.Run("ByUser", func(t *testing.T) {
		userID := "u1"
		rows := cartRows().AddRow(
			"c2", "u1", "sess2", []byte(`[]`),
			"0", "0", "0", "0",
			1, time.Now(), time.Now(),
		)

		mock.ExpectQuery(`(?s)SELECT .* FROM carts WHERE user_id = \$1`).
			WithArgs("u1").
			WillReturnRows(rows)

		c, err := repo.GetByOwner(ctx, &userID, "sess2")
		assert.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, "c2", c.ID)
		assert.Empty(t, c.Items)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`(?s)SELECT .* FROM carts WHERE session_cart_id = \$1`).
			WithArgs("missing").
			WillReturnRows(cartRows())

		c, err := repo.GetByOwner(ctx, nil, "missing")
		assert.NoError(t, err)
		assert.Nil(t, c)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Replace(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	items := []LineItem{{ProductID: "p1", Name: "Shirt", Slug: "shirt", Image: "img", Price: decimal.NewFromInt(25), Qty: 2}}
	prices := pricing.Prices{
		ItemsPrice:    decimal.NewFromInt(50),
		ShippingPrice: decimal.NewFromInt(10),
		TaxPrice:      decimal.NewFromInt(9),
		TotalPrice:    decimal.NewFromInt(69),
	}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`UPDATE carts`).
			WithArgs(sqlmock.AnyArg(), prices.ItemsPrice, prices.ShippingPrice, prices.TaxPrice, prices.TotalPrice, "c1", 3).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Replace(ctx, "c1", 3, items, prices)
		assert.NoError(t, err)
	})

	t.Run("VersionConflict", func(t *testing.T) {
		mock.ExpectExec(`UPDATE carts`).
			WithArgs(sqlmock.AnyArg(), prices.ItemsPrice, prices.ShippingPrice, prices.TaxPrice, prices.TotalPrice, "c1", 2).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Replace(ctx, "c1", 2, items, prices)
		assert.ErrorIs(t, err, ErrCartConflict)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	rows := cartRows().AddRow(
		"c1", nil, "sess1", []byte(`[{"productId":"p1","name":"Shirt","slug":"shirt","image":"img","price":"25","qty":1}]`),
		"25.00", "10.00", "5.25", "40.25",
		1, time.Now(), time.Now(),
	)

	mock.ExpectQuery(`INSERT INTO carts`).
		WillReturnRows(rows)

	created, err := repo.Create(ctx, &Cart{
		SessionCartID: "sess1",
		Items:         []LineItem{{ProductID: "p1", Name: "Shirt", Slug: "shirt", Image: "img", Price: decimal.NewFromInt(25), Qty: 1}},
		ItemsPrice:    decimal.NewFromInt(25),
		ShippingPrice: decimal.NewFromInt(10),
		TaxPrice:      decimal.RequireFromString("5.25"),
		TotalPrice:    decimal.RequireFromString("40.25"),
	})
	assert.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "c1", created.ID)
	assert.Equal(t, 1, created.Version)

	assert.NoError(t, mock.ExpectationsWereMet())
}
