package cart

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"storefront-be/internal/logger"
	"storefront-be/internal/pricing"

	"go.uber.org/zap"
)

type Repository interface {
	// GetByOwner loads the cart for the authenticated user when userID is
	// non-nil, else for the anonymous session identity.
	GetByOwner(ctx context.Context, userID *string, sessionCartID string) (*Cart, error)
	GetByID(ctx context.Context, id string) (*Cart, error)
	Create(ctx context.Context, cart *Cart) (*Cart, error)

	// Replace persists the full item list and the four price fields in one
	// conditional update keyed on the cart version. Returns ErrCartConflict
	// when the version moved underneath the caller.
	Replace(ctx context.Context, cartID string, version int, items []LineItem, prices pricing.Prices) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const cartColumns = `
	id, user_id, session_cart_id, items,
	items_price, shipping_price, tax_price, total_price,
	version, created_at, updated_at`

func scanCart(scan func(dest ...any) error) (*Cart, error) {
	var c Cart
	var itemsJSON []byte

	err := scan(
		&c.ID,
		&c.UserID,
		&c.SessionCartID,
		&itemsJSON,
		&c.ItemsPrice,
		&c.ShippingPrice,
		&c.TaxPrice,
		&c.TotalPrice,
		&c.Version,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &c.Items); err != nil {
			return nil, fmt.Errorf("failed to decode cart items: %w", err)
		}
	}

	return &c, nil
}

func (r *repository) GetByOwner(ctx context.Context, userID *string, sessionCartID string) (*Cart, error) {
	query := `SELECT` + cartColumns + ` FROM carts WHERE session_cart_id = $1`
	arg := any(sessionCartID)
	if userID != nil {
		query = `SELECT` + cartColumns + ` FROM carts WHERE user_id = $1`
		arg = *userID
	}

	row := r.db.QueryRowContext(ctx, query, arg)
	c, err := scanCart(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return c, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Cart, error) {
	row := r.db.QueryRowContext(ctx, `SELECT`+cartColumns+` FROM carts WHERE id = $1`, id)
	c, err := scanCart(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return c, nil
}

func (r *repository) Create(ctx context.Context, cart *Cart) (*Cart, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Create"),
		zap.String("session_cart_id", cart.SessionCartID),
	)

	itemsJSON, err := json.Marshal(cart.Items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cart items: %w", err)
	}

	row := r.db.QueryRowContext(ctx, `
		INSERT INTO carts (
			user_id, session_cart_id, items,
			items_price, shipping_price, tax_price, total_price
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING`+cartColumns+`
	`,
		cart.UserID,
		cart.SessionCartID,
		itemsJSON,
		cart.ItemsPrice,
		cart.ShippingPrice,
		cart.TaxPrice,
		cart.TotalPrice,
	)

	created, err := scanCart(row.Scan)
	if err != nil {
		log.Error("failed to create cart", zap.Error(err))
		return nil, err
	}

	log.Info("cart created", zap.String("cart_id", created.ID))
	return created, nil
}

func (r *repository) Replace(ctx context.Context, cartID string, version int, items []LineItem, prices pricing.Prices) error {
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode cart items: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE carts
		SET items = $1,
		    items_price = $2,
		    shipping_price = $3,
		    tax_price = $4,
		    total_price = $5,
		    version = version + 1,
		    updated_at = NOW()
		WHERE id = $6 AND version = $7
	`,
		itemsJSON,
		prices.ItemsPrice,
		prices.ShippingPrice,
		prices.TaxPrice,
		prices.TotalPrice,
		cartID,
		version,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCartConflict
	}

	return nil
}
