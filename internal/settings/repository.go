package settings

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
)

type Repository interface {
	GetShipping(ctx context.Context) (*ShippingSettings, error)
	GetTax(ctx context.Context) (*TaxSettings, error)
	UpsertShipping(ctx context.Context, baseCost, threshold decimal.Decimal, uspsEnabled bool) error
	UpsertTax(ctx context.Context, rate decimal.Decimal) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// GetShipping returns the singleton shipping row, or nil when never written.
func (r *repository) GetShipping(ctx context.Context) (*ShippingSettings, error) {
	var s ShippingSettings
	err := r.db.QueryRowContext(ctx, `
		SELECT id, base_shipping_cost, free_shipping_threshold, usps_integration_enabled
		FROM shipping_settings
		LIMIT 1
	`).Scan(&s.ID, &s.BaseShippingCost, &s.FreeShippingThreshold, &s.USPSIntegrationEnabled)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shipping settings: %w", err)
	}

	return &s, nil
}

func (r *repository) GetTax(ctx context.Context) (*TaxSettings, error) {
	var t TaxSettings
	err := r.db.QueryRowContext(ctx, `
		SELECT id, tax_rate
		FROM tax_settings
		LIMIT 1
	`).Scan(&t.ID, &t.TaxRate)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tax settings: %w", err)
	}

	return &t, nil
}

func (r *repository) UpsertShipping(ctx context.Context, baseCost, threshold decimal.Decimal, uspsEnabled bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE shipping_settings
		SET base_shipping_cost = $1,
		    free_shipping_threshold = $2,
		    usps_integration_enabled = $3,
		    updated_at = NOW()
	`, baseCost, threshold, uspsEnabled)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO shipping_settings (base_shipping_cost, free_shipping_threshold, usps_integration_enabled)
		VALUES ($1, $2, $3)
	`, baseCost, threshold, uspsEnabled)
	return err
}

func (r *repository) UpsertTax(ctx context.Context, rate decimal.Decimal) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tax_settings
		SET tax_rate = $1, updated_at = NOW()
	`, rate)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO tax_settings (tax_rate) VALUES ($1)
	`, rate)
	return err
}
