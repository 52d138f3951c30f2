package promo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
)

type CreateParams struct {
	Code           string
	Description    *string
	DiscountType   string
	DiscountValue  decimal.Decimal
	MinOrderAmount *decimal.Decimal
	MaxUses        *int
	ExpiresAt      sql.NullTime
}

type UpdateParams struct {
	Description    *string
	DiscountValue  *decimal.Decimal
	MinOrderAmount *decimal.Decimal
	MaxUses        *int
	IsActive       *bool
	ExpiresAt      sql.NullTime
}

type Repository interface {
	GetActiveByCode(ctx context.Context, code string) (*Code, error)
	GetByID(ctx context.Context, id string) (*Code, error)
	List(ctx context.Context) ([]*Code, error)
	Create(ctx context.Context, params CreateParams) (*Code, error)
	Update(ctx context.Context, id string, params UpdateParams) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const codeColumns = `
	id, code, description, discount_type, discount_value,
	min_order_amount, max_uses, used_count, is_active, expires_at, created_at`

func scanCode(row *sql.Row) (*Code, error) {
	var c Code
	err := row.Scan(
		&c.ID,
		&c.Code,
		&c.Description,
		&c.DiscountType,
		&c.DiscountValue,
		&c.MinOrderAmount,
		&c.MaxUses,
		&c.UsedCount,
		&c.IsActive,
		&c.ExpiresAt,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetActiveByCode matches the normalized upper-case code against active rows.
func (r *repository) GetActiveByCode(ctx context.Context, code string) (*Code, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT`+codeColumns+`
		FROM promo_codes
		WHERE code = $1 AND is_active = TRUE
	`, Normalize(code))

	c, err := scanCode(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get promo code: %w", err)
	}
	return c, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Code, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT`+codeColumns+`
		FROM promo_codes
		WHERE id = $1
	`, id)

	c, err := scanCode(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get promo code: %w", err)
	}
	return c, nil
}

func (r *repository) List(ctx context.Context) ([]*Code, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT`+codeColumns+`
		FROM promo_codes
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []*Code
	for rows.Next() {
		var c Code
		if err := rows.Scan(
			&c.ID,
			&c.Code,
			&c.Description,
			&c.DiscountType,
			&c.DiscountValue,
			&c.MinOrderAmount,
			&c.MaxUses,
			&c.UsedCount,
			&c.IsActive,
			&c.ExpiresAt,
			&c.CreatedAt,
		); err != nil {
			return nil, err
		}
		codes = append(codes, &c)
	}

	return codes, rows.Err()
}

func (r *repository) Create(ctx context.Context, params CreateParams) (*Code, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO promo_codes (
			code, description, discount_type, discount_value,
			min_order_amount, max_uses, expires_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING`+codeColumns+`
	`,
		Normalize(params.Code),
		params.Description,
		params.DiscountType,
		params.DiscountValue,
		params.MinOrderAmount,
		params.MaxUses,
		params.ExpiresAt,
	)

	c, err := scanCode(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create promo code: %w", err)
	}
	return c, nil
}

func (r *repository) Update(ctx context.Context, id string, params UpdateParams) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE promo_codes
		SET description = COALESCE($1, description),
		    discount_value = COALESCE($2, discount_value),
		    min_order_amount = COALESCE($3, min_order_amount),
		    max_uses = COALESCE($4, max_uses),
		    is_active = COALESCE($5, is_active),
		    expires_at = COALESCE($6, expires_at)
		WHERE id = $7
	`,
		params.Description,
		params.DiscountValue,
		params.MinOrderAmount,
		params.MaxUses,
		params.IsActive,
		params.ExpiresAt,
		id,
	)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrPromoNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM promo_codes WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrPromoNotFound
	}
	return nil
}
