package product

import (
	"context"
	"database/sql"
	"fmt"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*Product, error)
	GetBySlug(ctx context.Context, slug string) (*Product, error)
	GetVariantByID(ctx context.Context, id string) (*Variant, error)

	// DecrementStockTx runs inside the caller's transaction. Stock may go
	// negative here; availability was checked at cart-mutation time.
	DecrementStockTx(ctx context.Context, tx *sql.Tx, productID string, qty int) error
	DecrementVariantStockTx(ctx context.Context, tx *sql.Tx, variantID string, qty int) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id string) (*Product, error) {
	var p Product
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, slug, price, stock, image, created_at
		FROM products
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.Slug, &p.Price, &p.Stock, &p.Image, &p.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return &p, nil
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*Product, error) {
	var p Product
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, slug, price, stock, image, created_at
		FROM products
		WHERE slug = $1
	`, slug).Scan(&p.ID, &p.Name, &p.Slug, &p.Price, &p.Stock, &p.Image, &p.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return &p, nil
}

func (r *repository) GetVariantByID(ctx context.Context, id string) (*Variant, error) {
	var v Variant
	err := r.db.QueryRowContext(ctx, `
		SELECT id, product_id, color_id, size_id, price, stock, image
		FROM product_variants
		WHERE id = $1
	`, id).Scan(&v.ID, &v.ProductID, &v.ColorID, &v.SizeID, &v.Price, &v.Stock, &v.Image)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get variant: %w", err)
	}

	return &v, nil
}

func (r *repository) DecrementStockTx(ctx context.Context, tx *sql.Tx, productID string, qty int) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE products
		SET stock = stock - $1
		WHERE id = $2
	`, qty, productID)
	return err
}

func (r *repository) DecrementVariantStockTx(ctx context.Context, tx *sql.Tx, variantID string, qty int) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE product_variants
		SET stock = stock - $1
		WHERE id = $2
	`, qty, variantID)
	return err
}
