package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"storefront-be/internal/cart"
	"storefront-be/internal/logger"
	"storefront-be/internal/product"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Summary feeds the admin overview: row counts plus sales rollups.
type Summary struct {
	OrdersCount   int             `json:"ordersCount"`
	ProductsCount int             `json:"productsCount"`
	UsersCount    int             `json:"usersCount"`
	TotalSales    decimal.Decimal `json:"totalSales"`
	SalesByMonth  []SalesDatum    `json:"salesByMonth"`
}

type SalesDatum struct {
	Month      string          `json:"month"`
	TotalSales decimal.Decimal `json:"totalSales"`
}

type RevenueRow struct {
	Date         string          `json:"date"`
	DisplayDate  string          `json:"displayDate"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	OrderCount   int             `json:"orderCount"`
}

type Repository interface {
	// CreateTx inserts the order and its items and resets the source cart in
	// one transaction. The cart reset is conditional on the cart version so a
	// concurrent cart mutation aborts the checkout instead of being lost.
	CreateTx(ctx context.Context, o *Order, cartID string, cartVersion int) (string, error)

	GetByID(ctx context.Context, id string) (*Order, error)

	// MarkAsPaid performs the created -> paid transition: under a row lock it
	// enforces the at-most-once guard, decrements stock for every item
	// (product, plus variant when one is named) and stores the payment
	// result. Stock may go negative; availability was checked at
	// cart-mutation time.
	MarkAsPaid(ctx context.Context, orderID string, result *PaymentResult) error

	SetPaymentResult(ctx context.Context, orderID string, result *PaymentResult) error
	MarkDelivered(ctx context.Context, orderID string) error

	ListMine(ctx context.Context, userID string, limit, page int) ([]*Order, int, error)
	ListAll(ctx context.Context, query string, limit, page int) ([]*Order, int, error)
	Delete(ctx context.Context, id string) error
	Summary(ctx context.Context) (*Summary, error)
	RevenueByPeriod(ctx context.Context, period string) ([]RevenueRow, error)
}

type repository struct {
	db          *sql.DB
	productRepo product.Repository
}

func NewRepository(db *sql.DB, productRepo product.Repository) Repository {
	return &repository{db: db, productRepo: productRepo}
}

func (r *repository) CreateTx(ctx context.Context, o *Order, cartID string, cartVersion int) (string, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateTx"),
		zap.String("user_id", o.UserID),
		zap.Int("item_count", len(o.Items)),
	)

	addressJSON, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return "", fmt.Errorf("failed to encode shipping address: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return "", err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	var orderID string
	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (
			user_id, shipping_address, payment_method,
			items_price, shipping_price, tax_price, total_price
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`,
		o.UserID,
		addressJSON,
		o.PaymentMethod,
		o.ItemsPrice,
		o.ShippingPrice,
		o.TaxPrice,
		o.TotalPrice,
	).Scan(&orderID)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return "", err
	}

	for i, item := range o.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (
				order_id, product_id, variant_id,
				name, slug, image, price, qty
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`,
			orderID,
			item.ProductID,
			item.VariantID,
			item.Name,
			item.Slug,
			item.Image,
			item.Price,
			item.Qty,
		)
		if err != nil {
			log.Error("failed to insert order item",
				zap.Int("item_index", i),
				zap.Error(err),
			)
			return "", err
		}
	}

	// Reset the source cart: empty item list, zeroed price fields.
	res, err := tx.ExecContext(ctx, `
		UPDATE carts
		SET items = '[]',
		    items_price = 0,
		    shipping_price = 0,
		    tax_price = 0,
		    total_price = 0,
		    version = version + 1,
		    updated_at = NOW()
		WHERE id = $1 AND version = $2
	`, cartID, cartVersion)
	if err != nil {
		log.Error("failed to reset cart", zap.Error(err))
		return "", err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return "", err
	}
	if affected == 0 {
		return "", cart.ErrCartConflict
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit order transaction", zap.Error(err))
		return "", err
	}

	committed = true
	log.Info("order created", zap.String("order_id", orderID))

	return orderID, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Order, error) {
	var o Order
	var addressJSON, resultJSON, eventsJSON []byte

	err := r.db.QueryRowContext(ctx, `
		SELECT
			o.id, o.user_id, u.name, u.email,
			o.shipping_address, o.payment_method,
			o.items_price, o.shipping_price, o.tax_price, o.total_price,
			o.is_paid, o.paid_at, o.payment_result,
			o.is_delivered, o.delivered_at,
			o.tracking_number, o.tracking_status, o.tracking_events, o.last_tracking_update,
			o.created_at
		FROM orders o
		JOIN users u ON u.id = o.user_id
		WHERE o.id = $1
	`, id).Scan(
		&o.ID, &o.UserID, &o.UserName, &o.UserEmail,
		&addressJSON, &o.PaymentMethod,
		&o.ItemsPrice, &o.ShippingPrice, &o.TaxPrice, &o.TotalPrice,
		&o.IsPaid, &o.PaidAt, &resultJSON,
		&o.IsDelivered, &o.DeliveredAt,
		&o.TrackingNumber, &o.TrackingStatus, &eventsJSON, &o.LastTrackingUpdate,
		&o.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if err := json.Unmarshal(addressJSON, &o.ShippingAddress); err != nil {
		return nil, fmt.Errorf("failed to decode shipping address: %w", err)
	}
	if len(resultJSON) > 0 {
		var pr PaymentResult
		if err := json.Unmarshal(resultJSON, &pr); err != nil {
			return nil, fmt.Errorf("failed to decode payment result: %w", err)
		}
		o.PaymentResult = &pr
	}
	if len(eventsJSON) > 0 {
		if err := json.Unmarshal(eventsJSON, &o.TrackingEvents); err != nil {
			return nil, fmt.Errorf("failed to decode tracking events: %w", err)
		}
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT order_id, product_id, variant_id, name, slug, image, price, qty
		FROM order_items
		WHERE order_id = $1
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item Item
		if err := rows.Scan(
			&item.OrderID,
			&item.ProductID,
			&item.VariantID,
			&item.Name,
			&item.Slug,
			&item.Image,
			&item.Price,
			&item.Qty,
		); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &o, nil
}

func (r *repository) MarkAsPaid(ctx context.Context, orderID string, result *PaymentResult) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "MarkAsPaid"),
		zap.String("order_id", orderID),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	var isPaid bool
	err = tx.QueryRowContext(ctx, `
		SELECT is_paid FROM orders WHERE id = $1 FOR UPDATE
	`, orderID).Scan(&isPaid)
	if err == sql.ErrNoRows {
		return ErrOrderNotFound
	}
	if err != nil {
		return err
	}
	if isPaid {
		return ErrAlreadyPaid
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT product_id, variant_id, qty
		FROM order_items
		WHERE order_id = $1
	`, orderID)
	if err != nil {
		return err
	}

	type stockItem struct {
		productID string
		variantID *string
		qty       int
	}
	var items []stockItem
	for rows.Next() {
		var it stockItem
		if err := rows.Scan(&it.productID, &it.variantID, &it.qty); err != nil {
			rows.Close()
			return err
		}
		items = append(items, it)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, it := range items {
		if it.variantID != nil {
			if err := r.productRepo.DecrementVariantStockTx(ctx, tx, *it.variantID, it.qty); err != nil {
				return err
			}
		}
		if err := r.productRepo.DecrementStockTx(ctx, tx, it.productID, it.qty); err != nil {
			return err
		}
	}

	var resultJSON []byte
	if result != nil {
		resultJSON, err = json.Marshal(result)
		if err != nil {
			return fmt.Errorf("failed to encode payment result: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE orders
		SET is_paid = TRUE, paid_at = NOW(), payment_result = $1
		WHERE id = $2
	`, resultJSON, orderID)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	committed = true
	log.Info("order marked as paid")
	return nil
}

func (r *repository) SetPaymentResult(ctx context.Context, orderID string, result *PaymentResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode payment result: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET payment_result = $1 WHERE id = $2
	`, resultJSON, orderID)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *repository) MarkDelivered(ctx context.Context, orderID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET is_delivered = TRUE, delivered_at = NOW()
		WHERE id = $1
	`, orderID)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *repository) ListMine(ctx context.Context, userID string, limit, page int) ([]*Order, int, error) {
	if limit <= 0 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, items_price, shipping_price, tax_price, total_price,
		       is_paid, paid_at, is_delivered, delivered_at,
		       tracking_number, tracking_status, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders, err := scanOrderSummaries(rows)
	if err != nil {
		return nil, 0, err
	}

	var count int
	err = r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM orders WHERE user_id = $1
	`, userID).Scan(&count)
	if err != nil {
		return nil, 0, err
	}

	return orders, count, nil
}

func (r *repository) ListAll(ctx context.Context, query string, limit, page int) ([]*Order, int, error) {
	if limit <= 0 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	where := ""
	args := []any{}
	if query != "" && query != "all" {
		where = "WHERE u.name ILIKE $1"
		args = append(args, "%"+query+"%")
	}

	listQuery := fmt.Sprintf(`
		SELECT o.id, o.items_price, o.shipping_price, o.tax_price, o.total_price,
		       o.is_paid, o.paid_at, o.is_delivered, o.delivered_at,
		       o.tracking_number, o.tracking_status, o.created_at
		FROM orders o
		JOIN users u ON u.id = o.user_id
		%s
		ORDER BY o.created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders, err := scanOrderSummaries(rows)
	if err != nil {
		return nil, 0, err
	}

	var count int
	err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count)
	if err != nil {
		return nil, 0, err
	}

	return orders, count, nil
}

func scanOrderSummaries(rows *sql.Rows) ([]*Order, error) {
	var orders []*Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(
			&o.ID,
			&o.ItemsPrice, &o.ShippingPrice, &o.TaxPrice, &o.TotalPrice,
			&o.IsPaid, &o.PaidAt, &o.IsDelivered, &o.DeliveredAt,
			&o.TrackingNumber, &o.TrackingStatus, &o.CreatedAt,
		); err != nil {
			return nil, err
		}
		orders = append(orders, &o)
	}
	return orders, rows.Err()
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *repository) Summary(ctx context.Context) (*Summary, error) {
	var s Summary

	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM orders),
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM users),
			(SELECT COALESCE(SUM(total_price), 0) FROM orders)
	`).Scan(&s.OrdersCount, &s.ProductsCount, &s.UsersCount, &s.TotalSales)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT to_char(created_at, 'MM/YY') AS month, SUM(total_price) AS total_sales
		FROM orders
		GROUP BY to_char(created_at, 'MM/YY')
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var d SalesDatum
		if err := rows.Scan(&d.Month, &d.TotalSales); err != nil {
			return nil, err
		}
		s.SalesByMonth = append(s.SalesByMonth, d)
	}

	return &s, rows.Err()
}

func (r *repository) RevenueByPeriod(ctx context.Context, period string) ([]RevenueRow, error) {
	var dateFmt, displayFmt string
	switch period {
	case "day":
		dateFmt, displayFmt = "YYYY-MM-DD", "DD Mon YYYY"
	case "year":
		dateFmt, displayFmt = "YYYY", "YYYY"
	default:
		dateFmt, displayFmt = "YYYY-MM", "Mon YYYY"
	}

	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT to_char(created_at, '%s') AS date,
		       to_char(created_at, '%s') AS display_date,
		       SUM(total_price) AS total_revenue,
		       COUNT(*) AS order_count
		FROM orders
		WHERE is_paid = TRUE
		GROUP BY 1, 2
		ORDER BY date DESC
	`, dateFmt, displayFmt))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []RevenueRow
	for rows.Next() {
		var row RevenueRow
		if err := rows.Scan(&row.Date, &row.DisplayDate, &row.TotalRevenue, &row.OrderCount); err != nil {
			return nil, err
		}
		result = append(result, row)
	}

	return result, rows.Err()
}
