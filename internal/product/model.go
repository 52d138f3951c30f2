package product

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID        string
	Name      string
	Slug      string
	Price     decimal.Decimal
	Stock     int
	Image     string
	CreatedAt time.Time
}

// Variant is a (product, color, size) combination with its own price and
// stock. Variant stock is the authoritative decrement target when a line item
// names a variant; the parent product's aggregate stock is decremented too for
// reporting.
type Variant struct {
	ID        string
	ProductID string
	ColorID   *string
	SizeID    *string
	Price     decimal.Decimal
	Stock     int
	Image     *string
}
