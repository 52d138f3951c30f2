package cart

import (
	"time"

	"github.com/shopspring/decimal"

	"storefront-be/internal/pricing"
)

// LineItem is one cart line. Uniqueness key is (ProductID, VariantID); the
// price is a unit-price snapshot taken when the line was added.
type LineItem struct {
	ProductID string          `json:"productId"`
	VariantID *string         `json:"variantId,omitempty"`
	Name      string          `json:"name"`
	Slug      string          `json:"slug"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `json:"price"`
	Qty       int             `json:"qty"`
}

// Cart is the mutable pre-purchase snapshot: the ordered line items plus the
// four computed price fields, which always reflect the current item list.
// Version guards concurrent mutation: every write is conditional on it.
type Cart struct {
	ID            string
	UserID        *string
	SessionCartID string
	Items         []LineItem
	ItemsPrice    decimal.Decimal
	ShippingPrice decimal.Decimal
	TaxPrice      decimal.Decimal
	TotalPrice    decimal.Decimal
	Version       int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (c *Cart) pricingItems() []pricing.LineItem {
	items := make([]pricing.LineItem, 0, len(c.Items))
	for _, li := range c.Items {
		items = append(items, pricing.LineItem{Price: li.Price, Qty: li.Qty})
	}
	return items
}

// findLine returns the index of the line matching the (productID, variantID)
// key exactly, or -1. A nil variantID only matches a variantless line, so the
// base product and its variants occupy separate lines.
func (c *Cart) findLine(productID string, variantID *string) int {
	for i, li := range c.Items {
		if li.ProductID != productID {
			continue
		}
		if variantID == nil && li.VariantID == nil {
			return i
		}
		if variantID != nil && li.VariantID != nil && *li.VariantID == *variantID {
			return i
		}
	}
	return -1
}

// findLineAny is the removal-side lookup: a nil variantID matches any line for
// the product, so callers can remove without knowing which variant is held.
func (c *Cart) findLineAny(productID string, variantID *string) int {
	if variantID != nil {
		return c.findLine(productID, variantID)
	}
	for i, li := range c.Items {
		if li.ProductID == productID {
			return i
		}
	}
	return -1
}
