package promo

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// Code is a discount rule applied by code lookup. Codes are stored normalized
// to upper-case and matched case-insensitively.
type Code struct {
	ID             string
	Code           string
	Description    *string
	DiscountType   string
	DiscountValue  decimal.Decimal
	MinOrderAmount *decimal.Decimal
	MaxUses        *int
	UsedCount      int
	IsActive       bool
	ExpiresAt      *time.Time
	CreatedAt      time.Time
}

// Normalize upper-cases a user-supplied code for lookup.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ApplicableTo reports whether the code may discount an order with the given
// items subtotal: it must be active, unexpired, and the subtotal must meet the
// minimum order amount when one is set.
func (c *Code) ApplicableTo(itemsPrice decimal.Decimal) bool {
	if c == nil || !c.IsActive {
		return false
	}
	if c.ExpiresAt != nil && time.Now().After(*c.ExpiresAt) {
		return false
	}
	if c.MinOrderAmount != nil && itemsPrice.Cmp(*c.MinOrderAmount) < 0 {
		return false
	}
	return true
}
