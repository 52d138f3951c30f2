package money

import (
	"github.com/shopspring/decimal"
)

// Round2 rounds to 2 decimal places, half away from zero.
// All persisted money columns are decimal(12,2).
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FromFloat converts a float amount into a 2-decimal money value.
func FromFloat(f float64) decimal.Decimal {
	return Round2(decimal.NewFromFloat(f))
}

// Parse parses a decimal string (e.g. "10.00"). Invalid input yields zero.
func Parse(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Equal reports whether two money values are numerically equal.
func Equal(a, b decimal.Decimal) bool {
	return a.Cmp(b) == 0
}
