package settings

import (
	"github.com/shopspring/decimal"
)

// ShippingSettings is a process-wide singleton row.
type ShippingSettings struct {
	ID                     string
	BaseShippingCost       decimal.Decimal
	FreeShippingThreshold  decimal.Decimal
	USPSIntegrationEnabled bool
}

// TaxSettings is a process-wide singleton row. TaxRate is stored as a
// percentage (15 means 15%).
type TaxSettings struct {
	ID      string
	TaxRate decimal.Decimal
}

// Defaults applied when the singleton rows have never been written.
var (
	DefaultBaseShippingCost      = decimal.NewFromInt(10)
	DefaultFreeShippingThreshold = decimal.NewFromInt(100)
	DefaultTaxRate               = decimal.NewFromInt(15)
)
