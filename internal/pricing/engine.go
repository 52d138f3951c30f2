package pricing

import (
	"github.com/shopspring/decimal"

	"storefront-be/internal/money"
	"storefront-be/internal/promo"
)

// LineItem is the minimal view of a cart line the engine prices.
type LineItem struct {
	Price decimal.Decimal
	Qty   int
}

// Config carries the shipping and tax configuration, injected explicitly by
// the caller. Callers source it fresh from the settings repository on every
// mutation so admin changes apply immediately.
type Config struct {
	BaseShippingCost      decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	// TaxRate is a percentage (15 means 15%).
	TaxRate decimal.Decimal
}

// Prices is the computed breakdown persisted on carts and snapshotted on orders.
type Prices struct {
	ItemsPrice    decimal.Decimal
	ShippingPrice decimal.Decimal
	TaxPrice      decimal.Decimal
	TotalPrice    decimal.Decimal
}

var oneHundred = decimal.NewFromInt(100)

// Calculate computes the four price fields from the line items, the injected
// shipping/tax config and an optional promo code. Pure: no reads, no writes.
//
// itemsPrice    = Σ(price × qty)
// shippingPrice = 0 when itemsPrice strictly exceeds the free-shipping
//                 threshold, else the base shipping cost
// discounted    = promo applied to itemsPrice when applicable
// taxPrice      = discounted × taxRate/100
// totalPrice    = discounted + taxPrice + shippingPrice
//
// Every field is rounded to 2 decimals, half up.
func Calculate(items []LineItem, cfg Config, code *promo.Code) Prices {
	itemsPrice := decimal.Zero
	for _, item := range items {
		itemsPrice = itemsPrice.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Qty))))
	}
	itemsPrice = money.Round2(itemsPrice)

	shippingPrice := cfg.BaseShippingCost
	if itemsPrice.Cmp(cfg.FreeShippingThreshold) > 0 {
		shippingPrice = decimal.Zero
	}
	shippingPrice = money.Round2(shippingPrice)

	discounted := applyDiscount(itemsPrice, code)

	taxPrice := money.Round2(discounted.Mul(cfg.TaxRate.Div(oneHundred)))
	totalPrice := money.Round2(discounted.Add(taxPrice).Add(shippingPrice))

	return Prices{
		ItemsPrice:    itemsPrice,
		ShippingPrice: shippingPrice,
		TaxPrice:      taxPrice,
		TotalPrice:    totalPrice,
	}
}

func applyDiscount(itemsPrice decimal.Decimal, code *promo.Code) decimal.Decimal {
	if !code.ApplicableTo(itemsPrice) {
		return itemsPrice
	}

	switch code.DiscountType {
	case promo.DiscountPercentage:
		factor := decimal.NewFromInt(1).Sub(code.DiscountValue.Div(oneHundred))
		return money.Round2(itemsPrice.Mul(factor))
	case promo.DiscountFixed:
		discounted := itemsPrice.Sub(code.DiscountValue)
		if discounted.IsNegative() {
			discounted = decimal.Zero
		}
		return money.Round2(discounted)
	default:
		return itemsPrice
	}
}
