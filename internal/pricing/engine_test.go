package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"storefront-be/internal/money"
	"storefront-be/internal/promo"
)

func defaultConfig() Config {
	return Config{
		BaseShippingCost:      decimal.NewFromInt(10),
		FreeShippingThreshold: decimal.NewFromInt(100),
		TaxRate:               decimal.NewFromInt(15),
	}
}

func TestCalculate_ItemsPrice(t *testing.T) {
	items := []LineItem{
		{Price: money.Parse("50.00"), Qty: 2},
		{Price: money.Parse("19.99"), Qty: 3},
	}

	p := Calculate(items, defaultConfig(), nil)

	assert.Equal(t, "159.97", p.ItemsPrice.StringFixed(2))
}

func TestCalculate_ShippingBoundary(t *testing.T) {
	cfg := defaultConfig()

	t.Run("AtThreshold", func(t *testing.T) {
		// itemsPrice == threshold is not strictly greater, so shipping applies
		items := []LineItem{{Price: money.Parse("50.00"), Qty: 2}}
		p := Calculate(items, cfg, nil)

		assert.Equal(t, "100.00", p.ItemsPrice.StringFixed(2))
		assert.Equal(t, "10.00", p.ShippingPrice.StringFixed(2))
	})

	t.Run("AboveThreshold", func(t *testing.T) {
		items := []LineItem{{Price: money.Parse("100.01"), Qty: 1}}
		p := Calculate(items, cfg, nil)

		assert.Equal(t, "0.00", p.ShippingPrice.StringFixed(2))
	})

	t.Run("BelowThreshold", func(t *testing.T) {
		items := []LineItem{{Price: money.Parse("99.99"), Qty: 1}}
		p := Calculate(items, cfg, nil)

		assert.Equal(t, "10.00", p.ShippingPrice.StringFixed(2))
	})
}

func TestCalculate_PercentagePromo(t *testing.T) {
	min := decimal.NewFromInt(50)
	code := &promo.Code{
		DiscountType:   promo.DiscountPercentage,
		DiscountValue:  decimal.NewFromInt(10),
		MinOrderAmount: &min,
		IsActive:       true,
	}

	items := []LineItem{{Price: money.Parse("50.00"), Qty: 2}}
	p := Calculate(items, defaultConfig(), code)

	// 100 - 10% = 90; tax 15% of 90 = 13.50; shipping 10 at the boundary
	assert.Equal(t, "100.00", p.ItemsPrice.StringFixed(2))
	assert.Equal(t, "13.50", p.TaxPrice.StringFixed(2))
	assert.Equal(t, "10.00", p.ShippingPrice.StringFixed(2))
	assert.Equal(t, "113.50", p.TotalPrice.StringFixed(2))
}

func TestCalculate_FixedPromo(t *testing.T) {
	t.Run("Subtracts", func(t *testing.T) {
		code := &promo.Code{
			DiscountType:  promo.DiscountFixed,
			DiscountValue: decimal.NewFromInt(25),
			IsActive:      true,
		}

		items := []LineItem{{Price: money.Parse("40.00"), Qty: 1}}
		p := Calculate(items, defaultConfig(), code)

		// discounted 15.00, tax 2.25, shipping 10
		assert.Equal(t, "2.25", p.TaxPrice.StringFixed(2))
		assert.Equal(t, "27.25", p.TotalPrice.StringFixed(2))
	})

	t.Run("FlooredAtZero", func(t *testing.T) {
		code := &promo.Code{
			DiscountType:  promo.DiscountFixed,
			DiscountValue: decimal.NewFromInt(500),
			IsActive:      true,
		}

		items := []LineItem{{Price: money.Parse("40.00"), Qty: 1}}
		p := Calculate(items, defaultConfig(), code)

		// discounted floored at 0: tax 0, total = shipping only
		assert.Equal(t, "0.00", p.TaxPrice.StringFixed(2))
		assert.Equal(t, "10.00", p.TotalPrice.StringFixed(2))
	})
}

func TestCalculate_PromoNotApplicable(t *testing.T) {
	items := []LineItem{{Price: money.Parse("40.00"), Qty: 1}}
	cfg := defaultConfig()

	want := Calculate(items, cfg, nil)

	t.Run("Inactive", func(t *testing.T) {
		code := &promo.Code{
			DiscountType:  promo.DiscountPercentage,
			DiscountValue: decimal.NewFromInt(10),
			IsActive:      false,
		}
		assert.Equal(t, want, Calculate(items, cfg, code))
	})

	t.Run("Expired", func(t *testing.T) {
		past := time.Now().Add(-time.Hour)
		code := &promo.Code{
			DiscountType:  promo.DiscountPercentage,
			DiscountValue: decimal.NewFromInt(10),
			IsActive:      true,
			ExpiresAt:     &past,
		}
		assert.Equal(t, want, Calculate(items, cfg, code))
	})

	t.Run("BelowMinOrderAmount", func(t *testing.T) {
		min := decimal.NewFromInt(50)
		code := &promo.Code{
			DiscountType:   promo.DiscountPercentage,
			DiscountValue:  decimal.NewFromInt(10),
			MinOrderAmount: &min,
			IsActive:       true,
		}
		assert.Equal(t, want, Calculate(items, cfg, code))
	})
}

func TestCalculate_EmptyItems(t *testing.T) {
	p := Calculate(nil, defaultConfig(), nil)

	assert.True(t, p.ItemsPrice.IsZero())
	assert.Equal(t, "10.00", p.ShippingPrice.StringFixed(2))
	assert.Equal(t, "10.00", p.TotalPrice.StringFixed(2))
}

func TestCalculate_Rounding(t *testing.T) {
	// 3 × 0.335 = 1.005, rounds half up to 1.01
	items := []LineItem{{Price: money.Parse("0.335"), Qty: 3}}
	p := Calculate(items, defaultConfig(), nil)

	assert.Equal(t, "1.01", p.ItemsPrice.StringFixed(2))
}
