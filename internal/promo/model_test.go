package promo

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "SAVE10", Normalize("  save10 "))
	assert.Equal(t, "SAVE10", Normalize("Save10"))
	assert.Equal(t, "", Normalize("   "))
}

func TestCode_ApplicableTo(t *testing.T) {
	hundred := decimal.NewFromInt(100)

	t.Run("ActiveCode", func(t *testing.T) {
		c := &Code{Code: "SAVE10", IsActive: true}
		assert.True(t, c.ApplicableTo(hundred))
	})

	t.Run("NilCode", func(t *testing.T) {
		var c *Code
		assert.False(t, c.ApplicableTo(hundred))
	})

	t.Run("Inactive", func(t *testing.T) {
		c := &Code{Code: "SAVE10", IsActive: false}
		assert.False(t, c.ApplicableTo(hundred))
	})

	t.Run("Expired", func(t *testing.T) {
		past := time.Now().Add(-time.Hour)
		c := &Code{Code: "SAVE10", IsActive: true, ExpiresAt: &past}
		assert.False(t, c.ApplicableTo(hundred))
	})

	t.Run("NotYetExpired", func(t *testing.T) {
		future := time.Now().Add(time.Hour)
		c := &Code{Code: "SAVE10", IsActive: true, ExpiresAt: &future}
		assert.True(t, c.ApplicableTo(hundred))
	})

	t.Run("BelowMinimum", func(t *testing.T) {
		min := decimal.NewFromInt(150)
		c := &Code{Code: "SAVE10", IsActive: true, MinOrderAmount: &min}
		assert.False(t, c.ApplicableTo(hundred))
	})

	t.Run("MinimumMetExactly", func(t *testing.T) {
		min := decimal.NewFromInt(100)
		c := &Code{Code: "SAVE10", IsActive: true, MinOrderAmount: &min}
		assert.True(t, c.ApplicableTo(hundred))
	})
}
