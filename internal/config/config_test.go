package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "store_user")
	t.Setenv("DB_NAME", "store_db")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("APP_ENV", "test")
	t.Setenv("PAYPAL_API_URL", "")

	cfg := LoadConfig()

	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "store_user", cfg.DBUser)
	assert.Equal(t, "8080", cfg.AppPort)
	// sandbox endpoint is the fallback when PAYPAL_API_URL is unset
	assert.Equal(t, "https://api-m.sandbox.paypal.com", cfg.PayPalBaseURL)
}
