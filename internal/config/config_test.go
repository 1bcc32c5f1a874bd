package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DSN", "app:app@tcp(localhost:3306)/app?parseTime=true")
	t.Setenv("APP_SECRET", "s3cret")
	for _, k := range []string{"JWT_SECRET", "HTTP_ADDR", "SESSION_TTL", "CART_PERSIST", "ORDER_STORE", "CHECKOUT_DELAY", "LOG_LEVEL", "SMTP_HOST", "STORAGE_DRIVER"} {
		t.Setenv(k, "")
	}

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, "s3cret", c.JWTSecret)
	assert.Equal(t, 7*24*time.Hour, c.SessionTTL)
	assert.Equal(t, "none", c.CartPersist)
	assert.Equal(t, "mysql", c.OrderStore)
	assert.Equal(t, time.Duration(0), c.CheckoutDelay)
	assert.Equal(t, slog.LevelInfo, c.LogLevel)
	assert.False(t, c.SMTP.Enabled())
	assert.Equal(t, "local", c.Storage.Driver)
	assert.Equal(t, "/uploads", c.Storage.LocalURLPrefix)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DSN", "dsn")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("CART_PERSIST", "REDIS")
	t.Setenv("CART_TTL", "2h")
	t.Setenv("ORDER_STORE", "mongo")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("CHECKOUT_DELAY", "1500ms")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_SKIP_VERIFY", "1")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.CORSOrigins)
	assert.Equal(t, "redis", c.CartPersist)
	assert.Equal(t, 2*time.Hour, c.CartTTL)
	assert.Equal(t, "mongo", c.OrderStore)
	assert.True(t, c.CookieSecure)
	assert.Equal(t, 1500*time.Millisecond, c.CheckoutDelay)
	assert.Equal(t, slog.LevelDebug, c.LogLevel)
	assert.True(t, c.SMTP.Enabled())
	assert.True(t, c.SMTP.SkipVerifyTLS)
}

func TestLoadErrors(t *testing.T) {
	t.Setenv("DB_DSN", "")
	t.Setenv("CART_PERSIST", "disk")
	t.Setenv("SESSION_TTL", "forever")
	t.Setenv("CHECKOUT_DELAY", "-1s")
	t.Setenv("STORAGE_DRIVER", "s3")
	t.Setenv("S3_BUCKET", "")

	_, err := Load()
	require.Error(t, err)
	assert.ErrorContains(t, err, "DB_DSN is required")
	assert.ErrorContains(t, err, "CART_PERSIST")
	assert.ErrorContains(t, err, "SESSION_TTL")
	assert.ErrorContains(t, err, "CHECKOUT_DELAY")
	assert.ErrorContains(t, err, "STORAGE_DRIVER=s3 requires")
}
