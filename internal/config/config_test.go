package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8082", cfg.HTTPAddr)
	assert.Equal(t, ":8080", cfg.GatewayAddr)
	assert.Equal(t, "localhost", cfg.PostgresHost)
	assert.Equal(t, 5432, cfg.PostgresPort)
	assert.Equal(t, 6379, cfg.RedisPort)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 5672, cfg.RabbitPort)
	assert.Equal(t, "guest", cfg.RabbitUser)
	assert.Equal(t, 8500, cfg.ConsulPort)
	assert.InDelta(t, 0.85, cfg.PaymentSuccessRate, 1e-9)
	assert.Equal(t, 2*time.Second, cfg.PaymentDelay)
	assert.Equal(t, 10, cfg.PageLimit)
	assert.Equal(t, 100, cfg.MaxPageLimit)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("POSTGRES_PORT", "15432")
	t.Setenv("PAYMENT_SUCCESS_RATE", "0.5")
	t.Setenv("PAYMENT_DELAY_MS", "100")
	t.Setenv("CACHE_TTL_SECONDS", "30")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 15432, cfg.PostgresPort)
	assert.InDelta(t, 0.5, cfg.PaymentSuccessRate, 1e-9)
	assert.Equal(t, 100*time.Millisecond, cfg.PaymentDelay)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("POSTGRES_PORT", "not-a-port")
	t.Setenv("PAYMENT_SUCCESS_RATE", "always")

	cfg := Load()

	assert.Equal(t, 5432, cfg.PostgresPort)
	assert.InDelta(t, 0.85, cfg.PaymentSuccessRate, 1e-9)
}
