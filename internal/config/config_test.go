package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("TOKEN_KEY", "secret")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("RATE_LIMIT_RPS", "")
	t.Setenv("RATE_LIMIT_BURST", "")
	t.Setenv("DEFAULT_CURRENCY", "")
	t.Setenv("TLS_CERT", "")
	t.Setenv("TLS_KEY", "")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":443", cfg.HTTPAddr)
	assert.Equal(t, 1.0, cfg.RateLimitRPS)
	assert.Equal(t, 3, cfg.RateLimitBurst)
	assert.Equal(t, "USD", cfg.DefaultCurrency)
	assert.False(t, cfg.UseTLS())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("TOKEN_KEY", "secret")
	t.Setenv("HTTP_ADDR", ":8080")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RATE_LIMIT_BURST", "junk")
	t.Setenv("DEFAULT_CURRENCY", "mxn")
	t.Setenv("TLS_CERT", "cert.pem")
	t.Setenv("TLS_KEY", "key.pem")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
	assert.Equal(t, 3, cfg.RateLimitBurst)
	assert.Equal(t, "MXN", cfg.DefaultCurrency)
	assert.True(t, cfg.UseTLS())
}

func TestFromEnvRequiresTokenKey(t *testing.T) {
	t.Setenv("TOKEN_KEY", "")
	_, err := FromEnv()
	assert.ErrorIs(t, err, ErrMissingTokenKey)
}
