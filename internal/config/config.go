// Package config loads process settings from the environment and an optional .env file.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var ErrMissingTokenKey = errors.New("TOKEN_KEY environment variable is not set")

type Config struct {
	Env             string
	HTTPAddr        string
	TLSCert         string
	TLSKey          string
	DatabaseURL     string
	TokenKey        []byte
	RateLimitRPS    float64
	RateLimitBurst  int
	DefaultCurrency string
}

// Load reads .env when present; a missing file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		Env:             getEnv("APP_ENV", "development"),
		HTTPAddr:        getEnv("HTTP_ADDR", ":443"),
		TLSCert:         getEnv("TLS_CERT", ""),
		TLSKey:          getEnv("TLS_KEY", ""),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		TokenKey:        []byte(getEnv("TOKEN_KEY", "")),
		RateLimitRPS:    parseFloat(getEnv("RATE_LIMIT_RPS", "1"), 1),
		RateLimitBurst:  parseInt(getEnv("RATE_LIMIT_BURST", "3"), 3),
		DefaultCurrency: strings.ToUpper(getEnv("DEFAULT_CURRENCY", "USD")),
	}
	if len(cfg.TokenKey) == 0 {
		return nil, ErrMissingTokenKey
	}
	return cfg, nil
}

// UseTLS is true only when both certificate and key are configured.
func (c *Config) UseTLS() bool {
	return c.TLSCert != "" && c.TLSKey != ""
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseFloat(value string, fallback float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || f <= 0 {
		return fallback
	}
	return f
}

func parseInt(value string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
