package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabaseConfig_URL(t *testing.T) {
	sqlite := DatabaseConfig{Driver: "sqlite", Path: "data/test.db"}
	assert.Equal(t, "file:data/test.db?_foreign_keys=1&_busy_timeout=5000", sqlite.URL())

	pg := DatabaseConfig{Driver: "postgres", DSN: "postgres://u:p@localhost:5432/db"}
	assert.Equal(t, "postgres://u:p@localhost:5432/db", pg.URL())
}

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, 100, cfg.RateLimit.Max)
	assert.Equal(t, "https://api.koios.rest/api/v1", cfg.Koios.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Koios.Timeout)
	assert.False(t, cfg.Custom.Configured())
	require.NoError(t, cfg.Validate())
}

func TestLoad_ConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("TRUST_PROXY", "true")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("RATE_WINDOW_MS", "30000")
	t.Setenv("RATE_MAX", "5")
	t.Setenv("CARDANO_BASE_URL", "https://koios.example/api/v1/")
	t.Setenv("UPSTREAM_TIMEOUT", "5s")
	t.Setenv("CUSTOM_INFO_URL", "https://c.example/info")
	t.Setenv("CUSTOM_UTXOS_URL", "https://c.example/utxos")
	t.Setenv("CUSTOM_ASSETS_URL", "https://c.example/assets")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.True(t, cfg.Server.TrustProxy)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
	assert.Equal(t, 5, cfg.RateLimit.Max)
	assert.Equal(t, "https://koios.example/api/v1", cfg.Koios.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Custom.Timeout)
	assert.True(t, cfg.Custom.Configured())
	require.NoError(t, cfg.Validate())
}

func TestLoad_KoiosBaseURLPrecedence(t *testing.T) {
	t.Setenv("CARDANO_BASE_URL", "https://legacy.example")
	t.Setenv("KOIOS_BASE_URL", "https://preferred.example")

	assert.Equal(t, "https://preferred.example", Load().Koios.BaseURL)
}

func TestLoad_ConfigFallbacks(t *testing.T) {
	t.Setenv("RATE_MAX", "not-number")
	t.Setenv("UPSTREAM_TIMEOUT", "bad-duration")
	t.Setenv("TRUST_PROXY", "maybe")

	cfg := Load()
	assert.Equal(t, 100, cfg.RateLimit.Max)
	assert.Equal(t, 30*time.Second, cfg.Koios.Timeout)
	assert.False(t, cfg.Server.TrustProxy)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"log level", func(c *Config) { c.Server.LogLevel = "loud" }},
		{"driver", func(c *Config) { c.Database.Driver = "mysql" }},
		{"postgres dsn", func(c *Config) { c.Database.Driver = "postgres"; c.Database.DSN = "" }},
		{"rate", func(c *Config) { c.RateLimit.Max = 0 }},
		{"batch", func(c *Config) { c.Metadata.BatchSize = 0 }},
		{"url", func(c *Config) { c.Custom.InfoURL = "not a url" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
