package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultKoiosBaseURL     = "https://api.koios.rest/api/v1"
	defaultCoinGeckoBaseURL = "https://api.coingecko.com/api/v3"
)

// Config holds all configuration values
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Auth        AuthConfig
	RateLimit   RateLimitConfig
	Koios       KoiosConfig
	Cardanoscan CardanoscanConfig
	Custom      CustomConfig
	Pricing     PricingConfig
	Metadata    MetadataConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           string
	Env            string
	LogLevel       string
	TrustProxy     bool
	CORSOrigins    []string
	BodyLimitBytes int64
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver string
	Path   string
	DSN    string
}

// URL returns the connection string for the configured driver
func (c DatabaseConfig) URL() string {
	if c.Driver == "postgres" {
		return c.DSN
	}
	return "file:" + c.Path + "?_foreign_keys=1&_busy_timeout=5000"
}

// RedisConfig holds Redis configuration; an empty URL disables Redis
type RedisConfig struct {
	URL      string
	PASSWORD string
}

// AuthConfig holds bearer token verification settings
type AuthConfig struct {
	JWTSecret string
	JWKSURL   string
}

// RateLimitConfig holds the inbound request budget
type RateLimitConfig struct {
	Window time.Duration
	Max    int
}

// KoiosConfig holds Koios upstream settings
type KoiosConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// CardanoscanConfig holds Cardanoscan upstream settings
type CardanoscanConfig struct {
	BaseURL           string
	InfoURLTemplate   string
	UtxosURLTemplate  string
	AssetsURLTemplate string
	APIKey            string
	Timeout           time.Duration
}

// CustomConfig holds the self-hosted provider endpoints
type CustomConfig struct {
	InfoURL   string
	UtxosURL  string
	AssetsURL string
	Timeout   time.Duration
}

// Configured reports whether all three endpoints are set
func (c CustomConfig) Configured() bool {
	return c.InfoURL != "" && c.UtxosURL != "" && c.AssetsURL != ""
}

// PricingConfig holds spot price lookup settings
type PricingConfig struct {
	BaseURL      string
	APIKey       string
	Timeout      time.Duration
	RegistryPath string
}

// MetadataConfig bounds the asset metadata lookup
type MetadataConfig struct {
	BatchSize   int
	Concurrency int
}

// Load loads configuration from environment variables
func Load() *Config {
	upstreamTimeout := getEnvAsDuration("UPSTREAM_TIMEOUT", 30*time.Second)

	return &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "3000"),
			Env:            getEnv("APP_ENV", "development"),
			LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", "info")),
			TrustProxy:     getEnvAsBool("TRUST_PROXY", false),
			CORSOrigins:    getEnvAsList("CORS_ORIGINS", []string{"*"}),
			BodyLimitBytes: int64(getEnvAsInt("BODY_LIMIT_BYTES", 1<<20)),
		},
		Database: DatabaseConfig{
			Driver: strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
			Path:   getEnv("DB_PATH", "data/cardano.db"),
			DSN:    getEnv("DATABASE_URL", ""),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", ""),
			PASSWORD: getEnv("REDIS_PASSWORD", ""),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("AUTH_JWT_SECRET", ""),
			JWKSURL:   getEnv("AUTH_JWKS_URL", ""),
		},
		RateLimit: RateLimitConfig{
			Window: getEnvAsDuration("RATE_WINDOW", getEnvAsMillis("RATE_WINDOW_MS", time.Minute)),
			Max:    getEnvAsInt("RATE_MAX", 100),
		},
		Koios: KoiosConfig{
			BaseURL: strings.TrimRight(getEnv("KOIOS_BASE_URL", getEnv("CARDANO_BASE_URL", defaultKoiosBaseURL)), "/"),
			APIKey:  getEnv("KOIOS_API_KEY", ""),
			Timeout: upstreamTimeout,
		},
		Cardanoscan: CardanoscanConfig{
			BaseURL:           strings.TrimRight(getEnv("CARDANOSCAN_BASE_URL", ""), "/"),
			InfoURLTemplate:   getEnv("CARDANOSCAN_INFO_URL_TEMPLATE", ""),
			UtxosURLTemplate:  getEnv("CARDANOSCAN_UTXOS_URL_TEMPLATE", ""),
			AssetsURLTemplate: getEnv("CARDANOSCAN_ASSETS_URL_TEMPLATE", ""),
			APIKey:            getEnv("CARDANOSCAN_API_KEY", ""),
			Timeout:           upstreamTimeout,
		},
		Custom: CustomConfig{
			InfoURL:   getEnv("CUSTOM_INFO_URL", ""),
			UtxosURL:  getEnv("CUSTOM_UTXOS_URL", ""),
			AssetsURL: getEnv("CUSTOM_ASSETS_URL", ""),
			Timeout:   upstreamTimeout,
		},
		Pricing: PricingConfig{
			BaseURL:      strings.TrimRight(getEnv("COINGECKO_BASE_URL", defaultCoinGeckoBaseURL), "/"),
			APIKey:       getEnv("COINGECKO_API_KEY", ""),
			Timeout:      getEnvAsDuration("PRICE_TIMEOUT", 10*time.Second),
			RegistryPath: getEnv("TOKEN_REGISTRY_PATH", ""),
		},
		Metadata: MetadataConfig{
			BatchSize:   getEnvAsInt("METADATA_BATCH_SIZE", 50),
			Concurrency: getEnvAsInt("METADATA_CONCURRENCY", 4),
		},
	}
}

// Validate rejects settings the server cannot start with
func (c *Config) Validate() error {
	switch c.Server.LogLevel {
	case "debug", "info", "warn", "error", "silent":
	default:
		return fmt.Errorf("invalid LOG_LEVEL %q", c.Server.LogLevel)
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			return fmt.Errorf("DB_PATH is required for sqlite")
		}
	case "postgres":
		if c.Database.DSN == "" {
			return fmt.Errorf("DATABASE_URL is required for postgres")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	if c.RateLimit.Max <= 0 || c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate limit window and max must be positive")
	}
	if c.Metadata.BatchSize <= 0 || c.Metadata.Concurrency <= 0 {
		return fmt.Errorf("metadata batch size and concurrency must be positive")
	}

	urls := map[string]string{
		"KOIOS_BASE_URL":       c.Koios.BaseURL,
		"CARDANOSCAN_BASE_URL": c.Cardanoscan.BaseURL,
		"CUSTOM_INFO_URL":      c.Custom.InfoURL,
		"CUSTOM_UTXOS_URL":     c.Custom.UtxosURL,
		"CUSTOM_ASSETS_URL":    c.Custom.AssetsURL,
		"COINGECKO_BASE_URL":   c.Pricing.BaseURL,
		"AUTH_JWKS_URL":        c.Auth.JWKSURL,
	}
	for key, raw := range urls {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid %s: %q", key, raw)
		}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvAsMillis accepts the legacy millisecond form, e.g. RATE_WINDOW_MS=60000
func getEnvAsMillis(key string, defaultValue time.Duration) time.Duration {
	if ms := getEnvAsInt(key, -1); ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
