package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/qasimqz1/ecommerce/pkg/config"
)

// Store backends.
const (
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"STOREFRONT_HTTP_PORT" envDefault:"8010"`

	// Profile storage
	StoreBackend string `env:"STORE_BACKEND" envDefault:"redis"`
	RedisAddr    string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass    string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB      int    `env:"REDIS_DB" envDefault:"0"`
	// Expiry of profile keys in hours; 0 keeps them forever.
	StoreTTLHours int `env:"STORE_TTL_HOURS" envDefault:"0"`

	// Sessions
	SessionIdleMinutes int `env:"SESSION_IDLE_TTL_MINUTES" envDefault:"30"`

	// Catalog YAML; empty uses the built-in catalog.
	CatalogPath string `env:"CATALOG_PATH"`

	// Kafka; empty disables event publishing.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Pprof debug endpoints (IP allowlist in CIDR notation)
	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"127.0.0.0/8,::1/128" envSeparator:","`

	// Redis commands slower than this are logged; 0 disables.
	SlowCommandThresholdMs int `env:"LOG_SLOW_COMMAND_MS" envDefault:"100"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	return cfg, nil
}

// LoadFrom is Load over an explicit variable set.
func LoadFrom(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.LoadFrom(cfg, environ); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	return cfg, nil
}

// Validate checks configuration invariants. pkgconfig calls it after parsing.
func (c *Config) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	switch c.StoreBackend {
	case StoreRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis store")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", StoreRedis, StoreMemory, c.StoreBackend)
	}
	if c.StoreTTLHours < 0 {
		return fmt.Errorf("STORE_TTL_HOURS must not be negative, got %d", c.StoreTTLHours)
	}
	if c.SessionIdleMinutes < 1 {
		return fmt.Errorf("SESSION_IDLE_TTL_MINUTES must be at least 1, got %d", c.SessionIdleMinutes)
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.OTELSampleRate)
	}
	if c.SlowCommandThresholdMs < 0 {
		return fmt.Errorf("LOG_SLOW_COMMAND_MS must not be negative, got %d", c.SlowCommandThresholdMs)
	}
	return nil
}

// StoreTTL is the expiry applied to persisted profile keys.
func (c *Config) StoreTTL() time.Duration {
	return time.Duration(c.StoreTTLHours) * time.Hour
}

// SessionIdleTTL is how long an untouched session survives.
func (c *Config) SessionIdleTTL() time.Duration {
	return time.Duration(c.SessionIdleMinutes) * time.Minute
}

// SlowCommandThreshold is the redis slow command logging threshold.
func (c *Config) SlowCommandThreshold() time.Duration {
	return time.Duration(c.SlowCommandThresholdMs) * time.Millisecond
}

// KafkaEnabled reports whether storefront events are published.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}
