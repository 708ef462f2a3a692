package config

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port              string        `mapstructure:"PORT"`
	Env               string        `mapstructure:"ENV"`
	LogLevel          string        `mapstructure:"LOG_LEVEL"`
	DatabaseURL       string        `mapstructure:"DATABASE_URL"`
	DBMaxConns        int32         `mapstructure:"DB_MAX_CONNS"`
	DBMinConns        int32         `mapstructure:"DB_MIN_CONNS"`
	MigrationsDir     string        `mapstructure:"MIGRATIONS_DIR"`
	TokenFormat       string        `mapstructure:"TOKEN_FORMAT"`
	TokenSigningKey   string        `mapstructure:"TOKEN_SIGNING_KEY"`
	TokenTTL          time.Duration `mapstructure:"TOKEN_TTL"`
	RequireAuth       bool          `mapstructure:"REQUIRE_AUTH"`
	InterchangeStrict bool          `mapstructure:"INTERCHANGE_STRICT"`
	WorkerPoolSize    int           `mapstructure:"WORKER_POOL_SIZE"`
	RateLimitRPS      float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst    int           `mapstructure:"RATE_LIMIT_BURST"`
	MaxBodySize       string        `mapstructure:"MAX_BODY_SIZE"`
}

var keys = []string{
	"PORT", "ENV", "LOG_LEVEL",
	"DATABASE_URL", "DB_MAX_CONNS", "DB_MIN_CONNS", "MIGRATIONS_DIR",
	"TOKEN_FORMAT", "TOKEN_SIGNING_KEY", "TOKEN_TTL", "REQUIRE_AUTH",
	"INTERCHANGE_STRICT", "WORKER_POOL_SIZE", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "MAX_BODY_SIZE",
}

// Load reads configuration from an optional .env file and the environment.
// Environment variables take precedence over the file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("MIGRATIONS_DIR", "")
	v.SetDefault("TOKEN_FORMAT", "signed")
	v.SetDefault("TOKEN_TTL", "0s")
	v.SetDefault("REQUIRE_AUTH", false)
	v.SetDefault("INTERCHANGE_STRICT", false)
	v.SetDefault("WORKER_POOL_SIZE", 10)
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)
	v.SetDefault("MAX_BODY_SIZE", "1M")

	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	// A missing .env file is not an error.
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.TokenFormat = strings.ToLower(strings.TrimSpace(cfg.TokenFormat))
	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks the settings needed to serve or migrate. In production
// the signing key must be configured so that tokens survive restarts, and
// the reversible legacy token format is refused.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) must not exceed DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	switch c.TokenFormat {
	case "signed", "legacy":
	default:
		return fmt.Errorf("TOKEN_FORMAT must be \"signed\" or \"legacy\", got %q", c.TokenFormat)
	}
	if c.TokenSigningKey != "" {
		key, err := hex.DecodeString(c.TokenSigningKey)
		if err != nil {
			return fmt.Errorf("TOKEN_SIGNING_KEY is not valid hex: %w", err)
		}
		if len(key) < 32 {
			return fmt.Errorf("TOKEN_SIGNING_KEY must be at least 32 bytes (64 hex chars), got %d bytes", len(key))
		}
	}
	if c.TokenTTL < 0 {
		return fmt.Errorf("TOKEN_TTL must not be negative")
	}
	if c.IsProduction() {
		if c.TokenFormat == "legacy" {
			return fmt.Errorf("TOKEN_FORMAT=legacy is not allowed in production")
		}
		if c.TokenSigningKey == "" {
			return fmt.Errorf("TOKEN_SIGNING_KEY is required in production")
		}
	}
	if c.WorkerPoolSize < 1 {
		return fmt.Errorf("WORKER_POOL_SIZE must be at least 1, got %d", c.WorkerPoolSize)
	}
	return nil
}
