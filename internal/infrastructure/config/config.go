// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. .env file in the working directory (optional)
//  2. YAML file (config.yaml)
//  3. Environment variables (fallback)
//
// Example usage:
//
//	cfg := config.LoadOrEnv()
//	backend := cfg.Storage.Backend
//	publishableKey := cfg.Payments.Card.PublishableKey
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Storage backends
const (
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config represents the entire application configuration
type Config struct {
	Storage       StorageConfig       `yaml:"storage"`
	Payments      PaymentsConfig      `yaml:"payments"`
	Checkout      CheckoutConfig      `yaml:"checkout"`
	API           APIConfig           `yaml:"api"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// StorageConfig selects where the cart and order history live
type StorageConfig struct {
	Backend    string      `yaml:"backend"`
	Path       string      `yaml:"path"`
	QuotaBytes int         `yaml:"quota_bytes"` // 0 = unlimited
	Redis      RedisConfig `yaml:"redis"`
}

// RedisConfig holds settings for the redis backend
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// PaymentsConfig holds payment SDK settings
type PaymentsConfig struct {
	Card   CardConfig   `yaml:"card"`
	Wallet WalletConfig `yaml:"wallet"`
}

// CardConfig holds card SDK settings
type CardConfig struct {
	PublishableKey string `yaml:"publishable_key"`
}

// WalletConfig holds wallet SDK settings
type WalletConfig struct {
	ClientID   string        `yaml:"client_id"`
	RetryDelay time.Duration `yaml:"retry_delay"`
}

// CheckoutConfig holds checkout presentation settings
type CheckoutConfig struct {
	Currency     string        `yaml:"currency"`
	BrandName    string        `yaml:"brand_name"`
	Description  string        `yaml:"description"`
	ConfirmDelay time.Duration `yaml:"confirm_delay"`
	HomePath     string        `yaml:"home_path"`
}

// APIConfig holds the storefront bridge settings
type APIConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads and parses the config file. Missing values are filled with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${STRIPE_PUBLISHABLE_KEY})
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadFromEnv loads configuration from environment variables only
func LoadFromEnv() *Config {
	cfg := &Config{
		Storage: StorageConfig{
			Backend:    getEnv("STOREFRONT_STORAGE_BACKEND", BackendBolt),
			Path:       getEnv("STOREFRONT_DB_PATH", "storefront.db"),
			QuotaBytes: getEnvInt("STOREFRONT_QUOTA_BYTES", 5*1024*1024),
			Redis: RedisConfig{
				Addr:     os.Getenv("REDIS_ADDR"),
				Password: os.Getenv("REDIS_PASSWORD"),
				DB:       getEnvInt("REDIS_DB", 0),
				Prefix:   getEnv("REDIS_PREFIX", "storefront:"),
			},
		},
		Payments: PaymentsConfig{
			Card: CardConfig{
				PublishableKey: os.Getenv("STRIPE_PUBLISHABLE_KEY"),
			},
			Wallet: WalletConfig{
				ClientID:   os.Getenv("PAYPAL_CLIENT_ID"),
				RetryDelay: getEnvDuration("WALLET_RETRY_DELAY", 3*time.Second),
			},
		},
		Checkout: CheckoutConfig{
			ConfirmDelay: getEnvDuration("CONFIRM_DELAY", time.Second),
		},
		API: APIConfig{
			Port: getEnvInt("API_PORT", 8085),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "text"),
			},
		},
	}
	cfg.applyDefaults()
	return cfg
}

// LoadOrEnv tries to load from config.yaml, falls back to environment variables
func LoadOrEnv() *Config {
	return LoadOrEnvWithPath("config.yaml")
}

// LoadOrEnvWithPath loads .env if present, then tries the given YAML file,
// falling back to environment variables.
func LoadOrEnvWithPath(path string) *Config {
	// A missing .env is the common case.
	_ = godotenv.Load()

	if cfg, err := Load(path); err == nil {
		return cfg
	}
	return LoadFromEnv()
}

// Validate checks values that would otherwise fail late at runtime
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendBolt, BackendSQLite, BackendMemory:
	case BackendRedis:
		if c.Storage.Redis.Addr == "" {
			return fmt.Errorf("storage backend redis requires redis.addr")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Storage.QuotaBytes < 0 {
		return fmt.Errorf("quota_bytes must not be negative")
	}
	if c.Payments.Wallet.RetryDelay <= 0 {
		return fmt.Errorf("payments.wallet.retry_delay must be positive")
	}
	if c.Checkout.ConfirmDelay <= 0 {
		return fmt.Errorf("checkout.confirm_delay must be positive")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Storage.Backend == "" {
		c.Storage.Backend = BackendBolt
	}
	if c.Storage.Path == "" {
		c.Storage.Path = "storefront.db"
	}
	if c.Storage.Redis.Prefix == "" {
		c.Storage.Redis.Prefix = "storefront:"
	}
	if c.Payments.Wallet.RetryDelay == 0 {
		c.Payments.Wallet.RetryDelay = 3 * time.Second
	}
	if c.Checkout.Currency == "" {
		c.Checkout.Currency = "USD"
	}
	if c.Checkout.BrandName == "" {
		c.Checkout.BrandName = "NIGHTFALL STAR"
	}
	if c.Checkout.Description == "" {
		c.Checkout.Description = c.Checkout.BrandName + " - Fashion Purchase"
	}
	if c.Checkout.ConfirmDelay == 0 {
		c.Checkout.ConfirmDelay = time.Second
	}
	if c.Checkout.HomePath == "" {
		c.Checkout.HomePath = "index.html"
	}
	if c.API.Port == 0 {
		c.API.Port = 8085
	}
	if len(c.API.AllowedOrigins) == 0 {
		c.API.AllowedOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	}
	if c.Observability.Logging.Level == "" {
		c.Observability.Logging.Level = "info"
	}
	if c.Observability.Logging.Format == "" {
		c.Observability.Logging.Format = "text"
	}
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback default
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var result int
		if _, err := fmt.Sscanf(val, "%d", &result); err == nil {
			return result
		}
	}
	return fallback
}

// getEnvDuration retrieves a duration ("3s", "500ms") with a fallback default
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
