package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	Backend     BackendConfig
	Session     SessionConfig
	Database    DatabaseConfig
	Checkout    CheckoutConfig
	LogLevel    string
}

type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

type SessionConfig struct {
	Driver   string // memory, redis or postgres
	RedisURL string
	RedisDB  int
	TTL      time.Duration
	KeySalt  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN returns a lib/pq connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type CheckoutConfig struct {
	// PublicURL is where the browser reaches this app; the payment gateway
	// calls back to PublicURL + SuccessRoute.
	PublicURL string
	// PreferredSendMethodID is used when offered; 0 means take the first offered method.
	PreferredSendMethodID int64
	FallbackReceiveDate   string
}

// CallbackURL is the success route the payment gateway returns to
func (c CheckoutConfig) CallbackURL(route string) string {
	return strings.TrimSuffix(c.PublicURL, "/") + route
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("SESSION_DRIVER", "memory")

	// Read from environment variables
	viper.AutomaticEnv()

	// .env is optional
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	backendTimeout, err := time.ParseDuration(getEnvOrViper("BACKEND_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid BACKEND_TIMEOUT: %w", err)
	}
	sessionTTL, err := time.ParseDuration(getEnvOrViper("SESSION_TTL", "72h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	redisDB, err := strconv.Atoi(getEnvOrViper("REDIS_DB", "2"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	sendMethodID, err := strconv.ParseInt(getEnvOrViper("CHECKOUT_SEND_METHOD_ID", "0"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid CHECKOUT_SEND_METHOD_ID: %w", err)
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		Backend: BackendConfig{
			BaseURL: getEnvOrViper("BACKEND_BASE_URL", ""),
			Timeout: backendTimeout,
		},
		Session: SessionConfig{
			Driver:   getEnvOrViper("SESSION_DRIVER", "memory"),
			RedisURL: getEnvOrViper("REDIS_URL", "redis://localhost:6379"),
			RedisDB:  redisDB,
			TTL:      sessionTTL,
			KeySalt:  getEnvOrViper("SESSION_KEY_SALT", "default-salt-change-in-production"),
		},
		Database: DatabaseConfig{
			Host:     getEnvOrViper("DB_HOST", "localhost"),
			Port:     getEnvOrViper("DB_PORT", "5432"),
			User:     getEnvOrViper("DB_USER", "postgres"),
			Password: getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrViper("DB_NAME", "storefront"),
			SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
		},
		Checkout: CheckoutConfig{
			PublicURL:             getEnvOrViper("PUBLIC_URL", "http://localhost:3000"),
			PreferredSendMethodID: sendMethodID,
			FallbackReceiveDate:   getEnvOrViper("CHECKOUT_FALLBACK_RECEIVE_DATE", ""),
		},
		LogLevel: getEnvOrViper("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks required fields
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("BACKEND_BASE_URL is required")
	}
	switch c.Session.Driver {
	case "memory", "redis", "postgres":
	default:
		return fmt.Errorf("SESSION_DRIVER must be memory, redis or postgres, got %q", c.Session.Driver)
	}
	if c.Environment == "production" && c.Session.KeySalt == "default-salt-change-in-production" {
		return fmt.Errorf("SESSION_KEY_SALT must be set in production")
	}
	return nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}
