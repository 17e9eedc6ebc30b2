package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	JWTSecret      string
	JWTIssuer      string
	MigrationsPath string
	StoreDriver    string

	// Postgres transaction tuning
	DBLockTimeout  time.Duration
	DBTxMaxRetries int

	// Distributed entry lock. Empty RedisURL disables it.
	RedisURL            string
	EntryLockTries      int
	EntryLockRetryDelay time.Duration
	EntryLockExpiry     time.Duration

	// Event publishing. Empty RabbitMQURL logs events instead.
	RabbitMQURL      string
	RabbitMQExchange string

	RecurringInterval  time.Duration
	RateLimit          string
	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	v.SetDefault("JWT_ISSUER", "journal-engine")
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("STORE_DRIVER", StoreDriverPostgres)
	v.SetDefault("DB_LOCK_TIMEOUT", "5s")
	v.SetDefault("DB_TX_MAX_RETRIES", 3)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("ENTRY_LOCK_TRIES", 20)
	v.SetDefault("ENTRY_LOCK_RETRY_DELAY", "100ms")
	v.SetDefault("ENTRY_LOCK_EXPIRY", "10s")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_EXCHANGE", "journal.events")
	v.SetDefault("RECURRING_INTERVAL", "1h")
	v.SetDefault("RATE_LIMIT", "300-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:      v.GetString("PGSQL_URL"),
		Port:             v.GetString("PORT"),
		IsProduction:     v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:    v.GetBool("ENABLE_DB_CHECK"),
		JWTSecret:        v.GetString("JWT_SECRET"),
		JWTIssuer:        v.GetString("JWT_ISSUER"),
		MigrationsPath:   v.GetString("MIGRATIONS_PATH"),
		StoreDriver:      strings.ToLower(v.GetString("STORE_DRIVER")),
		DBTxMaxRetries:   v.GetInt("DB_TX_MAX_RETRIES"),
		RedisURL:         v.GetString("REDIS_URL"),
		EntryLockTries:   v.GetInt("ENTRY_LOCK_TRIES"),
		RabbitMQURL:      v.GetString("RABBITMQ_URL"),
		RabbitMQExchange: v.GetString("RABBITMQ_EXCHANGE"),
		RateLimit:        v.GetString("RATE_LIMIT"),
	}

	var err error
	if cfg.DBLockTimeout, err = duration(v, "DB_LOCK_TIMEOUT"); err != nil {
		return nil, err
	}
	if cfg.EntryLockRetryDelay, err = duration(v, "ENTRY_LOCK_RETRY_DELAY"); err != nil {
		return nil, err
	}
	if cfg.EntryLockExpiry, err = duration(v, "ENTRY_LOCK_EXPIRY"); err != nil {
		return nil, err
	}
	if cfg.RecurringInterval, err = duration(v, "RECURRING_INTERVAL"); err != nil {
		return nil, err
	}

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	switch cfg.StoreDriver {
	case StoreDriverPostgres:
		if cfg.DatabaseURL == "" {
			log.Println("Warning: PGSQL_URL environment variable not set.")
		}
	case StoreDriverMemory:
		if cfg.IsProduction {
			return nil, fmt.Errorf("STORE_DRIVER=%s is not allowed in production", StoreDriverMemory)
		}
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	if cfg.IsProduction && cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	if cfg.DBTxMaxRetries < 1 {
		cfg.DBTxMaxRetries = 1
	}

	return cfg, nil
}

func duration(v *viper.Viper, key string) (time.Duration, error) {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s (%q): %w", key, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid value for %s (%q): must be positive", key, raw)
	}
	return d, nil
}
