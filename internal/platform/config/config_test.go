package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("PGSQL_URL", "postgres://localhost/journal")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/journal", cfg.DatabaseURL)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
	assert.Equal(t, 5*time.Second, cfg.DBLockTimeout)
	assert.Equal(t, 3, cfg.DBTxMaxRetries)
	assert.Equal(t, 20, cfg.EntryLockTries)
	assert.Equal(t, 100*time.Millisecond, cfg.EntryLockRetryDelay)
	assert.Equal(t, 10*time.Second, cfg.EntryLockExpiry)
	assert.Equal(t, time.Hour, cfg.RecurringInterval)
	assert.Equal(t, "journal.events", cfg.RabbitMQExchange)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.Empty(t, cfg.RedisURL)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("PORT", "9090")
	t.Setenv("DB_LOCK_TIMEOUT", "750ms")
	t.Setenv("DB_TX_MAX_RETRIES", "0")
	t.Setenv("REDIS_URL", "redis://cache:6379/1")
	t.Setenv("RECURRING_INTERVAL", "15m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, StoreDriverMemory, cfg.StoreDriver)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 750*time.Millisecond, cfg.DBLockTimeout)
	assert.Equal(t, 1, cfg.DBTxMaxRetries)
	assert.Equal(t, "redis://cache:6379/1", cfg.RedisURL)
	assert.Equal(t, 15*time.Minute, cfg.RecurringInterval)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad duration", env: map[string]string{"ENTRY_LOCK_EXPIRY": "soon"}},
		{name: "negative duration", env: map[string]string{"RECURRING_INTERVAL": "-1m"}},
		{name: "unknown driver", env: map[string]string{"STORE_DRIVER": "sqlite"}},
		{name: "memory in production", env: map[string]string{"STORE_DRIVER": "memory", "IS_PRODUCTION": "true"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}
