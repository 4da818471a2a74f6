package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keys = []string{
	"APP_ENV", "SERVER_ADDRESS", "ALADHAN_BASE_URL", "ALADHAN_METHOD", "CACHE_TTL",
	"TICK_INTERVAL", "DEFAULT_TIMEZONE", "DATABASE_URL", "MIGRATIONS_PATH",
	"REDIS_ADDRESS", "REDIS_USERNAME", "REDIS_PASSWORD", "MQTT_BROKER_URL", "MQTT_CLIENT_ID",
}

// clearEnv blanks every key for the duration of the test.
func clearEnv(t *testing.T) {
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "https://api.aladhan.com/v1", cfg.AladhanBaseURL)
	assert.Equal(t, 11, cfg.AladhanMethod)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, time.Second, cfg.TickInterval)
	assert.Equal(t, "Asia/Jakarta", cfg.Timezone.String())
	assert.Equal(t, "./migrations", cfg.MigrationsPath)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Empty(t, cfg.RedisAddress)
	assert.Empty(t, cfg.MQTTBrokerURL)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("SERVER_ADDRESS", ":9000")
	t.Setenv("ALADHAN_METHOD", "3")
	t.Setenv("CACHE_TTL", "15m")
	t.Setenv("TICK_INTERVAL", "500ms")
	t.Setenv("DEFAULT_TIMEZONE", "Asia/Makassar")
	t.Setenv("REDIS_ADDRESS", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.ServerAddress)
	assert.Equal(t, 3, cfg.AladhanMethod)
	assert.Equal(t, 15*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 500*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, "Asia/Makassar", cfg.Timezone.String())
	assert.Equal(t, "localhost:6379", cfg.RedisAddress)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"ALADHAN_METHOD":   "kemenag",
		"CACHE_TTL":        "an hour",
		"TICK_INTERVAL":    "-1s",
		"DEFAULT_TIMEZONE": "Mars/Olympus",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			_, err := Load()
			assert.ErrorContains(t, err, key)
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("SERVER_ADDRESS")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SERVER_ADDRESS=:7070\n"), 0o600))

	LoadEnv(path)
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.ServerAddress)
}
