package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvVars = []string{
	"PORT", "LOG_LEVEL", "LOG_FORMAT", "LOG_DIR", "API_KEY", "STORAGE_DRIVER", "SQLITE_PATH",
	"DB_USER", "DB_PASSWORD", "DB_HOST", "DB_PORT", "DB_NAME", "DB_MAX_CONNS",
	"QUEUE_DRAIN_INTERVAL", "QUEUE_RETENTION", "BACKEND_URL", "BACKEND_API_KEY",
	"BACKEND_SYNC_INTERVAL", "DISCORD_TOKEN", "DISCORD_CHANNEL_ID", "ENV_SCHEMA_VERSION",
	"DETECTION_ENDPOINT", "DETECTION_API_KEY", "DETECTION_TIMEOUT_MS", "DETECTION_ENABLE_FALLBACK",
	"DETECTOR_ADDR", "DETECTOR_COMMAND", "TRUSTED_PROXIES",
}

// clearEnvVars unsets every variable the tests touch and restores them afterwards
func clearEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range configEnvVars {
		if old, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { _ = os.Setenv(key, old) })
		} else {
			t.Cleanup(func() { _ = os.Unsetenv(key) })
		}
		_ = os.Unsetenv(key)
	}
}

func TestLoad_RequiresAPIKey(t *testing.T) {
	clearEnvVars(t)
	t.Chdir(t.TempDir())

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_KEY")
}

func TestLoad_Defaults(t *testing.T) {
	clearEnvVars(t)
	t.Chdir(t.TempDir())
	t.Setenv("API_KEY", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, StorageDriverSQLite, cfg.StorageDriver)
	assert.Equal(t, DefaultSQLitePath, cfg.SQLitePath)
	assert.Equal(t, DefaultQueueDrainInterval, cfg.QueueDrainInterval)
	assert.Equal(t, DefaultQueueRetention, cfg.QueueRetention)
	assert.Equal(t, DefaultBackendSyncInterval, cfg.BackendSyncInterval)
	assert.False(t, cfg.BackendEnabled())
	assert.False(t, cfg.DiscordEnabled())
	assert.Empty(t, cfg.TrustedProxies)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnvVars(t)
	t.Chdir(t.TempDir())
	t.Setenv("API_KEY", "secret")
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("STORAGE_DRIVER", "Postgres")
	t.Setenv("QUEUE_DRAIN_INTERVAL", "250ms")
	t.Setenv("BACKEND_URL", "https://api.example.com/")
	t.Setenv("DISCORD_TOKEN", "tok")
	t.Setenv("DISCORD_CHANNEL_ID", "123")
	t.Setenv("TRUSTED_PROXIES", " 10.0.0.1, ,172.16.0.0/12")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, StorageDriverPostgres, cfg.StorageDriver)
	assert.Equal(t, 250*time.Millisecond, cfg.QueueDrainInterval)
	assert.Equal(t, "https://api.example.com", cfg.BackendURL)
	assert.True(t, cfg.BackendEnabled())
	assert.True(t, cfg.DiscordEnabled())
	assert.Equal(t, []string{"10.0.0.1", "172.16.0.0/12"}, cfg.TrustedProxies)
}

func TestLoad_InvalidStorageDriver(t *testing.T) {
	clearEnvVars(t)
	t.Chdir(t.TempDir())
	t.Setenv("API_KEY", "secret")
	t.Setenv("STORAGE_DRIVER", "mongo")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE_DRIVER")
}

func TestGetEnvAsInt(t *testing.T) {
	clearEnvVars(t)

	assert.Equal(t, 7, getEnvAsInt("DB_MAX_CONNS", 7))

	t.Setenv("DB_MAX_CONNS", " 12 ")
	assert.Equal(t, 12, getEnvAsInt("DB_MAX_CONNS", 7))

	t.Setenv("DB_MAX_CONNS", "twelve")
	assert.Equal(t, 7, getEnvAsInt("DB_MAX_CONNS", 7))
}

func TestGetEnvAsDuration(t *testing.T) {
	clearEnvVars(t)

	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"valid", "10m", 10 * time.Minute},
		{"invalid", "soon", time.Second},
		{"zero", "0s", time.Second},
		{"negative", "-5s", time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("QUEUE_RETENTION", tt.value)
			assert.Equal(t, tt.want, getEnvAsDuration("QUEUE_RETENTION", time.Second))
		})
	}
}

func TestGetDBConnString(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5433", DBName: "n"}
	assert.Equal(t, "postgres://u:p@h:5433/n?sslmode=disable", cfg.GetDBConnString())
}
