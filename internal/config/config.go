package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int
	LogLevel    string
	LogFormat   string
	LogDir      string
	ServiceName string
	Version     string
	Environment string
	APIKey      string // API key for authentication

	// Peers allowed to set X-Forwarded-For, as addresses or CIDR ranges
	TrustedProxies []string

	// Snapshot storage
	StorageDriver string
	SQLitePath    string
	DBUser        string
	DBPassword    string
	DBHost        string
	DBPort        string
	DBName        string
	DBMaxConns    int

	// Model worker
	DetectorAddr       string // ws:// URL of the worker
	DetectorCommand    string // spawned when set, otherwise the worker is external
	DetectorModelPath  string
	DetectorVocabPath  string
	DetectorLabelsPath string
	ONNXRuntimeLib     string

	// Pipeline
	DetectionConfigPath string
	DeadLetterPath      string
	QueueDrainInterval  time.Duration
	QueueRetention      time.Duration

	// Remote backend
	BackendURL          string
	BackendAPIKey       string
	BackendSyncInterval time.Duration

	// Discord capture
	DiscordToken     string
	DiscordChannelID string
	DiscordUserID    string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnvAsInt("PORT", DefaultPort),
		LogLevel:    strings.ToLower(getEnv("LOG_LEVEL", DefaultLogLevel)),
		LogFormat:   strings.ToLower(getEnv("LOG_FORMAT", DefaultLogFormat)),
		LogDir:      getEnv("LOG_DIR", DefaultLogDir),
		ServiceName: getEnv("SERVICE_NAME", DefaultServiceName),
		Version:     getEnv("VERSION", DefaultVersion),
		Environment: getEnv("ENVIRONMENT", DefaultEnvironment),
		APIKey:      getEnv("API_KEY", ""),

		TrustedProxies: getEnvAsList("TRUSTED_PROXIES"),

		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverSQLite)),
		SQLitePath:    getEnv("SQLITE_PATH", DefaultSQLitePath),
		DBUser:        getEnv("DB_USER", "postgres"),
		DBPassword:    getEnv("DB_PASSWORD", "postgres"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBName:        getEnv("DB_NAME", "commentgarden"),
		DBMaxConns:    getEnvAsInt("DB_MAX_CONNS", DefaultDBMaxConns),

		DetectorAddr:       getEnv("DETECTOR_ADDR", ""),
		DetectorCommand:    getEnv("DETECTOR_COMMAND", ""),
		DetectorModelPath:  getEnv("DETECTOR_MODEL_PATH", ""),
		DetectorVocabPath:  getEnv("DETECTOR_VOCAB_PATH", ""),
		DetectorLabelsPath: getEnv("DETECTOR_LABELS_PATH", ""),
		ONNXRuntimeLib:     getEnv("ONNXRUNTIME_LIB", ""),

		DetectionConfigPath: getEnv("DETECTION_CONFIG_PATH", DefaultDetectionConfigPath),
		DeadLetterPath:      getEnv("EVENT_DEADLETTER_PATH", DefaultDeadLetterPath),
		QueueDrainInterval:  getEnvAsDuration("QUEUE_DRAIN_INTERVAL", DefaultQueueDrainInterval),
		QueueRetention:      getEnvAsDuration("QUEUE_RETENTION", DefaultQueueRetention),

		BackendURL:          strings.TrimRight(getEnv("BACKEND_URL", ""), "/"),
		BackendAPIKey:       getEnv("BACKEND_API_KEY", ""),
		BackendSyncInterval: getEnvAsDuration("BACKEND_SYNC_INTERVAL", DefaultBackendSyncInterval),

		DiscordToken:     getEnv("DISCORD_TOKEN", ""),
		DiscordChannelID: getEnv("DISCORD_CHANNEL_ID", ""),
		DiscordUserID:    getEnv("DISCORD_USER_ID", ""),
	}

	// Validate API key is set
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable must be set for security")
	}

	switch cfg.StorageDriver {
	case StorageDriverSQLite, StorageDriverPostgres:
	default:
		return nil, fmt.Errorf("invalid STORAGE_DRIVER %q: expected %s or %s", cfg.StorageDriver, StorageDriverSQLite, StorageDriverPostgres)
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt parses an integer variable, falling back to the default when unset or invalid
func getEnvAsInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getEnvAsList splits a comma separated variable, dropping empty entries
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getEnvAsDuration parses a Go duration ("5s", "10m"), falling back to the default
// when unset, invalid or not positive
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return defaultValue
	}
	return parsed
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}

// BackendEnabled reports whether backend sync should run
func (c *Config) BackendEnabled() bool {
	return c.BackendURL != ""
}

// DiscordEnabled reports whether the Discord capture source should run
func (c *Config) DiscordEnabled() bool {
	return c.DiscordToken != "" && c.DiscordChannelID != ""
}
