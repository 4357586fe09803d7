package config

import "time"

// Storage drivers
const (
	StorageDriverSQLite   = "sqlite"
	StorageDriverPostgres = "postgres"
)

// Default values
const (
	DefaultPort                = 8080
	DefaultLogLevel            = "info"
	DefaultLogFormat           = "text"
	DefaultLogDir              = "logs"
	DefaultServiceName         = "comment-garden"
	DefaultVersion             = "dev"
	DefaultEnvironment         = "dev"
	DefaultSQLitePath          = "data/garden.db"
	DefaultDetectionConfigPath = "configs/detection.yaml"
	DefaultDeadLetterPath      = "logs/event_deadletter.jsonl"
	DefaultDBMaxConns          = 5

	// DefaultDetectorAddr is dialed when the worker is spawned locally without an explicit address
	DefaultDetectorAddr = "ws://127.0.0.1:8765/ws"

	DefaultQueueDrainInterval  = 5 * time.Second
	DefaultQueueRetention      = time.Hour
	DefaultBackendSyncInterval = 10 * time.Minute
)

// Detection settings keys, shared by the YAML file and DETECTION_* env vars
const (
	DetectionEnvPrefix    = "DETECTION"
	DetectionKeyEndpoint  = "endpoint"
	DetectionKeyAPIKey    = "api_key"
	DetectionKeyTimeoutMs = "timeout_ms"
	DetectionKeyFallback  = "enable_fallback"
)

// Log messages
const (
	LogMsgDetectionSettingsMissing = "Detection settings file not found, using defaults"
	LogMsgDetectionSettingsSaved   = "Detection settings saved"
)
