package bootstrap

import "time"

const (
	DirPermission     = 0750
	LogFilePermission = 0640
)

// Session logs are named session_<timestamp>.log, one per process start
const (
	LogFileTimestampFormat = "2006-01-02_15-04-05"
	LogFileNamePattern     = "session_%s.log"
	LogFileGlob            = "session_*.log"

	// LogFileRetentionCount older sessions survive next to the new one
	LogFileRetentionCount = 9
)

// Log messages for logger initialization
const (
	LogMsgLoggingInitialized     = "Logging initialized"
	LogMsgStartingCommentGarden  = "Starting CommentGarden"
	LogMsgConfigurationLoaded    = "Configuration loaded"
	LogMsgFailedCreateLogsDir    = "failed to create logs directory"
	LogMsgFailedOpenLogFile      = "failed to open log file"
	LogMsgPruneLogsFailed        = "Could not prune old session logs"
	LogMsgEnvironmentWarning     = "Environment warning"
	LogMsgEnvironmentInvalid     = "invalid environment"
	LogMsgDetectionSettingsReady = "Detection settings loaded"
)

// =============================================================================
// Event System Configuration
// =============================================================================

const (
	// EventDefaultMaxRetries is the default number of retry attempts for failed event publishing
	EventDefaultMaxRetries = 5

	// EventDefaultRetryDelay is the default base delay between retry attempts (exponential backoff)
	EventDefaultRetryDelay = 2 * time.Second
)

// Log messages for event system initialization
const (
	LogMsgEventSystemInitialized         = "Event system initialized"
	LogMsgPendingDeadLetters             = "Dead-letter file holds undelivered events from earlier runs"
	LogMsgFailedCreateDeadLetterDir      = "failed to create dead-letter directory"
	LogMsgFailedCreateResilientPublisher = "failed to create resilient publisher"
)

// =============================================================================
// Storage
// =============================================================================

const (
	LogMsgStoreOpened           = "Snapshot store opened"
	ErrMsgFailedOpenStore       = "failed to open snapshot store"
	ErrMsgFailedMigrateStore    = "failed to migrate snapshot store"
	ErrMsgUnsupportedDriverFmt  = "unsupported storage driver %q"
	ErrMsgFailedCreateStoreDir  = "failed to create store directory"
	ErrMsgFailedLoadDetection   = "failed to load detection settings"
	ErrMsgFailedStartDiscord    = "failed to start Discord capture"
	ErrMsgFailedExtensionUserID = "failed to resolve extension user id"
)

// =============================================================================
// Pipeline
// =============================================================================

const (
	// WorkerPoolSize is the number of goroutines serving queue drains and scheduled jobs
	WorkerPoolSize = 2

	// WorkerQueueSize bounds jobs waiting for a pool goroutine
	WorkerQueueSize = 16

	JobNameQueueDrain  = "queue-drain"
	JobNameBackendSync = "backend-sync"
)

const (
	LogMsgModelWorkerConfigured = "Model worker configured"
	LogMsgModelWorkerDisabled   = "No model worker configured, local tier disabled"
	LogMsgModelWarmupFailed     = "Model worker warm-up failed, continuing with fallback tiers"
	LogMsgBackendRegistered     = "Backend user registered"
	LogMsgBackendRegisterFailed = "Backend registration failed, rank falls back to estimate"
	LogMsgBackendDisabled       = "No backend configured, sync disabled"
	LogMsgBackendSyncFailed     = "Backend sync failed"
	LogMsgBackendSynced         = "Backend sync finished"
	LogMsgDiscordDisabled       = "No Discord token configured, capture disabled"
)

// =============================================================================
// Event Handler Configuration
// =============================================================================

// Log messages for event handler registration
const (
	LogMsgMetricsCollectorRegistered = "Metrics collector registered"
	LogMsgSSESubscriberRegistered    = "SSE subscriber registered"
	LogMsgDiscordNotifierRegistered  = "Discord notifier registered"
	ErrMsgFailedRegisterMetrics      = "failed to register metrics collector"
)

// =============================================================================
// Shutdown Messages
// =============================================================================

const (
	LogMsgShuttingDownServer         = "Shutting down server..."
	LogMsgShuttingDownEventPublisher = "Shutting down event publisher..."
	LogMsgServerStopped              = "Server stopped"
	LogMsgServerForcedShutdown       = "Server forced to shutdown"
	LogMsgResilientPublisherFailed   = "Resilient publisher shutdown failed"
	LogMsgComponentShutdownFailed    = "Component shutdown failed"

	ComponentRolloverWorker = "rollover worker"
	ComponentDiscord        = "discord capture"
	ComponentModelProxy     = "model proxy"
	ComponentModelHost      = "model host"
	ComponentStore          = "snapshot store"
)
