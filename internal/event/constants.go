package event

import "time"

// Event schema versioning
const (
	// EventSchemaVersion is the current event schema version
	EventSchemaVersion = "1.0"
)

// Retry tuning
const (
	RetryQueueBufferSize = 256
	RetryInitialDelay    = 2 * time.Second
	RetryMaxAttempts     = 5

	// RetryMaxDelay caps the backoff however many attempts are configured
	RetryMaxDelay = 5 * time.Minute
)

// Dead letter file configuration
const (
	// DeadLetterFilePermissions is the file permission mode for dead-letter files
	DeadLetterFilePermissions = 0644

	// DeadLetterSchemaVersion is the current version of the dead-letter log format
	DeadLetterSchemaVersion = "1.0"

	// DeadLetterMaxLineBytes bounds a single entry when reading the file back
	DeadLetterMaxLineBytes = 1 << 20
)

// Log message constants
const (
	LogMsgEventPublishFailed    = "Event publish failed, queuing for retry"
	LogMsgRetryQueueFull        = "Retry queue full, event dropped to dead-letter"
	LogMsgDeadLetterWriteFailed = "Failed to write to dead letter"
	LogMsgEventDeadLettered     = "Event dead-lettered"
	LogMsgEventRetryExhausted   = "Event retry exhausted, writing to dead-letter"
	LogMsgEventRetryFailed      = "Event retry failed, scheduling next attempt"
	LogMsgEventRetrySucceeded   = "Event retry succeeded"
	LogMsgQueueDrainedShutdown  = "Drained retry queue during shutdown"
	LogMsgShutdownTimeout       = "Resilient publisher shutdown timed out"

	// Log message for handler errors
	LogMsgHandlerErrorFormat = "encountered %d errors while handling event %s: %v"
)

// CalculateRetryDelay doubles baseDelay for every attempt after the first,
// never exceeding RetryMaxDelay.
func CalculateRetryDelay(baseDelay time.Duration, attempt int) time.Duration {
	delay := baseDelay
	for i := 1; i < attempt; i++ {
		if delay >= RetryMaxDelay/2 {
			return RetryMaxDelay
		}
		delay *= 2
	}
	return min(delay, RetryMaxDelay)
}
