package logger

// Level names accepted in LOG_LEVEL and --log-level
const (
	LogLevelDebug   = "debug"
	LogLevelInfo    = "info"
	LogLevelWarn    = "warn"
	LogLevelWarning = "warning"
	LogLevelError   = "error"
)

// Output formats accepted in LOG_FORMAT and --log-format
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// Service names stamped on every record
const (
	ServiceNameApp      = "comment-garden"
	ServiceNameDetector = "comment-garden-detector"
	DefaultVersion      = "dev"
	DefaultEnvironment  = "dev"
)

// Attribute keys
const (
	AttrKeyService     = "service"
	AttrKeyVersion     = "version"
	AttrKeyEnvironment = "environment"
	AttrKeyRequestID   = "request_id"
	AttrKeyComponent   = "component"
	AttrKeyCommentID   = "comment_id"
)
