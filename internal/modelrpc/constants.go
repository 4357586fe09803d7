package modelrpc

import (
	"errors"
	"time"
)

// ErrWorkerNotWarm is returned by Ping until Initialize has succeeded
var ErrWorkerNotWarm = errors.New("model worker not warmed up")

// Proxy defaults
const (
	DefaultGraceTimeout   = 300 * time.Millisecond
	DefaultMaxAttempts    = 5
	DefaultRetryDelay     = 150 * time.Millisecond
	DefaultInboundBuffer  = 64
	DefaultWriteTimeout   = 5 * time.Second
	DefaultHandshakeLimit = 2 * time.Second
)

// Log messages
const (
	LogMsgWorkerCreated      = "Model worker created"
	LogMsgWorkerReady        = "Model worker signalled ready"
	LogMsgReadyGraceExpired  = "No ready signal within grace period, warming up anyway"
	LogMsgWorkerWarm         = "Model worker warmed up"
	LogMsgRetrying           = "Model worker not listening, retrying"
	LogMsgLateResponse       = "Dropping response with no pending call"
	LogMsgForeignMessage     = "Ignoring message from unknown source"
	LogMsgTransportReadError = "Model worker connection closed"
	LogMsgWorkerExited       = "Model worker process exited"
)
