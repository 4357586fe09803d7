package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgMissingPathParam      = "Missing %s path parameter"

	ErrMsgGenericServerError  = "Something went wrong"
	ErrMsgUnknownError        = "Unknown error"
	ErrMsgEmptyCommentError   = "Comment text is empty"
	ErrMsgQueueFullError      = "Comment queue is full. Please try again later."
	ErrMsgUnknownTreeError    = "Unknown tree type"
	ErrMsgTreeNotFoundError   = "Tree not found"
	ErrMsgTreeNotDeadError    = "Only dead trees can be revived"
	ErrMsgNoTicketsError      = "Not enough tickets to enter the lottery"
	ErrMsgNoTreeSelectedError = "No tree selected"
	ErrMsgInvalidConfigError  = "Invalid detection configuration"
	ErrMsgSaveConfigFailed    = "Failed to persist detection configuration"
)

// Success messages for API responses
const (
	MsgTreeSelected = "Tree selected"
)

// Readiness messages
const (
	StatusOK          = "ok"
	StatusDegraded    = "degraded"
	StatusUnavailable = "unavailable"
	MsgRequiredFailed = "a required dependency is unavailable"

	CheckSnapshotStore = "snapshot_store"
	CheckModelWorker   = "model_worker"
)

// Log messages
const (
	LogMsgDecodeFailed      = "Failed to decode request"
	LogMsgServiceError      = "Service error"
	LogMsgEncodeFailed      = "Failed to encode JSON response"
	LogMsgWriteFailed       = "Failed to write response buffer"
	LogMsgReadinessFailed   = "Readiness check failed"
	LogMsgCommentAccepted   = "Comment accepted"
	LogMsgTreePlanted       = "Tree planted"
	LogMsgLotteryEntered    = "Lottery entered"
	LogMsgDetectionUpdated  = "Detection configuration updated"
	LogMsgDetectionTestDone = "Detection connection test finished"
)
