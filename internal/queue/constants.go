package queue

import "time"

// Queue defaults
const (
	DefaultRetention     = time.Hour
	DefaultMaxPending    = 1000
	DefaultDrainInterval = 5 * time.Second
)

// Log messages
const (
	LogMsgCommentEnqueued = "Comment enqueued"
	LogMsgDrainStarted    = "Draining comment queue"
	LogMsgDrainCompleted  = "Comment queue drained"
	LogMsgApplyFailed     = "Failed to apply comment, marking processed"
	LogMsgItemsPurged     = "Purged processed comments"
	LogMsgDrainSkipped    = "Drain already in progress"
)
