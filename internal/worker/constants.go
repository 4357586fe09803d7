package worker

// JobNameAnonymous labels jobs enqueued without Named
const JobNameAnonymous = "anonymous"

// Pool log messages
const (
	LogMsgWorkerJobFailed   = "Worker job failed"
	LogMsgWorkerJobPanicked = "Worker job panicked"
	LogMsgWorkerQueueFull   = "Worker queue full, job skipped"
)

// Rollover log messages
const (
	LogMsgRolloverScheduled = "Next weekly rollover scheduled"
	LogMsgRolloverCompleted = "Weekly rollover completed"
	LogMsgRolloverFailed    = "Weekly rollover failed"
)
