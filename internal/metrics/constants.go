package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Classification metric names
const (
	MetricNameTierOutcomes        = "classification_tier_outcomes_total"
	MetricNameTierDuration        = "classification_tier_duration_seconds"
	MetricNameClassifications     = "classifications_total"
	MetricNameRPCRetries          = "model_rpc_retries_total"
	MetricNameRPCPending          = "model_rpc_pending_calls"
	MetricNameEndpointCacheHits   = "endpoint_cache_hits_total"
	MetricNameEndpointCacheMisses = "endpoint_cache_misses_total"
)

// Queue and progression metric names
const (
	MetricNameQueueDepth         = "comment_queue_depth"
	MetricNameCommentsProcessed  = "comments_processed_total"
	MetricNameDrainDuration      = "comment_queue_drain_duration_seconds"
	MetricNameTicketsAwarded     = "tickets_awarded_total"
	MetricNameLotteryEntries     = "lottery_entries_total"
	MetricNameTreeHealth         = "tree_health"
	MetricNameTreeGrowth         = "tree_growth_progress"
	MetricNameTreeDeaths         = "tree_deaths_total"
	MetricNameLastWeekRank       = "last_week_rank"
	MetricNameBackendSyncRecords = "backend_sync_records_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Classification metric help text
const (
	HelpTextTierOutcomes        = "Classification tier attempts by tier and outcome"
	HelpTextTierDuration        = "Time spent inside a single classification tier"
	HelpTextClassifications     = "Final classification results by tier and category"
	HelpTextRPCRetries          = "Model worker calls retried after a startup race"
	HelpTextRPCPending          = "Model worker calls awaiting a response"
	HelpTextEndpointCacheHits   = "Custom endpoint responses served from cache"
	HelpTextEndpointCacheMisses = "Custom endpoint lookups that missed the cache"
)

// Queue and progression metric help text
const (
	HelpTextQueueDepth         = "Comments currently held in the queue"
	HelpTextCommentsProcessed  = "Comments applied to progression by sentiment"
	HelpTextDrainDuration      = "Duration of one queue drain pass"
	HelpTextTicketsAwarded     = "Lottery tickets awarded at weekly rollover"
	HelpTextLotteryEntries     = "Lottery draws by prize"
	HelpTextTreeHealth         = "Health of the selected tree"
	HelpTextTreeGrowth         = "Growth progress of the selected tree"
	HelpTextTreeDeaths         = "Trees that died from poison"
	HelpTextLastWeekRank       = "Leaderboard rank of the most recently closed week"
	HelpTextBackendSyncRecords = "Comment records pushed to the backend by result"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod    = "method"
	LabelPath      = "path"
	LabelStatus    = "status"
	LabelType      = "type"
	LabelTier      = "tier"
	LabelOutcome   = "outcome"
	LabelCategory  = "category"
	LabelSentiment = "sentiment"
	LabelPrize     = "prize"
	LabelResult    = "result"
)

// Label values
const (
	OutcomeOK          = "ok"
	OutcomeUnavailable = "unavailable"
	OutcomePanic       = "panic"

	ResultSuccess = "success"
	ResultFailure = "failure"

	// RouteUnmatched labels requests no route claimed
	RouteUnmatched = "unmatched"
)

// ContentTypeEventStream marks long-lived SSE responses
const ContentTypeEventStream = "text/event-stream"

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, from 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// TierLatencyBuckets covers the emergency tier (microseconds) up to the endpoint timeout.
var TierLatencyBuckets = []float64{.00001, .0001, .001, .01, .05, .1, .25, .5, 1, 2.5, 5, 10}

// ============================================================================
// Log Messages
// ============================================================================

// Debug log messages
const (
	LogMsgEventPayloadUnexpected = "Event payload has unexpected shape"
	LogMsgMetricsRecorded        = "Metrics recorded for event"
)
