package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Classification Metrics
var (
	TierOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameTierOutcomes,
			Help: HelpTextTierOutcomes,
		},
		[]string{LabelTier, LabelOutcome},
	)

	TierDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameTierDuration,
			Help:    HelpTextTierDuration,
			Buckets: TierLatencyBuckets,
		},
		[]string{LabelTier},
	)

	Classifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameClassifications,
			Help: HelpTextClassifications,
		},
		[]string{LabelTier, LabelCategory},
	)

	RPCRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameRPCRetries,
			Help: HelpTextRPCRetries,
		},
	)

	RPCPending = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameRPCPending,
			Help: HelpTextRPCPending,
		},
	)

	EndpointCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameEndpointCacheHits,
			Help: HelpTextEndpointCacheHits,
		},
	)

	EndpointCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameEndpointCacheMisses,
			Help: HelpTextEndpointCacheMisses,
		},
	)
)

// Queue and Progression Metrics
var (
	QueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameQueueDepth,
			Help: HelpTextQueueDepth,
		},
	)

	CommentsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCommentsProcessed,
			Help: HelpTextCommentsProcessed,
		},
		[]string{LabelSentiment},
	)

	DrainDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameDrainDuration,
			Help:    HelpTextDrainDuration,
			Buckets: HTTPLatencyBuckets,
		},
	)

	TicketsAwarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameTicketsAwarded,
			Help: HelpTextTicketsAwarded,
		},
	)

	LotteryEntries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameLotteryEntries,
			Help: HelpTextLotteryEntries,
		},
		[]string{LabelPrize},
	)

	TreeHealth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameTreeHealth,
			Help: HelpTextTreeHealth,
		},
	)

	TreeGrowth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameTreeGrowth,
			Help: HelpTextTreeGrowth,
		},
	)

	LastWeekRank = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameLastWeekRank,
			Help: HelpTextLastWeekRank,
		},
	)

	TreeDeaths = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameTreeDeaths,
			Help: HelpTextTreeDeaths,
		},
	)

	BackendSyncRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameBackendSyncRecords,
			Help: HelpTextBackendSyncRecords,
		},
		[]string{LabelResult},
	)
)
