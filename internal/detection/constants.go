package detection

import "time"

// Cascade defaults
const (
	DefaultTimeoutMs      = 10000
	DefaultLocalTimeout   = 8 * time.Second
	DefaultCacheSize      = 512
	DefaultCacheTTL       = 5 * time.Minute
	MaxEndpointBodyBytes  = 1 << 20
	TestConnectionSample  = "This is a test."
	defaultCategoryScore  = 0.5
	defaultListConfidence = 0.6
)

// Keyword scorer defaults when nothing matches
const (
	NoMatchConfidence = 0.5
	NoMatchImpact     = 1
)

// Unavailable reasons
const (
	ReasonEndpointNotConfigured = "endpoint not configured"
	ReasonFallbackDisabled      = "fallback disabled"
	ReasonNoModelClient         = "no model client"
)

// Log messages
const (
	LogMsgTierUnavailable  = "Classification tier unavailable"
	LogMsgTierPanic        = "Classification tier panicked"
	LogMsgTierSucceeded    = "Classification tier produced result"
	LogMsgEmergencyUsed    = "All tiers unavailable, using emergency classifier"
	LogMsgConfigUpdated    = "Detection config updated"
	LogMsgEndpointCacheHit = "Custom endpoint cache hit"
)
