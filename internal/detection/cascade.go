package detection

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/osse101/CommentGarden_Go/internal/domain"
	"github.com/osse101/CommentGarden_Go/internal/logger"
	"github.com/osse101/CommentGarden_Go/internal/metrics"
)

// Analyzer turns comment text into a classification. Implementations never fail.
type Analyzer interface {
	Analyze(ctx context.Context, text string) domain.ClassificationResult
}

// Cascade tries each tier in order and returns the first result. When every
// tier is unavailable the emergency classifier answers.
type Cascade struct {
	tiers  []Tier
	config atomic.Pointer[Config]
}

// NewCascade creates a cascade over the given tiers in priority order
func NewCascade(cfg Config, tiers ...Tier) *Cascade {
	c := &Cascade{tiers: tiers}
	c.config.Store(&cfg)
	return c
}

// NewDefaultCascade wires the custom endpoint, local model and keyword tiers
func NewDefaultCascade(cfg Config, httpClient *http.Client, model ModelClient) *Cascade {
	return NewCascade(cfg,
		NewEndpointTier(httpClient, DefaultCacheSize),
		NewLocalTier(model, DefaultLocalTimeout),
		NewFallbackTier(NewKeywordScorer()),
	)
}

// Config returns the active configuration
func (c *Cascade) Config() Config {
	return *c.config.Load()
}

// UpdateConfig validates and atomically replaces the configuration
func (c *Cascade) UpdateConfig(ctx context.Context, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.config.Store(&cfg)
	logger.FromContext(ctx).Info(LogMsgConfigUpdated,
		"endpoint_set", cfg.HasEndpoint(),
		"timeout_ms", cfg.TimeoutMs,
		"enable_fallback", cfg.EnableFallback)
	return nil
}

// Analyze implements Analyzer
func (c *Cascade) Analyze(ctx context.Context, text string) domain.ClassificationResult {
	log := logger.FromContext(ctx)
	cfg := c.Config()

	for _, tier := range c.tiers {
		out := c.runTier(ctx, tier, text, cfg)
		if out.OK {
			result := clampResult(out.Result)
			metrics.Classifications.WithLabelValues(string(result.ModelUsed), string(result.Category)).Inc()
			log.Debug(LogMsgTierSucceeded, "tier", tier.Name(), "category", result.Category)
			return result
		}
		log.Warn(LogMsgTierUnavailable, "tier", tier.Name(), "reason", out.Reason)
	}

	log.Warn(LogMsgEmergencyUsed)
	result := clampResult(Emergency(text))
	metrics.Classifications.WithLabelValues(string(result.ModelUsed), string(result.Category)).Inc()
	return result
}

// TestConnection runs a fixed sample through the cascade so callers can see
// which tier currently answers
func (c *Cascade) TestConnection(ctx context.Context) domain.ClassificationResult {
	return c.Analyze(ctx, TestConnectionSample)
}

func (c *Cascade) runTier(ctx context.Context, tier Tier, text string, cfg Config) (out Outcome) {
	name := string(tier.Name())
	start := time.Now()

	defer func() {
		outcome := metrics.OutcomeUnavailable
		if r := recover(); r != nil {
			logger.FromContext(ctx).Error(LogMsgTierPanic, "tier", name, "panic", r)
			out = Unavailable(fmt.Sprintf("panic: %v", r))
			outcome = metrics.OutcomePanic
		} else if out.OK {
			outcome = metrics.OutcomeOK
		}
		metrics.TierOutcomes.WithLabelValues(name, outcome).Inc()
		metrics.TierDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}()

	return tier.Classify(ctx, text, cfg)
}

// clampResult enforces the result bounds regardless of which tier produced it
func clampResult(r domain.ClassificationResult) domain.ClassificationResult {
	r.Confidence = clampUnit(r.Confidence)
	r.Impact = clampInt(r.Impact, domain.MinImpact, domain.MaxImpact)
	r.WaterDrops = max(0, r.WaterDrops)
	r.PoisonDrops = max(0, r.PoisonDrops)
	if r.Sentiment == "" {
		r.Sentiment = domain.SentimentNeutral
	}
	return r
}
