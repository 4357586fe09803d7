package detection

import (
	"context"

	"github.com/osse101/CommentGarden_Go/internal/domain"
)

// Outcome is the tagged result of one tier: either a result or a reason the
// tier could not produce one.
type Outcome struct {
	Result domain.ClassificationResult
	OK     bool
	Reason string
}

// Ok wraps a successful result
func Ok(result domain.ClassificationResult) Outcome {
	return Outcome{Result: result, OK: true}
}

// Unavailable records why a tier produced nothing
func Unavailable(reason string) Outcome {
	return Outcome{Reason: reason}
}

// Tier is one classification strategy in the cascade
type Tier interface {
	Name() domain.ModelUsed
	Classify(ctx context.Context, text string, cfg Config) Outcome
}

// FallbackTier runs the keyword scorer when fallback is enabled
type FallbackTier struct {
	scorer *KeywordScorer
}

// NewFallbackTier creates the keyword fallback tier
func NewFallbackTier(scorer *KeywordScorer) *FallbackTier {
	return &FallbackTier{scorer: scorer}
}

// Name implements Tier
func (t *FallbackTier) Name() domain.ModelUsed { return domain.ModelFallback }

// Classify implements Tier
func (t *FallbackTier) Classify(_ context.Context, text string, cfg Config) Outcome {
	if !cfg.EnableFallback {
		return Unavailable(ReasonFallbackDisabled)
	}
	return Ok(t.scorer.Score(text))
}
