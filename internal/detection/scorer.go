package detection

import (
	"math"
	"strings"

	"golang.org/x/text/cases"

	"github.com/osse101/CommentGarden_Go/internal/domain"
)

// KeywordScorer classifies text by counting which keywords of each table it contains.
// It is deterministic and performs no I/O.
type KeywordScorer struct{}

// NewKeywordScorer creates a keyword scorer
func NewKeywordScorer() *KeywordScorer {
	return &KeywordScorer{}
}

// Score classifies text against the keyword tables in priority order
func (s *KeywordScorer) Score(text string) domain.ClassificationResult {
	// A Caser carries state, so each call gets its own
	folded := cases.Fold().String(text)

	for _, rule := range keywordRules {
		matches := countKeywords(folded, rule.keywords)
		if matches == 0 {
			continue
		}

		// Explicit conversion keeps base+incr*n from being fused
		confidence := math.Min(1, rule.base+float64(rule.increment*float64(matches)))
		impact := clampInt(int(math.Round(confidence*rule.scale)), rule.minImpact, domain.MaxImpact)

		return withDrops(domain.ClassificationResult{
			Category:   rule.category,
			Sentiment:  rule.sentiment,
			Confidence: confidence,
			Impact:     impact,
			ModelUsed:  domain.ModelFallback,
		})
	}

	return domain.ClassificationResult{
		Category:   domain.CategoryNormal,
		Sentiment:  domain.SentimentNeutral,
		Confidence: NoMatchConfidence,
		Impact:     NoMatchImpact,
		ModelUsed:  domain.ModelFallback,
	}
}

// countKeywords returns how many distinct keywords occur in text
func countKeywords(text string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			n++
		}
	}
	return n
}

// withDrops derives water and poison drops from sentiment and impact
func withDrops(r domain.ClassificationResult) domain.ClassificationResult {
	r.WaterDrops, r.PoisonDrops = 0, 0
	switch r.Sentiment {
	case domain.SentimentPositive:
		r.WaterDrops = r.Impact
	case domain.SentimentNegative:
		r.PoisonDrops = r.Impact
	}
	return r
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) {
		return defaultCategoryScore
	}
	return math.Max(0, math.Min(1, v))
}
