package detection

import (
	"encoding/json"
	"math"
	"strings"

	"golang.org/x/text/cases"

	"github.com/osse101/CommentGarden_Go/internal/domain"
)

// categorySynonyms maps folded upstream labels onto canonical categories
var categorySynonyms = map[string]domain.Category{
	"normal":           domain.CategoryNormal,
	"clean":            domain.CategoryNormal,
	"non-toxic":        domain.CategoryNormal,
	"neutral":          domain.CategoryNormal,
	"safe":             domain.CategoryNormal,
	"positive":         domain.CategoryNormal,
	"profanity":        domain.CategoryProfanity,
	"obscene":          domain.CategoryProfanity,
	"profane":          domain.CategoryProfanity,
	"swearing":         domain.CategoryProfanity,
	"microaggression":  domain.CategoryMicroaggression,
	"micro-aggression": domain.CategoryMicroaggression,
	"derogatory":       domain.CategoryDerogatory,
	"insult":           domain.CategoryDerogatory,
	"identity_attack":  domain.CategoryDerogatory,
	"harassment":       domain.CategoryDerogatory,
	"trolling":         domain.CategoryTrolling,
	"toxic":            domain.CategoryTrolling,
	"threat":           domain.CategoryTrolling,
	"spam":             domain.CategoryTrolling,
	"hate":             domain.CategoryHateSpeech,
	"hate speech":      domain.CategoryHateSpeech,
	"hate_speech":      domain.CategoryHateSpeech,
	"severe_toxic":     domain.CategoryHateSpeech,
	"identity_hate":    domain.CategoryHateSpeech,
}

// NormalizeCategory maps an upstream label onto a canonical category.
// The second return value is false when the label is not recognized.
func NormalizeCategory(raw string) (domain.Category, bool) {
	c, ok := categorySynonyms[cases.Fold().String(strings.TrimSpace(raw))]
	return c, ok
}

// FromCategory converts a bare category and score into a result using the
// coarse severity table. Unrecognized labels score like Profanity.
func FromCategory(raw string, score float64, modelUsed domain.ModelUsed) domain.ClassificationResult {
	if score == 0 || math.IsNaN(score) {
		score = defaultCategoryScore
	}
	confidence := clampUnit(score)
	scaled := int(math.Round(confidence * 10))

	category, known := NormalizeCategory(raw)
	if !known {
		category = domain.CategoryProfanity
	}

	var signed int
	switch category {
	case domain.CategoryNormal:
		signed = 1
	case domain.CategoryProfanity:
		signed = -max(2, scaled)
	case domain.CategoryMicroaggression:
		signed = -max(3, scaled)
	case domain.CategoryDerogatory:
		signed = -max(4, scaled)
	case domain.CategoryTrolling:
		signed = -max(5, scaled)
	case domain.CategoryHateSpeech:
		signed = -10
	}

	sentiment := domain.SentimentNegative
	if category == domain.CategoryNormal {
		sentiment = domain.SentimentPositive
	}

	impact := signed
	if impact < 0 {
		impact = -impact
	}

	return withDrops(domain.ClassificationResult{
		Category:   category,
		Sentiment:  sentiment,
		Confidence: confidence,
		Impact:     min(domain.MaxImpact, impact),
		ModelUsed:  modelUsed,
	})
}

// FromSentimentToxicity converts a sentiment and toxicity scalar into a result.
// Water and poison are computed independently of the impact scale, so a
// positive comment may still carry zero drops when toxicity is moderate.
func FromSentimentToxicity(rawSentiment string, toxicity, confidence float64, modelUsed domain.ModelUsed) domain.ClassificationResult {
	sentiment := domain.ParseSentiment(rawSentiment)
	if confidence == 0 || math.IsNaN(confidence) {
		confidence = defaultCategoryScore
	}
	if math.IsNaN(toxicity) {
		toxicity = 0
	}
	toxicity = math.Max(0, math.Min(1, toxicity))
	multiplier := math.Max(0.3, confidence)

	var water, poison int
	switch {
	case sentiment == domain.SentimentPositive && toxicity < 0.3:
		water = int(math.Round((1 + (1 - toxicity)) * multiplier * 2))
	case sentiment == domain.SentimentNegative || toxicity > 0.5:
		poison = int(math.Round((toxicity + 0.5) * multiplier * 2))
	case sentiment == domain.SentimentNeutral && toxicity < 0.3:
		water = int(math.Round(0.5 * multiplier))
	}

	category := domain.CategoryTrolling
	if sentiment == domain.SentimentPositive {
		category = domain.CategoryNormal
	}

	return domain.ClassificationResult{
		Category:    category,
		Sentiment:   sentiment,
		Confidence:  clampUnit(confidence),
		Impact:      min(domain.MaxImpact, max(water, poison)),
		WaterDrops:  water,
		PoisonDrops: poison,
		ModelUsed:   modelUsed,
	}
}

// CategoryCandidate is one entry of an upstream category list. Upstream models
// send either a bare label string or an object with name/label and a weight.
type CategoryCandidate struct {
	Name       string   `json:"name,omitempty"`
	Label      string   `json:"label,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
	Score      *float64 `json:"score,omitempty"`
}

// UnmarshalJSON accepts both the string and the object form
func (c *CategoryCandidate) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err == nil {
		*c = CategoryCandidate{Name: label}
		return nil
	}
	type plain CategoryCandidate
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = CategoryCandidate(p)
	return nil
}

// DisplayName returns the label used for normalization
func (c CategoryCandidate) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Label
}

func (c CategoryCandidate) weight() float64 {
	switch {
	case c.Confidence != nil:
		return *c.Confidence
	case c.Score != nil:
		return *c.Score
	default:
		return 0
	}
}

// PickBestCategory returns the candidate with the highest confidence, falling
// back to score. Ties keep the earliest entry.
func PickBestCategory(list []CategoryCandidate) (CategoryCandidate, bool) {
	if len(list) == 0 {
		return CategoryCandidate{}, false
	}
	best := list[0]
	for _, c := range list[1:] {
		if c.weight() > best.weight() {
			best = c
		}
	}
	return best, true
}
