package domain

import "strings"

// Category is the canonical label assigned to a comment by any classifier tier.
type Category string

const (
	CategoryNormal          Category = "Normal"
	CategoryProfanity       Category = "Profanity"
	CategoryMicroaggression Category = "Microaggression"
	CategoryDerogatory      Category = "Derogatory"
	CategoryTrolling        Category = "Trolling"
	CategoryHateSpeech      Category = "Hate Speech"
)

// Categories lists every canonical category, most benign first.
var Categories = []Category{
	CategoryNormal,
	CategoryProfanity,
	CategoryMicroaggression,
	CategoryDerogatory,
	CategoryTrolling,
	CategoryHateSpeech,
}

// Sentiment is the polarity used to score a comment.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// ParseSentiment maps a free-form sentiment label onto a known value.
// Anything unrecognized, including the legacy "normal" label, counts as neutral.
func ParseSentiment(raw string) Sentiment {
	switch Sentiment(strings.ToLower(strings.TrimSpace(raw))) {
	case SentimentPositive:
		return SentimentPositive
	case SentimentNegative:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// ModelUsed identifies the cascade tier that produced a result.
type ModelUsed string

const (
	ModelCustom    ModelUsed = "custom"
	ModelLocal     ModelUsed = "local"
	ModelFallback  ModelUsed = "fallback"
	ModelEmergency ModelUsed = "emergency"
)

// Impact bounds shared by every tier
const (
	MinImpact = 0
	MaxImpact = 10
)

// ClassificationResult is the canonical output of the classification cascade.
// It is produced fresh per call and never stored on its own.
type ClassificationResult struct {
	Category    Category  `json:"category"`
	Sentiment   Sentiment `json:"sentiment"`
	Confidence  float64   `json:"confidence"`
	Impact      int       `json:"impact"`
	WaterDrops  int       `json:"water_drops"`
	PoisonDrops int       `json:"poison_drops"`
	ModelUsed   ModelUsed `json:"model_used"`
}
