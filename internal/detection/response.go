package detection

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/osse101/CommentGarden_Go/internal/domain"
)

// ModelResponse is one of the upstream response shapes the cascade understands:
// CategoryResponse, CategoryListResponse or SentimentToxicityResponse.
type ModelResponse interface {
	// Normalize converts the response into the canonical result
	Normalize(modelUsed domain.ModelUsed) domain.ClassificationResult
	isModelResponse()
}

// CategoryResponse is a single label with a score
type CategoryResponse struct {
	Category string
	Score    float64
}

// CategoryListResponse carries several candidate labels
type CategoryListResponse struct {
	Candidates []CategoryCandidate
	Confidence *float64
}

// SentimentToxicityResponse speaks sentiment plus a toxicity scalar
type SentimentToxicityResponse struct {
	Sentiment  string
	Toxicity   float64
	Confidence float64
}

func (CategoryResponse) isModelResponse()          {}
func (CategoryListResponse) isModelResponse()      {}
func (SentimentToxicityResponse) isModelResponse() {}

// Normalize implements ModelResponse
func (r CategoryResponse) Normalize(modelUsed domain.ModelUsed) domain.ClassificationResult {
	return FromCategory(r.Category, r.Score, modelUsed)
}

// Normalize implements ModelResponse
func (r CategoryListResponse) Normalize(modelUsed domain.ModelUsed) domain.ClassificationResult {
	best, ok := PickBestCategory(r.Candidates)
	if !ok {
		return FromSentimentToxicity("", 0, 0, modelUsed)
	}

	score := defaultListConfidence
	switch {
	case best.Confidence != nil:
		score = *best.Confidence
	case best.Score != nil:
		score = *best.Score
	case r.Confidence != nil:
		score = *r.Confidence
	}
	return FromCategory(best.DisplayName(), score, modelUsed)
}

// Normalize implements ModelResponse
func (r SentimentToxicityResponse) Normalize(modelUsed domain.ModelUsed) domain.ClassificationResult {
	return FromSentimentToxicity(r.Sentiment, r.Toxicity, r.Confidence, modelUsed)
}

// rawModelResponse is the union of every field an upstream model may send
type rawModelResponse struct {
	Category      string          `json:"category"`
	Score         *float64        `json:"score"`
	Confidence    *float64        `json:"confidence"`
	Sentiment     string          `json:"sentiment"`
	ToxicityScore *float64        `json:"toxicity_score"`
	Categories    json.RawMessage `json:"categories"`
}

// ParseModelResponse detects the shape of an upstream body and decodes it into
// the matching variant. Unknown shapes return domain.ErrMalformedResponse.
func ParseModelResponse(body []byte) (ModelResponse, error) {
	var raw rawModelResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	if raw.Category != "" {
		score := defaultCategoryScore
		switch {
		case raw.Score != nil:
			score = *raw.Score
		case raw.Confidence != nil:
			score = *raw.Confidence
		}
		return CategoryResponse{Category: raw.Category, Score: score}, nil
	}

	hasCategories := len(raw.Categories) > 0 && string(raw.Categories) != "null"
	if raw.Sentiment == "" && !hasCategories {
		return nil, fmt.Errorf("%w: no category, categories or sentiment field", domain.ErrMalformedResponse)
	}

	if hasCategories {
		var candidates []CategoryCandidate
		if err := json.Unmarshal(raw.Categories, &candidates); err != nil {
			return nil, fmt.Errorf("%w: categories: %v", domain.ErrMalformedResponse, err)
		}
		if len(candidates) > 0 {
			return CategoryListResponse{Candidates: candidates, Confidence: raw.Confidence}, nil
		}
	}

	resp := SentimentToxicityResponse{Sentiment: strings.ToLower(raw.Sentiment)}
	if resp.Sentiment == "" {
		resp.Sentiment = string(domain.SentimentNeutral)
	}
	if raw.ToxicityScore != nil {
		resp.Toxicity = *raw.ToxicityScore
	}
	if raw.Confidence != nil {
		resp.Confidence = *raw.Confidence
	}
	return resp, nil
}
