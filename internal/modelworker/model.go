package modelworker

import (
	"context"
	"math"

	"github.com/osse101/CommentGarden_Go/internal/detection"
	"github.com/osse101/CommentGarden_Go/internal/modelrpc"
)

// Model is the classifier the worker serves
type Model interface {
	Classify(ctx context.Context, text string) (modelrpc.Prediction, error)
	Close() error
}

// Warmer is implemented by models that benefit from a dry run before the first request
type Warmer interface {
	Warmup(ctx context.Context) error
}

// HeuristicModel serves the keyword scorer when no ONNX model is configured,
// so the worker protocol can run end to end without model files.
type HeuristicModel struct {
	scorer *detection.KeywordScorer
}

// NewHeuristicModel creates a keyword-backed model
func NewHeuristicModel() *HeuristicModel {
	return &HeuristicModel{scorer: detection.NewKeywordScorer()}
}

// Classify implements Model
func (m *HeuristicModel) Classify(ctx context.Context, text string) (modelrpc.Prediction, error) {
	if err := ctx.Err(); err != nil {
		return modelrpc.Prediction{}, err
	}
	r := m.scorer.Score(text)
	return modelrpc.Prediction{Category: string(r.Category), Score: r.Confidence}, nil
}

// Close implements Model
func (m *HeuristicModel) Close() error { return nil }

// softmax converts logits to probabilities
func softmax(logits []float32) []float64 {
	if len(logits) == 0 {
		return nil
	}
	maxLogit := float64(logits[0])
	for _, l := range logits[1:] {
		maxLogit = math.Max(maxLogit, float64(l))
	}

	probs := make([]float64, len(logits))
	var sum float64
	for i, l := range logits {
		probs[i] = math.Exp(float64(l) - maxLogit)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

// argmax returns the index of the largest value, -1 for an empty slice
func argmax(values []float64) int {
	best := -1
	for i, v := range values {
		if best < 0 || v > values[best] {
			best = i
		}
	}
	return best
}
