package detection

import (
	"context"
	"time"

	"github.com/osse101/CommentGarden_Go/internal/domain"
	"github.com/osse101/CommentGarden_Go/internal/modelrpc"
)

// ModelClient classifies text with the out-of-process model worker
type ModelClient interface {
	Classify(ctx context.Context, text string) (modelrpc.Prediction, error)
}

// LocalTier asks the model worker for a label
type LocalTier struct {
	client  ModelClient
	timeout time.Duration
}

// NewLocalTier creates the on-device model tier
func NewLocalTier(client ModelClient, timeout time.Duration) *LocalTier {
	if timeout <= 0 {
		timeout = DefaultLocalTimeout
	}
	return &LocalTier{client: client, timeout: timeout}
}

// Name implements Tier
func (t *LocalTier) Name() domain.ModelUsed { return domain.ModelLocal }

// Classify implements Tier. A call abandoned on timeout leaves the worker's
// eventual reply to be dropped by the proxy.
func (t *LocalTier) Classify(ctx context.Context, text string, _ Config) Outcome {
	if t.client == nil {
		return Unavailable(ReasonNoModelClient)
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	pred, err := t.client.Classify(ctx, text)
	if err != nil {
		return Unavailable(err.Error())
	}
	return Ok(FromCategory(pred.Category, pred.Score, domain.ModelLocal))
}
