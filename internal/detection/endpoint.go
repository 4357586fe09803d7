package detection

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/CommentGarden_Go/internal/domain"
	"github.com/osse101/CommentGarden_Go/internal/logger"
	"github.com/osse101/CommentGarden_Go/internal/metrics"
)

type endpointRequest struct {
	Text    string          `json:"text"`
	Options endpointOptions `json:"options"`
}

type endpointOptions struct {
	ReturnCategories bool `json:"return_categories"`
	ReturnConfidence bool `json:"return_confidence"`
}

// EndpointTier calls a user-configured HTTP classifier
type EndpointTier struct {
	client *http.Client
	cache  *expirable.LRU[string, domain.ClassificationResult]
}

// NewEndpointTier creates the custom endpoint tier. A cacheSize of zero disables caching.
func NewEndpointTier(client *http.Client, cacheSize int) *EndpointTier {
	if client == nil {
		client = &http.Client{}
	}
	t := &EndpointTier{client: client}
	if cacheSize > 0 {
		t.cache = expirable.NewLRU[string, domain.ClassificationResult](cacheSize, nil, DefaultCacheTTL)
	}
	return t
}

// Name implements Tier
func (t *EndpointTier) Name() domain.ModelUsed { return domain.ModelCustom }

// Classify implements Tier
func (t *EndpointTier) Classify(ctx context.Context, text string, cfg Config) Outcome {
	if !cfg.HasEndpoint() {
		return Unavailable(ReasonEndpointNotConfigured)
	}

	key := cfg.Endpoint + "\x00" + text
	if t.cache != nil {
		if cached, ok := t.cache.Get(key); ok {
			metrics.EndpointCacheHits.Inc()
			logger.FromContext(ctx).Debug(LogMsgEndpointCacheHit, "endpoint", cfg.Endpoint)
			return Ok(cached)
		}
		metrics.EndpointCacheMisses.Inc()
	}

	result, err := t.call(ctx, text, cfg)
	if err != nil {
		return Unavailable(err.Error())
	}
	if t.cache != nil {
		t.cache.Add(key, result)
	}
	return Ok(result)
}

func (t *EndpointTier) call(ctx context.Context, text string, cfg Config) (domain.ClassificationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout())
	defer cancel()

	body, err := json.Marshal(endpointRequest{
		Text:    text,
		Options: endpointOptions{ReturnCategories: true, ReturnConfidence: true},
	})
	if err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.APIKey)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("call endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.ClassificationResult{}, fmt.Errorf("%w: %s", domain.ErrEndpointStatus, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxEndpointBodyBytes))
	if err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("read response: %w", err)
	}

	parsed, err := ParseModelResponse(data)
	if err != nil {
		return domain.ClassificationResult{}, err
	}
	return parsed.Normalize(domain.ModelCustom), nil
}
