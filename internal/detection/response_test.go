package detection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CommentGarden_Go/internal/domain"
)

func TestParseModelResponse_Variants(t *testing.T) {
	t.Run("category with score", func(t *testing.T) {
		resp, err := ParseModelResponse([]byte(`{"category":"hate","score":0.4}`))
		require.NoError(t, err)
		assert.Equal(t, CategoryResponse{Category: "hate", Score: 0.4}, resp)
	})

	t.Run("category with confidence", func(t *testing.T) {
		resp, err := ParseModelResponse([]byte(`{"category":"Normal","confidence":0.8}`))
		require.NoError(t, err)
		assert.Equal(t, CategoryResponse{Category: "Normal", Score: 0.8}, resp)
	})

	t.Run("bare category", func(t *testing.T) {
		resp, err := ParseModelResponse([]byte(`{"category":"Normal"}`))
		require.NoError(t, err)
		assert.Equal(t, CategoryResponse{Category: "Normal", Score: 0.5}, resp)
	})

	t.Run("category list", func(t *testing.T) {
		body := `{"sentiment":"positive","categories":[{"name":"insult","confidence":0.3},"toxic"],"confidence":0.7}`
		resp, err := ParseModelResponse([]byte(body))
		require.NoError(t, err)
		list, ok := resp.(CategoryListResponse)
		require.True(t, ok)
		assert.Len(t, list.Candidates, 2)
		assert.Equal(t, "toxic", list.Candidates[1].DisplayName())

		got := resp.Normalize(domain.ModelCustom)
		assert.Equal(t, domain.CategoryDerogatory, got.Category)
		assert.Equal(t, 4, got.Impact)
	})

	t.Run("category list uses top level confidence", func(t *testing.T) {
		resp, err := ParseModelResponse([]byte(`{"categories":["clean"],"confidence":0.8}`))
		require.NoError(t, err)
		got := resp.Normalize(domain.ModelCustom)
		assert.Equal(t, domain.CategoryNormal, got.Category)
		assert.InDelta(t, 0.8, got.Confidence, 1e-9)
	})

	t.Run("sentiment toxicity", func(t *testing.T) {
		resp, err := ParseModelResponse([]byte(`{"sentiment":"NEGATIVE","toxicity_score":0.9,"confidence":0.8}`))
		require.NoError(t, err)
		assert.Equal(t, SentimentToxicityResponse{Sentiment: "negative", Toxicity: 0.9, Confidence: 0.8}, resp)

		got := resp.Normalize(domain.ModelCustom)
		assert.Equal(t, domain.SentimentNegative, got.Sentiment)
		assert.Equal(t, 2, got.PoisonDrops)
	})

	t.Run("empty category list falls back to sentiment", func(t *testing.T) {
		resp, err := ParseModelResponse([]byte(`{"sentiment":"positive","categories":[]}`))
		require.NoError(t, err)
		_, ok := resp.(SentimentToxicityResponse)
		assert.True(t, ok)
	})
}

func TestParseModelResponse_Malformed(t *testing.T) {
	for _, body := range []string{`{"foo":1}`, `not json`, `{"categories":42}`, `[]`} {
		t.Run(body, func(t *testing.T) {
			_, err := ParseModelResponse([]byte(body))
			assert.ErrorIs(t, err, domain.ErrMalformedResponse)
		})
	}
}
