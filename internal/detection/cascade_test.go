package detection

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CommentGarden_Go/internal/domain"
	"github.com/osse101/CommentGarden_Go/internal/modelrpc"
)

// MockModelClient is a mock implementation of ModelClient
type MockModelClient struct {
	mock.Mock
}

func (m *MockModelClient) Classify(ctx context.Context, text string) (modelrpc.Prediction, error) {
	args := m.Called(ctx, text)
	return args.Get(0).(modelrpc.Prediction), args.Error(1)
}

type stubTier struct {
	name  domain.ModelUsed
	out   Outcome
	panic bool
	calls int
}

func (s *stubTier) Name() domain.ModelUsed { return s.name }

func (s *stubTier) Classify(context.Context, string, Config) Outcome {
	s.calls++
	if s.panic {
		panic("tier exploded")
	}
	return s.out
}

func TestCascade_FirstOkWins(t *testing.T) {
	first := &stubTier{name: domain.ModelCustom, out: Ok(FromCategory("hate", 0.9, domain.ModelCustom))}
	second := &stubTier{name: domain.ModelLocal, out: Ok(FromCategory("normal", 0.9, domain.ModelLocal))}

	got := NewCascade(DefaultConfig(), first, second).Analyze(context.Background(), "anything")

	assert.Equal(t, domain.ModelCustom, got.ModelUsed)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 0, second.calls)
}

func TestCascade_FallsThroughUnavailableAndPanics(t *testing.T) {
	broken := &stubTier{name: domain.ModelCustom, panic: true}
	down := &stubTier{name: domain.ModelLocal, out: Unavailable("worker down")}
	last := &stubTier{name: domain.ModelFallback, out: Ok(FromCategory("normal", 0.5, domain.ModelFallback))}

	got := NewCascade(DefaultConfig(), broken, down, last).Analyze(context.Background(), "hi")

	assert.Equal(t, domain.ModelFallback, got.ModelUsed)
	assert.Equal(t, 1, broken.calls)
	assert.Equal(t, 1, down.calls)
}

func TestCascade_EmergencyWhenEverythingFails(t *testing.T) {
	down := &stubTier{name: domain.ModelLocal, out: Unavailable("nope")}
	got := NewCascade(DefaultConfig(), down).Analyze(context.Background(), "you idiot")

	assert.Equal(t, domain.ModelEmergency, got.ModelUsed)
	assert.Equal(t, domain.CategoryDerogatory, got.Category)
}

func TestCascade_ClampsTierOutput(t *testing.T) {
	wild := &stubTier{name: domain.ModelCustom, out: Ok(domain.ClassificationResult{
		Category:    domain.CategoryTrolling,
		Confidence:  3,
		Impact:      40,
		PoisonDrops: -2,
		ModelUsed:   domain.ModelCustom,
	})}

	got := NewCascade(DefaultConfig(), wild).Analyze(context.Background(), "x")

	assert.Equal(t, 1.0, got.Confidence)
	assert.Equal(t, domain.MaxImpact, got.Impact)
	assert.Equal(t, 0, got.PoisonDrops)
	assert.Equal(t, domain.SentimentNeutral, got.Sentiment)
}

func TestCascade_DefaultTiersDeterministicWhenModelFails(t *testing.T) {
	model := new(MockModelClient)
	model.On("Classify", mock.Anything, mock.Anything).Return(modelrpc.Prediction{}, errors.New("worker crashed"))

	c := NewDefaultCascade(DefaultConfig(), nil, model)
	ctx := context.Background()

	a := c.Analyze(ctx, "lmao you mad bro")
	b := c.Analyze(ctx, "lmao you mad bro")

	assert.Equal(t, a, b)
	assert.Equal(t, domain.ModelFallback, a.ModelUsed)
	assert.Equal(t, domain.CategoryTrolling, a.Category)
	model.AssertNumberOfCalls(t, "Classify", 2)
}

func TestCascade_FallbackDisabledUsesEmergency(t *testing.T) {
	model := new(MockModelClient)
	model.On("Classify", mock.Anything, mock.Anything).Return(modelrpc.Prediction{}, errors.New("down"))

	cfg := DefaultConfig()
	cfg.EnableFallback = false

	got := NewDefaultCascade(cfg, nil, model).Analyze(context.Background(), "I hate you, kys")
	assert.Equal(t, domain.ModelEmergency, got.ModelUsed)
	assert.Equal(t, domain.CategoryTrolling, got.Category)
}

func TestCascade_LocalTierUsed(t *testing.T) {
	model := new(MockModelClient)
	model.On("Classify", mock.Anything, "nice work").Return(modelrpc.Prediction{Category: "Normal", Score: 0.92}, nil)

	got := NewDefaultCascade(DefaultConfig(), nil, model).Analyze(context.Background(), "nice work")

	assert.Equal(t, domain.ModelLocal, got.ModelUsed)
	assert.Equal(t, domain.CategoryNormal, got.Category)
	assert.InDelta(t, 0.92, got.Confidence, 1e-9)
	model.AssertExpectations(t)
}

func TestLocalTier_Timeout(t *testing.T) {
	model := new(MockModelClient)
	model.On("Classify", mock.Anything, "slow").
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return(modelrpc.Prediction{}, context.DeadlineExceeded)

	out := NewLocalTier(model, 20*time.Millisecond).Classify(context.Background(), "slow", DefaultConfig())
	assert.False(t, out.OK)
	assert.Contains(t, out.Reason, "deadline")
}

func TestCascade_BoundsHoldForAnyText(t *testing.T) {
	c := NewCascade(DefaultConfig(), NewFallbackTier(NewKeywordScorer()))
	inputs := []string{"", "   ", "hate hate kill die", "🌱🌳", "you people are actually exotic lol", "thank you so much"}

	for _, in := range inputs {
		got := c.Analyze(context.Background(), in)
		assert.GreaterOrEqual(t, got.Confidence, 0.0)
		assert.LessOrEqual(t, got.Confidence, 1.0)
		assert.GreaterOrEqual(t, got.Impact, domain.MinImpact)
		assert.LessOrEqual(t, got.Impact, domain.MaxImpact)
	}
}

func TestCascade_UpdateConfig(t *testing.T) {
	c := NewCascade(DefaultConfig())

	err := c.UpdateConfig(context.Background(), Config{Endpoint: "not a url"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, c.Config().Endpoint)

	require.NoError(t, c.UpdateConfig(context.Background(), Config{Endpoint: "https://classifier.example.com/v1", TimeoutMs: 500}))
	assert.Equal(t, "https://classifier.example.com/v1", c.Config().Endpoint)
	assert.Equal(t, 500*time.Millisecond, c.Config().Timeout())
}

func TestCascade_TestConnection(t *testing.T) {
	got := NewCascade(DefaultConfig(), NewFallbackTier(NewKeywordScorer())).TestConnection(context.Background())
	assert.Equal(t, domain.ModelFallback, got.ModelUsed)
	assert.Equal(t, domain.CategoryNormal, got.Category)
}
