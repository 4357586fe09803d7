package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CommentGarden_Go/internal/domain"
	"github.com/osse101/CommentGarden_Go/internal/event"
)

func TestEventMetricsCollector_CommentProcessed(t *testing.T) {
	bus := event.NewMemoryBus()
	require.NoError(t, NewEventMetricsCollector().Register(bus))

	before := testutil.ToFloat64(CommentsProcessed.WithLabelValues(string(domain.SentimentPositive)))

	err := bus.Publish(context.Background(), event.NewCommentProcessedEvent(event.CommentProcessedPayloadV1{
		CommentID:      "c1",
		Sentiment:      domain.SentimentPositive,
		TreeID:         "t1",
		Health:         77,
		GrowthProgress: 12,
	}))
	require.NoError(t, err)

	assert.Equal(t, before+1, testutil.ToFloat64(CommentsProcessed.WithLabelValues(string(domain.SentimentPositive))))
	assert.Equal(t, float64(77), testutil.ToFloat64(TreeHealth))
	assert.Equal(t, float64(12), testutil.ToFloat64(TreeGrowth))
}

func TestEventMetricsCollector_TreeDied(t *testing.T) {
	bus := event.NewMemoryBus()
	require.NoError(t, NewEventMetricsCollector().Register(bus))

	before := testutil.ToFloat64(TreeDeaths)
	tree := domain.TreeState{ID: "t1", Status: domain.TreeStatusDead}
	require.NoError(t, bus.Publish(context.Background(), event.NewTreeEvent(event.TreeDied, tree, time.Now())))

	assert.Equal(t, before+1, testutil.ToFloat64(TreeDeaths))
	assert.Equal(t, float64(0), testutil.ToFloat64(TreeHealth))
}

func TestEventMetricsCollector_IgnoresUnexpectedPayload(t *testing.T) {
	c := NewEventMetricsCollector()
	evt := event.Event{Type: event.LotteryEntered, Payload: "not a payload"}
	assert.NoError(t, c.HandleEvent(context.Background(), evt))
}

func TestEventMetricsCollector_CoversEveryType(t *testing.T) {
	c := NewEventMetricsCollector()
	for _, typ := range event.AllTypes {
		assert.Contains(t, c.recorders, typ)
	}
}

func TestEventMetricsCollector_LotteryPrize(t *testing.T) {
	c := NewEventMetricsCollector()
	counter := LotteryEntries.WithLabelValues("golden_seed")
	before := testutil.ToFloat64(counter)

	evt := event.Event{Type: event.LotteryEntered, Payload: event.LotteryEnteredPayloadV1{Prize: "golden_seed"}}
	require.NoError(t, c.HandleEvent(context.Background(), evt))

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
