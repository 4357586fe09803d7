package queue

import (
	"context"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CommentGarden_Go/internal/detection"
	"github.com/osse101/CommentGarden_Go/internal/domain"
	"github.com/osse101/CommentGarden_Go/internal/progression"
	"github.com/osse101/CommentGarden_Go/internal/repository"
	"github.com/osse101/CommentGarden_Go/internal/worker"
)

type staticAnalyzer struct{}

func (staticAnalyzer) Analyze(_ context.Context, _ string) domain.ClassificationResult {
	return domain.ClassificationResult{Category: domain.CategoryNormal, Sentiment: domain.SentimentNeutral, Confidence: 0.5}
}

// recordingApplier records applied comment ids and can block on demand
type recordingApplier struct {
	mu      sync.Mutex
	applied []string
	gate    chan struct{}
	entered chan struct{}
	err     error
}

func (a *recordingApplier) ApplyComment(_ context.Context, c domain.Comment, _ domain.ClassificationResult) (progression.Outcome, error) {
	if a.entered != nil {
		a.entered <- struct{}{}
	}
	if a.gate != nil {
		<-a.gate
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.applied = append(a.applied, c.ID)
	return progression.Outcome{}, a.err
}

func (a *recordingApplier) ids() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.applied...)
}

// holdDispatcher accepts jobs without running them
type holdDispatcher struct {
	mu   sync.Mutex
	jobs []worker.Job
}

func (d *holdDispatcher) TryEnqueue(job worker.Job) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.jobs = append(d.jobs, job)
	return true
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestEnqueue_FillsDefaults(t *testing.T) {
	clk := &testClock{now: time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)}
	q := New(staticAnalyzer{}, &recordingApplier{}, WithClock(clk.Now), WithDispatcher(&holdDispatcher{}))

	c, err := q.Enqueue(context.Background(), domain.Comment{Text: "  hello  "})
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "hello", c.Text)
	assert.Equal(t, clk.Now(), c.Timestamp)
	assert.Equal(t, domain.PlatformUnknown, c.Platform)
	assert.False(t, c.Processed)

	_, err = q.Enqueue(context.Background(), domain.Comment{Text: "   "})
	assert.ErrorIs(t, err, domain.ErrEmptyComment)
}

func TestEnqueue_QueueFull(t *testing.T) {
	q := New(staticAnalyzer{}, &recordingApplier{}, WithMaxPending(2), WithDispatcher(&holdDispatcher{}))
	ctx := context.Background()

	_, err := q.Enqueue(ctx, domain.Comment{Text: "a"})
	require.NoError(t, err)
	_, err = q.Enqueue(ctx, domain.Comment{Text: "b"})
	require.NoError(t, err)
	_, err = q.Enqueue(ctx, domain.Comment{Text: "c"})
	assert.ErrorIs(t, err, domain.ErrQueueFull)
}

func TestDrainOnce_ProcessesInOrder(t *testing.T) {
	applier := &recordingApplier{}
	dispatcher := &holdDispatcher{}
	q := New(staticAnalyzer{}, applier, WithDispatcher(dispatcher))
	ctx := context.Background()

	for _, id := range []string{"1", "2", "3"} {
		_, err := q.Enqueue(ctx, domain.Comment{ID: id, Text: "comment " + id})
		require.NoError(t, err)
	}
	assert.Len(t, dispatcher.jobs, 3)
	assert.Equal(t, 3, q.Status().Pending)

	assert.Equal(t, 3, q.DrainOnce(ctx))
	assert.Equal(t, []string{"1", "2", "3"}, applier.ids())

	status := q.Status()
	assert.Equal(t, 0, status.Pending)
	assert.Equal(t, 3, status.Processed)
	for _, c := range q.Snapshot() {
		assert.True(t, c.Processed)
	}

	assert.Equal(t, 0, q.DrainOnce(ctx), "nothing left to apply")
}

func TestDrainOnce_OverlappingDrainsApplyOnce(t *testing.T) {
	applier := &recordingApplier{gate: make(chan struct{}), entered: make(chan struct{}, 10)}
	q := New(staticAnalyzer{}, applier, WithDispatcher(&holdDispatcher{}))
	ctx := context.Background()

	for _, id := range []string{"1", "2", "3"} {
		_, err := q.Enqueue(ctx, domain.Comment{ID: id, Text: "x"})
		require.NoError(t, err)
	}

	first := make(chan int)
	go func() { first <- q.DrainOnce(ctx) }()

	<-applier.entered
	assert.True(t, q.Status().Draining)
	assert.Equal(t, 0, q.DrainOnce(ctx), "second drain must be a no-op")

	// A comment arriving mid-drain is picked up by the running drain
	_, err := q.Enqueue(ctx, domain.Comment{ID: "4", Text: "late"})
	require.NoError(t, err)

	close(applier.gate)
	assert.Equal(t, 4, <-first)
	assert.Equal(t, []string{"1", "2", "3", "4"}, applier.ids())
	assert.False(t, q.Status().Draining)
}

func TestDrainOnce_ApplyErrorStillMarksProcessed(t *testing.T) {
	applier := &recordingApplier{err: domain.ErrDatabase}
	q := New(staticAnalyzer{}, applier)

	_, err := q.Enqueue(context.Background(), domain.Comment{ID: "1", Text: "x"})
	require.NoError(t, err)

	assert.Equal(t, 0, q.Status().Pending)
	assert.Equal(t, []string{"1"}, applier.ids())
	assert.Equal(t, 0, q.DrainOnce(context.Background()), "failed items are not retried")
}

func TestDrainOnce_PurgesAfterRetention(t *testing.T) {
	clk := &testClock{now: time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)}
	dispatcher := &holdDispatcher{}
	q := New(staticAnalyzer{}, &recordingApplier{}, WithClock(clk.Now), WithDispatcher(dispatcher))
	ctx := context.Background()

	_, err := q.Enqueue(ctx, domain.Comment{ID: "old", Text: "x"})
	require.NoError(t, err)
	q.DrainOnce(ctx)

	clk.Advance(30 * time.Minute)
	_, err = q.Enqueue(ctx, domain.Comment{ID: "pending", Text: "y"})
	require.NoError(t, err)

	clk.Advance(31 * time.Minute)
	q.purge()
	snap := q.Snapshot()
	require.Len(t, snap, 1, "processed comment past retention is dropped")
	assert.Equal(t, "pending", snap[0].ID)

	clk.Advance(2 * time.Hour)
	q.purge()
	assert.Len(t, q.Snapshot(), 1, "unprocessed comments are never purged")

	q.DrainOnce(ctx)
	assert.Empty(t, q.Snapshot())
}

func TestEnqueue_SynchronousDrainWithoutDispatcher(t *testing.T) {
	applier := &recordingApplier{}
	q := New(staticAnalyzer{}, applier)

	_, err := q.Enqueue(context.Background(), domain.Comment{ID: "1", Text: "x"})
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, applier.ids())
}

func TestEnqueue_DispatchesThroughPool(t *testing.T) {
	applier := &recordingApplier{}
	pool := worker.NewPool(1, 4)
	pool.Start()
	defer pool.Stop()

	q := New(staticAnalyzer{}, applier, WithDispatcher(pool))
	_, err := q.Enqueue(context.Background(), domain.Comment{ID: "1", Text: "x"})
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return len(applier.ids()) == 1 }, time.Second, 5*time.Millisecond)
}

func TestQueue_EndToEndWithProgression(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)

	store := repository.NewMemoryProgression()
	state := domain.NewProgressionState(progression.WeekNumber(now))
	state.Trees = []domain.TreeState{{ID: "t", Type: domain.TreeTypeApple, Status: domain.TreeStatusGrowing, Health: 50, GrowthProgress: 50}}
	state.SelectedTree = "t"
	require.NoError(t, store.SaveState(ctx, state))

	svc := progression.NewService(store, progression.NewBandEstimator(rand.NewPCG(1, 1)), nil, progression.WithClock(func() time.Time { return now }))
	cascade := detection.NewCascade(detection.DefaultConfig(), detection.NewFallbackTier(detection.NewKeywordScorer()))
	q := New(cascade, svc, WithClock(func() time.Time { return now }))

	_, err := q.Enqueue(ctx, domain.Comment{Text: "You are a great person, thank you!", Platform: domain.PlatformAPI})
	require.NoError(t, err)

	saved, err := svc.GetState(ctx)
	require.NoError(t, err)
	assert.Equal(t, 53, saved.Trees[0].Health)
	assert.Equal(t, 53, saved.Trees[0].GrowthProgress)
	require.Len(t, saved.CommentHistory, 1)
	assert.Equal(t, domain.CategoryNormal, saved.CommentHistory[0].Category)
	assert.Equal(t, domain.SentimentPositive, saved.CommentHistory[0].Sentiment)
	assert.Equal(t, 3, saved.CommentHistory[0].Impact)
}
