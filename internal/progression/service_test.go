package progression

import (
	"context"
	"math/rand/v2"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CommentGarden_Go/internal/domain"
	"github.com/osse101/CommentGarden_Go/internal/event"
	"github.com/osse101/CommentGarden_Go/internal/repository"
)

type recorder struct {
	mu     sync.Mutex
	events []event.Event
}

func (r *recorder) handle(_ context.Context, evt event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
	return nil
}

func (r *recorder) types() []event.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]event.Type, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestService(t *testing.T, rank RankEstimator) (*Service, *repository.MemoryProgression, *recorder, *clock) {
	t.Helper()

	bus := event.NewMemoryBus()
	rec := &recorder{}
	for _, typ := range event.AllTypes {
		bus.Subscribe(typ, rec.handle)
	}
	pub, err := event.NewResilientPublisher(bus, 1, time.Millisecond, filepath.Join(t.TempDir(), "dead.jsonl"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = pub.Shutdown(context.Background()) })

	store := repository.NewMemoryProgression()
	clk := &clock{now: testNow}
	svc := NewService(store, rank, pub, WithClock(clk.Now), WithRand(rand.NewPCG(1, 1)))
	return svc, store, rec, clk
}

func TestService_GetStateInitializes(t *testing.T) {
	svc, store, _, _ := newTestService(t, fixedRank(10))

	state, err := svc.GetState(context.Background())
	require.NoError(t, err)
	assert.Equal(t, WeekNumber(testNow), state.WeeklyStats.CurrentWeek)
	assert.Empty(t, state.Trees)
	assert.Equal(t, 1, store.Saves())
}

func TestService_PlantAndApply(t *testing.T) {
	svc, store, rec, _ := newTestService(t, fixedRank(10))
	ctx := context.Background()

	tree, err := svc.PlantTree(ctx, "Apple")
	require.NoError(t, err)

	_, err = svc.PlantTree(ctx, "Baobab")
	require.ErrorIs(t, err, domain.ErrUnknownTreeType)

	out, err := svc.ApplyComment(ctx, domain.Comment{ID: "c1", Text: "hello"}, domain.ClassificationResult{Category: domain.CategoryTrolling, Sentiment: domain.SentimentNegative, Confidence: 0.5})
	require.NoError(t, err)
	assert.Equal(t, tree.ID, out.TreeID)
	assert.Equal(t, 97, out.Tree.Health)

	saved, err := store.LoadState(ctx)
	require.NoError(t, err)
	assert.Equal(t, 97, saved.Trees[0].Health)
	assert.Equal(t, "c1", saved.CommentHistory[0].ID)

	assert.Equal(t, []event.Type{event.TreePlanted, event.CommentProcessed}, rec.types())
}

func TestService_TreeDeathPublishesEvent(t *testing.T) {
	svc, store, rec, _ := newTestService(t, fixedRank(10))
	ctx := context.Background()

	state := stateWithTree(5, 10)
	require.NoError(t, store.SaveState(ctx, state))

	hate := domain.ClassificationResult{Category: domain.CategoryHateSpeech, Sentiment: domain.SentimentNegative, Confidence: 1, Impact: 10}
	out, err := svc.ApplyComment(ctx, domain.Comment{Text: "I hate you, kys"}, hate)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Tree.Health)

	out, err = svc.ApplyComment(ctx, domain.Comment{Text: "I hate you, kys"}, hate)
	require.NoError(t, err)
	assert.True(t, out.TreeDied)
	assert.Equal(t, 0, out.Tree.Health)

	assert.Contains(t, rec.types(), event.TreeDied)
}

func TestService_RollOverAwardsTicket(t *testing.T) {
	svc, _, rec, clk := newTestService(t, fixedRank(20))
	ctx := context.Background()

	_, err := svc.ApplyComment(ctx, domain.Comment{}, domain.ClassificationResult{Sentiment: domain.SentimentPositive})
	require.NoError(t, err)

	ro, err := svc.RollOver(ctx)
	require.NoError(t, err)
	assert.False(t, ro.Happened)

	clk.Advance(7 * 24 * time.Hour)
	ro, err = svc.RollOver(ctx)
	require.NoError(t, err)
	assert.True(t, ro.Happened)
	assert.True(t, ro.TicketAwarded)

	state, err := svc.GetState(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, state.Tickets)
	assert.Equal(t, 0, state.WeeklyStats.TotalComments)

	types := rec.types()
	assert.Contains(t, types, event.WeekRolledOver)
	assert.Contains(t, types, event.TicketAwarded)

	// An empty week earns nothing
	clk.Advance(7 * 24 * time.Hour)
	ro, err = svc.RollOver(ctx)
	require.NoError(t, err)
	assert.True(t, ro.Happened)
	assert.False(t, ro.TicketAwarded)
}

func TestService_SelectAndRevive(t *testing.T) {
	svc, store, rec, _ := newTestService(t, fixedRank(10))
	ctx := context.Background()

	state := stateWithTree(0, 0)
	state.Trees[0].Status = domain.TreeStatusDead
	require.NoError(t, store.SaveState(ctx, state))

	require.ErrorIs(t, svc.SelectTree(ctx, "missing"), domain.ErrTreeNotFound)
	require.NoError(t, svc.SelectTree(ctx, "tree-1"))

	tree, err := svc.ReviveTree(ctx, "tree-1")
	require.NoError(t, err)
	assert.Equal(t, 100, tree.Health)

	_, err = svc.ReviveTree(ctx, "tree-1")
	assert.ErrorIs(t, err, domain.ErrTreeNotDead)

	assert.Equal(t, []event.Type{event.TreeRevived}, rec.types())
}

func TestService_EnterLottery(t *testing.T) {
	svc, store, rec, _ := newTestService(t, fixedRank(10))
	ctx := context.Background()

	_, err := svc.EnterLottery(ctx)
	require.ErrorIs(t, err, domain.ErrInsufficientTickets)

	state := domain.NewProgressionState(WeekNumber(testNow))
	state.Tickets = 3
	require.NoError(t, store.SaveState(ctx, state))

	res, err := svc.EnterLottery(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.TicketsLeft)
	assert.Equal(t, LotteryCost, res.TicketsSpent)

	_, err = svc.EnterLottery(ctx)
	require.ErrorIs(t, err, domain.ErrInsufficientTickets)

	assert.Equal(t, []event.Type{event.LotteryEntered}, rec.types())
}

func TestService_SyncBookkeeping(t *testing.T) {
	svc, _, _, _ := newTestService(t, fixedRank(10))
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		_, err := svc.ApplyComment(ctx, domain.Comment{ID: id}, domain.ClassificationResult{Sentiment: domain.SentimentNeutral})
		require.NoError(t, err)
	}

	recs, err := svc.UnsyncedRecords(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "a", recs[0].ID, "oldest first")
	assert.Equal(t, "b", recs[1].ID)

	require.NoError(t, svc.MarkSynced(ctx, map[string]string{"a": "srv-1"}))

	recs, err = svc.UnsyncedRecords(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "b", recs[0].ID)

	state, err := svc.GetState(ctx)
	require.NoError(t, err)
	assert.True(t, state.CommentHistory[2].SyncedToBackend)
	assert.Equal(t, "srv-1", state.CommentHistory[2].BackendID)
}

func TestService_ConcurrentApply(t *testing.T) {
	svc, _, _, _ := newTestService(t, fixedRank(10))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ApplyComment(ctx, domain.Comment{}, domain.ClassificationResult{Sentiment: domain.SentimentPositive})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	state, err := svc.GetState(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, state.WeeklyStats.TotalComments)
	assert.Len(t, state.CommentHistory, 20)
}
