package progression

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/osse101/CommentGarden_Go/internal/domain"
	"github.com/osse101/CommentGarden_Go/internal/event"
	"github.com/osse101/CommentGarden_Go/internal/logger"
	"github.com/osse101/CommentGarden_Go/internal/repository"
)

// LotteryResult is returned to the caller of EnterLottery
type LotteryResult struct {
	Prize        Prize `json:"prize"`
	TicketsSpent int   `json:"tickets_spent"`
	TicketsLeft  int   `json:"tickets_left"`
}

// Option configures a Service
type Option func(*Service)

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithRand overrides the lottery random source
func WithRand(src rand.Source) Option {
	return func(s *Service) { s.rng = rand.New(src) }
}

// Service owns the persisted progression state. Every mutation is one
// load, one pure transition and one save under a single mutex.
type Service struct {
	repo      repository.Progression
	machine   *Machine
	publisher *event.ResilientPublisher

	mu  sync.Mutex
	now func() time.Time
	rng *rand.Rand
}

// NewService creates a progression service. publisher may be nil.
func NewService(repo repository.Progression, rank RankEstimator, publisher *event.ResilientPublisher, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		machine:   NewMachine(rank),
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
		rng:       rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetState returns the current snapshot, creating an empty one on first use
func (s *Service) GetState(ctx context.Context) (domain.ProgressionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

// ApplyComment folds one classified comment into the state and saves it
func (s *Service) ApplyComment(ctx context.Context, comment domain.Comment, result domain.ClassificationResult) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadLocked(ctx)
	if err != nil {
		return Outcome{}, err
	}

	now := s.now()
	next, out := s.machine.ApplyComment(ctx, state, result, comment, now)
	if err := s.repo.SaveState(ctx, next); err != nil {
		return Outcome{}, fmt.Errorf("%w: save state: %v", domain.ErrDatabase, err)
	}

	s.publishRollover(ctx, out.Rollover, next.Tickets)

	log := logger.FromContext(ctx)
	if out.TreeID == "" {
		log.Debug(LogMsgNoGrowingTree, "selected", next.SelectedTree)
	}
	if out.TreeDied {
		log.Info(LogMsgTreeDied, "tree_id", out.TreeID)
		s.publish(ctx, event.NewTreeEvent(event.TreeDied, out.Tree, now))
	}
	s.publish(ctx, event.NewCommentProcessedEvent(event.CommentProcessedPayloadV1{
		CommentID:      out.Record.ID,
		Platform:       out.Record.Platform,
		Category:       result.Category,
		Sentiment:      out.Record.Sentiment,
		Confidence:     result.Confidence,
		Score:          out.Score,
		ModelUsed:      result.ModelUsed,
		TreeID:         out.TreeID,
		Health:         out.Tree.Health,
		GrowthProgress: out.Tree.GrowthProgress,
		TotalComments:  next.WeeklyStats.TotalComments,
		Timestamp:      now.Unix(),
	}))

	return out, nil
}

// RollOver applies the weekly reset on its own, so tickets are awarded even
// in weeks that end without a new comment.
func (s *Service) RollOver(ctx context.Context) (Rollover, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadLocked(ctx)
	if err != nil {
		return Rollover{}, err
	}

	next, ro := s.machine.RollOver(ctx, state, s.now())
	if !ro.Happened {
		return ro, nil
	}
	if err := s.repo.SaveState(ctx, next); err != nil {
		return Rollover{}, fmt.Errorf("%w: save state: %v", domain.ErrDatabase, err)
	}
	s.publishRollover(ctx, ro, next.Tickets)
	return ro, nil
}

// PlantTree plants and selects a new tree of the given species
func (s *Service) PlantTree(ctx context.Context, species string) (domain.TreeState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadLocked(ctx)
	if err != nil {
		return domain.TreeState{}, err
	}

	now := s.now()
	next, tree, err := PlantTree(state, species, now)
	if err != nil {
		return domain.TreeState{}, fmt.Errorf("%w: %s", err, species)
	}
	if err := s.repo.SaveState(ctx, next); err != nil {
		return domain.TreeState{}, fmt.Errorf("%w: save state: %v", domain.ErrDatabase, err)
	}
	s.publish(ctx, event.NewTreeEvent(event.TreePlanted, tree, now))
	return tree, nil
}

// SelectTree switches the active tree
func (s *Service) SelectTree(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadLocked(ctx)
	if err != nil {
		return err
	}
	next, err := SelectTree(state, id)
	if err != nil {
		return fmt.Errorf("%w: %s", err, id)
	}
	if err := s.repo.SaveState(ctx, next); err != nil {
		return fmt.Errorf("%w: save state: %v", domain.ErrDatabase, err)
	}
	return nil
}

// ReviveTree brings a dead tree back to full health
func (s *Service) ReviveTree(ctx context.Context, id string) (domain.TreeState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadLocked(ctx)
	if err != nil {
		return domain.TreeState{}, err
	}

	now := s.now()
	next, tree, err := ReviveTree(state, id, now)
	if err != nil {
		return domain.TreeState{}, fmt.Errorf("%w: %s", err, id)
	}
	if err := s.repo.SaveState(ctx, next); err != nil {
		return domain.TreeState{}, fmt.Errorf("%w: save state: %v", domain.ErrDatabase, err)
	}
	s.publish(ctx, event.NewTreeEvent(event.TreeRevived, tree, now))
	return tree, nil
}

// EnterLottery spends tickets on one spin of the wheel
func (s *Service) EnterLottery(ctx context.Context) (LotteryResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadLocked(ctx)
	if err != nil {
		return LotteryResult{}, err
	}
	next, prize, err := EnterLottery(state, s.rng)
	if err != nil {
		return LotteryResult{}, fmt.Errorf("%w: have %d, need %d", err, state.Tickets, LotteryCost)
	}
	if err := s.repo.SaveState(ctx, next); err != nil {
		return LotteryResult{}, fmt.Errorf("%w: save state: %v", domain.ErrDatabase, err)
	}

	res := LotteryResult{Prize: prize, TicketsSpent: LotteryCost, TicketsLeft: next.Tickets}
	logger.FromContext(ctx).Info(LogMsgLotteryEntered, "prize", prize.Name, "amount", prize.Amount, "tickets_left", res.TicketsLeft)
	s.publish(ctx, event.NewLotteryEnteredEvent(event.LotteryEnteredPayloadV1{
		Prize:        prize.Name,
		Amount:       prize.Amount,
		TicketsSpent: LotteryCost,
		TicketsLeft:  next.Tickets,
		Timestamp:    s.now().Unix(),
	}))
	return res, nil
}

// UnsyncedRecords returns up to limit history records not yet sent to the
// backend, oldest first.
func (s *Service) UnsyncedRecords(ctx context.Context, limit int) ([]domain.CommentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadLocked(ctx)
	if err != nil {
		return nil, err
	}

	var out []domain.CommentRecord
	for i := len(state.CommentHistory) - 1; i >= 0 && len(out) < limit; i-- {
		if !state.CommentHistory[i].SyncedToBackend {
			out = append(out, state.CommentHistory[i])
		}
	}
	return out, nil
}

// MarkSynced flags the given history records as delivered to the backend
func (s *Service) MarkSynced(ctx context.Context, backendIDs map[string]string) error {
	if len(backendIDs) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadLocked(ctx)
	if err != nil {
		return err
	}
	next := state.Clone()
	for i := range next.CommentHistory {
		if id, ok := backendIDs[next.CommentHistory[i].ID]; ok {
			next.CommentHistory[i].SyncedToBackend = true
			next.CommentHistory[i].BackendID = id
		}
	}
	if err := s.repo.SaveState(ctx, next); err != nil {
		return fmt.Errorf("%w: save state: %v", domain.ErrDatabase, err)
	}
	return nil
}

func (s *Service) loadLocked(ctx context.Context) (domain.ProgressionState, error) {
	state, err := s.repo.LoadState(ctx)
	if err == nil {
		return state, nil
	}
	if !errors.Is(err, domain.ErrStateNotFound) {
		return domain.ProgressionState{}, fmt.Errorf("%w: load state: %v", domain.ErrDatabase, err)
	}

	state = domain.NewProgressionState(WeekNumber(s.now()))
	if err := s.repo.SaveState(ctx, state); err != nil {
		return domain.ProgressionState{}, fmt.Errorf("%w: save state: %v", domain.ErrDatabase, err)
	}
	logger.FromContext(ctx).Info(LogMsgStateInitialized, "week", state.WeeklyStats.CurrentWeek)
	return state, nil
}

func (s *Service) publishRollover(ctx context.Context, ro Rollover, tickets int) {
	if !ro.Happened {
		return
	}
	log := logger.FromContext(ctx)
	log.Info(LogMsgWeekRolledOver, "previous_week", ro.PreviousWeek, "week", ro.CurrentWeek, "rank", ro.Rank)

	s.publish(ctx, event.NewWeekRolledOverEvent(event.WeekRolledOverPayloadV1{
		PreviousWeek:  ro.PreviousWeek,
		CurrentWeek:   ro.CurrentWeek,
		Rank:          ro.Rank,
		TotalComments: ro.PreviousStats.TotalComments,
		TicketAwarded: ro.TicketAwarded,
		Tickets:       tickets,
	}))
	if ro.TicketAwarded {
		log.Info(LogMsgTicketAwarded, "rank", ro.Rank, "tickets", tickets)
		s.publish(ctx, event.NewTicketAwardedEvent(ro.PreviousWeek, ro.Rank, tickets))
	}
}

func (s *Service) publish(ctx context.Context, evt event.Event) {
	if s.publisher != nil {
		s.publisher.PublishWithRetry(ctx, evt)
	}
}
