package progression

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/CommentGarden_Go/internal/domain"
)

// Rollover describes a weekly reset applied to a state
type Rollover struct {
	Happened      bool
	PreviousWeek  int
	CurrentWeek   int
	PreviousStats domain.WeeklyStats
	Rank          int
	TicketAwarded bool
}

// Outcome describes everything ApplyComment changed
type Outcome struct {
	Rollover Rollover
	Score    int
	Record   domain.CommentRecord

	// TreeID is empty when no growing tree was selected
	TreeID   string
	Tree     domain.TreeState
	TreeDied bool
}

// Machine folds classified comments into a progression state. All methods
// are pure: they copy the input state and never perform I/O beyond the rank
// estimator.
type Machine struct {
	rank RankEstimator
}

// NewMachine creates a state machine using rank for weekly placement
func NewMachine(rank RankEstimator) *Machine {
	return &Machine{rank: rank}
}

// RollOver resets weekly stats when now belongs to a later week than the
// state, awarding one ticket for a top-50 week with at least one comment.
func (m *Machine) RollOver(ctx context.Context, state domain.ProgressionState, now time.Time) (domain.ProgressionState, Rollover) {
	next := state.Clone()
	week := WeekNumber(now)
	if next.WeeklyStats.CurrentWeek == week {
		return next, Rollover{CurrentWeek: week}
	}

	ro := Rollover{
		Happened:      true,
		PreviousWeek:  next.WeeklyStats.CurrentWeek,
		CurrentWeek:   week,
		PreviousStats: next.WeeklyStats,
	}
	ro.Rank = m.rank.EstimateRank(ctx, next.WeeklyStats)
	if ro.Rank <= TicketRankCutoff && next.WeeklyStats.TotalComments > 0 {
		next.Tickets++
		ro.TicketAwarded = true
	}
	next.WeeklyStats = domain.WeeklyStats{CurrentWeek: week}
	return next, ro
}

// ApplyComment rolls the week over if needed, counts the comment, applies its
// score to the selected growing tree and prepends an audit record.
func (m *Machine) ApplyComment(ctx context.Context, state domain.ProgressionState, result domain.ClassificationResult, comment domain.Comment, now time.Time) (domain.ProgressionState, Outcome) {
	next, ro := m.RollOver(ctx, state, now)
	out := Outcome{Rollover: ro}

	sentiment := domain.ParseSentiment(string(result.Sentiment))
	next.WeeklyStats.TotalComments++
	switch sentiment {
	case domain.SentimentPositive:
		next.WeeklyStats.PositiveComments++
		out.Score = ScorePositive
	case domain.SentimentNegative:
		next.WeeklyStats.NegativeComments++
		out.Score = ScoreNegative
	default:
		next.WeeklyStats.NeutralComments++
		out.Score = ScoreNeutral
	}

	if idx := next.TreeIndex(next.SelectedTree); idx >= 0 && next.Trees[idx].Status == domain.TreeStatusGrowing {
		tree := &next.Trees[idx]
		applyScore(tree, out.Score, now)
		out.TreeID = tree.ID
		out.Tree = *tree
		out.TreeDied = tree.Status == domain.TreeStatusDead
	}

	out.Record = domain.CommentRecord{
		ID:         comment.ID,
		Text:       comment.Text,
		Platform:   comment.Platform,
		URL:        comment.URL,
		Sentiment:  sentiment,
		Impact:     out.Score,
		Category:   result.Category,
		Confidence: result.Confidence,
		Timestamp:  comment.Timestamp,
	}
	if out.Record.ID == "" {
		out.Record.ID = uuid.NewString()
	}
	if out.Record.Timestamp.IsZero() {
		out.Record.Timestamp = now
	}
	next.CommentHistory = append([]domain.CommentRecord{out.Record}, next.CommentHistory...)

	return next, out
}

func applyScore(tree *domain.TreeState, score int, now time.Time) {
	at := now
	if score > 0 {
		tree.Health = min(domain.TreeMaxHealth, tree.Health+score)
		tree.GrowthProgress = min(domain.TreeMaxGrowth, tree.GrowthProgress+score)
		tree.WaterDrops += score
		tree.LastWateredAt = &at
		return
	}

	damage := -score
	tree.Health = max(0, tree.Health-damage)
	tree.GrowthProgress = max(0, tree.GrowthProgress-damage)
	tree.PoisonDrops += damage
	tree.LastPoisonedAt = &at
	if tree.Health <= 0 {
		tree.Status = domain.TreeStatusDead
		tree.DeathAt = &at
	}
}

// PlantTree adds a fresh tree of the named species and selects it
func PlantTree(state domain.ProgressionState, species string, now time.Time) (domain.ProgressionState, domain.TreeState, error) {
	kind, ok := domain.LookupTreeSpecies(species)
	if !ok {
		return state, domain.TreeState{}, domain.ErrUnknownTreeType
	}

	next := state.Clone()
	tree := domain.TreeState{
		ID:        uuid.NewString(),
		Type:      kind.Type,
		Status:    domain.TreeStatusGrowing,
		Health:    domain.TreeMaxHealth,
		PlantedAt: now,
	}
	next.Trees = append(next.Trees, tree)
	next.SelectedTree = tree.ID
	return next, tree, nil
}

// SelectTree switches the selection to an existing tree
func SelectTree(state domain.ProgressionState, id string) (domain.ProgressionState, error) {
	if state.TreeIndex(id) < 0 {
		return state, domain.ErrTreeNotFound
	}
	next := state.Clone()
	next.SelectedTree = id
	return next, nil
}

// ReviveTree restores a dead tree to full health with its growth reset
func ReviveTree(state domain.ProgressionState, id string, now time.Time) (domain.ProgressionState, domain.TreeState, error) {
	idx := state.TreeIndex(id)
	if idx < 0 {
		return state, domain.TreeState{}, domain.ErrTreeNotFound
	}
	if state.Trees[idx].Status != domain.TreeStatusDead {
		return state, domain.TreeState{}, domain.ErrTreeNotDead
	}

	next := state.Clone()
	tree := &next.Trees[idx]
	tree.Status = domain.TreeStatusGrowing
	tree.Health = domain.TreeMaxHealth
	tree.GrowthProgress = 0
	tree.WaterDrops = 0
	tree.PoisonDrops = 0
	tree.PlantedAt = now
	tree.DeathAt = nil
	tree.LastWateredAt = nil
	tree.LastPoisonedAt = nil
	return next, *tree, nil
}
