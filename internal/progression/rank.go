package progression

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/osse101/CommentGarden_Go/internal/domain"
	"github.com/osse101/CommentGarden_Go/internal/logger"
)

// RankEstimator places the user on the weekly leaderboard from their stats
type RankEstimator interface {
	EstimateRank(ctx context.Context, stats domain.WeeklyStats) int
}

// WeeklyScore is the leaderboard score for a week of comments
func WeeklyScore(stats domain.WeeklyStats) int {
	return stats.PositiveComments*ScorePositive +
		stats.NeutralComments*ScoreNeutral +
		stats.NegativeComments*ScoreNegative
}

// BandEstimator draws a rank at random from the band the weekly score falls in
type BandEstimator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewBandEstimator creates an estimator drawing from src
func NewBandEstimator(src rand.Source) *BandEstimator {
	return &BandEstimator{rng: rand.New(src)}
}

// EstimateRank implements RankEstimator
func (e *BandEstimator) EstimateRank(_ context.Context, stats domain.WeeklyStats) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	score := WeeklyScore(stats)
	switch {
	case score >= bandTopScore:
		return e.rng.IntN(10) + 1
	case score >= bandHighScore:
		return e.rng.IntN(20) + 10
	case score >= bandMiddleScore:
		return e.rng.IntN(30) + 20
	default:
		return e.rng.IntN(50) + 50
	}
}

// LeaderboardClient reads the user's position from a remote leaderboard
type LeaderboardClient interface {
	UserRank(ctx context.Context) (int, error)
}

// BackendEstimator asks the backend leaderboard and falls back to another
// estimator when the lookup fails or returns no rank.
type BackendEstimator struct {
	client   LeaderboardClient
	fallback RankEstimator
}

// NewBackendEstimator creates a leaderboard-backed estimator
func NewBackendEstimator(client LeaderboardClient, fallback RankEstimator) *BackendEstimator {
	return &BackendEstimator{client: client, fallback: fallback}
}

// EstimateRank implements RankEstimator
func (e *BackendEstimator) EstimateRank(ctx context.Context, stats domain.WeeklyStats) int {
	rank, err := e.client.UserRank(ctx)
	if err == nil && rank > 0 {
		return rank
	}
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgBackendRankFailed, "error", err)
	}
	return e.fallback.EstimateRank(ctx, stats)
}
