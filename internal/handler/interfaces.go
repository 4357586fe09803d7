package handler

import (
	"context"

	"github.com/osse101/CommentGarden_Go/internal/detection"
	"github.com/osse101/CommentGarden_Go/internal/domain"
	"github.com/osse101/CommentGarden_Go/internal/progression"
	"github.com/osse101/CommentGarden_Go/internal/queue"
)

// CommentQueue accepts captured comments
type CommentQueue interface {
	Enqueue(ctx context.Context, c domain.Comment) (domain.Comment, error)
	Status() queue.Status
}

// ProgressionService exposes the garden state and player actions
type ProgressionService interface {
	GetState(ctx context.Context) (domain.ProgressionState, error)
	PlantTree(ctx context.Context, species string) (domain.TreeState, error)
	SelectTree(ctx context.Context, id string) error
	ReviveTree(ctx context.Context, id string) (domain.TreeState, error)
	EnterLottery(ctx context.Context) (progression.LotteryResult, error)
}

// DetectionService is the classification cascade as seen by the API
type DetectionService interface {
	Analyze(ctx context.Context, text string) domain.ClassificationResult
	Config() detection.Config
	UpdateConfig(ctx context.Context, cfg detection.Config) error
	TestConnection(ctx context.Context) domain.ClassificationResult
}

// DetectionSettingsStore persists accepted configuration changes
type DetectionSettingsStore interface {
	Save(ctx context.Context, cfg detection.Config) error
}

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}
