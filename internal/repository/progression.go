package repository

import (
	"context"

	"github.com/osse101/CommentGarden_Go/internal/domain"
)

// Meta keys shared by every store implementation
const (
	MetaExtensionUserID = "extension_user_id"
	MetaBackendUserID   = "backend_user_id"
)

// Progression persists the single progression snapshot owned by the running instance
type Progression interface {
	// LoadState returns domain.ErrStateNotFound when nothing has been saved yet
	LoadState(ctx context.Context) (domain.ProgressionState, error)
	SaveState(ctx context.Context, state domain.ProgressionState) error

	// GetMeta returns ok=false for keys that were never written
	GetMeta(ctx context.Context, key string) (value string, ok bool, err error)
	SetMeta(ctx context.Context, key, value string) error

	Close() error
}
