package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/CommentGarden_Go/internal/domain"
	"github.com/osse101/CommentGarden_Go/internal/logger"
	"github.com/osse101/CommentGarden_Go/internal/metrics"
	"github.com/osse101/CommentGarden_Go/internal/repository"
)

// RecordSource supplies unsynced history and records delivery
type RecordSource interface {
	UnsyncedRecords(ctx context.Context, limit int) ([]domain.CommentRecord, error)
	MarkSynced(ctx context.Context, backendIDs map[string]string) error
}

// MetaStore persists identity values across restarts
type MetaStore interface {
	GetMeta(ctx context.Context, key string) (string, bool, error)
	SetMeta(ctx context.Context, key, value string) error
}

// Syncer pushes comment history to the backend in small, spaced batches
type Syncer struct {
	client  *Client
	source  RecordSource
	userID  string
	batch   int
	spacing time.Duration
}

// SyncOption configures a Syncer
type SyncOption func(*Syncer)

// WithBatch sets how many records one run may send and the pause between them
func WithBatch(size int, spacing time.Duration) SyncOption {
	return func(s *Syncer) {
		s.batch = size
		s.spacing = spacing
	}
}

// NewSyncer creates a syncer posting records on behalf of extensionUserID
func NewSyncer(client *Client, source RecordSource, extensionUserID string, opts ...SyncOption) *Syncer {
	s := &Syncer{
		client:  client,
		source:  source,
		userID:  extensionUserID,
		batch:   DefaultSyncBatch,
		spacing: DefaultSyncSpacing,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run sends one batch. Failed records stay unsynced for the next run; the
// returned count covers records the backend accepted.
func (s *Syncer) Run(ctx context.Context) (int, error) {
	log := logger.FromContext(ctx)

	records, err := s.source.UnsyncedRecords(ctx, s.batch)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}
	log.Debug(LogMsgSyncStarted, "pending", len(records))

	synced := make(map[string]string, len(records))
	for i, rec := range records {
		if i > 0 && s.spacing > 0 {
			t := time.NewTimer(s.spacing)
			select {
			case <-ctx.Done():
				t.Stop()
				return s.finish(ctx, synced, ctx.Err())
			case <-t.C:
			}
		}

		created, err := s.client.CreateComment(ctx, commentRequest(s.userID, rec))
		if err != nil {
			metrics.BackendSyncRecords.WithLabelValues(metrics.ResultFailure).Inc()
			log.Warn(LogMsgSyncRecordFailed, "record_id", rec.ID, "error", err)
			continue
		}
		metrics.BackendSyncRecords.WithLabelValues(metrics.ResultSuccess).Inc()
		synced[rec.ID] = created.ID
	}

	return s.finish(ctx, synced, nil)
}

func (s *Syncer) finish(ctx context.Context, synced map[string]string, runErr error) (int, error) {
	if err := s.source.MarkSynced(ctx, synced); err != nil {
		logger.FromContext(ctx).Error(LogMsgSyncMarkFailed, "count", len(synced), "error", err)
		return 0, err
	}
	logger.FromContext(ctx).Info(LogMsgSyncCompleted, "synced", len(synced))
	return len(synced), runErr
}

func commentRequest(userID string, rec domain.CommentRecord) CommentRequest {
	req := CommentRequest{
		ExtensionUserID: userID,
		CommentText:     rec.Text,
		Platform:        rec.Platform,
		Sentiment:       string(rec.Sentiment),
		ToxicityScore:   rec.Confidence,
		Categories:      []CategoryScore{},
	}
	if rec.Category != "" {
		req.Categories = append(req.Categories, CategoryScore{Name: string(rec.Category), Score: rec.Confidence})
	}
	return req
}

// EnsureExtensionUserID returns the stored extension user id, generating and
// persisting one on first use
func EnsureExtensionUserID(ctx context.Context, store MetaStore) (string, error) {
	id, ok, err := store.GetMeta(ctx, repository.MetaExtensionUserID)
	if err != nil {
		return "", err
	}
	if ok && id != "" {
		return id, nil
	}

	id = ExtensionIDPrefix + uuid.NewString()
	if err := store.SetMeta(ctx, repository.MetaExtensionUserID, id); err != nil {
		return "", err
	}
	logger.FromContext(ctx).Info(LogMsgExtensionIDCreated, "extension_user_id", id)
	return id, nil
}

// Username derives the display name registered for an extension user id
func Username(extensionUserID string) string {
	tail := extensionUserID
	if len(tail) > usernameTailChars {
		tail = tail[len(tail)-usernameTailChars:]
	}
	return UsernamePrefix + tail
}

// Register registers the user once. A stored backend id short-circuits the call.
func Register(ctx context.Context, client *Client, store MetaStore, extensionUserID string) (string, error) {
	backendID, ok, err := store.GetMeta(ctx, repository.MetaBackendUserID)
	if err != nil {
		return "", err
	}
	if ok && backendID != "" {
		return backendID, nil
	}

	user, err := client.RegisterUser(ctx, RegisterRequest{
		ExtensionUserID: extensionUserID,
		Username:        Username(extensionUserID),
	})
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgUserRegisterFailed, "error", err)
		return "", fmt.Errorf("register user: %w", err)
	}

	if err := store.SetMeta(ctx, repository.MetaBackendUserID, user.ID); err != nil {
		return "", err
	}
	logger.FromContext(ctx).Info(LogMsgUserRegistered, "backend_user_id", user.ID)
	return user.ID, nil
}

// Leaderboard answers rank lookups for a single user
type Leaderboard struct {
	client *Client
	userID string
}

// NewLeaderboard binds the client to extensionUserID
func NewLeaderboard(client *Client, extensionUserID string) *Leaderboard {
	return &Leaderboard{client: client, userID: extensionUserID}
}

// UserRank returns the user's leaderboard rank
func (l *Leaderboard) UserRank(ctx context.Context) (int, error) {
	rank, err := l.client.GetUserRank(ctx, l.userID)
	if err != nil {
		logger.FromContext(ctx).Debug(LogMsgRankLookupFailed, "error", err)
		return 0, err
	}
	return rank, nil
}
