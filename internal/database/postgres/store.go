package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/CommentGarden_Go/internal/domain"
)

// Store persists the progression snapshot as a JSONB document
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a postgres-backed progression store
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// LoadState implements repository.Progression
func (s *Store) LoadState(ctx context.Context) (domain.ProgressionState, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT snapshot FROM progression_state WHERE id = 1`).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ProgressionState{}, domain.ErrStateNotFound
	}
	if err != nil {
		return domain.ProgressionState{}, fmt.Errorf("%s: %w", ErrMsgFailedToLoadState, err)
	}

	var state domain.ProgressionState
	if err := json.Unmarshal(raw, &state); err != nil {
		return domain.ProgressionState{}, fmt.Errorf("%s: %w", ErrMsgFailedToDecodeState, err)
	}
	return state.Clone(), nil
}

// SaveState implements repository.Progression
func (s *Store) SaveState(ctx context.Context, state domain.ProgressionState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToEncodeState, err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO progression_state (id, snapshot, updated_at) VALUES (1, $1, NOW())
		ON CONFLICT (id) DO UPDATE SET snapshot = EXCLUDED.snapshot, updated_at = NOW()`,
		raw)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToSaveState, err)
	}
	return nil
}

// GetMeta implements repository.Progression
func (s *Store) GetMeta(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.pool.QueryRow(ctx, `SELECT value FROM app_meta WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", ErrMsgFailedToGetMeta, err)
	}
	return value, true, nil
}

// SetMeta implements repository.Progression
func (s *Store) SetMeta(ctx context.Context, key, value string) error {
	if key == "" {
		return fmt.Errorf("%s: key is empty", ErrMsgFailedToSetMeta)
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO app_meta (key, value, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		key, value)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToSetMeta, err)
	}
	return nil
}

// Ping checks that the database is reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close implements repository.Progression
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
