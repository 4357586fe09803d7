package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/osse101/CommentGarden_Go/internal/domain"
)

// Store persists the progression snapshot in a local SQLite file
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and migrates it
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("open sqlite: create dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer keeps SQLite from returning SQLITE_BUSY under concurrent saves
	db.SetMaxOpenConns(1)

	if err := Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// New wraps an already migrated database handle
func New(db *sql.DB) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	return &Store{db: db}, nil
}

// LoadState implements repository.Progression
func (s *Store) LoadState(ctx context.Context) (domain.ProgressionState, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT snapshot FROM progression_state WHERE id = 1`).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ProgressionState{}, domain.ErrStateNotFound
	}
	if err != nil {
		return domain.ProgressionState{}, fmt.Errorf("load state: query: %w", err)
	}

	var state domain.ProgressionState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return domain.ProgressionState{}, fmt.Errorf("load state: decode: %w", err)
	}
	return state.Clone(), nil
}

// SaveState implements repository.Progression
func (s *Store) SaveState(ctx context.Context, state domain.ProgressionState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("save state: encode: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO progression_state (id, snapshot, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET snapshot = excluded.snapshot, updated_at = excluded.updated_at`,
		string(raw), now)
	if err != nil {
		return fmt.Errorf("save state: upsert: %w", err)
	}
	return nil
}

// GetMeta implements repository.Progression
func (s *Store) GetMeta(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM app_meta WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get meta: query: %w", err)
	}
	return value, true, nil
}

// SetMeta implements repository.Progression
func (s *Store) SetMeta(ctx context.Context, key, value string) error {
	if key == "" {
		return fmt.Errorf("set meta: key is empty")
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO app_meta (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, now)
	if err != nil {
		return fmt.Errorf("set meta: upsert: %w", err)
	}
	return nil
}

// Ping checks that the database is reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close implements repository.Progression
func (s *Store) Close() error {
	return s.db.Close()
}
