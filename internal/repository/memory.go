package repository

import (
	"context"
	"sync"

	"github.com/osse101/CommentGarden_Go/internal/domain"
)

// MemoryProgression keeps the snapshot in process memory. It backs tests and
// the one-shot analyze command.
type MemoryProgression struct {
	mu    sync.RWMutex
	state *domain.ProgressionState
	meta  map[string]string
	saves int
}

// NewMemoryProgression creates an empty in-memory store
func NewMemoryProgression() *MemoryProgression {
	return &MemoryProgression{meta: make(map[string]string)}
}

// LoadState implements Progression
func (m *MemoryProgression) LoadState(_ context.Context) (domain.ProgressionState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state == nil {
		return domain.ProgressionState{}, domain.ErrStateNotFound
	}
	return m.state.Clone(), nil
}

// SaveState implements Progression
func (m *MemoryProgression) SaveState(_ context.Context, state domain.ProgressionState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := state.Clone()
	m.state = &cp
	m.saves++
	return nil
}

// GetMeta implements Progression
func (m *MemoryProgression) GetMeta(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.meta[key]
	return v, ok, nil
}

// SetMeta implements Progression
func (m *MemoryProgression) SetMeta(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.meta[key] = value
	return nil
}

// Saves reports how many times SaveState was called
func (m *MemoryProgression) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

// Close implements Progression
func (m *MemoryProgression) Close() error { return nil }
