package bootstrap

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/osse101/CommentGarden_Go/internal/config"
	"github.com/osse101/CommentGarden_Go/internal/event"
)

// InitializeEventSystem creates the in-memory bus and a publisher that retries
// failed deliveries before writing them to the dead-letter file.
func InitializeEventSystem(cfg *config.Config) (event.Bus, *event.ResilientPublisher, error) {
	path := cfg.DeadLetterPath
	if path == "" {
		path = config.DefaultDeadLetterPath
	}
	if err := os.MkdirAll(filepath.Dir(path), DirPermission); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", LogMsgFailedCreateDeadLetterDir, err)
	}

	// Leftovers are reported, never replayed
	if entries, skipped, err := event.ReadDeadLetters(path); err == nil && len(entries)+skipped > 0 {
		slog.Warn(LogMsgPendingDeadLetters, "path", path, "entries", len(entries), "unreadable", skipped)
	}

	bus := event.NewMemoryBus()
	publisher, err := event.NewResilientPublisher(bus, EventDefaultMaxRetries, EventDefaultRetryDelay, path)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", LogMsgFailedCreateResilientPublisher, err)
	}

	slog.Info(LogMsgEventSystemInitialized,
		"max_retries", EventDefaultMaxRetries,
		"retry_delay", EventDefaultRetryDelay,
		"deadletter_path", path)
	return bus, publisher, nil
}
