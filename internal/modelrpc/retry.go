package modelrpc

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/osse101/CommentGarden_Go/internal/domain"
	"github.com/osse101/CommentGarden_Go/internal/logger"
	"github.com/osse101/CommentGarden_Go/internal/metrics"
)

var notListeningPattern = regexp.MustCompile(`(?i)receiving end does not exist|could not establish connection`)

// IsReceiverNotListening reports whether err means the worker has not
// attached its listener yet
func IsReceiverNotListening(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, domain.ErrReceiverNotListening) || notListeningPattern.MatchString(err.Error())
}

// withRetry runs fn up to attempts times, waiting delay*attempt between tries.
// Only startup-race errors are retried.
func withRetry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if !IsReceiverNotListening(err) || attempt == attempts {
			return err
		}

		metrics.RPCRetries.Inc()
		logger.FromContext(ctx).Debug(LogMsgRetrying, "attempt", attempt, "error", err)

		timer := time.NewTimer(delay * time.Duration(attempt))
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
	return err
}
