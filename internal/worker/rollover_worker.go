package worker

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/CommentGarden_Go/internal/logger"
	"github.com/osse101/CommentGarden_Go/internal/progression"
)

// RolloverService applies the weekly reset
type RolloverService interface {
	RollOver(ctx context.Context) (progression.Rollover, error)
}

// RolloverWorker applies the weekly reset every Monday 00:00 UTC so tickets
// are awarded even when no comment arrives to trigger it.
type RolloverWorker struct {
	service RolloverService
	now     func() time.Time
	timer   *time.Timer
	stopped bool
	wg      sync.WaitGroup
	mu      sync.Mutex
}

// NewRolloverWorker creates a weekly rollover worker
func NewRolloverWorker(service RolloverService) *RolloverWorker {
	return &RolloverWorker{
		service: service,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Start catches up on a missed rollover and schedules the next one
func (w *RolloverWorker) Start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.execute()
	}()
}

func (w *RolloverWorker) scheduleNext() {
	now := w.now()
	next := progression.NextWeekStart(now)
	duration := next.Sub(now)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	w.timer = time.AfterFunc(duration, func() {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			w.execute()
		}()
	})

	logger.FromContext(context.Background()).Info(LogMsgRolloverScheduled,
		"next_rollover", next.Format(time.RFC3339),
		"duration", duration.String())
}

// execute runs one rollover and schedules the next
func (w *RolloverWorker) execute() {
	ctx := logger.WithNewRequestID(context.Background())
	log := logger.FromContext(ctx)

	ro, err := w.service.RollOver(ctx)
	if err != nil {
		log.Error(LogMsgRolloverFailed, "error", err)
	} else if ro.Happened {
		log.Info(LogMsgRolloverCompleted, "week", ro.CurrentWeek, "ticket_awarded", ro.TicketAwarded)
	}

	w.scheduleNext()
}

// Shutdown cancels the pending timer and waits for an in-flight rollover
func (w *RolloverWorker) Shutdown(ctx context.Context) error {
	w.mu.Lock()
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
