package queue

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/CommentGarden_Go/internal/detection"
	"github.com/osse101/CommentGarden_Go/internal/domain"
	"github.com/osse101/CommentGarden_Go/internal/logger"
	"github.com/osse101/CommentGarden_Go/internal/metrics"
	"github.com/osse101/CommentGarden_Go/internal/progression"
	"github.com/osse101/CommentGarden_Go/internal/worker"
)

// Applier folds a classified comment into the progression state
type Applier interface {
	ApplyComment(ctx context.Context, comment domain.Comment, result domain.ClassificationResult) (progression.Outcome, error)
}

// Dispatcher runs drains off the caller's goroutine
type Dispatcher interface {
	TryEnqueue(job worker.Job) bool
}

// Status summarizes the queue for the status endpoint
type Status struct {
	Pending   int  `json:"pending"`
	Processed int  `json:"processed"`
	Total     int  `json:"total"`
	Draining  bool `json:"draining"`
}

type entry struct {
	comment    domain.Comment
	enqueuedAt time.Time
}

// Option configures a Queue
type Option func(*Queue)

// WithClock overrides the time source used for timestamps and retention
func WithClock(now func() time.Time) Option {
	return func(q *Queue) { q.now = now }
}

// WithRetention sets how long processed comments are kept
func WithRetention(d time.Duration) Option {
	return func(q *Queue) { q.retention = d }
}

// WithMaxPending caps the number of unprocessed comments
func WithMaxPending(n int) Option {
	return func(q *Queue) { q.maxPending = n }
}

// WithDispatcher hands drains triggered by Enqueue to a worker pool.
// Without one, Enqueue drains synchronously.
func WithDispatcher(d Dispatcher) Option {
	return func(q *Queue) { q.dispatcher = d }
}

// Queue serializes comment processing. Only one drain runs at a time and
// every comment is applied exactly once.
type Queue struct {
	analyzer   detection.Analyzer
	applier    Applier
	dispatcher Dispatcher

	now        func() time.Time
	retention  time.Duration
	maxPending int

	mu       sync.Mutex
	items    []*entry
	draining atomic.Bool
}

// New creates a comment queue
func New(analyzer detection.Analyzer, applier Applier, opts ...Option) *Queue {
	q := &Queue{
		analyzer:   analyzer,
		applier:    applier,
		now:        func() time.Time { return time.Now().UTC() },
		retention:  DefaultRetention,
		maxPending: DefaultMaxPending,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Enqueue appends a comment and triggers a drain. Missing ids, timestamps
// and platforms are filled in.
func (q *Queue) Enqueue(ctx context.Context, c domain.Comment) (domain.Comment, error) {
	c.Text = strings.TrimSpace(c.Text)
	if c.Text == "" {
		return domain.Comment{}, domain.ErrEmptyComment
	}

	now := q.now()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Timestamp.IsZero() {
		c.Timestamp = now
	}
	if c.Platform == "" {
		c.Platform = domain.PlatformUnknown
	}
	c.Processed = false

	q.mu.Lock()
	pending := q.pendingLocked()
	if q.maxPending > 0 && pending >= q.maxPending {
		q.mu.Unlock()
		return domain.Comment{}, fmt.Errorf("%w: %d pending", domain.ErrQueueFull, pending)
	}
	q.items = append(q.items, &entry{comment: c, enqueuedAt: now})
	metrics.QueueDepth.Set(float64(pending + 1))
	q.mu.Unlock()

	logger.FromContext(ctx).Debug(LogMsgCommentEnqueued, logger.AttrKeyCommentID, c.ID, "platform", c.Platform)

	if q.dispatcher != nil {
		q.dispatcher.TryEnqueue(worker.JobFunc(func(jobCtx context.Context) error {
			q.DrainOnce(jobCtx)
			return nil
		}))
	} else {
		q.DrainOnce(ctx)
	}
	return c, nil
}

// DrainOnce processes every unprocessed comment in FIFO order and then
// purges processed comments past retention. It returns the number of
// comments applied, or 0 when another drain is already running.
func (q *Queue) DrainOnce(ctx context.Context) int {
	if !q.draining.CompareAndSwap(false, true) {
		logger.FromContext(ctx).Debug(LogMsgDrainSkipped)
		return 0
	}
	defer q.draining.Store(false)

	ctx = logger.WithNewRequestID(ctx)
	log := logger.FromContext(ctx)
	start := time.Now()

	applied := 0
	for {
		batch := q.takePending()
		if len(batch) == 0 {
			break
		}
		log.Debug(LogMsgDrainStarted, "batch", len(batch))
		for _, e := range batch {
			q.process(ctx, e)
			applied++
		}
	}

	purged := q.purge()
	if purged > 0 {
		log.Debug(LogMsgItemsPurged, "count", purged)
	}
	if applied > 0 {
		metrics.DrainDuration.Observe(time.Since(start).Seconds())
		log.Info(LogMsgDrainCompleted, "applied", applied)
	}
	return applied
}

func (q *Queue) process(ctx context.Context, e *entry) {
	q.mu.Lock()
	comment := e.comment
	q.mu.Unlock()

	result := q.analyzer.Analyze(ctx, comment.Text)
	if _, err := q.applier.ApplyComment(ctx, comment, result); err != nil {
		logger.FromContext(ctx).Error(LogMsgApplyFailed, logger.AttrKeyCommentID, comment.ID, "error", err)
	}

	q.mu.Lock()
	e.comment.Processed = true
	metrics.QueueDepth.Set(float64(q.pendingLocked()))
	q.mu.Unlock()
}

// takePending returns the unprocessed entries in arrival order
func (q *Queue) takePending() []*entry {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []*entry
	for _, e := range q.items {
		if !e.comment.Processed {
			out = append(out, e)
		}
	}
	return out
}

// purge drops processed entries older than the retention window
func (q *Queue) purge() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	cutoff := q.now().Add(-q.retention)
	kept := q.items[:0]
	for _, e := range q.items {
		if e.comment.Processed && e.enqueuedAt.Before(cutoff) {
			continue
		}
		kept = append(kept, e)
	}
	purged := len(q.items) - len(kept)
	for i := len(kept); i < len(q.items); i++ {
		q.items[i] = nil
	}
	q.items = kept
	return purged
}

func (q *Queue) pendingLocked() int {
	n := 0
	for _, e := range q.items {
		if !e.comment.Processed {
			n++
		}
	}
	return n
}

// Status reports the current queue counters
func (q *Queue) Status() Status {
	q.mu.Lock()
	defer q.mu.Unlock()
	pending := q.pendingLocked()
	return Status{
		Pending:   pending,
		Processed: len(q.items) - pending,
		Total:     len(q.items),
		Draining:  q.draining.Load(),
	}
}

// Snapshot returns a copy of every retained comment, oldest first
func (q *Queue) Snapshot() []domain.Comment {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]domain.Comment, len(q.items))
	for i, e := range q.items {
		out[i] = e.comment
	}
	return out
}
