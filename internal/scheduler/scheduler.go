package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/CommentGarden_Go/internal/logger"
	"github.com/osse101/CommentGarden_Go/internal/worker"
)

// Log messages
const (
	LogMsgJobScheduled = "Periodic job scheduled"
	LogMsgJobSkipped   = "Periodic job skipped, worker queue full"
)

// Dispatcher accepts jobs without blocking
type Dispatcher interface {
	TryEnqueue(job worker.Job) bool
}

type entry struct {
	name     string
	interval time.Duration
	job      worker.Job
}

// Scheduler hands named jobs to the worker pool at fixed intervals.
// A tick that finds the pool full is dropped rather than queued behind the
// previous run.
type Scheduler struct {
	pool    Dispatcher
	entries []entry
	quit    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
	started bool
	mu      sync.Mutex
}

// New creates a new scheduler
func New(pool Dispatcher) *Scheduler {
	return &Scheduler{
		pool: pool,
		quit: make(chan struct{}),
	}
}

// Schedule registers a job to run every interval. Jobs registered after Start
// begin ticking immediately.
func (s *Scheduler) Schedule(name string, interval time.Duration, job worker.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := entry{name: name, interval: interval, job: worker.Named(name, job)}
	s.entries = append(s.entries, e)
	if s.started {
		s.run(e)
	}
}

// Start begins ticking every registered job
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}
	s.started = true
	for _, e := range s.entries {
		s.run(e)
	}
}

func (s *Scheduler) run(e entry) {
	logger.FromContext(context.Background()).Info(LogMsgJobScheduled, "job", e.name, "interval", e.interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(e.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if !s.pool.TryEnqueue(e.job) {
					logger.FromContext(context.Background()).Debug(LogMsgJobSkipped, "job", e.name)
				}
			case <-s.quit:
				return
			}
		}
	}()
}

// Stop stops all scheduled jobs
func (s *Scheduler) Stop() {
	s.once.Do(func() { close(s.quit) })
	s.wg.Wait()
}
