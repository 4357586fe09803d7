package worker

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/osse101/CommentGarden_Go/internal/logger"
)

// Job is a unit of background work
type Job interface {
	Process(ctx context.Context) error
}

// JobFunc adapts a function to Job
type JobFunc func(ctx context.Context) error

// Process implements Job
func (f JobFunc) Process(ctx context.Context) error { return f(ctx) }

// namedJob tags a job so its failures can be told apart in logs
type namedJob struct {
	name string
	Job
}

// Named wraps job so the pool logs it under name
func Named(name string, job Job) Job {
	return namedJob{name: name, Job: job}
}

func jobName(job Job) string {
	if n, ok := job.(namedJob); ok {
		return n.name
	}
	return JobNameAnonymous
}

// Stats is a snapshot of pool activity since start
type Stats struct {
	Queued    int
	Succeeded uint64
	Failed    uint64
	Panicked  uint64
}

// Pool runs jobs on a fixed set of goroutines fed by a bounded queue.
// A failing or panicking job never takes its worker down.
type Pool struct {
	size  int
	queue chan Job
	wg    sync.WaitGroup

	stopped  chan struct{}
	stopOnce sync.Once

	// cancelled on Stop so long-running jobs can bail out
	ctx    context.Context
	cancel context.CancelFunc

	succeeded atomic.Uint64
	failed    atomic.Uint64
	panicked  atomic.Uint64
}

// NewPool creates a pool of size workers with room for queueSize pending jobs
func NewPool(size, queueSize int) *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		size:    max(size, 1),
		queue:   make(chan Job, max(queueSize, 0)),
		stopped: make(chan struct{}),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the workers
func (p *Pool) Start() {
	p.wg.Add(p.size)
	for range p.size {
		go p.loop()
	}
}

func (p *Pool) loop() {
	defer p.wg.Done()
	for {
		select {
		case job := <-p.queue:
			p.run(job)
		case <-p.stopped:
			return
		}
	}
}

func (p *Pool) run(job Job) {
	ctx := logger.WithNewRequestID(p.ctx)
	name := jobName(job)

	defer func() {
		if r := recover(); r != nil {
			p.panicked.Add(1)
			logger.FromContext(ctx).Error(LogMsgWorkerJobPanicked,
				"job", name,
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()))
		}
	}()

	if err := job.Process(ctx); err != nil {
		p.failed.Add(1)
		logger.FromContext(ctx).Error(LogMsgWorkerJobFailed, "job", name, "error", err)
		return
	}
	p.succeeded.Add(1)
}

// Enqueue blocks until the job is queued. It returns false once the pool is stopped.
func (p *Pool) Enqueue(job Job) bool {
	select {
	case <-p.stopped:
		return false
	default:
	}
	select {
	case p.queue <- job:
		return true
	case <-p.stopped:
		return false
	}
}

// TryEnqueue queues the job only if there is room
func (p *Pool) TryEnqueue(job Job) bool {
	select {
	case <-p.stopped:
		return false
	default:
	}
	select {
	case p.queue <- job:
		return true
	default:
		logger.FromContext(p.ctx).Debug(LogMsgWorkerQueueFull, "job", jobName(job))
		return false
	}
}

// Stats reports queue depth and outcome counters
func (p *Pool) Stats() Stats {
	return Stats{
		Queued:    len(p.queue),
		Succeeded: p.succeeded.Load(),
		Failed:    p.failed.Load(),
		Panicked:  p.panicked.Load(),
	}
}

// Stop cancels running jobs and waits for every worker to exit. Jobs still
// queued are discarded.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopped)
		p.cancel()
	})
	p.wg.Wait()
}
