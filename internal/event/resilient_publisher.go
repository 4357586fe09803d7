package event

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/osse101/CommentGarden_Go/internal/logger"
)

type retryEntry struct {
	event     Event
	attempt   int
	lastErr   error
	notBefore time.Time
}

// ResilientPublisher wraps a Bus with background retries and a dead-letter file.
// Callers never block on retries: the first attempt is synchronous, later ones
// are handled by a single retry worker with exponential backoff.
type ResilientPublisher struct {
	bus        Bus
	retryQueue chan retryEntry
	maxRetries int
	retryDelay time.Duration
	deadLetter *DeadLetterWriter
	shutdown   chan struct{}
	closeOnce  sync.Once
	fileOnce   sync.Once
	closeErr   error
	wg         sync.WaitGroup
}

// NewResilientPublisher creates a publisher and starts its retry worker
func NewResilientPublisher(bus Bus, maxRetries int, retryDelay time.Duration, deadLetterPath string) (*ResilientPublisher, error) {
	dl, err := NewDeadLetterWriter(deadLetterPath)
	if err != nil {
		return nil, err
	}

	p := &ResilientPublisher{
		bus:        bus,
		retryQueue: make(chan retryEntry, RetryQueueBufferSize),
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		deadLetter: dl,
		shutdown:   make(chan struct{}),
	}

	p.wg.Add(1)
	go p.retryWorker()

	return p, nil
}

// Publish satisfies Bus. Delivery failures are absorbed by the retry worker.
func (p *ResilientPublisher) Publish(ctx context.Context, event Event) error {
	p.PublishWithRetry(ctx, event)
	return nil
}

// Subscribe delegates to the inner bus
func (p *ResilientPublisher) Subscribe(eventType Type, handler Handler) {
	p.bus.Subscribe(eventType, handler)
}

// PublishWithRetry attempts delivery once and queues a retry on failure
func (p *ResilientPublisher) PublishWithRetry(ctx context.Context, event Event) {
	err := p.bus.Publish(ctx, event)
	if err == nil {
		return
	}

	logger.FromContext(ctx).Warn(LogMsgEventPublishFailed,
		"event_type", event.Type,
		"error", err)

	p.enqueue(retryEntry{
		event:     event,
		attempt:   1,
		lastErr:   err,
		notBefore: time.Now().Add(CalculateRetryDelay(p.retryDelay, 1)),
	})
}

func (p *ResilientPublisher) enqueue(entry retryEntry) {
	select {
	case <-p.shutdown:
		p.writeDeadLetter(entry)
		return
	default:
	}

	select {
	case p.retryQueue <- entry:
	default:
		slog.Warn(LogMsgRetryQueueFull, "event_type", entry.event.Type)
		p.writeDeadLetter(entry)
	}
}

func (p *ResilientPublisher) retryWorker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.shutdown:
			p.drain()
			return
		case entry := <-p.retryQueue:
			if wait := time.Until(entry.notBefore); wait > 0 {
				timer := time.NewTimer(wait)
				select {
				case <-timer.C:
				case <-p.shutdown:
					timer.Stop()
					p.attempt(entry, true)
					p.drain()
					return
				}
			}
			p.attempt(entry, false)
		}
	}
}

// attempt publishes once. A failure is requeued unless retries are exhausted
// or the publisher is shutting down.
func (p *ResilientPublisher) attempt(entry retryEntry, final bool) {
	err := p.bus.Publish(context.Background(), entry.event)
	if err == nil {
		slog.Info(LogMsgEventRetrySucceeded,
			"event_type", entry.event.Type,
			"attempt", entry.attempt)
		return
	}

	entry.lastErr = err
	if final || entry.attempt >= p.maxRetries {
		slog.Warn(LogMsgEventRetryExhausted,
			"event_type", entry.event.Type,
			"attempts", entry.attempt)
		p.writeDeadLetter(entry)
		return
	}

	slog.Debug(LogMsgEventRetryFailed,
		"event_type", entry.event.Type,
		"attempt", entry.attempt,
		"error", err)

	entry.attempt++
	entry.notBefore = time.Now().Add(CalculateRetryDelay(p.retryDelay, entry.attempt))
	p.enqueue(entry)
}

// drain gives queued entries one last attempt during shutdown
func (p *ResilientPublisher) drain() {
	drained := 0
	for {
		select {
		case entry := <-p.retryQueue:
			p.attempt(entry, true)
			drained++
		default:
			if drained > 0 {
				slog.Info(LogMsgQueueDrainedShutdown, "count", drained)
			}
			return
		}
	}
}

func (p *ResilientPublisher) writeDeadLetter(entry retryEntry) {
	if err := p.deadLetter.Write(entry.event, entry.attempt, entry.lastErr); err != nil {
		slog.Error(LogMsgDeadLetterWriteFailed, "event_type", entry.event.Type, "error", err)
	}
}

// Shutdown stops the retry worker, flushing queued events, and closes the dead-letter file
func (p *ResilientPublisher) Shutdown(ctx context.Context) error {
	p.closeOnce.Do(func() { close(p.shutdown) })

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return p.closeFile()
	case <-ctx.Done():
		slog.Warn(LogMsgShutdownTimeout)
		return errors.Join(ctx.Err(), p.closeFile())
	}
}

func (p *ResilientPublisher) closeFile() error {
	p.fileOnce.Do(func() { p.closeErr = p.deadLetter.Close() })
	return p.closeErr
}
