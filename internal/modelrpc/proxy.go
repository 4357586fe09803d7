package modelrpc

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/CommentGarden_Go/internal/domain"
	"github.com/osse101/CommentGarden_Go/internal/logger"
	"github.com/osse101/CommentGarden_Go/internal/metrics"
)

// Config tunes the proxy's handshake and retry behaviour
type Config struct {
	GraceTimeout time.Duration
	MaxAttempts  int
	RetryDelay   time.Duration
}

// DefaultConfig returns the standard handshake and retry settings
func DefaultConfig() Config {
	return Config{
		GraceTimeout: DefaultGraceTimeout,
		MaxAttempts:  DefaultMaxAttempts,
		RetryDelay:   DefaultRetryDelay,
	}
}

// Proxy owns the lifecycle of the out-of-process model worker and correlates
// requests with replies arriving on the shared inbound channel.
type Proxy struct {
	transport Transport
	host      Host
	cfg       Config

	mu      sync.Mutex
	pending map[string]chan Message

	ready     chan struct{}
	readyOnce sync.Once

	initMu sync.Mutex
	warm   atomic.Bool

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewProxy creates a proxy and starts dispatching inbound messages
func NewProxy(transport Transport, host Host, cfg Config) *Proxy {
	if host == nil {
		host = ExternalHost{}
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	p := &Proxy{
		transport: transport,
		host:      host,
		cfg:       cfg,
		pending:   make(map[string]chan Message),
		ready:     make(chan struct{}),
		done:      make(chan struct{}),
	}
	p.wg.Add(1)
	go p.dispatch()
	return p
}

// Initialize makes sure the worker exists, waits briefly for its READY signal
// and warms it up. Concurrent and repeated calls are safe.
func (p *Proxy) Initialize(ctx context.Context) error {
	p.initMu.Lock()
	defer p.initMu.Unlock()

	log := logger.FromContext(ctx)

	if !p.host.Exists(ctx) {
		if err := p.host.Create(ctx); err != nil {
			return fmt.Errorf("create model worker: %w", err)
		}
		p.warm.Store(false)
	}
	if p.warm.Load() {
		return nil
	}

	if c, ok := p.transport.(Connector); ok {
		// A refused connection here is expected while the worker boots
		_ = c.Connect(ctx)
	}

	timer := time.NewTimer(p.cfg.GraceTimeout)
	select {
	case <-p.ready:
		timer.Stop()
	case <-timer.C:
		log.Debug(LogMsgReadyGraceExpired, "grace", p.cfg.GraceTimeout)
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	}

	err := withRetry(ctx, p.cfg.MaxAttempts, p.cfg.RetryDelay, func() error {
		_, err := p.call(ctx, TypeWarmup, nil)
		return err
	})
	if err != nil {
		return fmt.Errorf("warm up model worker: %w", err)
	}

	p.warm.Store(true)
	log.Info(LogMsgWorkerWarm)
	return nil
}

// Ping reports whether the worker has been warmed up. It never starts the worker.
func (p *Proxy) Ping(context.Context) error {
	select {
	case <-p.done:
		return domain.ErrWorkerClosed
	default:
	}
	if !p.warm.Load() {
		return ErrWorkerNotWarm
	}
	return nil
}

// Classify asks the worker for a label, initializing it first if needed
func (p *Proxy) Classify(ctx context.Context, text string) (Prediction, error) {
	if err := p.Initialize(ctx); err != nil {
		return Prediction{}, err
	}

	payload, err := json.Marshal(ClassifyPayload{Text: text})
	if err != nil {
		return Prediction{}, err
	}

	var resp Message
	err = withRetry(ctx, p.cfg.MaxAttempts, p.cfg.RetryDelay, func() error {
		var callErr error
		resp, callErr = p.call(ctx, TypeClassify, payload)
		return callErr
	})
	if err != nil {
		return Prediction{}, err
	}

	var pred Prediction
	if err := json.Unmarshal(resp.Result, &pred); err != nil {
		return Prediction{}, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	return pred, nil
}

// Pending returns how many calls are awaiting a reply
func (p *Proxy) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}

// Close stops dispatching and closes the transport. Outstanding calls fail
// with domain.ErrWorkerClosed.
func (p *Proxy) Close() error {
	var err error
	p.closeOnce.Do(func() {
		close(p.done)
		err = p.transport.Close()
		p.wg.Wait()
	})
	return err
}

// call sends one request and waits for the reply with the same id
func (p *Proxy) call(ctx context.Context, msgType string, payload json.RawMessage) (Message, error) {
	id := uuid.NewString()
	replies := make(chan Message, 1)

	p.mu.Lock()
	p.pending[id] = replies
	p.mu.Unlock()
	metrics.RPCPending.Inc()

	defer func() {
		p.mu.Lock()
		delete(p.pending, id)
		p.mu.Unlock()
		metrics.RPCPending.Dec()
	}()

	req := Message{Target: Peer, ID: id, Type: msgType, Payload: payload}
	if err := p.transport.Send(ctx, req); err != nil {
		return Message{}, err
	}

	select {
	case resp := <-replies:
		if !resp.OK {
			return Message{}, fmt.Errorf("%w: %s", domain.ErrWorkerCallFailed, resp.Error)
		}
		return resp, nil
	case <-ctx.Done():
		return Message{}, ctx.Err()
	case <-p.done:
		return Message{}, domain.ErrWorkerClosed
	}
}

func (p *Proxy) dispatch() {
	defer p.wg.Done()
	inbound := p.transport.Inbound()
	for {
		select {
		case <-p.done:
			return
		case msg, ok := <-inbound:
			if !ok {
				return
			}
			p.route(msg)
		}
	}
}

func (p *Proxy) route(msg Message) {
	log := logger.FromContext(context.Background())

	if msg.Source != Peer {
		log.Debug(LogMsgForeignMessage, "source", msg.Source, "type", msg.Type)
		return
	}

	if msg.Type == TypeReady && msg.ID == "" {
		p.readyOnce.Do(func() {
			close(p.ready)
			log.Info(LogMsgWorkerReady)
		})
		return
	}

	p.mu.Lock()
	replies, ok := p.pending[msg.ID]
	delete(p.pending, msg.ID)
	p.mu.Unlock()

	if !ok {
		log.Debug(LogMsgLateResponse, "id", msg.ID, "type", msg.Type)
		return
	}
	replies <- msg
}
