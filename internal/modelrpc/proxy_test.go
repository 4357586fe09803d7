package modelrpc

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CommentGarden_Go/internal/domain"
)

// fakeTransport hands every request to respond, which may push replies to inbound
type fakeTransport struct {
	inbound chan Message
	sends   int32
	respond func(t *fakeTransport, msg Message) error
}

func newFakeTransport(respond func(t *fakeTransport, msg Message) error) *fakeTransport {
	return &fakeTransport{inbound: make(chan Message, 16), respond: respond}
}

func (f *fakeTransport) Send(_ context.Context, msg Message) error {
	atomic.AddInt32(&f.sends, 1)
	return f.respond(f, msg)
}

func (f *fakeTransport) Inbound() <-chan Message { return f.inbound }

func (f *fakeTransport) Close() error { return nil }

func (f *fakeTransport) Sends() int { return int(atomic.LoadInt32(&f.sends)) }

func (f *fakeTransport) reply(req Message, result interface{}) {
	data, _ := json.Marshal(result)
	f.inbound <- Message{Source: Peer, ID: req.ID, Type: req.Type, OK: true, Result: data}
}

// workerReplies answers warmup and classify like the real worker
func workerReplies(pred Prediction) func(*fakeTransport, Message) error {
	return func(f *fakeTransport, msg Message) error {
		switch msg.Type {
		case TypeWarmup:
			f.reply(msg, "ready")
		case TypeClassify:
			f.reply(msg, pred)
		}
		return nil
	}
}

type countingHost struct {
	mu      sync.Mutex
	created int
}

func (h *countingHost) Exists(context.Context) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.created > 0
}

func (h *countingHost) Create(context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.created++
	return nil
}

func fastConfig() Config {
	return Config{GraceTimeout: 20 * time.Millisecond, MaxAttempts: 5, RetryDelay: time.Millisecond}
}

func TestProxy_ClassifyRoundTrip(t *testing.T) {
	ft := newFakeTransport(workerReplies(Prediction{Category: "Hate Speech", Score: 0.97}))
	p := NewProxy(ft, ExternalHost{}, fastConfig())
	defer p.Close()

	pred, err := p.Classify(context.Background(), "kys")
	require.NoError(t, err)
	assert.Equal(t, "Hate Speech", pred.Category)
	assert.InDelta(t, 0.97, pred.Score, 1e-9)
	assert.Equal(t, 0, p.Pending())
}

func TestProxy_ReadyShortCircuitsGrace(t *testing.T) {
	ft := newFakeTransport(workerReplies(Prediction{}))
	cfg := fastConfig()
	cfg.GraceTimeout = 5 * time.Second
	p := NewProxy(ft, ExternalHost{}, cfg)
	defer p.Close()

	ft.inbound <- Message{Source: Peer, Type: TypeReady}

	start := time.Now()
	require.NoError(t, p.Initialize(context.Background()))
	assert.Less(t, time.Since(start), time.Second)
}

func TestProxy_GraceTimeoutStillWarmsUp(t *testing.T) {
	ft := newFakeTransport(workerReplies(Prediction{}))
	p := NewProxy(ft, ExternalHost{}, fastConfig())
	defer p.Close()

	require.NoError(t, p.Initialize(context.Background()))
	assert.Equal(t, 1, ft.Sends())
}

func TestProxy_PingTracksWarmth(t *testing.T) {
	ft := newFakeTransport(workerReplies(Prediction{}))
	p := NewProxy(ft, ExternalHost{}, fastConfig())

	assert.ErrorIs(t, p.Ping(context.Background()), ErrWorkerNotWarm)
	assert.Equal(t, 0, ft.Sends(), "ping must not start the worker")

	require.NoError(t, p.Initialize(context.Background()))
	assert.NoError(t, p.Ping(context.Background()))

	require.NoError(t, p.Close())
	assert.ErrorIs(t, p.Ping(context.Background()), domain.ErrWorkerClosed)
}

func TestProxy_InitializeIsIdempotent(t *testing.T) {
	ft := newFakeTransport(workerReplies(Prediction{}))
	host := &countingHost{}
	p := NewProxy(ft, host, fastConfig())
	defer p.Close()

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, p.Initialize(context.Background()))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, host.created)
	assert.Equal(t, 1, ft.Sends(), "warmup should only be sent once")
}

func TestProxy_RetriesWhileReceiverNotListening(t *testing.T) {
	var failures int32
	ft := newFakeTransport(func(f *fakeTransport, msg Message) error {
		if atomic.AddInt32(&failures, 1) <= 2 {
			return errors.New("Could not establish connection. Receiving end does not exist.")
		}
		f.reply(msg, "ready")
		return nil
	})
	p := NewProxy(ft, ExternalHost{}, fastConfig())
	defer p.Close()

	require.NoError(t, p.Initialize(context.Background()))
	assert.Equal(t, 3, ft.Sends())
	assert.Equal(t, 0, p.Pending(), "failed sends must not leave pending entries")
}

func TestProxy_RetryExhaustion(t *testing.T) {
	ft := newFakeTransport(func(*fakeTransport, Message) error {
		return domain.ErrReceiverNotListening
	})
	p := NewProxy(ft, ExternalHost{}, fastConfig())
	defer p.Close()

	err := p.Initialize(context.Background())
	require.ErrorIs(t, err, domain.ErrReceiverNotListening)
	assert.Equal(t, 5, ft.Sends())
}

func TestProxy_OtherErrorsAreNotRetried(t *testing.T) {
	ft := newFakeTransport(func(*fakeTransport, Message) error {
		return errors.New("boom")
	})
	p := NewProxy(ft, ExternalHost{}, fastConfig())
	defer p.Close()

	require.Error(t, p.Initialize(context.Background()))
	assert.Equal(t, 1, ft.Sends())
}

func TestProxy_WorkerErrorReply(t *testing.T) {
	ft := newFakeTransport(func(f *fakeTransport, msg Message) error {
		if msg.Type == TypeWarmup {
			f.reply(msg, "ready")
			return nil
		}
		f.inbound <- Message{Source: Peer, ID: msg.ID, OK: false, Error: "model not loaded"}
		return nil
	})
	p := NewProxy(ft, ExternalHost{}, fastConfig())
	defer p.Close()

	_, err := p.Classify(context.Background(), "hello")
	require.ErrorIs(t, err, domain.ErrWorkerCallFailed)
	assert.Contains(t, err.Error(), "model not loaded")
	assert.Equal(t, 2, ft.Sends(), "warmup plus one classify, no retry")
}

func TestProxy_LateResponseIsDropped(t *testing.T) {
	var held Message
	heldCh := make(chan struct{})
	ft := newFakeTransport(func(f *fakeTransport, msg Message) error {
		if msg.Type == TypeWarmup {
			f.reply(msg, "ready")
			return nil
		}
		held = msg
		close(heldCh)
		return nil
	})
	p := NewProxy(ft, ExternalHost{}, fastConfig())
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := p.Classify(ctx, "slow")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	<-heldCh
	assert.Equal(t, 0, p.Pending())

	// The reply arrives after the caller gave up
	ft.reply(held, Prediction{Category: "Normal", Score: 1})
	assert.Eventually(t, func() bool { return len(ft.inbound) == 0 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, p.Pending())
}

func TestProxy_IgnoresForeignMessages(t *testing.T) {
	ft := newFakeTransport(func(f *fakeTransport, msg Message) error {
		f.inbound <- Message{Source: "someone-else", ID: msg.ID, OK: true, Result: json.RawMessage(`"x"`)}
		f.reply(msg, "ready")
		return nil
	})
	p := NewProxy(ft, ExternalHost{}, fastConfig())
	defer p.Close()

	require.NoError(t, p.Initialize(context.Background()))
}

func TestProxy_CloseFailsOutstandingCalls(t *testing.T) {
	ft := newFakeTransport(func(*fakeTransport, Message) error { return nil })
	p := NewProxy(ft, ExternalHost{}, fastConfig())

	errCh := make(chan error, 1)
	go func() {
		errCh <- p.Initialize(context.Background())
	}()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, p.Close())

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, domain.ErrWorkerClosed)
	case <-time.After(time.Second):
		t.Fatal("Initialize did not return after Close")
	}
}

func TestIsReceiverNotListening(t *testing.T) {
	assert.True(t, IsReceiverNotListening(domain.ErrReceiverNotListening))
	assert.True(t, IsReceiverNotListening(errors.New("Error: Receiving end does not exist.")))
	assert.False(t, IsReceiverNotListening(errors.New("timeout")))
	assert.False(t, IsReceiverNotListening(nil))
}
