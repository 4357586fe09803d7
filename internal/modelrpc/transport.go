package modelrpc

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/osse101/CommentGarden_Go/internal/domain"
)

// Transport carries envelopes to and from the model worker
type Transport interface {
	Send(ctx context.Context, msg Message) error
	Inbound() <-chan Message
	Close() error
}

// Connector is implemented by transports that can open their link eagerly
type Connector interface {
	Connect(ctx context.Context) error
}

// WebSocketTransport talks to the worker over a websocket, dialing lazily and
// redialing after the worker goes away.
type WebSocketTransport struct {
	url    string
	dialer *websocket.Dialer

	mu   sync.Mutex
	conn *websocket.Conn

	inbound   chan Message
	closed    chan struct{}
	closeOnce sync.Once
}

// NewWebSocketTransport creates a transport for the worker at url (ws://host:port/path)
func NewWebSocketTransport(url string) *WebSocketTransport {
	return &WebSocketTransport{
		url:     url,
		dialer:  &websocket.Dialer{HandshakeTimeout: DefaultHandshakeLimit},
		inbound: make(chan Message, DefaultInboundBuffer),
		closed:  make(chan struct{}),
	}
}

// Connect implements Connector
func (t *WebSocketTransport) Connect(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := t.connLocked(ctx)
	return err
}

// Send implements Transport. Dial and write failures are reported as
// domain.ErrReceiverNotListening so the proxy treats them as a startup race.
func (t *WebSocketTransport) Send(ctx context.Context, msg Message) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	conn, err := t.connLocked(ctx)
	if err != nil {
		return err
	}

	deadline := time.Now().Add(DefaultWriteTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetWriteDeadline(deadline)

	if err := conn.WriteJSON(msg); err != nil {
		_ = conn.Close()
		t.conn = nil
		return fmt.Errorf("%w: %v", domain.ErrReceiverNotListening, err)
	}
	return nil
}

// Inbound implements Transport
func (t *WebSocketTransport) Inbound() <-chan Message {
	return t.inbound
}

// Close implements Transport
func (t *WebSocketTransport) Close() error {
	var err error
	t.closeOnce.Do(func() {
		close(t.closed)
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.conn != nil {
			err = t.conn.Close()
			t.conn = nil
		}
	})
	return err
}

func (t *WebSocketTransport) connLocked(ctx context.Context) (*websocket.Conn, error) {
	select {
	case <-t.closed:
		return nil, domain.ErrWorkerClosed
	default:
	}
	if t.conn != nil {
		return t.conn, nil
	}

	conn, _, err := t.dialer.DialContext(ctx, t.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrReceiverNotListening, err)
	}
	t.conn = conn
	go t.readLoop(conn)
	return conn, nil
}

func (t *WebSocketTransport) readLoop(conn *websocket.Conn) {
	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			slog.Default().Debug(LogMsgTransportReadError, "error", err)
			t.mu.Lock()
			if t.conn == conn {
				t.conn = nil
			}
			t.mu.Unlock()
			_ = conn.Close()
			return
		}
		select {
		case t.inbound <- msg:
		case <-t.closed:
			return
		}
	}
}
