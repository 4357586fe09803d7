package sse

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/CommentGarden_Go/internal/logger"
)

// Client is one connected event stream
type Client struct {
	ID     string
	Events chan Event

	// nil accepts every type
	filter      map[string]bool
	resume      bool
	resumeAfter uint64
}

func (c *Client) wants(eventType string) bool {
	return c.filter == nil || c.filter[eventType]
}

// Hub fans bus events out to stream clients and keeps a short history so a
// reconnecting client can pick up where it left off.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	history []Event

	broadcast  chan Event
	register   chan *Client
	unregister chan string
	shutdown   chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup

	now     func() time.Time
	seq     atomic.Uint64
	dropped atomic.Uint64
}

// NewHub creates a hub. Call Start before registering clients.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		history:    make([]Event, 0, ReplayHistorySize),
		broadcast:  make(chan Event, BroadcastBufferSize),
		register:   make(chan *Client, ControlBufferSize),
		unregister: make(chan string, ControlBufferSize),
		shutdown:   make(chan struct{}),
		now:        time.Now,
	}
}

// Start runs the hub loop
func (h *Hub) Start() {
	h.wg.Add(1)
	go h.run()
}

// Stop ends the loop and closes every client channel. Safe to call twice.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.shutdown)
		h.wg.Wait()

		h.mu.Lock()
		for id, c := range h.clients {
			close(c.Events)
			delete(h.clients, id)
		}
		h.mu.Unlock()
	})
}

func (h *Hub) run() {
	defer h.wg.Done()

	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c.ID] = c
			if c.resume {
				h.replayLocked(c)
			}
			h.mu.Unlock()

		case id := <-h.unregister:
			h.mu.Lock()
			if c, ok := h.clients[id]; ok {
				close(c.Events)
				delete(h.clients, id)
			}
			h.mu.Unlock()

		case evt := <-h.broadcast:
			h.mu.Lock()
			h.rememberLocked(evt)
			for _, c := range h.clients {
				if c.wants(evt.Type) {
					h.deliver(c, evt)
				}
			}
			h.mu.Unlock()

		case <-h.shutdown:
			return
		}
	}
}

// rememberLocked appends to the history ring, dropping the oldest entry when full
func (h *Hub) rememberLocked(evt Event) {
	if len(h.history) == ReplayHistorySize {
		copy(h.history, h.history[1:])
		h.history = h.history[:ReplayHistorySize-1]
	}
	h.history = append(h.history, evt)
}

func (h *Hub) replayLocked(c *Client) {
	for _, evt := range h.history {
		if evt.seq > c.resumeAfter && c.wants(evt.Type) {
			h.deliver(c, evt)
		}
	}
}

// deliver never blocks; a slow client misses the event instead of stalling the hub
func (h *Hub) deliver(c *Client, evt Event) {
	select {
	case c.Events <- evt:
	default:
		h.dropped.Add(1)
	}
}

// Register adds a client limited to eventTypes (all types when empty).
// lastEventID, when it names an event still in the history, replays everything
// after it. Register returns nil once the hub is stopped.
func (h *Hub) Register(eventTypes []string, lastEventID string) *Client {
	c := &Client{
		ID:     uuid.NewString(),
		Events: make(chan Event, ClientEventBuffer),
	}
	if len(eventTypes) > 0 {
		c.filter = make(map[string]bool, len(eventTypes))
		for _, t := range eventTypes {
			c.filter[t] = true
		}
	}
	if id, err := strconv.ParseUint(lastEventID, 10, 64); err == nil {
		c.resume, c.resumeAfter = true, id
	}

	select {
	case <-h.shutdown:
		return nil
	default:
	}

	select {
	case h.register <- c:
		return c
	case <-h.shutdown:
		return nil
	}
}

// Unregister removes a client and closes its channel
func (h *Hub) Unregister(clientID string) {
	select {
	case h.unregister <- clientID:
	case <-h.shutdown:
	}
}

// Broadcast queues an event for every interested client. Event ids increase
// monotonically so they can be used as Last-Event-ID.
func (h *Hub) Broadcast(eventType string, payload any) {
	seq := h.seq.Add(1)
	evt := Event{
		ID:        strconv.FormatUint(seq, 10),
		Type:      eventType,
		Timestamp: h.now().Unix(),
		Payload:   payload,
		seq:       seq,
	}

	select {
	case h.broadcast <- evt:
	default:
		h.dropped.Add(1)
		logger.FromContext(context.Background()).Warn(LogMsgEventDropped, "event_type", eventType, "event_id", evt.ID)
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Dropped counts events a client or the hub buffer had no room for
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}
