package event

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/CommentGarden_Go/internal/domain"
)

// Type represents the type of an event
type Type string

// Event represents a generic event in the system
type Event struct {
	Version  string                 `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type                   `json:"type"`
	Payload  interface{}            `json:"payload"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Event types published by the comment pipeline
const (
	CommentProcessed Type = domain.EventTypeCommentProcessed
	TreePlanted      Type = domain.EventTypeTreePlanted
	TreeDied         Type = domain.EventTypeTreeDied
	TreeRevived      Type = domain.EventTypeTreeRevived
	WeekRolledOver   Type = domain.EventTypeWeekRolledOver
	TicketAwarded    Type = domain.EventTypeTicketAwarded
	LotteryEntered   Type = domain.EventTypeLotteryEntered
)

// AllTypes lists every event type the application publishes
var AllTypes = []Type{
	CommentProcessed,
	TreePlanted,
	TreeDied,
	TreeRevived,
	WeekRolledOver,
	TicketAwarded,
	LotteryEntered,
}

// Typed event payloads for type safety

// CommentProcessedPayloadV1 is emitted once per applied comment
type CommentProcessedPayloadV1 struct {
	CommentID      string           `json:"comment_id"`
	Platform       string           `json:"platform"`
	Category       domain.Category  `json:"category"`
	Sentiment      domain.Sentiment `json:"sentiment"`
	Confidence     float64          `json:"confidence"`
	Score          int              `json:"score"`
	ModelUsed      domain.ModelUsed `json:"model_used"`
	TreeID         string           `json:"tree_id,omitempty"`
	Health         int              `json:"health"`
	GrowthProgress int              `json:"growth_progress"`
	TotalComments  int              `json:"total_comments"`
	Timestamp      int64            `json:"timestamp"`
}

// TreePayloadV1 describes a tree lifecycle change
type TreePayloadV1 struct {
	TreeID         string            `json:"tree_id"`
	Type           domain.TreeType   `json:"type"`
	Status         domain.TreeStatus `json:"status"`
	Health         int               `json:"health"`
	GrowthProgress int               `json:"growth_progress"`
	Timestamp      int64             `json:"timestamp"`
}

// WeekRolledOverPayloadV1 summarizes the week that just closed
type WeekRolledOverPayloadV1 struct {
	PreviousWeek  int  `json:"previous_week"`
	CurrentWeek   int  `json:"current_week"`
	Rank          int  `json:"rank"`
	TotalComments int  `json:"total_comments"`
	TicketAwarded bool `json:"ticket_awarded"`
	Tickets       int  `json:"tickets"`
}

// TicketAwardedPayloadV1 is emitted when a rollover earns a ticket
type TicketAwardedPayloadV1 struct {
	Week    int `json:"week"`
	Rank    int `json:"rank"`
	Tickets int `json:"tickets"`
}

// LotteryEnteredPayloadV1 records a lottery draw
type LotteryEnteredPayloadV1 struct {
	Prize        string `json:"prize"`
	Amount       int    `json:"amount"`
	TicketsSpent int    `json:"tickets_spent"`
	TicketsLeft  int    `json:"tickets_left"`
	Timestamp    int64  `json:"timestamp"`
}

// Type-safe event constructors

// NewCommentProcessedEvent creates a comment processed event
func NewCommentProcessedEvent(payload CommentProcessedPayloadV1) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    CommentProcessed,
		Payload: payload,
	}
}

// NewTreeEvent creates a tree lifecycle event of the given type
func NewTreeEvent(eventType Type, tree domain.TreeState, at time.Time) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    eventType,
		Payload: TreePayloadV1{
			TreeID:         tree.ID,
			Type:           tree.Type,
			Status:         tree.Status,
			Health:         tree.Health,
			GrowthProgress: tree.GrowthProgress,
			Timestamp:      at.Unix(),
		},
	}
}

// NewWeekRolledOverEvent creates a weekly rollover event
func NewWeekRolledOverEvent(payload WeekRolledOverPayloadV1) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    WeekRolledOver,
		Payload: payload,
	}
}

// NewTicketAwardedEvent creates a ticket awarded event
func NewTicketAwardedEvent(week, rank, tickets int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    TicketAwarded,
		Payload: TicketAwardedPayloadV1{
			Week:    week,
			Rank:    rank,
			Tickets: tickets,
		},
	}
}

// NewLotteryEnteredEvent creates a lottery event
func NewLotteryEnteredEvent(payload LotteryEnteredPayloadV1) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    LotteryEntered,
		Payload: payload,
	}
}

// DecodePayload decodes an event payload into T via type assertion then JSON fallback.
// In-process publishes already carry the struct; replayed dead-letter entries need the round-trip.
func DecodePayload[T any](input interface{}) (T, error) {
	if v, ok := input.(T); ok {
		return v, nil
	}
	var result T
	data, err := json.Marshal(input)
	if err != nil {
		return result, err
	}
	return result, json.Unmarshal(data, &result)
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish runs every subscriber synchronously and aggregates their errors
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[event.Type]...)
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
