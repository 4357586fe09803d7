package metrics

import (
	"context"

	"github.com/osse101/CommentGarden_Go/internal/domain"
	"github.com/osse101/CommentGarden_Go/internal/event"
	"github.com/osse101/CommentGarden_Go/internal/logger"
)

// recorder updates gauges and counters for one event type
type recorder func(ctx context.Context, evt event.Event)

// decoded adapts a typed recorder. Payloads of the wrong shape are logged
// and skipped; metrics never fail a publish.
func decoded[T any](record func(T)) recorder {
	return func(ctx context.Context, evt event.Event) {
		p, err := event.DecodePayload[T](evt.Payload)
		if err != nil {
			logger.FromContext(ctx).Debug(LogMsgEventPayloadUnexpected, "type", evt.Type, "error", err)
			return
		}
		record(p)
	}
}

// EventMetricsCollector turns bus events into Prometheus series
type EventMetricsCollector struct {
	recorders map[event.Type]recorder
}

// NewEventMetricsCollector creates a collector covering every published type
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{recorders: map[event.Type]recorder{
		event.CommentProcessed: decoded(func(p event.CommentProcessedPayloadV1) {
			CommentsProcessed.WithLabelValues(string(domain.ParseSentiment(string(p.Sentiment)))).Inc()
			if p.TreeID != "" {
				setTreeVitals(p.Health, p.GrowthProgress)
			}
		}),
		event.TreePlanted: decoded(func(p event.TreePayloadV1) { setTreeVitals(p.Health, p.GrowthProgress) }),
		event.TreeRevived: decoded(func(p event.TreePayloadV1) { setTreeVitals(p.Health, p.GrowthProgress) }),
		event.TreeDied: func(context.Context, event.Event) {
			TreeDeaths.Inc()
			TreeHealth.Set(0)
		},
		event.WeekRolledOver: decoded(func(p event.WeekRolledOverPayloadV1) {
			LastWeekRank.Set(float64(p.Rank))
		}),
		event.TicketAwarded: func(context.Context, event.Event) { TicketsAwarded.Inc() },
		event.LotteryEntered: decoded(func(p event.LotteryEnteredPayloadV1) {
			LotteryEntries.WithLabelValues(p.Prize).Inc()
		}),
	}}
}

func setTreeVitals(health, growth int) {
	TreeHealth.Set(float64(health))
	TreeGrowth.Set(float64(growth))
}

// Register subscribes to every published event type
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	for _, t := range event.AllTypes {
		bus.Subscribe(t, e.HandleEvent)
	}
	return nil
}

// HandleEvent counts the event and applies its type-specific recorder
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()
	if record, ok := e.recorders[evt.Type]; ok {
		record(ctx, evt)
	}
	logger.FromContext(ctx).Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
