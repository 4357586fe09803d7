package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/osse101/CommentGarden_Go/internal/discord"
	"github.com/osse101/CommentGarden_Go/internal/event"
	"github.com/osse101/CommentGarden_Go/internal/metrics"
	"github.com/osse101/CommentGarden_Go/internal/sse"
)

// EventHandlerDependencies are the optional consumers of bus events.
// A nil Hub or Notifier is skipped.
type EventHandlerDependencies struct {
	EventBus event.Bus
	Hub      *sse.Hub
	Notifier *discord.Notifier
}

// busConsumer attaches one component to the bus
type busConsumer struct {
	registered string
	attach     func(event.Bus) error
}

func (d EventHandlerDependencies) consumers() []busConsumer {
	out := []busConsumer{{
		registered: LogMsgMetricsCollectorRegistered,
		attach: func(bus event.Bus) error {
			if err := metrics.NewEventMetricsCollector().Register(bus); err != nil {
				return fmt.Errorf("%s: %w", ErrMsgFailedRegisterMetrics, err)
			}
			return nil
		},
	}}

	if d.Hub != nil {
		out = append(out, busConsumer{
			registered: LogMsgSSESubscriberRegistered,
			attach: func(bus event.Bus) error {
				sse.Relay(bus, d.Hub)
				return nil
			},
		})
	}
	if d.Notifier != nil {
		out = append(out, busConsumer{
			registered: LogMsgDiscordNotifierRegistered,
			attach: func(bus event.Bus) error {
				d.Notifier.Subscribe(bus)
				return nil
			},
		})
	}
	return out
}

// RegisterEventHandlers attaches metrics, the SSE relay and the Discord
// notifier to the bus, stopping at the first failure.
func RegisterEventHandlers(deps EventHandlerDependencies) error {
	for _, c := range deps.consumers() {
		if err := c.attach(deps.EventBus); err != nil {
			return err
		}
		slog.Info(c.registered)
	}
	return nil
}
