package sse

import (
	"context"
	"slices"

	"github.com/osse101/CommentGarden_Go/internal/event"
	"github.com/osse101/CommentGarden_Go/internal/logger"
)

// Relay forwards bus events of the given types to the hub, or every published
// type when none are given. Payloads go out as-is; they carry their own JSON
// tags. It returns the types it subscribed to.
func Relay(bus event.Bus, hub *Hub, types ...event.Type) []event.Type {
	if len(types) == 0 {
		types = slices.Clone(event.AllTypes)
	}

	forward := func(ctx context.Context, evt event.Event) error {
		hub.Broadcast(string(evt.Type), evt.Payload)
		logger.FromContext(ctx).Debug(LogMsgEventBroadcast,
			"event_type", evt.Type,
			"clients", hub.ClientCount())
		return nil
	}
	for _, t := range types {
		bus.Subscribe(t, forward)
	}

	logger.FromContext(context.Background()).Info(LogMsgSubscribed, "types", types)
	return types
}
