package sse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CommentGarden_Go/internal/event"
)

func TestRelay_DefaultsToEveryType(t *testing.T) {
	hub := NewHub()
	bus := event.NewMemoryBus()

	types := Relay(bus, hub)

	assert.ElementsMatch(t, event.AllTypes, types)
	types[0] = "mutated"
	assert.NotEqual(t, event.Type("mutated"), event.AllTypes[0])
}

func TestRelay_OnlyForwardsRequestedTypes(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	bus := event.NewMemoryBus()
	Relay(bus, hub, event.TreeDied)

	c := hub.Register(nil, "")
	require.NotNil(t, c)
	waitForClients(t, hub, 1)

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, event.Event{Type: event.TreePlanted}))
	require.NoError(t, bus.Publish(ctx, event.Event{Type: event.TreeDied, Payload: map[string]string{"tree_id": "t1"}}))

	evt := receive(t, c)
	assert.Equal(t, string(event.TreeDied), evt.Type)
	assert.Equal(t, map[string]string{"tree_id": "t1"}, evt.Payload)
}
