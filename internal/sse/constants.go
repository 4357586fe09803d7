package sse

import "time"

const (
	// BroadcastBufferSize bounds events waiting for the hub loop
	BroadcastBufferSize = 100

	// ClientEventBuffer is how far a client may fall behind before it misses events
	ClientEventBuffer = 50

	// ControlBufferSize buffers register and unregister requests
	ControlBufferSize = 10

	// ReplayHistorySize is how many recent events a reconnecting client can resume from
	ReplayHistorySize = 32

	KeepaliveInterval = 30 * time.Second
)

// Stream-only event types. Bus events keep their own type name.
const (
	EventTypeConnected = "connected"
	EventTypeKeepalive = "keepalive"
)

// Request parameters
const (
	// TypesQueryParam filters the stream, e.g. ?types=tree.died,ticket.awarded
	TypesQueryParam = "types"

	// LastEventIDHeader is sent by EventSource on reconnect
	LastEventIDHeader = "Last-Event-ID"

	// LastEventIDQueryParam serves clients that cannot set headers
	LastEventIDQueryParam = "last_event_id"
)

// Log messages
const (
	LogMsgClientConnected    = "SSE client connected"
	LogMsgClientDisconnected = "SSE client disconnected"
	LogMsgEventBroadcast     = "Broadcasting SSE event"
	LogMsgEventDropped       = "SSE broadcast buffer full, event dropped"
	LogMsgWriteError         = "Failed to write SSE event"
	LogMsgSubscribed         = "SSE subscriber registered for event types"
	LogMsgStreamUnsupported  = "SSE not supported"
)
