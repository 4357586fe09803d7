package modelrpc

import "encoding/json"

// Peer names the model worker on both ends of the channel
const Peer = "offscreen-detector"

// Message types
const (
	TypeReady    = "READY"
	TypeWarmup   = "warmup"
	TypeClassify = "classify"
)

// Message is the envelope exchanged with the model worker. Requests carry
// Target, replies and READY carry Source. READY has no ID.
type Message struct {
	Target  string          `json:"target,omitempty"`
	Source  string          `json:"source,omitempty"`
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
	OK      bool            `json:"ok"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// ClassifyPayload is the body of a classify request
type ClassifyPayload struct {
	Text string `json:"text"`
}

// Prediction is the worker's answer to a classify request
type Prediction struct {
	Category string  `json:"category"`
	Score    float64 `json:"score"`
}
