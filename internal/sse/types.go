package sse

import (
	"encoding/json"
	"strings"
)

// Event is one frame on the stream
type Event struct {
	ID        string `json:"id,omitempty"`
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
	Payload   any    `json:"payload"`

	seq uint64
}

// ConnectedPayload is the first frame every client receives
type ConnectedPayload struct {
	ClientID     string   `json:"client_id"`
	Filters      []string `json:"filters"`
	ResumedAfter string   `json:"resumed_after,omitempty"`
}

// FormatSSEMessage formats an SSE event for transmission:
// "id: <id>\nevent: <type>\ndata: <json>\n\n"
func FormatSSEMessage(event Event) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	if event.ID != "" {
		b.WriteString("id: " + event.ID + "\n")
	}
	b.WriteString("event: " + event.Type + "\n")
	b.WriteString("data: " + string(data) + "\n\n")
	return []byte(b.String()), nil
}

// parseTypes splits a comma separated filter, ignoring blanks
func parseTypes(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
