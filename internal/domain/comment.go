package domain

import "time"

// Platform names used by the built-in capture sources
const (
	PlatformUnknown = "unknown"
	PlatformDiscord = "discord"
	PlatformAPI     = "api"
)

// Comment is a captured piece of user text waiting to be scored.
type Comment struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Platform  string    `json:"platform"`
	URL       string    `json:"url"`
	Timestamp time.Time `json:"timestamp"`
	Processed bool      `json:"processed"`
}

// CommentRecord is the audit entry written for every applied comment.
// Impact holds the signed progression score, not the classifier impact.
type CommentRecord struct {
	ID              string    `json:"id"`
	Text            string    `json:"text"`
	Platform        string    `json:"platform"`
	URL             string    `json:"url"`
	Sentiment       Sentiment `json:"sentiment"`
	Impact          int       `json:"impact"`
	Category        Category  `json:"category"`
	Confidence      float64   `json:"confidence"`
	Timestamp       time.Time `json:"timestamp"`
	SyncedToBackend bool      `json:"synced_to_backend"`
	BackendID       string    `json:"backend_id,omitempty"`
}
