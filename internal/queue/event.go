// Package queue defines the served-question event and the background
// consumer that records it.
package queue

// QuestionServedEvent is published after a question was answered with 200.
// It is enough for downstream consumers to log or aggregate traffic without
// replaying the request.
type QuestionServedEvent struct {
	ID       string `json:"id"` // ksuid, sortable by creation time
	Question string `json:"question"`
	Path     string `json:"path"`
	RemoteIP string `json:"remote_ip"`
	Cache    string `json:"cache,omitempty"` // HIT or MISS when the cache is enabled
	ServedAt string `json:"served_at"`       // RFC 3339, UTC
}
