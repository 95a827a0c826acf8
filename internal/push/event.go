package push

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventTypeSync  EventType = "sync"
	EventTypeAlert EventType = "alert"
	EventTypeError EventType = "error"
)

// SyncEvent is emitted after a silent push has been handled
type SyncEvent struct {
	Timestamp time.Time
	Duration  time.Duration
	// Error is set when the update handler failed
	Error string
}

type AlertEvent struct {
	MessageID uuid.UUID
	Title     string
	Body      string
	Timestamp time.Time
}

type ErrorEvent struct {
	Error     string
	Timestamp time.Time

	// ConnectionFailed is set to true if the listener lost connection to the server
	ConnectionFailed bool
}

type Event struct {
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload"`
}
