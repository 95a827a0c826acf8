package proto

import "github.com/google/uuid"

type MessageType string

const (
	MessageTypePing MessageType = "ping"
	MessageTypePong MessageType = "pong"

	// MessageTypeSilent asks the client to sync in the background
	MessageTypeSilent MessageType = "silent"
	// MessageTypeAlert carries a user visible notification
	MessageTypeAlert MessageType = "alert"

	MessageTypeError MessageType = "error"
)

type Message struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

type AlertPayload struct {
	// MessageID identifies the alert so it is shown only once
	MessageID uuid.UUID `json:"message_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}
