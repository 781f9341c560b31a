package websocket

import (
	"time"

	"wavelink/server/internal/models"
)

// EventType represents different WebSocket event types
type EventType string

const (
	// Message events
	EventMessageNew EventType = "message_new"

	// Contact graph events
	EventContactRequest  EventType = "contact_request"
	EventContactsChanged EventType = "contacts_changed"

	// Presence events
	EventUserOnline  EventType = "user_online"
	EventUserOffline EventType = "user_offline"

	// Typing events
	EventTypingStart EventType = "typing_start"
	EventTypingStop  EventType = "typing_stop"

	// Call signaling (stub: offers are relayed, answers stay client-local)
	EventCallOffer EventType = "call_offer"

	// Error events
	EventError EventType = "error"
)

// WSMessage represents a WebSocket message structure
type WSMessage struct {
	Type      EventType   `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// PresencePayload represents user presence payload
type PresencePayload struct {
	UserID   string    `json:"userId"`
	IsOnline bool      `json:"isOnline"`
	LastSeen time.Time `json:"lastSeen,omitempty"`
}

// TypingPayload represents typing indicator payload
type TypingPayload struct {
	UserID string `json:"userId"`
	RoomID string `json:"roomId"`
}

// CallOfferPayload carries a call intent. No media is negotiated; the modal
// state machine on the receiving client does the rest.
type CallOfferPayload struct {
	CallType     string `json:"callType"` // "audio" or "video"
	CallerID     string `json:"callerId"`
	CallerName   string `json:"callerName"`
	CallerAvatar string `json:"callerAvatar"`
	RecipientID  string `json:"recipientId"` // user id or "general" for the room
}

// ContactRequestPayload notifies a recipient of a new pending request.
type ContactRequestPayload struct {
	Request models.ContactRequestWithSender `json:"request"`
}

// ContactsChangedPayload tells affected users to refresh their contact list.
type ContactsChangedPayload struct {
	UserIDs []string `json:"userIds"`
}

// ErrorPayload represents error event payload
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// IncomingMessage represents messages received from clients
type IncomingMessage struct {
	Type    EventType              `json:"type"`
	Payload map[string]interface{} `json:"payload"`
}
