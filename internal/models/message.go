package models

import "time"

// Message is immutable once created except for the read flag.
type Message struct {
	ID         string    `json:"id" db:"id"`
	SenderID   string    `json:"senderId" db:"sender_id"`
	ChatRoomID string    `json:"chatRoomId" db:"chat_room_id"`
	ClientID   *string   `json:"clientId,omitempty" db:"client_id"` // client-generated, for optimistic echo dedup
	Content    string    `json:"content" db:"content"`
	IsRead     bool      `json:"isRead" db:"is_read"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// MessageWithSender includes resolved sender display information.
type MessageWithSender struct {
	ID           string    `json:"id"`
	SenderID     string    `json:"senderId"`
	ChatRoomID   string    `json:"chatRoomId"`
	ClientID     *string   `json:"clientId,omitempty"`
	Content      string    `json:"content"`
	IsRead       bool      `json:"isRead"`
	CreatedAt    time.Time `json:"createdAt"`
	SenderName   string    `json:"senderName"`
	SenderAvatar string    `json:"senderAvatar"`
}
