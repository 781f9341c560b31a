package models

import "time"

// RequestStatus is the lifecycle state of a contact request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestRejected RequestStatus = "rejected"
)

// ContactRequest is created by the sender and mutated only by the recipient.
type ContactRequest struct {
	ID          string        `json:"id" db:"id"`
	SenderID    string        `json:"senderId" db:"sender_id"`
	RecipientID string        `json:"recipientId" db:"recipient_id"`
	Status      RequestStatus `json:"status" db:"status"`
	CreatedAt   time.Time     `json:"createdAt" db:"created_at"`
}

// ContactRequestWithSender joins the sender's display summary for listings.
type ContactRequestWithSender struct {
	ID        string         `json:"id"`
	Sender    ProfileSummary `json:"sender"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Contact is one direction of a confirmed relationship. The relation is
// symmetric and stored as two rows (A->B and B->A).
type Contact struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	ContactID string    `json:"contactId" db:"contact_id"`
	AddedAt   time.Time `json:"addedAt" db:"added_at"`
}
