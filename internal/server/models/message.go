package models

import "time"

// SentMessage is the sender-side (outbox) record of a message. FromUserID is
// nil for system broadcasts.
type SentMessage struct {
	ID         string    `json:"id"`
	FromUserID *string   `json:"from_user_id"`
	ToEmail    string    `json:"to_email"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	SentAt     time.Time `json:"sent_at"`
	IsSystem   bool      `json:"is_system"`
}

// InboxMessage is the recipient-side record of a message. Only this
// projection carries a read flag.
type InboxMessage struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	FromEmail  string    `json:"from_email"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	ReceivedAt time.Time `json:"received_at"`
	IsRead     bool      `json:"is_read"`
}
