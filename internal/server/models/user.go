package models

import "time"

// User is a registered account. Email is unique and compared case-sensitively.
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}

// Recipient is the public projection of a User used for broadcasts and the
// user directory.
type Recipient struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
