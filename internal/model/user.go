package model

import "time"

// UserID uniquely identifies a user across the system
type UserID string

// User represents a registered account. Wins is mutated only by the
// win-credit ledger when the user wins a completed session.
type User struct {
	ID        UserID    `json:"id"`
	Username  string    `json:"username"`
	Wins      int       `json:"wins"`
	CreatedAt time.Time `json:"createdAt"`
}
