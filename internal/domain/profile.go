package domain

import (
	"time"

	"github.com/google/uuid"
)

// Profile holds the optional seller-facing attributes of an account.
// Exactly one profile exists per user; it is created in the same
// transaction as the user itself.
type Profile struct {
	UserID    uuid.UUID `json:"user_id"`
	Phone     string    `json:"phone"`
	Messenger string    `json:"messenger"`
	Branch    string    `json:"branch"`
	Year      string    `json:"year"`
	HideName  bool      `json:"hide_name"`
	UpdatedAt time.Time `json:"updated_at"`
}
