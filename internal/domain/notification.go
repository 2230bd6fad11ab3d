package domain

import (
	"time"

	"github.com/google/uuid"
)

// Notification is an append-only message to an account, created as a
// side effect of moderation decisions.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
