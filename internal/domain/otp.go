package domain

import (
	"time"

	"github.com/google/uuid"
)

// OTPValidity is how long an issued code stays verifiable.
const OTPValidity = 2 * time.Minute

// EmailOTP is the single live one-time password for an account.
// Issuing always overwrites the previous row; successful verification
// deletes it.
type EmailOTP struct {
	UserID    uuid.UUID `json:"user_id"`
	Code      string    `json:"-"`
	IssuedAt  time.Time `json:"issued_at"`
}

// Expired reports whether the code is past its validity window at now.
// A code aged exactly OTPValidity is still accepted.
func (o *EmailOTP) Expired(now time.Time) bool {
	return now.After(o.IssuedAt.Add(OTPValidity))
}
