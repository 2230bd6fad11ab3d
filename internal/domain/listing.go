package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status is the moderation state of a listing. A listing starts PENDING
// and only moderation actions or the owner's mark-sold move it.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
	StatusSold     Status = "SOLD"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusSold:
		return true
	}
	return false
}

// Condition describes the physical state of the item for sale.
type Condition string

const (
	ConditionNew     Condition = "NEW"
	ConditionLikeNew Condition = "LIKE_NEW"
	ConditionUsed    Condition = "USED"
)

func (c Condition) Valid() bool {
	switch c {
	case ConditionNew, ConditionLikeNew, ConditionUsed:
		return true
	}
	return false
}

type Listing struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	CategoryID      uuid.UUID `json:"category_id"`
	Price           float64   `json:"price"`
	Condition       Condition `json:"condition"`
	ImageURL        string    `json:"image_url"`
	OwnerID         uuid.UUID `json:"owner_id"`
	Campus          string    `json:"campus"`
	IsSold          bool      `json:"is_sold"`
	Status          Status    `json:"status"`
	RejectionReason *string   `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	// Joined fields
	CategoryName  string `json:"category_name,omitempty"`
	CategorySlug  string `json:"category_slug,omitempty"`
	OwnerUsername string `json:"owner_username,omitempty"`
}

// Sort keys accepted by discovery search.
const (
	SortNewest    = "newest"
	SortPriceLow  = "low"
	SortPriceHigh = "high"
)
