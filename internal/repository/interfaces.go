package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/bbdolx/backend/internal/domain"
)

type UserRepository interface {
	// Create inserts the user and its profile in one transaction.
	Create(ctx context.Context, user *domain.User, profile *domain.Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	Update(ctx context.Context, profile *domain.Profile) error
}

type OTPRepository interface {
	// Upsert replaces the account's single OTP row, creating it if absent.
	Upsert(ctx context.Context, otp *domain.EmailOTP) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.EmailOTP, error)
	Delete(ctx context.Context, userID uuid.UUID) error
}

type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
}

// SearchFilter narrows discovery results. The approved-and-unsold base
// predicate is applied unconditionally by the repository.
type SearchFilter struct {
	Query        string
	CategorySlug string
	Sort         string
}

type ListingRepository interface {
	Create(ctx context.Context, listing *domain.Listing) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Listing, error)
	Update(ctx context.Context, listing *domain.Listing) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Listing, error)
	ListByStatus(ctx context.Context, status domain.Status) ([]domain.Listing, error)
	Search(ctx context.Context, filter SearchFilter) ([]domain.Listing, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, notif *domain.Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
}
