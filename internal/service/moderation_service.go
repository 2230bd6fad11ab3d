package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bbdolx/backend/internal/domain"
	"github.com/bbdolx/backend/internal/repository"
)

var ErrNotStaff = errors.New("staff privileges required")

// Notifier pushes a freshly stored notification to the owner's live
// connection, if any. Implementations must not block.
type Notifier interface {
	NotifyNewNotification(notif *domain.Notification)
}

// ModerationService applies staff decisions to listings. Every action
// that is visible to the owner writes exactly one notification row.
type ModerationService struct {
	listingRepo repository.ListingRepository
	userRepo    repository.UserRepository
	notifRepo   repository.NotificationRepository
	notifier    Notifier
}

func NewModerationService(listingRepo repository.ListingRepository, userRepo repository.UserRepository, notifRepo repository.NotificationRepository, notifier Notifier) *ModerationService {
	return &ModerationService{
		listingRepo: listingRepo,
		userRepo:    userRepo,
		notifRepo:   notifRepo,
		notifier:    notifier,
	}
}

// Approve moves a listing to APPROVED from any state. Re-approving a
// sold or rejected listing clears the sold flag and rejection reason.
func (s *ModerationService) Approve(ctx context.Context, actorID, listingID uuid.UUID) (*domain.Listing, error) {
	if err := s.requireStaff(ctx, actorID); err != nil {
		return nil, err
	}

	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, ErrListingNotFound
	}

	listing.Status = domain.StatusApproved
	listing.RejectionReason = nil
	listing.IsSold = false

	if err := s.listingRepo.Update(ctx, listing); err != nil {
		return nil, fmt.Errorf("approving listing: %w", err)
	}

	msg := fmt.Sprintf("Your ad '%s' has been approved and is now live!", listing.Title)
	if err := s.notify(ctx, listing.OwnerID, msg); err != nil {
		return nil, err
	}

	return listing, nil
}

// Reject moves a listing to REJECTED from any state. A blank reason is
// stored as "Not specified".
func (s *ModerationService) Reject(ctx context.Context, actorID, listingID uuid.UUID, reason string) (*domain.Listing, error) {
	if err := s.requireStaff(ctx, actorID); err != nil {
		return nil, err
	}

	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, ErrListingNotFound
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "Not specified"
	}

	listing.Status = domain.StatusRejected
	listing.RejectionReason = &reason

	if err := s.listingRepo.Update(ctx, listing); err != nil {
		return nil, fmt.Errorf("rejecting listing: %w", err)
	}

	msg := fmt.Sprintf("Your ad '%s' was rejected. Reason: %s", listing.Title, reason)
	if err := s.notify(ctx, listing.OwnerID, msg); err != nil {
		return nil, err
	}

	return listing, nil
}

// Delete permanently removes a listing and tells the owner. Irreversible.
func (s *ModerationService) Delete(ctx context.Context, actorID, listingID uuid.UUID) error {
	if err := s.requireStaff(ctx, actorID); err != nil {
		return err
	}

	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return err
	}
	if listing == nil {
		return ErrListingNotFound
	}

	if err := s.listingRepo.Delete(ctx, listingID); err != nil {
		return fmt.Errorf("deleting listing: %w", err)
	}

	msg := fmt.Sprintf("Your ad '%s' was removed by an admin.", listing.Title)
	return s.notify(ctx, listing.OwnerID, msg)
}

// List is the moderation dashboard query: all listings in one state,
// newest first.
func (s *ModerationService) List(ctx context.Context, actorID uuid.UUID, status domain.Status) ([]domain.Listing, error) {
	if err := s.requireStaff(ctx, actorID); err != nil {
		return nil, err
	}
	return s.listingRepo.ListByStatus(ctx, status)
}

// requireStaff is the capability check guarding every moderator action.
// It fails with ErrNotStaff before any listing state is considered.
func (s *ModerationService) requireStaff(ctx context.Context, actorID uuid.UUID) error {
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return err
	}
	if actor == nil || !actor.IsStaff {
		return ErrNotStaff
	}
	return nil
}

func (s *ModerationService) notify(ctx context.Context, userID uuid.UUID, message string) error {
	notif := &domain.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Message:   message,
		CreatedAt: time.Now(),
	}
	if err := s.notifRepo.Create(ctx, notif); err != nil {
		return fmt.Errorf("creating notification: %w", err)
	}
	if s.notifier != nil {
		s.notifier.NotifyNewNotification(notif)
	}
	return nil
}
