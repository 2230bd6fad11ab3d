package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/bbdolx/backend/internal/domain"
	"github.com/bbdolx/backend/internal/repository"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationService struct {
	notifRepo repository.NotificationRepository
}

func NewNotificationService(notifRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{notifRepo: notifRepo}
}

func (s *NotificationService) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	return s.notifRepo.ListByUser(ctx, userID)
}

// MarkRead flips the read flag. A notification belonging to someone
// else is indistinguishable from a missing one.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notifID uuid.UUID) error {
	notif, err := s.notifRepo.GetByID(ctx, notifID)
	if err != nil {
		return err
	}
	if notif == nil || notif.UserID != userID {
		return ErrNotificationNotFound
	}
	return s.notifRepo.MarkRead(ctx, notifID)
}
