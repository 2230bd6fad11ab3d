package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bbdolx/backend/internal/domain"
	"github.com/bbdolx/backend/internal/repository"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileService struct {
	profileRepo repository.ProfileRepository
}

func NewProfileService(profileRepo repository.ProfileRepository) *ProfileService {
	return &ProfileService{profileRepo: profileRepo}
}

func (s *ProfileService) Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

type UpdateProfileInput struct {
	Phone     *string `json:"phone"`
	Messenger *string `json:"messenger"`
	Branch    *string `json:"branch"`
	Year      *string `json:"year"`
	HideName  *bool   `json:"hide_name"`
}

func (s *ProfileService) Update(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*domain.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}

	if input.Phone != nil {
		profile.Phone = *input.Phone
	}
	if input.Messenger != nil {
		profile.Messenger = *input.Messenger
	}
	if input.Branch != nil {
		profile.Branch = *input.Branch
	}
	if input.Year != nil {
		profile.Year = *input.Year
	}
	if input.HideName != nil {
		profile.HideName = *input.HideName
	}
	profile.UpdatedAt = time.Now()

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("updating profile: %w", err)
	}

	return profile, nil
}
