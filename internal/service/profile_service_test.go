package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbdolx/backend/internal/domain"
)

func TestProfileGet(t *testing.T) {
	repo := newMemProfileRepo()
	svc := NewProfileService(repo)
	userID := uuid.New()
	require.NoError(t, repo.Update(context.Background(), &domain.Profile{UserID: userID, Branch: "CSE"}))

	profile, err := svc.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "CSE", profile.Branch)

	_, err = svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestProfileUpdate_PartialFields(t *testing.T) {
	repo := newMemProfileRepo()
	svc := NewProfileService(repo)
	userID := uuid.New()
	require.NoError(t, repo.Update(context.Background(), &domain.Profile{
		UserID:    userID,
		Phone:     "9999999999",
		Branch:    "CSE",
		Year:      "2nd",
		Messenger: "@student",
	}))

	phone := "8888888888"
	hide := true
	updated, err := svc.Update(context.Background(), userID, UpdateProfileInput{Phone: &phone, HideName: &hide})
	require.NoError(t, err)

	assert.Equal(t, "8888888888", updated.Phone)
	assert.True(t, updated.HideName)
	// Omitted fields stay untouched.
	assert.Equal(t, "CSE", updated.Branch)
	assert.Equal(t, "2nd", updated.Year)
	assert.Equal(t, "@student", updated.Messenger)
	assert.False(t, updated.UpdatedAt.IsZero())
}

func TestProfileUpdate_NotFound(t *testing.T) {
	svc := NewProfileService(newMemProfileRepo())

	phone := "7777777777"
	_, err := svc.Update(context.Background(), uuid.New(), UpdateProfileInput{Phone: &phone})
	assert.ErrorIs(t, err, ErrProfileNotFound)
}
