package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbdolx/backend/internal/domain"
)

func newTestOTPService(t *testing.T) (*OTPService, *memOTPRepo, *memUserRepo, *fakeSender) {
	t.Helper()
	otpRepo := newMemOTPRepo()
	userRepo := newMemUserRepo()
	sender := &fakeSender{}
	return NewOTPService(otpRepo, userRepo, sender), otpRepo, userRepo, sender
}

func newInactiveUser(repo *memUserRepo) *domain.User {
	user := &domain.User{
		ID:       uuid.New(),
		Username: "student",
		Email:    "student@bbdu.org",
	}
	repo.add(user)
	return user
}

func TestIssue_GeneratesSixDigitCode(t *testing.T) {
	svc, otpRepo, userRepo, sender := newTestOTPService(t)
	user := newInactiveUser(userRepo)

	delivered, err := svc.Issue(context.Background(), user)
	require.NoError(t, err)
	assert.True(t, delivered)

	otp, err := otpRepo.GetByUserID(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, otp)
	assert.Regexp(t, regexp.MustCompile(`^[0-9]{6}$`), otp.Code)
	assert.Equal(t, otp.Code, sender.lastCode())
}

func TestIssue_ReplacesExistingCode(t *testing.T) {
	svc, otpRepo, userRepo, _ := newTestOTPService(t)
	user := newInactiveUser(userRepo)

	_, err := svc.Issue(context.Background(), user)
	require.NoError(t, err)
	first, err := otpRepo.GetByUserID(context.Background(), user.ID)
	require.NoError(t, err)

	svc.now = func() time.Time { return first.IssuedAt.Add(30 * time.Second) }
	_, err = svc.Issue(context.Background(), user)
	require.NoError(t, err)

	second, err := otpRepo.GetByUserID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, second.IssuedAt.After(first.IssuedAt))

	// Still exactly one live record per account.
	assert.Len(t, otpRepo.otps, 1)
}

func TestIssue_DeliveryFailureKeepsCode(t *testing.T) {
	svc, otpRepo, userRepo, sender := newTestOTPService(t)
	sender.fail = true
	user := newInactiveUser(userRepo)

	delivered, err := svc.Issue(context.Background(), user)
	require.NoError(t, err)
	assert.False(t, delivered)

	otp, err := otpRepo.GetByUserID(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, otp, "code must stay valid even if the email never arrived")
}

func TestVerify_AcceptedActivatesAndDeletes(t *testing.T) {
	svc, otpRepo, userRepo, sender := newTestOTPService(t)
	user := newInactiveUser(userRepo)

	_, err := svc.Issue(context.Background(), user)
	require.NoError(t, err)

	result, err := svc.Verify(context.Background(), user, sender.lastCode())
	require.NoError(t, err)
	assert.Equal(t, VerifyAccepted, result)

	stored, err := userRepo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsActive)

	otp, err := otpRepo.GetByUserID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Nil(t, otp)

	// The code is single-use: a second attempt finds nothing.
	_, err = svc.Verify(context.Background(), user, sender.lastCode())
	assert.ErrorIs(t, err, ErrOTPNotFound)
}

func TestVerify_Mismatch(t *testing.T) {
	svc, otpRepo, userRepo, sender := newTestOTPService(t)
	user := newInactiveUser(userRepo)

	_, err := svc.Issue(context.Background(), user)
	require.NoError(t, err)

	wrong := "000000"
	if sender.lastCode() == wrong {
		wrong = "000001"
	}

	result, err := svc.Verify(context.Background(), user, wrong)
	require.NoError(t, err)
	assert.Equal(t, VerifyMismatch, result)

	stored, err := userRepo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive, "mismatch must not activate the account")

	otp, err := otpRepo.GetByUserID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NotNil(t, otp, "mismatch must not consume the code")
}

func TestVerify_ExpiryBoundary(t *testing.T) {
	svc, _, userRepo, sender := newTestOTPService(t)
	user := newInactiveUser(userRepo)

	issuedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issuedAt }
	_, err := svc.Issue(context.Background(), user)
	require.NoError(t, err)
	code := sender.lastCode()

	// At exactly two minutes the code is still good.
	svc.now = func() time.Time { return issuedAt.Add(domain.OTPValidity) }
	result, err := svc.Verify(context.Background(), user, code)
	require.NoError(t, err)
	assert.Equal(t, VerifyAccepted, result)
}

func TestVerify_ExpiredReissues(t *testing.T) {
	svc, otpRepo, userRepo, sender := newTestOTPService(t)
	user := newInactiveUser(userRepo)

	issuedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issuedAt }
	_, err := svc.Issue(context.Background(), user)
	require.NoError(t, err)
	code := sender.lastCode()

	svc.now = func() time.Time { return issuedAt.Add(domain.OTPValidity + time.Second) }
	result, err := svc.Verify(context.Background(), user, code)
	require.NoError(t, err)
	assert.Equal(t, VerifyExpired, result)

	// A fresh code was issued and delivered as a side effect.
	assert.Equal(t, 2, sender.sentCount())
	otp, err := otpRepo.GetByUserID(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, otp)
	assert.Equal(t, issuedAt.Add(domain.OTPValidity+time.Second), otp.IssuedAt)

	stored, err := userRepo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}

func TestVerify_NoRecord(t *testing.T) {
	svc, _, userRepo, _ := newTestOTPService(t)
	user := newInactiveUser(userRepo)

	_, err := svc.Verify(context.Background(), user, "123456")
	assert.ErrorIs(t, err, ErrOTPNotFound)
}
