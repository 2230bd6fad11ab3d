package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/bbdolx/backend/internal/domain"
	"github.com/bbdolx/backend/internal/repository"
)

var ErrOTPNotFound = errors.New("no pending verification code for this account")

// OTPSender delivers a code to the account's email address.
// Implemented by mailer.Client.
type OTPSender interface {
	SendOTP(ctx context.Context, email, code string) error
}

// VerifyResult is the outcome of checking a submitted code.
type VerifyResult string

const (
	VerifyAccepted VerifyResult = "ACCEPTED"
	VerifyExpired  VerifyResult = "EXPIRED"
	VerifyMismatch VerifyResult = "MISMATCH"
)

// OTPService is the email verification gate: it issues single-use
// 6-digit codes and activates accounts on a successful match.
type OTPService struct {
	otpRepo  repository.OTPRepository
	userRepo repository.UserRepository
	sender   OTPSender

	now func() time.Time
}

func NewOTPService(otpRepo repository.OTPRepository, userRepo repository.UserRepository, sender OTPSender) *OTPService {
	return &OTPService{
		otpRepo:  otpRepo,
		userRepo: userRepo,
		sender:   sender,
		now:      time.Now,
	}
}

// Issue generates a fresh code, replaces the account's OTP row and sends
// the code out. The returned delivered flag is false when the webhook
// call failed; the code is persisted and valid regardless, so the user
// can still ask for a resend without invalidating anything.
func (s *OTPService) Issue(ctx context.Context, user *domain.User) (delivered bool, err error) {
	code, err := generateCode()
	if err != nil {
		return false, fmt.Errorf("generating otp: %w", err)
	}

	otp := &domain.EmailOTP{
		UserID:   user.ID,
		Code:     code,
		IssuedAt: s.now(),
	}
	if err := s.otpRepo.Upsert(ctx, otp); err != nil {
		return false, fmt.Errorf("storing otp: %w", err)
	}

	if err := s.sender.SendOTP(ctx, user.Email, code); err != nil {
		log.Printf("WARN otp delivery to %s failed: %v", user.Email, err)
		return false, nil
	}

	return true, nil
}

// Verify checks a submitted code against the account's stored one.
// Expired codes are replaced by a freshly issued one as a side effect.
// An accepted code activates the account and deletes the OTP row, so a
// second verify attempt gets ErrOTPNotFound.
func (s *OTPService) Verify(ctx context.Context, user *domain.User, code string) (VerifyResult, error) {
	otp, err := s.otpRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		return "", err
	}
	if otp == nil {
		return "", ErrOTPNotFound
	}

	if otp.Expired(s.now()) {
		if _, err := s.Issue(ctx, user); err != nil {
			return "", err
		}
		return VerifyExpired, nil
	}

	if code != otp.Code {
		return VerifyMismatch, nil
	}

	if err := s.userRepo.SetActive(ctx, user.ID, true); err != nil {
		return "", fmt.Errorf("activating account: %w", err)
	}
	if err := s.otpRepo.Delete(ctx, user.ID); err != nil {
		return "", fmt.Errorf("deleting otp: %w", err)
	}

	return VerifyAccepted, nil
}

// generateCode returns a uniformly random 6-digit code, leading zeros
// included.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
