package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/argon2"

	"github.com/bbdolx/backend/internal/domain"
	"github.com/bbdolx/backend/internal/repository"
)

var (
	ErrEmailTaken     = errors.New("email already taken")
	ErrUsernameTaken  = errors.New("username already taken")
	ErrInvalidCreds   = errors.New("invalid email or password")
	ErrNotVerified    = errors.New("email not verified")
	ErrPendingSession = errors.New("no pending verification session")
)

const (
	accessTokenValidity  = 24 * time.Hour
	pendingTokenValidity = 30 * time.Minute

	scopeAccess = "access"
	scopeVerify = "verify"
)

type AuthService struct {
	userRepo  repository.UserRepository
	otp       *OTPService
	jwtSecret []byte
}

func NewAuthService(userRepo repository.UserRepository, otp *OTPService, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		otp:       otp,
		jwtSecret: []byte(jwtSecret),
	}
}

type RegisterInput struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse carries the pending-verification token the client
// must present to the verify and resend endpoints. OTPDelivered is
// false when the email webhook failed; the code is stored either way.
type RegisterResponse struct {
	User         *domain.User `json:"user"`
	PendingToken string       `json:"pending_token"`
	OTPDelivered bool         `json:"otp_delivered"`
}

type AuthResponse struct {
	User        *domain.User `json:"user"`
	AccessToken string       `json:"access_token"`
}

// Register creates an inactive account together with its empty profile,
// then issues the first verification code.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*RegisterResponse, error) {
	existing, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	existing, err = s.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		IsActive:     false,
		IsStaff:      false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	profile := &domain.Profile{
		UserID:    user.ID,
		UpdatedAt: now,
	}

	if err := s.userRepo.Create(ctx, user, profile); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	delivered, err := s.otp.Issue(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("issuing otp: %w", err)
	}

	token, err := s.generateToken(user.ID, scopeVerify, pendingTokenValidity)
	if err != nil {
		return nil, fmt.Errorf("generating pending token: %w", err)
	}

	return &RegisterResponse{User: user, PendingToken: token, OTPDelivered: delivered}, nil
}

// VerifyEmail resolves the pending session and runs the submitted code
// through the OTP gate. On acceptance it logs the user in directly.
func (s *AuthService) VerifyEmail(ctx context.Context, pendingToken, code string) (*AuthResponse, VerifyResult, error) {
	user, err := s.pendingUser(ctx, pendingToken)
	if err != nil {
		return nil, "", err
	}

	result, err := s.otp.Verify(ctx, user, code)
	if err != nil {
		return nil, "", err
	}
	if result != VerifyAccepted {
		return nil, result, nil
	}

	user.IsActive = true
	token, err := s.generateToken(user.ID, scopeAccess, accessTokenValidity)
	if err != nil {
		return nil, "", fmt.Errorf("generating token: %w", err)
	}

	return &AuthResponse{User: user, AccessToken: token}, VerifyAccepted, nil
}

// ResendOTP re-issues the code for a pending registration.
func (s *AuthService) ResendOTP(ctx context.Context, pendingToken string) (delivered bool, err error) {
	user, err := s.pendingUser(ctx, pendingToken)
	if err != nil {
		return false, err
	}
	return s.otp.Issue(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCreds
	}

	if !verifyPassword(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCreds
	}

	if !user.IsActive {
		return nil, ErrNotVerified
	}

	token, err := s.generateToken(user.ID, scopeAccess, accessTokenValidity)
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}

	return &AuthResponse{User: user, AccessToken: token}, nil
}

func (s *AuthService) pendingUser(ctx context.Context, pendingToken string) (*domain.User, error) {
	userID, err := s.parseToken(pendingToken, scopeVerify)
	if err != nil {
		return nil, ErrPendingSession
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrPendingSession
	}
	return user, nil
}

func (s *AuthService) generateToken(userID uuid.UUID, scope string, validity time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   userID.String(),
		"scope": scope,
		"exp":   time.Now().Add(validity).Unix(),
		"iat":   time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *AuthService) parseToken(tokenStr, wantScope string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, ErrPendingSession
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, ErrPendingSession
	}
	if scope, _ := claims["scope"].(string); scope != wantScope {
		return uuid.Nil, ErrPendingSession
	}

	sub, _ := claims.GetSubject()
	return uuid.Parse(sub)
}

func hashPassword(password string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)

	return fmt.Sprintf("%s:%s",
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

func verifyPassword(password, encoded string) bool {
	saltB64, hashB64, ok := strings.Cut(encoded, ":")
	if !ok {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(saltB64)
	if err != nil {
		return false
	}

	expectedHash, err := base64.RawStdEncoding.DecodeString(hashB64)
	if err != nil {
		return false
	}

	hash := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)
	return subtle.ConstantTimeCompare(hash, expectedHash) == 1
}
