package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bbdolx/backend/internal/domain"
)

type OTPRepo struct {
	pool *pgxpool.Pool
}

func NewOTPRepo(pool *pgxpool.Pool) *OTPRepo {
	return &OTPRepo{pool: pool}
}

// Upsert replaces the account's OTP in one statement, so a resend can
// never leave two live codes behind.
func (r *OTPRepo) Upsert(ctx context.Context, otp *domain.EmailOTP) error {
	query := `
		INSERT INTO email_otps (user_id, code, issued_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET code = EXCLUDED.code, issued_at = EXCLUDED.issued_at`
	_, err := r.pool.Exec(ctx, query, otp.UserID, otp.Code, otp.IssuedAt)
	return err
}

func (r *OTPRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.EmailOTP, error) {
	var o domain.EmailOTP
	err := r.pool.QueryRow(ctx,
		"SELECT user_id, code, issued_at FROM email_otps WHERE user_id = $1",
		userID,
	).Scan(&o.UserID, &o.Code, &o.IssuedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return &o, err
}

func (r *OTPRepo) Delete(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM email_otps WHERE user_id = $1", userID)
	return err
}
