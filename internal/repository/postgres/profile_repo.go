package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bbdolx/backend/internal/domain"
)

type ProfileRepo struct {
	pool *pgxpool.Pool
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

func (r *ProfileRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	var p domain.Profile
	err := r.pool.QueryRow(ctx,
		"SELECT user_id, phone, messenger, branch, year, hide_name, updated_at FROM profiles WHERE user_id = $1",
		userID,
	).Scan(&p.UserID, &p.Phone, &p.Messenger, &p.Branch, &p.Year, &p.HideName, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return &p, err
}

func (r *ProfileRepo) Update(ctx context.Context, profile *domain.Profile) error {
	query := `
		UPDATE profiles
		SET phone = $2, messenger = $3, branch = $4, year = $5, hide_name = $6, updated_at = $7
		WHERE user_id = $1`
	_, err := r.pool.Exec(ctx, query,
		profile.UserID, profile.Phone, profile.Messenger,
		profile.Branch, profile.Year, profile.HideName, profile.UpdatedAt,
	)
	return err
}
