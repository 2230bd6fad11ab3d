package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bbdolx/backend/internal/domain"
	"github.com/bbdolx/backend/internal/repository"
)

const listingColumns = `
	l.id, l.title, l.description, l.category_id, l.price, l.condition,
	l.image_url, l.owner_id, l.campus, l.is_sold, l.status, l.rejection_reason,
	l.created_at, c.name, c.slug, u.username`

type ListingRepo struct {
	pool *pgxpool.Pool
}

func NewListingRepo(pool *pgxpool.Pool) *ListingRepo {
	return &ListingRepo{pool: pool}
}

func (r *ListingRepo) Create(ctx context.Context, listing *domain.Listing) error {
	query := `
		INSERT INTO listings (id, title, description, category_id, price, condition,
			image_url, owner_id, campus, is_sold, status, rejection_reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.pool.Exec(ctx, query,
		listing.ID, listing.Title, listing.Description, listing.CategoryID,
		listing.Price, listing.Condition, listing.ImageURL, listing.OwnerID,
		listing.Campus, listing.IsSold, listing.Status, listing.RejectionReason,
		listing.CreatedAt,
	)
	return err
}

func (r *ListingRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM listings l
		JOIN categories c ON l.category_id = c.id
		JOIN users u ON l.owner_id = u.id
		WHERE l.id = $1`, listingColumns)

	var l domain.Listing
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&l.ID, &l.Title, &l.Description, &l.CategoryID, &l.Price, &l.Condition,
		&l.ImageURL, &l.OwnerID, &l.Campus, &l.IsSold, &l.Status, &l.RejectionReason,
		&l.CreatedAt, &l.CategoryName, &l.CategorySlug, &l.OwnerUsername,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return &l, err
}

func (r *ListingRepo) Update(ctx context.Context, listing *domain.Listing) error {
	query := `
		UPDATE listings
		SET title = $2, description = $3, category_id = $4, price = $5, condition = $6,
			image_url = $7, campus = $8, is_sold = $9, status = $10, rejection_reason = $11
		WHERE id = $1`
	_, err := r.pool.Exec(ctx, query,
		listing.ID, listing.Title, listing.Description, listing.CategoryID,
		listing.Price, listing.Condition, listing.ImageURL, listing.Campus,
		listing.IsSold, listing.Status, listing.RejectionReason,
	)
	return err
}

func (r *ListingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM listings WHERE id = $1", id)
	return err
}

func (r *ListingRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Listing, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM listings l
		JOIN categories c ON l.category_id = c.id
		JOIN users u ON l.owner_id = u.id
		WHERE l.owner_id = $1
		ORDER BY l.created_at DESC`, listingColumns)
	return r.queryListings(ctx, query, ownerID)
}

func (r *ListingRepo) ListByStatus(ctx context.Context, status domain.Status) ([]domain.Listing, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM listings l
		JOIN categories c ON l.category_id = c.id
		JOIN users u ON l.owner_id = u.id
		WHERE l.status = $1
		ORDER BY l.created_at DESC`, listingColumns)
	return r.queryListings(ctx, query, status)
}

// Search returns approved, unsold listings matching the filter. The base
// predicate is not optional: anything else never reaches discovery.
func (r *ListingRepo) Search(ctx context.Context, filter repository.SearchFilter) ([]domain.Listing, error) {
	where := "l.status = 'APPROVED' AND l.is_sold = FALSE"
	var args []any

	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		n := len(args)
		where += fmt.Sprintf(" AND (l.title ILIKE $%d OR l.description ILIKE $%d OR l.campus ILIKE $%d)", n, n, n)
	}
	if filter.CategorySlug != "" {
		args = append(args, filter.CategorySlug)
		where += fmt.Sprintf(" AND c.slug = $%d", len(args))
	}

	var order string
	switch filter.Sort {
	case domain.SortPriceLow:
		order = "l.price ASC, l.created_at DESC"
	case domain.SortPriceHigh:
		order = "l.price DESC, l.created_at DESC"
	default:
		order = "l.created_at DESC"
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM listings l
		JOIN categories c ON l.category_id = c.id
		JOIN users u ON l.owner_id = u.id
		WHERE %s
		ORDER BY %s`, listingColumns, where, order)

	return r.queryListings(ctx, query, args...)
}

func (r *ListingRepo) queryListings(ctx context.Context, query string, args ...any) ([]domain.Listing, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []domain.Listing
	for rows.Next() {
		var l domain.Listing
		if err := rows.Scan(
			&l.ID, &l.Title, &l.Description, &l.CategoryID, &l.Price, &l.Condition,
			&l.ImageURL, &l.OwnerID, &l.Campus, &l.IsSold, &l.Status, &l.RejectionReason,
			&l.CreatedAt, &l.CategoryName, &l.CategorySlug, &l.OwnerUsername,
		); err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}
