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

var (
	ErrListingNotFound  = errors.New("listing not found")
	ErrNotOwner         = errors.New("only the listing owner can perform this action")
	ErrNotApproved      = errors.New("only approved listings can be marked sold")
	ErrCategoryNotFound = errors.New("category not found")
)

const defaultCampus = "BBD Campus"

type ListingService struct {
	listingRepo  repository.ListingRepository
	categoryRepo repository.CategoryRepository
}

func NewListingService(listingRepo repository.ListingRepository, categoryRepo repository.CategoryRepository) *ListingService {
	return &ListingService{
		listingRepo:  listingRepo,
		categoryRepo: categoryRepo,
	}
}

type CreateListingInput struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	CategorySlug string  `json:"category"`
	Price        float64 `json:"price"`
	Condition    string  `json:"condition"`
	ImageURL     string  `json:"image_url"`
	Campus       string  `json:"campus"`
}

type UpdateListingInput struct {
	Title        *string  `json:"title"`
	Description  *string  `json:"description"`
	CategorySlug *string  `json:"category"`
	Price        *float64 `json:"price"`
	Condition    *string  `json:"condition"`
	ImageURL     *string  `json:"image_url"`
	Campus       *string  `json:"campus"`
}

// Create stores a new listing. Every listing starts PENDING and stays
// out of discovery until a moderator approves it.
func (s *ListingService) Create(ctx context.Context, ownerID uuid.UUID, input CreateListingInput) (*domain.Listing, error) {
	category, err := s.categoryRepo.GetBySlug(ctx, input.CategorySlug)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	campus := input.Campus
	if campus == "" {
		campus = defaultCampus
	}

	listing := &domain.Listing{
		ID:          uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		CategoryID:  category.ID,
		Price:       input.Price,
		Condition:   domain.Condition(input.Condition),
		ImageURL:    input.ImageURL,
		OwnerID:     ownerID,
		Campus:      campus,
		IsSold:      false,
		Status:      domain.StatusPending,
		CreatedAt:   time.Now(),
	}

	if err := s.listingRepo.Create(ctx, listing); err != nil {
		return nil, fmt.Errorf("creating listing: %w", err)
	}

	listing.CategoryName = category.Name
	listing.CategorySlug = category.Slug
	return listing, nil
}

func (s *ListingService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	listing, err := s.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, ErrListingNotFound
	}
	return listing, nil
}

// Update edits a listing's fields. Owner only; the moderation status is
// left untouched.
func (s *ListingService) Update(ctx context.Context, userID, listingID uuid.UUID, input UpdateListingInput) (*domain.Listing, error) {
	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, ErrListingNotFound
	}
	if listing.OwnerID != userID {
		return nil, ErrNotOwner
	}

	if input.Title != nil {
		listing.Title = *input.Title
	}
	if input.Description != nil {
		listing.Description = *input.Description
	}
	if input.CategorySlug != nil {
		category, err := s.categoryRepo.GetBySlug(ctx, *input.CategorySlug)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, ErrCategoryNotFound
		}
		listing.CategoryID = category.ID
		listing.CategoryName = category.Name
		listing.CategorySlug = category.Slug
	}
	if input.Price != nil {
		listing.Price = *input.Price
	}
	if input.Condition != nil {
		listing.Condition = domain.Condition(*input.Condition)
	}
	if input.ImageURL != nil {
		listing.ImageURL = *input.ImageURL
	}
	if input.Campus != nil {
		listing.Campus = *input.Campus
	}

	if err := s.listingRepo.Update(ctx, listing); err != nil {
		return nil, fmt.Errorf("updating listing: %w", err)
	}

	return listing, nil
}

// MarkSold is the owner's own transition: an approved listing becomes
// SOLD with its sold flag set. It produces no notification.
func (s *ListingService) MarkSold(ctx context.Context, userID, listingID uuid.UUID) (*domain.Listing, error) {
	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, ErrListingNotFound
	}
	if listing.OwnerID != userID {
		return nil, ErrNotOwner
	}
	if listing.Status != domain.StatusApproved {
		return nil, ErrNotApproved
	}

	listing.IsSold = true
	listing.Status = domain.StatusSold

	if err := s.listingRepo.Update(ctx, listing); err != nil {
		return nil, fmt.Errorf("marking listing sold: %w", err)
	}

	return listing, nil
}

func (s *ListingService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Listing, error) {
	return s.listingRepo.ListByOwner(ctx, ownerID)
}
