package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/bbdolx/backend/internal/domain"
	"github.com/bbdolx/backend/internal/repository"
)

var ErrSlugTaken = errors.New("category slug already taken")

// CatalogService owns categories and the public discovery search.
type CatalogService struct {
	categoryRepo repository.CategoryRepository
	listingRepo  repository.ListingRepository
	userRepo     repository.UserRepository
}

func NewCatalogService(categoryRepo repository.CategoryRepository, listingRepo repository.ListingRepository, userRepo repository.UserRepository) *CatalogService {
	return &CatalogService{
		categoryRepo: categoryRepo,
		listingRepo:  listingRepo,
		userRepo:     userRepo,
	}
}

type CreateCategoryInput struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// CreateCategory adds a category. Staff only; the slug is derived from
// the name when not given.
func (s *CatalogService) CreateCategory(ctx context.Context, actorID uuid.UUID, input CreateCategoryInput) (*domain.Category, error) {
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor == nil || !actor.IsStaff {
		return nil, ErrNotStaff
	}

	slug := slugify(input.Slug)
	if slug == "" {
		slug = slugify(input.Name)
	}

	existing, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrSlugTaken
	}

	category := &domain.Category{
		ID:   uuid.New(),
		Name: input.Name,
		Slug: slug,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("creating category: %w", err)
	}

	return category, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categoryRepo.List(ctx)
}

type SearchInput struct {
	Query        string
	CategorySlug string
	Sort         string
}

// Search is public discovery: approved, unsold listings only, optionally
// narrowed by a text query and category, ordered by the sort key.
// Unknown sort keys fall back to newest-first.
func (s *CatalogService) Search(ctx context.Context, input SearchInput) ([]domain.Listing, error) {
	sort := input.Sort
	switch sort {
	case domain.SortPriceLow, domain.SortPriceHigh:
	default:
		sort = domain.SortNewest
	}

	return s.listingRepo.Search(ctx, repository.SearchFilter{
		Query:        strings.TrimSpace(input.Query),
		CategorySlug: input.CategorySlug,
		Sort:         sort,
	})
}

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9-]`)
var multiDash = regexp.MustCompile(`-{2,}`)

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	s = multiDash.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	return s
}
