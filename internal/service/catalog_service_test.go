package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbdolx/backend/internal/domain"
)

type catalogFixture struct {
	svc          *CatalogService
	categoryRepo *memCategoryRepo
	listingRepo  *memListingRepo
	userRepo     *memUserRepo

	staff *domain.User
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()
	f := &catalogFixture{
		categoryRepo: newMemCategoryRepo(),
		listingRepo:  newMemListingRepo(),
		userRepo:     newMemUserRepo(),
	}
	f.svc = NewCatalogService(f.categoryRepo, f.listingRepo, f.userRepo)
	f.staff = &domain.User{ID: uuid.New(), Username: "admin", IsActive: true, IsStaff: true}
	f.userRepo.add(f.staff)
	return f
}

func (f *catalogFixture) addListing(t *testing.T, title string, price float64, status domain.Status, sold bool, slug string, age time.Duration) *domain.Listing {
	t.Helper()
	listing := &domain.Listing{
		ID:           uuid.New(),
		Title:        title,
		Description:  "description of " + title,
		Price:        price,
		OwnerID:      uuid.New(),
		Campus:       "BBD Campus",
		Status:       status,
		IsSold:       sold,
		CategorySlug: slug,
		CreatedAt:    time.Now().Add(-age),
	}
	require.NoError(t, f.listingRepo.Create(context.Background(), listing))
	return listing
}

func TestCreateCategory(t *testing.T) {
	f := newCatalogFixture(t)

	category, err := f.svc.CreateCategory(context.Background(), f.staff.ID, CreateCategoryInput{Name: "Hostel Essentials"})
	require.NoError(t, err)
	assert.Equal(t, "hostel-essentials", category.Slug, "slug derives from the name")

	// Same slug again is a conflict.
	_, err = f.svc.CreateCategory(context.Background(), f.staff.ID, CreateCategoryInput{Name: "Hostel  Essentials"})
	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestCreateCategory_StaffOnly(t *testing.T) {
	f := newCatalogFixture(t)
	student := &domain.User{ID: uuid.New(), Username: "student", IsActive: true}
	f.userRepo.add(student)

	_, err := f.svc.CreateCategory(context.Background(), student.ID, CreateCategoryInput{Name: "Books"})
	assert.ErrorIs(t, err, ErrNotStaff)
}

func TestSearch_BasePredicate(t *testing.T) {
	f := newCatalogFixture(t)
	visible := f.addListing(t, "Visible", 100, domain.StatusApproved, false, "books", 0)
	f.addListing(t, "Pending", 100, domain.StatusPending, false, "books", 0)
	f.addListing(t, "Rejected", 100, domain.StatusRejected, false, "books", 0)
	f.addListing(t, "Sold", 100, domain.StatusSold, true, "books", 0)
	f.addListing(t, "Approved but sold", 100, domain.StatusApproved, true, "books", 0)

	for _, input := range []SearchInput{
		{},
		{Query: "e"},
		{CategorySlug: "books"},
		{Sort: domain.SortPriceLow},
		{Sort: domain.SortPriceHigh},
		{Query: "e", CategorySlug: "books", Sort: domain.SortPriceLow},
	} {
		results, err := f.svc.Search(context.Background(), input)
		require.NoError(t, err)
		require.Len(t, results, 1, "only approved, unsold listings are discoverable")
		assert.Equal(t, visible.ID, results[0].ID)
	}
}

func TestSearch_QueryMatchesTitleDescriptionCampus(t *testing.T) {
	f := newCatalogFixture(t)
	byTitle := f.addListing(t, "Cycle for sale", 900, domain.StatusApproved, false, "bikes", 0)
	byDesc := f.addListing(t, "Old ride", 800, domain.StatusApproved, false, "bikes", time.Minute)
	byDesc.Description = "a sturdy cycle, new tires"
	require.NoError(t, f.listingRepo.Update(context.Background(), byDesc))
	f.addListing(t, "Lamp", 200, domain.StatusApproved, false, "hostel-essentials", 2*time.Minute)

	results, err := f.svc.Search(context.Background(), SearchInput{Query: "CYCLE"})
	require.NoError(t, err)
	require.Len(t, results, 2, "query is case-insensitive over title and description")
	assert.Equal(t, byTitle.ID, results[0].ID)
	assert.Equal(t, byDesc.ID, results[1].ID)

	// Campus tag matches too.
	results, err = f.svc.Search(context.Background(), SearchInput{Query: "bbd campus"})
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestSearch_CategoryFilter(t *testing.T) {
	f := newCatalogFixture(t)
	book := f.addListing(t, "Book", 100, domain.StatusApproved, false, "books", 0)
	f.addListing(t, "Bike", 900, domain.StatusApproved, false, "bikes", 0)

	results, err := f.svc.Search(context.Background(), SearchInput{CategorySlug: "books"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, book.ID, results[0].ID)
}

func TestSearch_SortOrders(t *testing.T) {
	f := newCatalogFixture(t)
	cheap := f.addListing(t, "Cheap", 500, domain.StatusApproved, false, "books", 2*time.Minute)
	pricey := f.addListing(t, "Pricey", 1000, domain.StatusApproved, false, "books", time.Minute)
	newest := f.addListing(t, "Newest", 750, domain.StatusApproved, false, "books", 0)

	results, err := f.svc.Search(context.Background(), SearchInput{Sort: domain.SortPriceLow})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, cheap.ID, results[0].ID)
	assert.Equal(t, pricey.ID, results[2].ID)

	results, err = f.svc.Search(context.Background(), SearchInput{Sort: domain.SortPriceHigh})
	require.NoError(t, err)
	assert.Equal(t, pricey.ID, results[0].ID)
	assert.Equal(t, cheap.ID, results[2].ID)

	// Default and unknown sort keys fall back to newest-first.
	for _, sortKey := range []string{"", domain.SortNewest, "bogus"} {
		results, err = f.svc.Search(context.Background(), SearchInput{Sort: sortKey})
		require.NoError(t, err)
		assert.Equal(t, newest.ID, results[0].ID)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hostel Essentials", "hostel-essentials"},
		{"  Books & Notes  ", "books-notes"},
		{"ALREADY-SLUG", "already-slug"},
		{"---", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, slugify(tt.in), tt.in)
	}
}
