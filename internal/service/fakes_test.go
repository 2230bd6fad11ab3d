package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/bbdolx/backend/internal/domain"
	"github.com/bbdolx/backend/internal/repository"
)

// In-memory fakes shared by the service tests. They mirror the
// repository contracts, including nil-on-missing lookups.

type memUserRepo struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*domain.User
	profiles map[uuid.UUID]*domain.Profile
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{
		users:    make(map[uuid.UUID]*domain.User),
		profiles: make(map[uuid.UUID]*domain.Profile),
	}
}

func (r *memUserRepo) Create(ctx context.Context, user *domain.User, profile *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := *user
	p := *profile
	r.users[user.ID] = &u
	r.profiles[profile.UserID] = &p
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		u.IsActive = active
	}
	return nil
}

func (r *memUserRepo) add(user *domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *user
	r.users[user.ID] = &cp
}

type memProfileRepo struct {
	profiles map[uuid.UUID]*domain.Profile
}

func newMemProfileRepo() *memProfileRepo {
	return &memProfileRepo{profiles: make(map[uuid.UUID]*domain.Profile)}
}

func (r *memProfileRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memProfileRepo) Update(ctx context.Context, profile *domain.Profile) error {
	cp := *profile
	r.profiles[profile.UserID] = &cp
	return nil
}

type memOTPRepo struct {
	mu   sync.Mutex
	otps map[uuid.UUID]*domain.EmailOTP
}

func newMemOTPRepo() *memOTPRepo {
	return &memOTPRepo{otps: make(map[uuid.UUID]*domain.EmailOTP)}
}

func (r *memOTPRepo) Upsert(ctx context.Context, otp *domain.EmailOTP) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *otp
	r.otps[otp.UserID] = &cp
	return nil
}

func (r *memOTPRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.EmailOTP, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.otps[userID]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *memOTPRepo) Delete(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.otps, userID)
	return nil
}

type memCategoryRepo struct {
	categories map[string]*domain.Category
}

func newMemCategoryRepo() *memCategoryRepo {
	return &memCategoryRepo{categories: make(map[string]*domain.Category)}
}

func (r *memCategoryRepo) Create(ctx context.Context, category *domain.Category) error {
	cp := *category
	r.categories[category.Slug] = &cp
	return nil
}

func (r *memCategoryRepo) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	c, ok := r.categories[slug]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *memCategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	for _, c := range r.categories {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type memListingRepo struct {
	mu       sync.Mutex
	listings map[uuid.UUID]*domain.Listing
}

func newMemListingRepo() *memListingRepo {
	return &memListingRepo{listings: make(map[uuid.UUID]*domain.Listing)}
}

func (r *memListingRepo) Create(ctx context.Context, listing *domain.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *listing
	r.listings[listing.ID] = &cp
	return nil
}

func (r *memListingRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (r *memListingRepo) Update(ctx context.Context, listing *domain.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *listing
	r.listings[listing.ID] = &cp
	return nil
}

func (r *memListingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.listings, id)
	return nil
}

func (r *memListingRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Listing
	for _, l := range r.listings {
		if l.OwnerID == ownerID {
			out = append(out, *l)
		}
	}
	sortNewest(out)
	return out, nil
}

func (r *memListingRepo) ListByStatus(ctx context.Context, status domain.Status) ([]domain.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Listing
	for _, l := range r.listings {
		if l.Status == status {
			out = append(out, *l)
		}
	}
	sortNewest(out)
	return out, nil
}

// Search mirrors the SQL predicate: approved and unsold always, then
// the optional text and category filters, then the sort key.
func (r *memListingRepo) Search(ctx context.Context, filter repository.SearchFilter) ([]domain.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Listing
	for _, l := range r.listings {
		if l.Status != domain.StatusApproved || l.IsSold {
			continue
		}
		if filter.Query != "" && !matchesQuery(l, filter.Query) {
			continue
		}
		if filter.CategorySlug != "" && l.CategorySlug != filter.CategorySlug {
			continue
		}
		out = append(out, *l)
	}

	switch filter.Sort {
	case domain.SortPriceLow:
		sort.Slice(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case domain.SortPriceHigh:
		sort.Slice(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	default:
		sortNewest(out)
	}
	return out, nil
}

func matchesQuery(l *domain.Listing, q string) bool {
	q = strings.ToLower(q)
	return strings.Contains(strings.ToLower(l.Title), q) ||
		strings.Contains(strings.ToLower(l.Description), q) ||
		strings.Contains(strings.ToLower(l.Campus), q)
}

func sortNewest(listings []domain.Listing) {
	sort.Slice(listings, func(i, j int) bool { return listings[i].CreatedAt.After(listings[j].CreatedAt) })
}

type memNotificationRepo struct {
	mu     sync.Mutex
	notifs []*domain.Notification
}

func newMemNotificationRepo() *memNotificationRepo {
	return &memNotificationRepo{}
}

func (r *memNotificationRepo) Create(ctx context.Context, notif *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *notif
	r.notifs = append(r.notifs, &cp)
	return nil
}

func (r *memNotificationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifs {
		if n.ID == id {
			cp := *n
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memNotificationRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Notification
	for _, n := range r.notifs {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (r *memNotificationRepo) MarkRead(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifs {
		if n.ID == id {
			n.IsRead = true
		}
	}
	return nil
}

func (r *memNotificationRepo) countFor(userID uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, n := range r.notifs {
		if n.UserID == userID {
			count++
		}
	}
	return count
}

type sentOTP struct {
	email string
	code  string
}

// fakeSender records outbound codes and can simulate webhook failure.
type fakeSender struct {
	mu   sync.Mutex
	sent []sentOTP
	fail bool
}

func (s *fakeSender) SendOTP(ctx context.Context, email, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sentOTP{email: email, code: code})
	if s.fail {
		return context.DeadlineExceeded
	}
	return nil
}

func (s *fakeSender) lastCode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sent) == 0 {
		return ""
	}
	return s.sent[len(s.sent)-1].code
}

func (s *fakeSender) sentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

// fakeNotifier records live pushes.
type fakeNotifier struct {
	mu     sync.Mutex
	pushed []*domain.Notification
}

func (n *fakeNotifier) NotifyNewNotification(notif *domain.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pushed = append(n.pushed, notif)
}
