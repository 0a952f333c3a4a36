package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/classifieds-api/internal/domain"
	"github.com/phrazzld/classifieds-api/internal/store"
)

// MockListingStore implements store.ListingStore for testing. Its default
// behaviour mirrors the Postgres store: search only returns ACTIVE listings,
// newest first, and writes are scoped to the owner.
type MockListingStore struct {
	SearchFn      func(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, int, error)
	GetByIDFn     func(ctx context.Context, id uuid.UUID) (*domain.Listing, error)
	ListByOwnerFn func(ctx context.Context, userID uuid.UUID) ([]domain.Listing, error)
	CreateFn      func(ctx context.Context, listing *domain.Listing) error
	UpdateFn      func(ctx context.Context, listing *domain.Listing) error
	DeleteFn      func(ctx context.Context, id, ownerID uuid.UUID) error

	// Listings holds the default implementation's rows.
	Listings map[uuid.UUID]*domain.Listing

	// Optional lookups used to embed owner and category summaries.
	Users      *MockUserStore
	Categories *MockCategoryStore

	mu sync.Mutex
}

var _ store.ListingStore = (*MockListingStore)(nil)

// NewMockListingStore creates an empty in-memory listing store.
func NewMockListingStore() *MockListingStore {
	return &MockListingStore{Listings: make(map[uuid.UUID]*domain.Listing)}
}

// Search implements store.ListingStore
func (m *MockListingStore) Search(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, int, error) {
	if m.SearchFn != nil {
		return m.SearchFn(ctx, filter)
	}

	query := strings.ToLower(filter.Query)
	matches := make([]domain.Listing, 0)
	for _, l := range m.sorted() {
		if l.Status != domain.ListingStatusActive {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(l.Title), query) &&
			!strings.Contains(strings.ToLower(l.Description), query) {
			continue
		}
		if filter.CategoryID != nil && l.CategoryID != *filter.CategoryID {
			continue
		}
		if filter.MinPrice != nil && l.Price < *filter.MinPrice {
			continue
		}
		if filter.MaxPrice != nil && l.Price > *filter.MaxPrice {
			continue
		}
		l.User = m.owner(l.UserID, false)
		matches = append(matches, l)
	}

	total := len(matches)
	start := filter.Offset()
	if start < 0 || start >= total {
		return []domain.Listing{}, total, nil
	}
	end := start + filter.PageSize
	if end > total {
		end = total
	}
	return matches[start:end], total, nil
}

// GetByID implements store.ListingStore
func (m *MockListingStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	l, ok := m.Listings[id]
	m.mu.Unlock()
	if !ok {
		return nil, store.ErrListingNotFound
	}
	found := m.decorate(*l)
	found.User = m.owner(l.UserID, true)
	return &found, nil
}

// ListByOwner implements store.ListingStore
func (m *MockListingStore) ListByOwner(ctx context.Context, userID uuid.UUID) ([]domain.Listing, error) {
	if m.ListByOwnerFn != nil {
		return m.ListByOwnerFn(ctx, userID)
	}

	owned := make([]domain.Listing, 0)
	for _, l := range m.sorted() {
		if l.UserID == userID {
			owned = append(owned, l)
		}
	}
	return owned, nil
}

// Create implements store.ListingStore
func (m *MockListingStore) Create(ctx context.Context, listing *domain.Listing) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, listing)
	}
	if err := listing.Validate(); err != nil {
		return store.ErrInvalidEntity
	}
	if m.Categories != nil && !m.Categories.has(listing.CategoryID) {
		return store.ErrInvalidEntity
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *listing
	stored.User, stored.Category = nil, nil
	m.Listings[listing.ID] = &stored
	return nil
}

// Update implements store.ListingStore
func (m *MockListingStore) Update(ctx context.Context, listing *domain.Listing) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, listing)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.Listings[listing.ID]
	if !ok || existing.UserID != listing.UserID {
		return store.ErrListingNotFound
	}
	stored := *listing
	stored.User, stored.Category = nil, nil
	stored.CreatedAt = existing.CreatedAt
	m.Listings[listing.ID] = &stored
	return nil
}

// Delete implements store.ListingStore
func (m *MockListingStore) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id, ownerID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.Listings[id]
	if !ok || existing.UserID != ownerID {
		return store.ErrListingNotFound
	}
	delete(m.Listings, id)
	return nil
}

// sorted returns decorated copies ordered by created_at DESC, id DESC.
func (m *MockListingStore) sorted() []domain.Listing {
	m.mu.Lock()
	all := make([]domain.Listing, 0, len(m.Listings))
	for _, l := range m.Listings {
		all = append(all, *l)
	}
	m.mu.Unlock()

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID.String() > all[j].ID.String()
	})
	for i := range all {
		all[i] = m.decorate(all[i])
	}
	return all
}

func (m *MockListingStore) decorate(l domain.Listing) domain.Listing {
	if m.Categories != nil {
		if c, err := m.Categories.GetByID(context.Background(), l.CategoryID); err == nil {
			l.Category = &domain.CategorySummary{ID: c.ID, Name: c.Name, Slug: c.Slug}
		}
	}
	return l
}

func (m *MockListingStore) owner(userID uuid.UUID, withPhone bool) *domain.ListingOwner {
	if m.Users == nil {
		return &domain.ListingOwner{ID: userID}
	}
	u, err := m.Users.GetByID(context.Background(), userID)
	if err != nil {
		return &domain.ListingOwner{ID: userID}
	}
	owner := &domain.ListingOwner{ID: u.ID, Name: u.Name}
	if withPhone {
		owner.Phone = u.Phone
	}
	return owner
}
