package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/classifieds-api/internal/domain"
	"github.com/phrazzld/classifieds-api/internal/store"
)

// MockFavoriteStore implements store.FavoriteStore for testing. The default
// implementation enforces one favorite per (user, listing) pair.
type MockFavoriteStore struct {
	AddFn        func(ctx context.Context, favorite *domain.Favorite) error
	RemoveFn     func(ctx context.Context, userID, listingID uuid.UUID) error
	ListByUserFn func(ctx context.Context, userID uuid.UUID) ([]domain.Favorite, error)

	// Favorites holds the default implementation's rows in insertion order.
	Favorites []domain.Favorite

	// Listings, when set, is used to embed listings in ListByUser.
	Listings *MockListingStore

	mu sync.Mutex
}

var _ store.FavoriteStore = (*MockFavoriteStore)(nil)

// NewMockFavoriteStore creates an empty favorite store.
func NewMockFavoriteStore() *MockFavoriteStore {
	return &MockFavoriteStore{}
}

// Add implements store.FavoriteStore
func (m *MockFavoriteStore) Add(ctx context.Context, favorite *domain.Favorite) error {
	if m.AddFn != nil {
		return m.AddFn(ctx, favorite)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.Favorites {
		if f.UserID == favorite.UserID && f.ListingID == favorite.ListingID {
			return store.ErrFavoriteExists
		}
	}
	stored := *favorite
	stored.Listing = nil
	m.Favorites = append(m.Favorites, stored)
	return nil
}

// Remove implements store.FavoriteStore
func (m *MockFavoriteStore) Remove(ctx context.Context, userID, listingID uuid.UUID) error {
	if m.RemoveFn != nil {
		return m.RemoveFn(ctx, userID, listingID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i, f := range m.Favorites {
		if f.UserID == userID && f.ListingID == listingID {
			m.Favorites = append(m.Favorites[:i], m.Favorites[i+1:]...)
			return nil
		}
	}
	return store.ErrFavoriteNotFound
}

// ListByUser implements store.FavoriteStore. Favorites of listings the user
// can no longer see are skipped, like the Postgres store does.
func (m *MockFavoriteStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Favorite, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}

	m.mu.Lock()
	snapshot := append([]domain.Favorite(nil), m.Favorites...)
	m.mu.Unlock()

	result := make([]domain.Favorite, 0)
	for i := len(snapshot) - 1; i >= 0; i-- {
		f := snapshot[i]
		if f.UserID != userID {
			continue
		}
		if m.Listings != nil {
			listing, err := m.Listings.GetByID(ctx, f.ListingID)
			if err != nil || !listing.VisibleTo(&userID) {
				continue
			}
			listing.User.Phone = nil
			f.Listing = listing
		}
		result = append(result, f)
	}
	return result, nil
}
