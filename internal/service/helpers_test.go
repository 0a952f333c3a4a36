package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/classifieds-api/internal/domain"
	"github.com/phrazzld/classifieds-api/internal/mocks"
	"github.com/stretchr/testify/require"
)

// marketplace wires the in-memory stores together the way the Postgres
// stores relate through foreign keys.
type marketplace struct {
	users      *mocks.MockUserStore
	categories *mocks.MockCategoryStore
	listings   *mocks.MockListingStore
	favorites  *mocks.MockFavoriteStore
	category   domain.Category
}

func newMarketplace() *marketplace {
	category := domain.Category{ID: uuid.New(), Name: "Véhicules", Slug: "vehicules"}
	m := &marketplace{
		users:      mocks.NewMockUserStore(),
		categories: mocks.NewMockCategoryStore(category),
		listings:   mocks.NewMockListingStore(),
		favorites:  mocks.NewMockFavoriteStore(),
		category:   category,
	}
	m.listings.Users = m.users
	m.listings.Categories = m.categories
	m.favorites.Listings = m.listings
	return m
}

func (m *marketplace) addUser(t *testing.T, email, name string) *domain.User {
	t.Helper()
	phone := "0600000000"
	user, err := domain.NewUser(email, name, &phone, "hashed:secret1")
	require.NoError(t, err)
	require.NoError(t, m.users.Create(context.Background(), user))
	return user
}

func (m *marketplace) addListing(
	t *testing.T,
	owner uuid.UUID,
	title string,
	price float64,
	status domain.ListingStatus,
	age time.Duration,
) *domain.Listing {
	t.Helper()
	listing, err := domain.NewListing(owner, m.category.ID, title, "A description long enough", price, "Paris")
	require.NoError(t, err)
	listing.Status = status
	listing.CreatedAt = listing.CreatedAt.Add(-age)
	require.NoError(t, m.listings.Create(context.Background(), listing))
	return listing
}
