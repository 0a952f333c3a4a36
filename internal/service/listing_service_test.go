package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/classifieds-api/internal/domain"
	"github.com/phrazzld/classifieds-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestListingService(m *marketplace) ListingService {
	return NewListingService(m.listings, m.categories, m.favorites, nil)
}

func ptr[T any](v T) *T { return &v }

func validInput(categoryID uuid.UUID) CreateListingInput {
	return CreateListingInput{
		Title:       "Vélo de route",
		Description: "Cadre aluminium, très bon état",
		Price:       350,
		Location:    "Lyon",
		CategoryID:  categoryID,
	}
}

func TestListingService_CreateThenGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := newMarketplace()
	svc := newTestListingService(m)
	owner := m.addUser(t, "ann@x.com", "Ann")

	created, err := svc.Create(ctx, owner.ID, validInput(m.category.ID))
	require.NoError(t, err)
	assert.Equal(t, domain.ListingStatusActive, created.Status)
	assert.Equal(t, owner.ID, created.UserID)
	require.NotNil(t, created.Category)
	assert.Equal(t, "vehicules", created.Category.Slug)

	got, err := svc.Get(ctx, created.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, created.Title, got.Title)
	assert.Equal(t, created.Description, got.Description)
	assert.Equal(t, created.Price, got.Price)
	assert.Equal(t, created.Location, got.Location)
	assert.Equal(t, created.CategoryID, got.CategoryID)
	require.NotNil(t, got.User)
	assert.Equal(t, "Ann", got.User.Name)
	assert.Equal(t, owner.Phone, got.User.Phone, "detail view exposes owner contact")
}

func TestListingService_CreatePriceBounds(t *testing.T) {
	t.Parallel()
	m := newMarketplace()
	svc := newTestListingService(m)
	owner := uuid.New()

	tests := []struct {
		price   float64
		wantErr bool
	}{
		{-1, true},
		{0, false},
		{999999.99, false},
		{1000000, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("price %.2f", tt.price), func(t *testing.T) {
			input := validInput(m.category.ID)
			input.Price = tt.price
			_, err := svc.Create(context.Background(), owner, input)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestListingService_CreateUnknownCategory(t *testing.T) {
	t.Parallel()
	m := newMarketplace()
	svc := newTestListingService(m)

	_, err := svc.Create(context.Background(), uuid.New(), validInput(uuid.New()))
	assert.ErrorIs(t, err, ErrUnknownCategory)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, m.listings.Listings)
}

func TestListingService_CreateForeignKeyRace(t *testing.T) {
	t.Parallel()
	m := newMarketplace()
	m.listings.CreateFn = func(ctx context.Context, listing *domain.Listing) error {
		return fmt.Errorf("insert: %w", store.ErrInvalidEntity)
	}
	svc := newTestListingService(m)

	_, err := svc.Create(context.Background(), uuid.New(), validInput(m.category.ID))
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestListingService_GetVisibility(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := newMarketplace()
	svc := newTestListingService(m)
	owner := m.addUser(t, "ann@x.com", "Ann")
	other := uuid.New()

	for _, status := range []domain.ListingStatus{domain.ListingStatusSold, domain.ListingStatusArchived} {
		listing := m.addListing(t, owner.ID, "Hidden item", 10, status, 0)

		_, err := svc.Get(ctx, listing.ID, nil)
		assert.ErrorIs(t, err, ErrListingNotFound, "anonymous caller, %s", status)

		_, err = svc.Get(ctx, listing.ID, &other)
		assert.ErrorIs(t, err, ErrListingNotFound, "other user, %s", status)

		got, err := svc.Get(ctx, listing.ID, &owner.ID)
		require.NoError(t, err, "owner, %s", status)
		assert.Equal(t, status, got.Status)
	}

	_, err := svc.Get(ctx, uuid.New(), nil)
	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestListingService_Update(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := newMarketplace()
	svc := newTestListingService(m)
	owner := m.addUser(t, "ann@x.com", "Ann")
	listing := m.addListing(t, owner.ID, "Old title", 10, domain.ListingStatusActive, time.Hour)

	updated, err := svc.Update(ctx, listing.ID, owner.ID, domain.ListingPatch{
		Title:  ptr("  New title  "),
		Status: ptr(domain.ListingStatusSold),
	})
	require.NoError(t, err)
	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, domain.ListingStatusSold, updated.Status)
	assert.Equal(t, listing.Description, updated.Description, "unpatched fields are kept")
	assert.Equal(t, listing.Price, updated.Price)
	assert.True(t, updated.UpdatedAt.After(listing.UpdatedAt) || updated.UpdatedAt.Equal(listing.UpdatedAt))

	// Free transitions between every status.
	for _, status := range []domain.ListingStatus{
		domain.ListingStatusArchived,
		domain.ListingStatusActive,
		domain.ListingStatusSold,
	} {
		got, err := svc.Update(ctx, listing.ID, owner.ID, domain.ListingPatch{Status: ptr(status)})
		require.NoError(t, err)
		assert.Equal(t, status, got.Status)
	}
}

func TestListingService_UpdateErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := newMarketplace()
	svc := newTestListingService(m)
	owner := m.addUser(t, "ann@x.com", "Ann")
	listing := m.addListing(t, owner.ID, "Some title", 10, domain.ListingStatusActive, 0)
	stranger := uuid.New()

	tests := []struct {
		name    string
		id      uuid.UUID
		caller  uuid.UUID
		patch   domain.ListingPatch
		wantErr error
	}{
		{"missing listing", uuid.New(), owner.ID, domain.ListingPatch{Title: ptr("Valid title")}, ErrListingNotFound},
		{"non-owner with valid patch", listing.ID, stranger, domain.ListingPatch{Title: ptr("Valid title")}, ErrNotOwned},
		{"non-owner with invalid patch", listing.ID, stranger, domain.ListingPatch{Price: ptr(-5.0)}, ErrNotOwned},
		{"non-owner with empty patch", listing.ID, stranger, domain.ListingPatch{}, ErrNotOwned},
		{"empty patch", listing.ID, owner.ID, domain.ListingPatch{}, domain.ErrValidation},
		{"title too short", listing.ID, owner.ID, domain.ListingPatch{Title: ptr("ab")}, domain.ErrValidation},
		{"invalid status", listing.ID, owner.ID, domain.ListingPatch{Status: ptr(domain.ListingStatus("INACTIVE"))}, domain.ErrValidation},
		{"unknown category", listing.ID, owner.ID, domain.ListingPatch{CategoryID: ptr(uuid.New())}, ErrUnknownCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Update(ctx, tt.id, tt.caller, tt.patch)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	got, err := svc.Get(ctx, listing.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "Some title", got.Title, "failed updates leave the listing untouched")
}

func TestListingService_Authorize(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := newMarketplace()
	svc := newTestListingService(m)
	owner := m.addUser(t, "ann@x.com", "Ann")
	listing := m.addListing(t, owner.ID, "Some title", 10, domain.ListingStatusArchived, 0)

	assert.NoError(t, svc.Authorize(ctx, listing.ID, owner.ID))

	err := svc.Authorize(ctx, listing.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotOwned)
	assert.ErrorIs(t, err, domain.ErrAuthorization)

	assert.ErrorIs(t, svc.Authorize(ctx, uuid.New(), owner.ID), ErrListingNotFound)
}

func TestListingService_DeleteTwice(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := newMarketplace()
	svc := newTestListingService(m)
	owner := m.addUser(t, "ann@x.com", "Ann")
	listing := m.addListing(t, owner.ID, "Some title", 10, domain.ListingStatusActive, 0)

	err := svc.Delete(ctx, listing.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotOwned)
	assert.ErrorIs(t, err, domain.ErrAuthorization)

	require.NoError(t, svc.Delete(ctx, listing.ID, owner.ID))
	assert.ErrorIs(t, svc.Delete(ctx, listing.ID, owner.ID), ErrListingNotFound)
}

func TestListingService_Search(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := newMarketplace()
	svc := newTestListingService(m)
	owner := m.addUser(t, "ann@x.com", "Ann")

	for i := 0; i < 12; i++ {
		m.addListing(t, owner.ID, fmt.Sprintf("Bike %02d", i), float64(i*10), domain.ListingStatusActive, time.Duration(i)*time.Minute)
	}
	m.addListing(t, owner.ID, "Sold bike", 5, domain.ListingStatusSold, 0)
	m.addListing(t, owner.ID, "Archived BIKE", 5, domain.ListingStatusArchived, 0)

	page, err := svc.Search(ctx, domain.ListingFilter{})
	require.NoError(t, err)
	assert.Equal(t, domain.PageMeta{
		Page: 1, PageSize: 10, Total: 12, TotalPages: 2, HasNextPage: true, HasPreviousPage: false,
	}, page.Meta)
	require.Len(t, page.Data, 10)
	assert.Equal(t, "Bike 00", page.Data[0].Title, "newest first")
	for _, l := range page.Data {
		assert.Equal(t, domain.ListingStatusActive, l.Status)
		assert.Nil(t, l.User.Phone, "search results hide contact details")
	}

	page, err = svc.Search(ctx, domain.ListingFilter{Page: 2})
	require.NoError(t, err)
	assert.Len(t, page.Data, 2)
	assert.False(t, page.Meta.HasNextPage)
	assert.True(t, page.Meta.HasPreviousPage)

	page, err = svc.Search(ctx, domain.ListingFilter{Query: "bike 1", MinPrice: ptr(100.0), MaxPrice: ptr(110.0)})
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	for _, l := range page.Data {
		assert.Contains(t, strings.ToLower(l.Title), "bike 1")
		assert.GreaterOrEqual(t, l.Price, 100.0)
		assert.LessOrEqual(t, l.Price, 110.0)
	}

	page, err = svc.Search(ctx, domain.ListingFilter{Page: 5})
	require.NoError(t, err)
	assert.NotNil(t, page.Data)
	assert.Empty(t, page.Data)
	assert.Equal(t, 12, page.Meta.Total)
}

func TestListingService_SearchValidation(t *testing.T) {
	t.Parallel()
	m := newMarketplace()
	svc := newTestListingService(m)
	called := false
	m.listings.SearchFn = func(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, int, error) {
		called = true
		return nil, 0, nil
	}

	_, err := svc.Search(context.Background(), domain.ListingFilter{MinPrice: ptr(50.0), MaxPrice: ptr(10.0)})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Search(context.Background(), domain.ListingFilter{PageSize: 101})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.False(t, called)
}

func TestListingService_SearchStoreError(t *testing.T) {
	t.Parallel()
	m := newMarketplace()
	m.listings.SearchFn = func(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, int, error) {
		return nil, 0, errors.New("timeout")
	}
	svc := newTestListingService(m)

	_, err := svc.Search(context.Background(), domain.ListingFilter{})
	assert.ErrorContains(t, err, "failed to search listings")
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))
}

func TestListingService_Favorites(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := newMarketplace()
	svc := newTestListingService(m)
	owner := m.addUser(t, "ann@x.com", "Ann")
	fan := m.addUser(t, "bob@x.com", "Bob")
	first := m.addListing(t, owner.ID, "First item", 10, domain.ListingStatusActive, time.Hour)
	second := m.addListing(t, owner.ID, "Second item", 20, domain.ListingStatusActive, 0)
	sold := m.addListing(t, owner.ID, "Sold item", 30, domain.ListingStatusSold, 0)

	fav, err := svc.AddFavorite(ctx, first.ID, fan.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, fav.ListingID)
	require.NotNil(t, fav.Listing)

	_, err = svc.AddFavorite(ctx, first.ID, fan.ID)
	assert.ErrorIs(t, err, ErrAlreadyFavorited)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = svc.AddFavorite(ctx, second.ID, fan.ID)
	require.NoError(t, err)

	_, err = svc.AddFavorite(ctx, sold.ID, fan.ID)
	assert.ErrorIs(t, err, ErrListingNotFound, "cannot favorite a listing the caller cannot see")

	_, err = svc.AddFavorite(ctx, uuid.New(), fan.ID)
	assert.ErrorIs(t, err, ErrListingNotFound)

	favorites, err := svc.ListFavorites(ctx, fan.ID)
	require.NoError(t, err)
	require.Len(t, favorites, 2)
	assert.Equal(t, second.ID, favorites[0].ListingID, "newest favorite first")
	assert.Equal(t, first.ID, favorites[1].ListingID)

	require.NoError(t, svc.RemoveFavorite(ctx, first.ID, fan.ID))
	assert.ErrorIs(t, svc.RemoveFavorite(ctx, first.ID, fan.ID), ErrFavoriteNotFound)

	favorites, err = svc.ListFavorites(ctx, owner.ID)
	require.NoError(t, err)
	assert.NotNil(t, favorites)
	assert.Empty(t, favorites)
}
