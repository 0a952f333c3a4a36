package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/classifieds-api/internal/domain"
	"github.com/phrazzld/classifieds-api/internal/platform/logger"
	"github.com/phrazzld/classifieds-api/internal/store"
)

// CreateListingInput holds the fields of a new listing.
type CreateListingInput struct {
	Title       string
	Description string
	Price       float64
	Location    string
	CategoryID  uuid.UUID
}

// ListingService provides the listing and favorite use cases.
type ListingService interface {
	// Search returns one page of ACTIVE listings matching the filter.
	Search(ctx context.Context, filter domain.ListingFilter) (*domain.ListingPage, error)

	// Get returns a listing. Non-ACTIVE listings are only returned to their
	// owner; callerID is nil for anonymous callers.
	Get(ctx context.Context, id uuid.UUID, callerID *uuid.UUID) (*domain.Listing, error)

	// Create publishes a new ACTIVE listing owned by ownerID.
	Create(ctx context.Context, ownerID uuid.UUID, input CreateListingInput) (*domain.Listing, error)

	// Update applies a partial update. Ownership is checked before the patch
	// is validated, so non-owners always get ErrNotOwned.
	Update(ctx context.Context, id, callerID uuid.UUID, patch domain.ListingPatch) (*domain.Listing, error)

	// Authorize reports whether callerID may modify the listing, returning
	// ErrListingNotFound or ErrNotOwned otherwise.
	Authorize(ctx context.Context, id, callerID uuid.UUID) error

	// Delete removes a listing owned by callerID.
	Delete(ctx context.Context, id, callerID uuid.UUID) error

	// AddFavorite bookmarks a listing visible to userID.
	AddFavorite(ctx context.Context, listingID, userID uuid.UUID) (*domain.Favorite, error)

	// RemoveFavorite deletes the user's bookmark of a listing.
	RemoveFavorite(ctx context.Context, listingID, userID uuid.UUID) error

	// ListFavorites returns the user's favorites, newest first.
	ListFavorites(ctx context.Context, userID uuid.UUID) ([]domain.Favorite, error)
}

// listingServiceImpl implements ListingService
type listingServiceImpl struct {
	listingStore  store.ListingStore
	categoryStore store.CategoryStore
	favoriteStore store.FavoriteStore
	logger        *slog.Logger
}

// NewListingService creates a new ListingService.
func NewListingService(
	listingStore store.ListingStore,
	categoryStore store.CategoryStore,
	favoriteStore store.FavoriteStore,
	logger *slog.Logger,
) ListingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &listingServiceImpl{
		listingStore:  listingStore,
		categoryStore: categoryStore,
		favoriteStore: favoriteStore,
		logger:        logger.With("component", "listing_service"),
	}
}

// Search implements ListingService.
func (s *listingServiceImpl) Search(ctx context.Context, filter domain.ListingFilter) (*domain.ListingPage, error) {
	filter.Normalize()
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	listings, total, err := s.listingStore.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search listings: %w", err)
	}
	if listings == nil {
		listings = []domain.Listing{}
	}

	return &domain.ListingPage{
		Data: listings,
		Meta: domain.NewPageMeta(filter.Page, filter.PageSize, total),
	}, nil
}

// Get implements ListingService.
func (s *listingServiceImpl) Get(ctx context.Context, id uuid.UUID, callerID *uuid.UUID) (*domain.Listing, error) {
	listing, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !listing.VisibleTo(callerID) {
		return nil, ErrListingNotFound
	}
	return listing, nil
}

// Create implements ListingService.
func (s *listingServiceImpl) Create(
	ctx context.Context,
	ownerID uuid.UUID,
	input CreateListingInput,
) (*domain.Listing, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.checkCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	listing, err := domain.NewListing(
		ownerID,
		input.CategoryID,
		input.Title,
		input.Description,
		input.Price,
		input.Location,
	)
	if err != nil {
		return nil, err
	}

	if err := s.listingStore.Create(ctx, listing); err != nil {
		if errors.Is(err, store.ErrInvalidEntity) {
			return nil, ErrUnknownCategory
		}
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}

	log.Info("listing created",
		slog.String("listing_id", listing.ID.String()),
		slog.String("user_id", ownerID.String()))

	return s.load(ctx, listing.ID)
}

// Update implements ListingService.
func (s *listingServiceImpl) Update(
	ctx context.Context,
	id, callerID uuid.UUID,
	patch domain.ListingPatch,
) (*domain.Listing, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	current, err := s.loadOwned(ctx, id, callerID)
	if err != nil {
		return nil, err
	}

	updated, err := patch.ApplyTo(*current)
	if err != nil {
		return nil, err
	}

	if patch.CategoryID != nil && *patch.CategoryID != current.CategoryID {
		if err := s.checkCategory(ctx, *patch.CategoryID); err != nil {
			return nil, err
		}
	}

	if err := s.listingStore.Update(ctx, updated); err != nil {
		switch {
		case errors.Is(err, store.ErrListingNotFound):
			// Deleted between the load and the write.
			return nil, ErrListingNotFound
		case errors.Is(err, store.ErrInvalidEntity):
			return nil, ErrUnknownCategory
		}
		return nil, fmt.Errorf("failed to update listing: %w", err)
	}

	log.Debug("listing updated", slog.String("listing_id", id.String()))
	return s.load(ctx, id)
}

// Authorize implements ListingService.
func (s *listingServiceImpl) Authorize(ctx context.Context, id, callerID uuid.UUID) error {
	_, err := s.loadOwned(ctx, id, callerID)
	return err
}

// Delete implements ListingService.
func (s *listingServiceImpl) Delete(ctx context.Context, id, callerID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.loadOwned(ctx, id, callerID); err != nil {
		return err
	}

	if err := s.listingStore.Delete(ctx, id, callerID); err != nil {
		if errors.Is(err, store.ErrListingNotFound) {
			return ErrListingNotFound
		}
		return fmt.Errorf("failed to delete listing: %w", err)
	}

	log.Info("listing deleted",
		slog.String("listing_id", id.String()),
		slog.String("user_id", callerID.String()))
	return nil
}

// AddFavorite implements ListingService.
func (s *listingServiceImpl) AddFavorite(ctx context.Context, listingID, userID uuid.UUID) (*domain.Favorite, error) {
	listing, err := s.Get(ctx, listingID, &userID)
	if err != nil {
		return nil, err
	}

	favorite, err := domain.NewFavorite(userID, listingID)
	if err != nil {
		return nil, err
	}
	if err := s.favoriteStore.Add(ctx, favorite); err != nil {
		switch {
		case errors.Is(err, store.ErrFavoriteExists):
			return nil, ErrAlreadyFavorited
		case errors.Is(err, store.ErrInvalidEntity):
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to add favorite: %w", err)
	}

	favorite.Listing = listing
	return favorite, nil
}

// RemoveFavorite implements ListingService.
func (s *listingServiceImpl) RemoveFavorite(ctx context.Context, listingID, userID uuid.UUID) error {
	if err := s.favoriteStore.Remove(ctx, userID, listingID); err != nil {
		if errors.Is(err, store.ErrFavoriteNotFound) {
			return ErrFavoriteNotFound
		}
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

// ListFavorites implements ListingService.
func (s *listingServiceImpl) ListFavorites(ctx context.Context, userID uuid.UUID) ([]domain.Favorite, error) {
	favorites, err := s.favoriteStore.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	if favorites == nil {
		favorites = []domain.Favorite{}
	}
	return favorites, nil
}

func (s *listingServiceImpl) load(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	listing, err := s.listingStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrListingNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return listing, nil
}

// loadOwned fetches a listing and verifies callerID owns it.
func (s *listingServiceImpl) loadOwned(ctx context.Context, id, callerID uuid.UUID) (*domain.Listing, error) {
	listing, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !listing.IsOwnedBy(callerID) {
		logger.FromContextOrDefault(ctx, s.logger).Warn("ownership check failed",
			slog.String("listing_id", id.String()),
			slog.String("user_id", callerID.String()))
		return nil, ErrNotOwned
	}
	return listing, nil
}

func (s *listingServiceImpl) checkCategory(ctx context.Context, categoryID uuid.UUID) error {
	if categoryID == uuid.Nil {
		return domain.NewValidationError("categoryId is required")
	}
	if _, err := s.categoryStore.GetByID(ctx, categoryID); err != nil {
		if errors.Is(err, store.ErrCategoryNotFound) {
			return ErrUnknownCategory
		}
		return fmt.Errorf("failed to check category: %w", err)
	}
	return nil
}
