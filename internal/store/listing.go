package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/classifieds-api/internal/domain"
)

// ListingStore defines the interface for listing persistence.
type ListingStore interface {
	// Search returns one page of ACTIVE listings matching the filter, newest
	// first, together with the total number of matches. Each listing embeds
	// its owner's id and name and its category summary.
	Search(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, int, error)

	// GetByID retrieves a listing regardless of status, embedding the owner
	// (including phone) and the category summary.
	// Returns ErrListingNotFound if the listing does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Listing, error)

	// ListByOwner returns every listing owned by userID, newest first, with
	// category summaries.
	ListByOwner(ctx context.Context, userID uuid.UUID) ([]domain.Listing, error)

	// Create saves a new listing.
	// Returns ErrInvalidEntity if the category does not exist.
	Create(ctx context.Context, listing *domain.Listing) error

	// Update writes the mutable fields of listing. The row is only touched when
	// it is still owned by listing.UserID; otherwise ErrListingNotFound is returned.
	Update(ctx context.Context, listing *domain.Listing) error

	// Delete hard-deletes the listing if it is owned by ownerID.
	// Returns ErrListingNotFound when no such row exists.
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
}
