package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/classifieds-api/internal/domain"
)

// FavoriteStore defines the interface for favorite persistence.
type FavoriteStore interface {
	// Add saves a favorite.
	// Returns ErrFavoriteExists if the user already favorited the listing.
	Add(ctx context.Context, favorite *domain.Favorite) error

	// Remove deletes the user's favorite for the listing.
	// Returns ErrFavoriteNotFound if there is none.
	Remove(ctx context.Context, userID, listingID uuid.UUID) error

	// ListByUser returns the user's favorites, newest first, each embedding the
	// listing with its owner and category summaries.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Favorite, error)
}
