package domain

import (
	"time"

	"github.com/google/uuid"
)

// Favorite is a user's bookmark of a listing. A user can favorite a given
// listing at most once.
type Favorite struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	ListingID uuid.UUID `json:"listingId"`
	CreatedAt time.Time `json:"createdAt"`

	Listing *Listing `json:"listing,omitempty"`
}

// NewFavorite creates a favorite linking userID to listingID.
func NewFavorite(userID, listingID uuid.UUID) (*Favorite, error) {
	if userID == uuid.Nil {
		return nil, NewValidationError("userId cannot be empty")
	}
	if listingID == uuid.Nil {
		return nil, NewValidationError("listingId cannot be empty")
	}
	return &Favorite{
		ID:        uuid.New(),
		UserID:    userID,
		ListingID: listingID,
		CreatedAt: time.Now().UTC(),
	}, nil
}
