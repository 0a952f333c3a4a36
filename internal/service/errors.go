package service

import "github.com/phrazzld/classifieds-api/internal/domain"

// Sentinel errors returned by the services. They are *domain.Error values, so
// callers can match them either exactly with errors.Is(err, ErrListingNotFound)
// or by kind with errors.Is(err, domain.ErrNotFound).
var (
	// ErrInvalidCredentials is returned by Login for an unknown email and for a
	// wrong password alike, so the response never reveals which one failed.
	ErrInvalidCredentials = domain.NewAuthenticationError("Invalid email or password")

	// ErrEmailTaken indicates a registration for an address that already exists.
	ErrEmailTaken = domain.NewConflictError("A user with this email already exists")

	// ErrUserNotFound is returned when a token refers to a user that no longer exists.
	ErrUserNotFound = domain.NewNotFoundError("User not found")

	// ErrListingNotFound covers both missing listings and listings the caller
	// is not allowed to see.
	ErrListingNotFound = domain.NewNotFoundError("Listing not found")

	// ErrNotOwned indicates a mutation attempted by someone other than the owner.
	ErrNotOwned = domain.NewAuthorizationError("You are not allowed to modify this listing")

	// ErrCategoryNotFound is returned by category lookups.
	ErrCategoryNotFound = domain.NewNotFoundError("Category not found")

	// ErrUnknownCategory is a validation failure: the payload references a
	// category that does not exist.
	ErrUnknownCategory = domain.NewValidationError("categoryId does not reference an existing category")

	// ErrAlreadyFavorited indicates a duplicate favorite.
	ErrAlreadyFavorited = domain.NewConflictError("Listing is already in favorites")

	// ErrFavoriteNotFound indicates removal of a favorite that does not exist.
	ErrFavoriteNotFound = domain.NewNotFoundError("Favorite not found")
)
