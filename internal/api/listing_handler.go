package api

import (
	"net/http"

	"github.com/phrazzld/classifieds-api/internal/api/shared"
	"github.com/phrazzld/classifieds-api/internal/domain"
	"github.com/phrazzld/classifieds-api/internal/service"
)

// ListingHandler handles listing and favorite requests.
type ListingHandler struct {
	listingService service.ListingService
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(listingService service.ListingService) *ListingHandler {
	return &ListingHandler{listingService: listingService}
}

// Search handles GET /listings.
func (h *ListingHandler) Search(w http.ResponseWriter, r *http.Request) {
	filter, err := parseSearchQuery(r)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	page, err := h.listingService.Search(r.Context(), filter)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, page)
}

// Get handles GET /listings/{id}. Owners also see their non-ACTIVE listings.
func (h *ListingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	listing, err := h.listingService.Get(r.Context(), id, callerID(r))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, listing)
}

// Create handles POST /listings.
func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, err := requireCaller(r)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	req, err := decodeAndValidate[CreateListingRequest](w, r)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	listing, err := h.listingService.Create(r.Context(), ownerID, req.toInput())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, listing)
}

// Update handles PUT /listings/{id}.
func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := requireCaller(r)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	id, err := parseUUIDParam(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	// A malformed body from a non-owner is still answered with 403.
	var req UpdateListingRequest
	patch, err := req.decodePatch(w, r)
	if err != nil {
		if authErr := h.listingService.Authorize(r.Context(), id, userID); authErr != nil {
			err = authErr
		}
		HandleAPIError(w, r, err)
		return
	}

	listing, err := h.listingService.Update(r.Context(), id, userID, patch)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, listing)
}

// Delete handles DELETE /listings/{id}.
func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := requireCaller(r)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	id, err := parseUUIDParam(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	if err := h.listingService.Delete(r.Context(), id, userID); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, shared.MessageResponse{Message: "Listing deleted"})
}

// AddFavorite handles POST /listings/{id}/favorite.
func (h *ListingHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	userID, err := requireCaller(r)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	id, err := parseUUIDParam(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	favorite, err := h.listingService.AddFavorite(r.Context(), id, userID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, favorite)
}

// RemoveFavorite handles DELETE /listings/{id}/favorite.
func (h *ListingHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	userID, err := requireCaller(r)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	id, err := parseUUIDParam(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	if err := h.listingService.RemoveFavorite(r.Context(), id, userID); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, shared.MessageResponse{Message: "Favorite removed"})
}

// ListFavorites handles GET /listings/favorites.
func (h *ListingHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	userID, err := requireCaller(r)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	favorites, err := h.listingService.ListFavorites(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, shared.DataResponse[[]domain.Favorite]{Data: favorites})
}
