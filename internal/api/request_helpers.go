package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/classifieds-api/internal/api/shared"
	"github.com/phrazzld/classifieds-api/internal/domain"
)

// decodePatch reads the request body into req and converts it to a patch.
func (req *UpdateListingRequest) decodePatch(w http.ResponseWriter, r *http.Request) (domain.ListingPatch, error) {
	if err := shared.DecodeJSON(w, r, req); err != nil {
		return domain.ListingPatch{}, err
	}
	return req.toPatch()
}

// decodeAndValidate decodes the JSON body into req, applies the request's
// normalization and runs the struct validation.
func decodeAndValidate[T any, PT interface {
	*T
	normalize()
}](w http.ResponseWriter, r *http.Request) (*T, error) {
	req := PT(new(T))
	if err := shared.DecodeJSON(w, r, req); err != nil {
		return nil, err
	}
	req.normalize()
	if err := shared.ValidateRequest(req); err != nil {
		return nil, err
	}
	return (*T)(req), nil
}

func (req *LoginRequest) normalize() {
	req.Email = strings.TrimSpace(req.Email)
}

// parseUUIDParam reads a UUID path parameter.
func parseUUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.Wrap(domain.KindValidation, name+" must be a valid UUID", err)
	}
	return id, nil
}

// callerID returns the authenticated user, or nil for anonymous requests.
func callerID(r *http.Request) *uuid.UUID {
	if id, ok := shared.UserIDFromContext(r.Context()); ok {
		return &id
	}
	return nil
}

// requireCaller returns the authenticated user. Routes using it sit behind
// the Authenticate middleware, so a missing ID is a wiring error.
func requireCaller(r *http.Request) (uuid.UUID, error) {
	if id, ok := shared.UserIDFromContext(r.Context()); ok {
		return id, nil
	}
	return uuid.Nil, domain.NewAuthenticationError("Authentication required")
}

// parseSearchQuery validates the GET /listings query string and converts it
// into a listing filter.
func parseSearchQuery(r *http.Request) (domain.ListingFilter, error) {
	values := r.URL.Query()
	query := SearchListingsQuery{
		Q:          strings.TrimSpace(values.Get("q")),
		CategoryID: strings.TrimSpace(values.Get("categoryId")),
		MinPrice:   strings.TrimSpace(values.Get("minPrice")),
		MaxPrice:   strings.TrimSpace(values.Get("maxPrice")),
		Page:       strings.TrimSpace(values.Get("page")),
		PageSize:   strings.TrimSpace(values.Get("pageSize")),
	}
	if err := shared.ValidateRequest(&query); err != nil {
		return domain.ListingFilter{}, err
	}

	filter := domain.ListingFilter{Query: query.Q}
	if query.CategoryID != "" {
		id := uuid.MustParse(query.CategoryID)
		filter.CategoryID = &id
	}

	var err error
	if filter.MinPrice, err = parseOptionalPrice("minPrice", query.MinPrice); err != nil {
		return domain.ListingFilter{}, err
	}
	if filter.MaxPrice, err = parseOptionalPrice("maxPrice", query.MaxPrice); err != nil {
		return domain.ListingFilter{}, err
	}

	if query.Page != "" {
		// The query validator admits digits only, so a parse failure is an overflow.
		page, err := strconv.Atoi(query.Page)
		if err != nil || page > domain.MaxPage {
			return domain.ListingFilter{}, domain.NewValidationError(
				fmt.Sprintf("page must be at most %d", domain.MaxPage))
		}
		if page < 1 {
			return domain.ListingFilter{}, domain.NewValidationError("page must be a positive integer")
		}
		filter.Page = page
	}
	if query.PageSize != "" {
		size, err := strconv.Atoi(query.PageSize)
		if err != nil || size < 1 || size > domain.MaxPageSize {
			return domain.ListingFilter{}, domain.NewValidationError(
				fmt.Sprintf("pageSize must be between 1 and %d", domain.MaxPageSize))
		}
		filter.PageSize = size
	}

	filter.Normalize()
	if err := filter.Validate(); err != nil {
		return domain.ListingFilter{}, err
	}
	return filter, nil
}

func parseOptionalPrice(field, raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, domain.Wrap(domain.KindValidation, field+" must be a valid amount", err)
	}
	return &price, nil
}
