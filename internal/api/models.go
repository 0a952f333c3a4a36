package api

import (
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/classifieds-api/internal/domain"
	"github.com/phrazzld/classifieds-api/internal/service"
)

// RegisterRequest is the payload for POST /auth/register.
type RegisterRequest struct {
	Email    string  `json:"email"    validate:"required,email,max=255"`
	Password string  `json:"password" validate:"required,min=6,max=72"`
	Name     string  `json:"name"     validate:"required,min=2,max=100"`
	Phone    *string `json:"phone"    validate:"omitempty,phone"`
}

func (req *RegisterRequest) normalize() {
	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if req.Phone != nil {
		phone := strings.TrimSpace(*req.Phone)
		if phone == "" {
			req.Phone = nil
		} else {
			req.Phone = &phone
		}
	}
}

func (req RegisterRequest) toInput() service.RegisterInput {
	return service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Phone:    req.Phone,
	}
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CreateListingRequest is the payload for POST /listings.
type CreateListingRequest struct {
	Title       string   `json:"title"       validate:"required,min=3,max=100"`
	Description string   `json:"description" validate:"required,min=10,max=2000"`
	Price       *float64 `json:"price"       validate:"required,min=0,max=999999.99"`
	Location    string   `json:"location"    validate:"required,min=2,max=100"`
	CategoryID  string   `json:"categoryId"  validate:"required,uuid"`
}

func (req *CreateListingRequest) normalize() {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.Location = strings.TrimSpace(req.Location)
	req.CategoryID = strings.TrimSpace(req.CategoryID)
}

// toInput must only be called after validation.
func (req CreateListingRequest) toInput() service.CreateListingInput {
	return service.CreateListingInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       *req.Price,
		Location:    req.Location,
		CategoryID:  uuid.MustParse(req.CategoryID),
	}
}

// UpdateListingRequest is the payload for PUT /listings/{id}. Every field is
// optional. The fields are validated by the listing service after the
// ownership check, so that non-owners learn nothing about the payload.
type UpdateListingRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Location    *string  `json:"location"`
	CategoryID  *string  `json:"categoryId"`
	Status      *string  `json:"status"`
}

func (req UpdateListingRequest) toPatch() (domain.ListingPatch, error) {
	patch := domain.ListingPatch{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Location:    req.Location,
	}
	if req.CategoryID != nil {
		id, err := uuid.Parse(strings.TrimSpace(*req.CategoryID))
		if err != nil {
			return domain.ListingPatch{}, domain.Wrap(domain.KindValidation, "categoryId must be a valid UUID", err)
		}
		patch.CategoryID = &id
	}
	if req.Status != nil {
		status := domain.ListingStatus(strings.ToUpper(strings.TrimSpace(*req.Status)))
		patch.Status = &status
	}
	return patch, nil
}

// SearchListingsQuery holds the raw query parameters of GET /listings.
type SearchListingsQuery struct {
	Q          string `query:"q"          validate:"omitempty,max=100"`
	CategoryID string `query:"categoryId" validate:"omitempty,uuid"`
	MinPrice   string `query:"minPrice"   validate:"omitempty,price"`
	MaxPrice   string `query:"maxPrice"   validate:"omitempty,price"`
	Page       string `query:"page"       validate:"omitempty,number"`
	PageSize   string `query:"pageSize"   validate:"omitempty,number"`
}
