package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Field limits shared by the validation layer and the domain constructors.
const (
	NameMinLen        = 2
	NameMaxLen        = 100
	EmailMaxLen       = 255
	TitleMinLen       = 3
	TitleMaxLen       = 100
	DescriptionMinLen = 10
	DescriptionMaxLen = 2000
	LocationMinLen    = 2
	LocationMaxLen    = 100
	MaxPrice          = 999999.99
)

// ListingStatus is the lifecycle state of a listing. Owners may move freely
// between all values.
type ListingStatus string

// Valid listing statuses.
const (
	ListingStatusActive   ListingStatus = "ACTIVE"
	ListingStatusSold     ListingStatus = "SOLD"
	ListingStatusArchived ListingStatus = "ARCHIVED"
)

// ListingStatuses lists every valid status.
var ListingStatuses = []ListingStatus{
	ListingStatusActive,
	ListingStatusSold,
	ListingStatusArchived,
}

// Valid reports whether s is one of the known statuses.
func (s ListingStatus) Valid() bool {
	switch s {
	case ListingStatusActive, ListingStatusSold, ListingStatusArchived:
		return true
	}
	return false
}

// ParseListingStatus converts a string to a ListingStatus.
func ParseListingStatus(s string) (ListingStatus, error) {
	status := ListingStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !status.Valid() {
		return "", NewValidationError(fmt.Sprintf("status must be one of ACTIVE, SOLD, ARCHIVED; got %q", s))
	}
	return status, nil
}

// ListingOwner is the public view of a listing's owner. Phone is only
// populated on the detail view.
type ListingOwner struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Phone *string   `json:"phone,omitempty"`
}

// Listing is a classified advertisement owned by a user.
type Listing struct {
	ID          uuid.UUID     `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Price       float64       `json:"price"`
	Location    string        `json:"location"`
	Status      ListingStatus `json:"status"`
	UserID      uuid.UUID     `json:"userId"`
	CategoryID  uuid.UUID     `json:"categoryId"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`

	User     *ListingOwner    `json:"user,omitempty"`
	Category *CategorySummary `json:"category,omitempty"`
}

// NewListing creates an ACTIVE listing owned by ownerID.
func NewListing(
	ownerID, categoryID uuid.UUID,
	title, description string,
	price float64,
	location string,
) (*Listing, error) {
	now := time.Now().UTC()
	listing := &Listing{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Price:       price,
		Location:    strings.TrimSpace(location),
		Status:      ListingStatusActive,
		UserID:      ownerID,
		CategoryID:  categoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := listing.Validate(); err != nil {
		return nil, err
	}
	return listing, nil
}

// Validate checks field constraints.
func (l *Listing) Validate() error {
	if l.ID == uuid.Nil {
		return NewValidationError("listing id cannot be empty")
	}
	if l.UserID == uuid.Nil {
		return NewValidationError("userId cannot be empty")
	}
	if l.CategoryID == uuid.Nil {
		return NewValidationError("categoryId must be a valid UUID")
	}
	if err := checkLength("title", l.Title, TitleMinLen, TitleMaxLen); err != nil {
		return err
	}
	if err := checkLength("description", l.Description, DescriptionMinLen, DescriptionMaxLen); err != nil {
		return err
	}
	if err := checkLength("location", l.Location, LocationMinLen, LocationMaxLen); err != nil {
		return err
	}
	if err := CheckPrice("price", l.Price); err != nil {
		return err
	}
	if !l.Status.Valid() {
		return NewValidationError(fmt.Sprintf("status must be one of ACTIVE, SOLD, ARCHIVED; got %q", l.Status))
	}
	return nil
}

// IsOwnedBy reports whether userID owns the listing.
func (l *Listing) IsOwnedBy(userID uuid.UUID) bool {
	return userID != uuid.Nil && l.UserID == userID
}

// VisibleTo reports whether the caller may see the listing. Non-active
// listings are hidden from everyone but their owner; callerID is nil for
// anonymous requests.
func (l *Listing) VisibleTo(callerID *uuid.UUID) bool {
	if l.Status == ListingStatusActive {
		return true
	}
	return callerID != nil && l.IsOwnedBy(*callerID)
}

// ListingPatch is a partial update. Nil fields are left unchanged.
type ListingPatch struct {
	Title       *string
	Description *string
	Price       *float64
	Location    *string
	CategoryID  *uuid.UUID
	Status      *ListingStatus
}

// IsEmpty reports whether the patch changes nothing.
func (p ListingPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Price == nil &&
		p.Location == nil && p.CategoryID == nil && p.Status == nil
}

// ApplyTo returns a copy of l with the patch applied and validated.
func (p ListingPatch) ApplyTo(l Listing) (*Listing, error) {
	if p.IsEmpty() {
		return nil, NewValidationError("at least one field must be provided")
	}
	if p.Title != nil {
		l.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		l.Description = strings.TrimSpace(*p.Description)
	}
	if p.Price != nil {
		l.Price = *p.Price
	}
	if p.Location != nil {
		l.Location = strings.TrimSpace(*p.Location)
	}
	if p.CategoryID != nil {
		l.CategoryID = *p.CategoryID
		l.Category = nil
	}
	if p.Status != nil {
		l.Status = *p.Status
	}
	l.UpdatedAt = time.Now().UTC()

	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// CheckPrice validates a price against the marketplace bounds.
func CheckPrice(field string, price float64) error {
	if price < 0 {
		return NewValidationError(field + " must be greater than or equal to 0")
	}
	if price > MaxPrice {
		return NewValidationError(fmt.Sprintf("%s must be less than or equal to %.2f", field, MaxPrice))
	}
	return nil
}

func checkLength(field, value string, minLen, maxLen int) error {
	n := utf8.RuneCountInString(value)
	if n < minLen {
		return NewValidationError(fmt.Sprintf("%s must be at least %d characters", field, minLen))
	}
	if n > maxLen {
		return NewValidationError(fmt.Sprintf("%s must be at most %d characters", field, maxLen))
	}
	return nil
}
