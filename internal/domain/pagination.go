package domain

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Pagination defaults and bounds for listing search.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
	MaxQueryLen     = 100

	// MaxPage keeps (page-1)*pageSize within an int32 offset for every page size.
	MaxPage = math.MaxInt32 / MaxPageSize
)

// ListingFilter selects ACTIVE listings for a search. Nil filters are not applied.
type ListingFilter struct {
	Query      string
	CategoryID *uuid.UUID
	MinPrice   *float64
	MaxPrice   *float64
	Page       int
	PageSize   int
}

// Normalize fills in default paging values.
func (f *ListingFilter) Normalize() {
	if f.Page == 0 {
		f.Page = DefaultPage
	}
	if f.PageSize == 0 {
		f.PageSize = DefaultPageSize
	}
}

// Validate checks the filter after normalization.
func (f ListingFilter) Validate() error {
	if f.Page < 1 {
		return NewValidationError("page must be a positive integer")
	}
	if f.Page > MaxPage {
		return NewValidationError(fmt.Sprintf("page must be at most %d", MaxPage))
	}
	if f.PageSize < 1 || f.PageSize > MaxPageSize {
		return NewValidationError(fmt.Sprintf("pageSize must be between 1 and %d", MaxPageSize))
	}
	if utf8.RuneCountInString(f.Query) > MaxQueryLen {
		return NewValidationError(fmt.Sprintf("q must be at most %d characters", MaxQueryLen))
	}
	if f.MinPrice != nil {
		if err := CheckPrice("minPrice", *f.MinPrice); err != nil {
			return err
		}
	}
	if f.MaxPrice != nil {
		if err := CheckPrice("maxPrice", *f.MaxPrice); err != nil {
			return err
		}
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return NewValidationError("minPrice must be less than or equal to maxPrice")
	}
	return nil
}

// Offset is the number of rows skipped before the current page.
func (f ListingFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// PageMeta describes a page of results.
type PageMeta struct {
	Page            int  `json:"page"`
	PageSize        int  `json:"pageSize"`
	Total           int  `json:"total"`
	TotalPages      int  `json:"totalPages"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
}

// NewPageMeta computes paging metadata; totalPages is ceil(total/pageSize).
func NewPageMeta(page, pageSize, total int) PageMeta {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return PageMeta{
		Page:            page,
		PageSize:        pageSize,
		Total:           total,
		TotalPages:      totalPages,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	}
}

// ListingPage is one page of search results.
type ListingPage struct {
	Data []Listing `json:"data"`
	Meta PageMeta  `json:"meta"`
}
