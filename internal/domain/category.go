package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category groups listings. Categories are seeded out of band and are
// read-only through the API.
type Category struct {
	ID        uuid.UUID     `json:"id"`
	Name      string        `json:"name"`
	Slug      string        `json:"slug"`
	CreatedAt time.Time     `json:"createdAt"`
	Count     CategoryCount `json:"_count"`
}

// CategoryCount holds denormalized counters for a category.
type CategoryCount struct {
	Listings int `json:"listings"`
}

// CategorySummary is the compact form of a category embedded in listings.
type CategorySummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}
