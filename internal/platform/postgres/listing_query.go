package postgres

import (
	"fmt"
	"strings"

	"github.com/phrazzld/classifieds-api/internal/domain"
)

// listingSelect selects a listing with its owner and category summaries.
// Rows are read back with scanListing.
const listingSelect = `
	SELECT l.id, l.title, l.description, l.price, l.location, l.status,
	       l.user_id, l.category_id, l.created_at, l.updated_at,
	       u.name, u.phone, c.name, c.slug
	FROM listings l
	JOIN users u ON u.id = l.user_id
	JOIN categories c ON c.id = l.category_id
`

// listingOrder is the canonical newest-first ordering; id breaks timestamp ties.
const listingOrder = ` ORDER BY l.created_at DESC, l.id DESC`

// likeEscaper escapes LIKE wildcards so user input matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// buildListingSearch builds the WHERE clause and positional arguments for a
// search. Only ACTIVE listings are eligible; the text filter is a
// case-insensitive substring match on title or description.
func buildListingSearch(filter domain.ListingFilter) (string, []any) {
	args := []any{string(domain.ListingStatusActive)}
	conditions := []string{"l.status = $1"}

	next := func(value any) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if q := strings.TrimSpace(filter.Query); q != "" {
		p := next("%" + likeEscaper.Replace(q) + "%")
		conditions = append(conditions, fmt.Sprintf("(l.title ILIKE %s OR l.description ILIKE %s)", p, p))
	}
	if filter.CategoryID != nil {
		conditions = append(conditions, "l.category_id = "+next(*filter.CategoryID))
	}
	if filter.MinPrice != nil {
		conditions = append(conditions, "l.price >= "+next(*filter.MinPrice))
	}
	if filter.MaxPrice != nil {
		conditions = append(conditions, "l.price <= "+next(*filter.MaxPrice))
	}

	return " WHERE " + strings.Join(conditions, " AND "), args
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanListing(row rowScanner) (*domain.Listing, error) {
	var (
		l        domain.Listing
		status   string
		owner    domain.ListingOwner
		category domain.CategorySummary
	)
	err := row.Scan(
		&l.ID,
		&l.Title,
		&l.Description,
		&l.Price,
		&l.Location,
		&status,
		&l.UserID,
		&l.CategoryID,
		&l.CreatedAt,
		&l.UpdatedAt,
		&owner.Name,
		&owner.Phone,
		&category.Name,
		&category.Slug,
	)
	if err != nil {
		return nil, err
	}

	l.Status = domain.ListingStatus(status)
	owner.ID = l.UserID
	category.ID = l.CategoryID
	l.User = &owner
	l.Category = &category
	return &l, nil
}
