package main

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/phrazzld/classifieds-api/internal/domain"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// catalog is the category tree offered by the marketplace.
var catalog = []string{
	"Immobilier",
	"Véhicules",
	"Multimédia",
	"Maison & Jardin",
	"Emploi & Services",
	"Mode",
	"Loisirs",
}

// slugify lower-cases name, strips diacritics and joins the remaining
// alphanumeric words with hyphens: "Maison & Jardin" becomes "maison-jardin".
func slugify(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}

	words := strings.FieldsFunc(strings.ToLower(folded), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(words, "-")
}

// catalogCategories builds fresh category rows for the catalog. Rows that
// already exist keep their id when upserted.
func catalogCategories(now time.Time) []domain.Category {
	categories := make([]domain.Category, 0, len(catalog))
	for _, name := range catalog {
		categories = append(categories, domain.Category{
			ID:        uuid.New(),
			Name:      name,
			Slug:      slugify(name),
			CreatedAt: now,
		})
	}
	return categories
}
