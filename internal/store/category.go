package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/classifieds-api/internal/domain"
)

// CategoryStore defines the interface for category persistence.
type CategoryStore interface {
	// List returns every category ordered by name, each with its listing count.
	List(ctx context.Context) ([]domain.Category, error)

	// GetByID retrieves a category with its listing count.
	// Returns ErrCategoryNotFound if the category does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)

	// GetBySlug retrieves a category by its unique slug.
	// Returns ErrCategoryNotFound if the category does not exist.
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)

	// Upsert inserts the category, or renames the existing row with the same slug.
	// It returns the stored category, whose ID may differ from the argument's.
	Upsert(ctx context.Context, category *domain.Category) (*domain.Category, error)

	// WithTx returns a new CategoryStore that uses the provided transaction.
	WithTx(tx DBTX) CategoryStore
}
