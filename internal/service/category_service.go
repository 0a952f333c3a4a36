package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/classifieds-api/internal/domain"
	"github.com/phrazzld/classifieds-api/internal/platform/logger"
	"github.com/phrazzld/classifieds-api/internal/store"
)

// CategoryService exposes the category catalogue. Categories are read-only
// through the API; Seed is the out-of-band provisioning path.
type CategoryService interface {
	// List returns every category sorted by name with listing counts.
	List(ctx context.Context) ([]domain.Category, error)

	// GetByID returns a category or ErrCategoryNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)

	// GetBySlug returns a category or ErrCategoryNotFound.
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)

	// Seed upserts the given categories by slug in a single transaction.
	Seed(ctx context.Context, categories []domain.Category) ([]domain.Category, error)
}

type categoryServiceImpl struct {
	categoryStore store.CategoryStore
	db            *sql.DB
	logger        *slog.Logger
}

// NewCategoryService creates a new CategoryService. db is only used to open
// the Seed transaction and may be nil when seeding is not needed.
func NewCategoryService(categoryStore store.CategoryStore, db *sql.DB, logger *slog.Logger) CategoryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &categoryServiceImpl{
		categoryStore: categoryStore,
		db:            db,
		logger:        logger.With("component", "category_service"),
	}
}

// List implements CategoryService.
func (s *categoryServiceImpl) List(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categoryStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	return categories, nil
}

// GetByID implements CategoryService.
func (s *categoryServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	category, err := s.categoryStore.GetByID(ctx, id)
	return s.found(category, err)
}

// GetBySlug implements CategoryService.
func (s *categoryServiceImpl) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	category, err := s.categoryStore.GetBySlug(ctx, slug)
	return s.found(category, err)
}

func (s *categoryServiceImpl) found(category *domain.Category, err error) (*domain.Category, error) {
	if err != nil {
		if errors.Is(err, store.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

// Seed implements CategoryService.
func (s *categoryServiceImpl) Seed(ctx context.Context, categories []domain.Category) ([]domain.Category, error) {
	if s.db == nil {
		return nil, errors.New("category seeding requires a database handle")
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	seeded := make([]domain.Category, 0, len(categories))
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.categoryStore.WithTx(tx)
		for i := range categories {
			stored, err := txStore.Upsert(ctx, &categories[i])
			if err != nil {
				return fmt.Errorf("failed to upsert category %q: %w", categories[i].Slug, err)
			}
			seeded = append(seeded, *stored)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("categories seeded", slog.Int("count", len(seeded)))
	return seeded, nil
}
