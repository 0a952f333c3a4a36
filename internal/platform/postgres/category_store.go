package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/classifieds-api/internal/domain"
	"github.com/phrazzld/classifieds-api/internal/platform/logger"
	"github.com/phrazzld/classifieds-api/internal/store"
)

// PostgresCategoryStore implements the store.CategoryStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCategoryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCategoryStore creates a new PostgreSQL implementation of the CategoryStore interface.
func NewPostgresCategoryStore(db store.DBTX, logger *slog.Logger) *PostgresCategoryStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresCategoryStore{
		db:     db,
		logger: logger.With(slog.String("component", "category_store")),
	}
}

// Ensure PostgresCategoryStore implements store.CategoryStore interface
var _ store.CategoryStore = (*PostgresCategoryStore)(nil)

const categorySelect = `
	SELECT c.id, c.name, c.slug, c.created_at, COUNT(l.id)
	FROM categories c
	LEFT JOIN listings l ON l.category_id = c.id
`

// WithTx implements store.CategoryStore.WithTx.
func (s *PostgresCategoryStore) WithTx(tx store.DBTX) store.CategoryStore {
	return &PostgresCategoryStore{db: tx, logger: s.logger}
}

// List implements store.CategoryStore.List.
func (s *PostgresCategoryStore) List(ctx context.Context) ([]domain.Category, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, categorySelect+` GROUP BY c.id ORDER BY c.name ASC`)
	if err != nil {
		log.Error("failed to list categories", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	categories := []domain.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			log.Error("failed to scan category row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		categories = append(categories, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return categories, nil
}

// GetByID implements store.CategoryStore.GetByID.
func (s *PostgresCategoryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	return s.getOne(ctx, categorySelect+` WHERE c.id = $1 GROUP BY c.id`, id)
}

// GetBySlug implements store.CategoryStore.GetBySlug.
func (s *PostgresCategoryStore) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	return s.getOne(ctx, categorySelect+` WHERE c.slug = $1 GROUP BY c.id`, slug)
}

func (s *PostgresCategoryStore) getOne(ctx context.Context, query string, arg any) (*domain.Category, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	c, err := scanCategory(s.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		mapped := MapError(err)
		if errors.Is(mapped, store.ErrNotFound) {
			log.Debug("category not found", slog.Any("key", arg))
			return nil, store.ErrCategoryNotFound
		}
		log.Error("failed to get category", slog.String("error", err.Error()))
		return nil, mapped
	}
	return c, nil
}

// Upsert implements store.CategoryStore.Upsert.
func (s *PostgresCategoryStore) Upsert(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO categories (id, name, slug, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, slug, created_at
	`
	var stored domain.Category
	err := s.db.QueryRowContext(ctx, query,
		category.ID,
		category.Name,
		category.Slug,
		category.CreatedAt,
	).Scan(&stored.ID, &stored.Name, &stored.Slug, &stored.CreatedAt)
	if err != nil {
		log.Error("failed to upsert category",
			slog.String("error", err.Error()),
			slog.String("slug", category.Slug))
		return nil, MapError(err)
	}

	log.Info("category upserted", slog.String("slug", stored.Slug), slog.String("category_id", stored.ID.String()))
	return &stored, nil
}

func scanCategory(row rowScanner) (*domain.Category, error) {
	var c domain.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt, &c.Count.Listings); err != nil {
		return nil, err
	}
	return &c, nil
}
