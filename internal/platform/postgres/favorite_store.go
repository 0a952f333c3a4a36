package postgres

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/classifieds-api/internal/domain"
	"github.com/phrazzld/classifieds-api/internal/platform/logger"
	"github.com/phrazzld/classifieds-api/internal/store"
)

// PostgresFavoriteStore implements the store.FavoriteStore interface
// using a PostgreSQL database as the storage backend.
type PostgresFavoriteStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresFavoriteStore creates a new PostgreSQL implementation of the FavoriteStore interface.
func NewPostgresFavoriteStore(db store.DBTX, logger *slog.Logger) *PostgresFavoriteStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresFavoriteStore{
		db:     db,
		logger: logger.With(slog.String("component", "favorite_store")),
	}
}

// Ensure PostgresFavoriteStore implements store.FavoriteStore interface
var _ store.FavoriteStore = (*PostgresFavoriteStore)(nil)

// Add implements store.FavoriteStore.Add.
// The (user_id, listing_id) unique constraint turns a repeated add into store.ErrFavoriteExists.
func (s *PostgresFavoriteStore) Add(ctx context.Context, favorite *domain.Favorite) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO favorites (id, user_id, listing_id, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.db.ExecContext(ctx, query,
		favorite.ID,
		favorite.UserID,
		favorite.ListingID,
		favorite.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("listing already favorited",
				slog.String("user_id", favorite.UserID.String()),
				slog.String("listing_id", favorite.ListingID.String()))
			return store.ErrFavoriteExists
		}
		log.Error("failed to add favorite",
			slog.String("error", err.Error()),
			slog.String("listing_id", favorite.ListingID.String()))
		return MapError(err)
	}

	log.Info("favorite added",
		slog.String("user_id", favorite.UserID.String()),
		slog.String("listing_id", favorite.ListingID.String()))
	return nil
}

// Remove implements store.FavoriteStore.Remove.
func (s *PostgresFavoriteStore) Remove(ctx context.Context, userID, listingID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND listing_id = $2`, userID, listingID)
	if err != nil {
		log.Error("failed to remove favorite",
			slog.String("error", err.Error()),
			slog.String("listing_id", listingID.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrFavoriteNotFound); err != nil {
		return err
	}

	log.Info("favorite removed",
		slog.String("user_id", userID.String()),
		slog.String("listing_id", listingID.String()))
	return nil
}

// ListByUser implements store.FavoriteStore.ListByUser. Favorited listings that
// are no longer ACTIVE are left out unless the user owns them.
func (s *PostgresFavoriteStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Favorite, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT f.id, f.user_id, f.listing_id, f.created_at,
		       l.id, l.title, l.description, l.price, l.location, l.status,
		       l.user_id, l.category_id, l.created_at, l.updated_at,
		       u.name, u.phone, c.name, c.slug
		FROM favorites f
		JOIN listings l ON l.id = f.listing_id
		JOIN users u ON u.id = l.user_id
		JOIN categories c ON c.id = l.category_id
		WHERE f.user_id = $1 AND (l.status = $2 OR l.user_id = $1)
		ORDER BY f.created_at DESC, f.id DESC
	`
	rows, err := s.db.QueryContext(ctx, query, userID, string(domain.ListingStatusActive))
	if err != nil {
		log.Error("failed to list favorites",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	favorites := []domain.Favorite{}
	for rows.Next() {
		var (
			f        domain.Favorite
			l        domain.Listing
			status   string
			owner    domain.ListingOwner
			category domain.CategorySummary
		)
		err := rows.Scan(
			&f.ID, &f.UserID, &f.ListingID, &f.CreatedAt,
			&l.ID, &l.Title, &l.Description, &l.Price, &l.Location, &status,
			&l.UserID, &l.CategoryID, &l.CreatedAt, &l.UpdatedAt,
			&owner.Name, &owner.Phone, &category.Name, &category.Slug,
		)
		if err != nil {
			log.Error("failed to scan favorite row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		l.Status = domain.ListingStatus(status)
		owner.ID = l.UserID
		owner.Phone = nil
		category.ID = l.CategoryID
		l.User = &owner
		l.Category = &category
		f.Listing = &l
		favorites = append(favorites, f)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return favorites, nil
}
