package postgres

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

// PostgresListingStore implements the store.ListingStore interface
// using a PostgreSQL database as the storage backend.
type PostgresListingStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresListingStore creates a new PostgreSQL implementation of the ListingStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresListingStore(db store.DBTX, logger *slog.Logger) *PostgresListingStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresListingStore{
		db:     db,
		logger: logger.With(slog.String("component", "listing_store")),
	}
}

// Ensure PostgresListingStore implements store.ListingStore interface
var _ store.ListingStore = (*PostgresListingStore)(nil)

// Search implements store.ListingStore.Search.
func (s *PostgresListingStore) Search(
	ctx context.Context,
	filter domain.ListingFilter,
) ([]domain.Listing, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	where, args := buildListingSearch(filter)

	var total int
	countQuery := `SELECT COUNT(*) FROM listings l` + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Error("failed to count listings", slog.String("error", err.Error()))
		return nil, 0, MapError(err)
	}

	listings := []domain.Listing{}
	if total == 0 || filter.Offset() >= total {
		return listings, total, nil
	}

	pageArgs := append(args, filter.PageSize, filter.Offset())
	query := listingSelect + where + listingOrder +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(pageArgs)-1, len(pageArgs))

	rows, err := s.db.QueryContext(ctx, query, pageArgs...)
	if err != nil {
		log.Error("failed to search listings", slog.String("error", err.Error()))
		return nil, 0, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			log.Error("failed to scan listing row", slog.String("error", err.Error()))
			return nil, 0, MapError(err)
		}
		// Contact details are only exposed on the detail view.
		l.User.Phone = nil
		listings = append(listings, *l)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating listing rows", slog.String("error", err.Error()))
		return nil, 0, MapError(err)
	}

	log.Debug("listing search completed",
		slog.Int("total", total),
		slog.Int("page", filter.Page),
		slog.Int("returned", len(listings)))
	return listings, total, nil
}

// GetByID implements store.ListingStore.GetByID.
func (s *PostgresListingStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	l, err := scanListing(s.db.QueryRowContext(ctx, listingSelect+` WHERE l.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("listing not found", slog.String("listing_id", id.String()))
			return nil, store.ErrListingNotFound
		}
		log.Error("failed to get listing",
			slog.String("error", err.Error()),
			slog.String("listing_id", id.String()))
		return nil, MapError(err)
	}
	return l, nil
}

// ListByOwner implements store.ListingStore.ListByOwner.
func (s *PostgresListingStore) ListByOwner(ctx context.Context, userID uuid.UUID) ([]domain.Listing, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, listingSelect+` WHERE l.user_id = $1`+listingOrder, userID)
	if err != nil {
		log.Error("failed to list owner listings",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	listings := []domain.Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, MapError(err)
		}
		// The owner is the caller; only the category is embedded.
		l.User = nil
		listings = append(listings, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return listings, nil
}

// Create implements store.ListingStore.Create.
// Returns store.ErrInvalidEntity if the owner or category does not exist.
func (s *PostgresListingStore) Create(ctx context.Context, listing *domain.Listing) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := listing.Validate(); err != nil {
		log.Warn("listing validation failed during create",
			slog.String("error", err.Error()),
			slog.String("listing_id", listing.ID.String()))
		return err
	}

	query := `
		INSERT INTO listings (id, title, description, price, location, status,
		                      user_id, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(ctx, query,
		listing.ID,
		listing.Title,
		listing.Description,
		listing.Price,
		listing.Location,
		string(listing.Status),
		listing.UserID,
		listing.CategoryID,
		listing.CreatedAt,
		listing.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during listing creation",
				slog.String("listing_id", listing.ID.String()),
				slog.String("category_id", listing.CategoryID.String()))
		} else {
			log.Error("failed to create listing",
				slog.String("error", err.Error()),
				slog.String("listing_id", listing.ID.String()))
		}
		return MapError(err)
	}

	log.Info("listing created successfully",
		slog.String("listing_id", listing.ID.String()),
		slog.String("user_id", listing.UserID.String()))
	return nil
}

// Update implements store.ListingStore.Update.
func (s *PostgresListingStore) Update(ctx context.Context, listing *domain.Listing) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := listing.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE listings
		SET title = $1, description = $2, price = $3, location = $4,
		    status = $5, category_id = $6, updated_at = $7
		WHERE id = $8 AND user_id = $9
	`
	result, err := s.db.ExecContext(ctx, query,
		listing.Title,
		listing.Description,
		listing.Price,
		listing.Location,
		string(listing.Status),
		listing.CategoryID,
		listing.UpdatedAt,
		listing.ID,
		listing.UserID,
	)
	if err != nil {
		log.Error("failed to update listing",
			slog.String("error", err.Error()),
			slog.String("listing_id", listing.ID.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrListingNotFound); err != nil {
		log.Debug("listing not updated", slog.String("listing_id", listing.ID.String()))
		return err
	}

	log.Info("listing updated successfully",
		slog.String("listing_id", listing.ID.String()),
		slog.String("status", string(listing.Status)))
	return nil
}

// Delete implements store.ListingStore.Delete.
func (s *PostgresListingStore) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM listings WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		log.Error("failed to delete listing",
			slog.String("error", err.Error()),
			slog.String("listing_id", id.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrListingNotFound); err != nil {
		return err
	}

	log.Info("listing deleted successfully", slog.String("listing_id", id.String()))
	return nil
}
