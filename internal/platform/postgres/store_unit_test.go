package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/classifieds-api/internal/domain"
	"github.com/phrazzld/classifieds-api/internal/platform/logger"
	"github.com/phrazzld/classifieds-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var listingRowColumns = []string{
	"id", "title", "description", "price", "location", "status",
	"user_id", "category_id", "created_at", "updated_at",
	"name", "phone", "name", "slug",
}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

func testUser(t *testing.T) *domain.User {
	t.Helper()
	u, err := domain.NewUser("ann@example.com", "Ann", nil, "$2a$12$hash")
	require.NoError(t, err)
	return u
}

func TestUserStoreCreate(t *testing.T) {
	ctx := context.Background()
	log, _ := logger.NewBufferLogger()

	t.Run("success", func(t *testing.T) {
		db, mock := newMock(t)
		user := testUser(t)
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
			WithArgs(user.ID.String(), "ann@example.com", "Ann", nil, "$2a$12$hash", user.CreatedAt, user.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := NewPostgresUserStore(db, log).Create(ctx, user)
		assert.NoError(t, err)
	})

	t.Run("duplicate email", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
			WillReturnError(&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "users_email_key"})

		err := NewPostgresUserStore(db, log).Create(ctx, testUser(t))
		assert.ErrorIs(t, err, store.ErrEmailExists)
	})

	t.Run("invalid user never reaches the database", func(t *testing.T) {
		db, _ := newMock(t)
		user := testUser(t)
		user.HashedPassword = ""

		err := NewPostgresUserStore(db, log).Create(ctx, user)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestUserStoreGet(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	now := time.Now().UTC()
	columns := []string{"id", "email", "name", "phone", "hashed_password", "created_at", "updated_at"}

	t.Run("by email normalizes the address", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
			WithArgs("ann@example.com").
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(id.String(), "ann@example.com", "Ann", "0612345678", "hash", now, now))

		user, err := NewPostgresUserStore(db, nil).GetByEmail(ctx, " ANN@example.com ")

		require.NoError(t, err)
		assert.Equal(t, id, user.ID)
		require.NotNil(t, user.Phone)
		assert.Equal(t, "0612345678", *user.Phone)
	})

	t.Run("missing user", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
			WithArgs(id.String()).
			WillReturnRows(sqlmock.NewRows(columns))

		_, err := NewPostgresUserStore(db, nil).GetByID(ctx, id)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestListingStoreSearch(t *testing.T) {
	ctx := context.Background()
	countQuery := regexp.QuoteMeta("SELECT COUNT(*) FROM listings l WHERE l.status = $1")

	t.Run("empty result skips the page query", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(countQuery).
			WithArgs("ACTIVE").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		listings, total, err := NewPostgresListingStore(db, nil).Search(ctx, domain.ListingFilter{Page: 1, PageSize: 10})

		require.NoError(t, err)
		assert.Equal(t, 0, total)
		assert.NotNil(t, listings)
		assert.Empty(t, listings)
	})

	t.Run("returns page with summaries and hides phone", func(t *testing.T) {
		db, mock := newMock(t)
		listingID, ownerID, categoryID := uuid.New(), uuid.New(), uuid.New()
		now := time.Now().UTC()

		mock.ExpectQuery(countQuery).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))
		mock.ExpectQuery(regexp.QuoteMeta("ORDER BY l.created_at DESC, l.id DESC LIMIT $2 OFFSET $3")).
			WithArgs("ACTIVE", 10, 10).
			WillReturnRows(sqlmock.NewRows(listingRowColumns).AddRow(
				listingID.String(), "Vélo", "Vélo de course en bon état", 250.0, "Lyon", "ACTIVE",
				ownerID.String(), categoryID.String(), now, now,
				"Ann", "0612345678", "Loisirs", "loisirs",
			))

		listings, total, err := NewPostgresListingStore(db, nil).Search(ctx, domain.ListingFilter{Page: 2, PageSize: 10})

		require.NoError(t, err)
		assert.Equal(t, 11, total)
		require.Len(t, listings, 1)
		l := listings[0]
		assert.Equal(t, listingID, l.ID)
		assert.Equal(t, domain.ListingStatusActive, l.Status)
		assert.Equal(t, 250.0, l.Price)
		assert.Equal(t, &domain.ListingOwner{ID: ownerID, Name: "Ann"}, l.User)
		assert.Equal(t, &domain.CategorySummary{ID: categoryID, Name: "Loisirs", Slug: "loisirs"}, l.Category)
	})

	t.Run("page beyond the end skips the page query", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(countQuery).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

		listings, total, err := NewPostgresListingStore(db, nil).Search(ctx, domain.ListingFilter{Page: 3, PageSize: 10})

		require.NoError(t, err)
		assert.Equal(t, 5, total)
		assert.Empty(t, listings)
	})
}

func TestListingStoreGetByID(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("detail includes owner phone", func(t *testing.T) {
		db, mock := newMock(t)
		now := time.Now().UTC()
		mock.ExpectQuery(regexp.QuoteMeta("WHERE l.id = $1")).
			WithArgs(id.String()).
			WillReturnRows(sqlmock.NewRows(listingRowColumns).AddRow(
				id.String(), "Vélo", "Vélo de course en bon état", 250.0, "Lyon", "SOLD",
				uuid.NewString(), uuid.NewString(), now, now,
				"Ann", "0612345678", "Loisirs", "loisirs",
			))

		l, err := NewPostgresListingStore(db, nil).GetByID(ctx, id)

		require.NoError(t, err)
		assert.Equal(t, domain.ListingStatusSold, l.Status)
		require.NotNil(t, l.User.Phone)
		assert.Equal(t, "0612345678", *l.User.Phone)
	})

	t.Run("missing listing", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("WHERE l.id = $1")).
			WillReturnRows(sqlmock.NewRows(listingRowColumns))

		_, err := NewPostgresListingStore(db, nil).GetByID(ctx, id)
		assert.ErrorIs(t, err, store.ErrListingNotFound)
	})
}

func TestListingStoreWrites(t *testing.T) {
	ctx := context.Background()
	listing, err := domain.NewListing(uuid.New(), uuid.New(), "Vélo", "Vélo de course en bon état", 250, "Lyon")
	require.NoError(t, err)

	t.Run("create with unknown category", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO listings")).
			WillReturnError(&pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "listings_category_id_fkey"})

		err := NewPostgresListingStore(db, nil).Create(ctx, listing)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})

	t.Run("update is scoped to the owner", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta("WHERE id = $8 AND user_id = $9")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := NewPostgresListingStore(db, nil).Update(ctx, listing)
		assert.ErrorIs(t, err, store.ErrListingNotFound)
	})

	t.Run("delete twice", func(t *testing.T) {
		db, mock := newMock(t)
		deleteQuery := regexp.QuoteMeta("DELETE FROM listings WHERE id = $1 AND user_id = $2")
		mock.ExpectExec(deleteQuery).
			WithArgs(listing.ID.String(), listing.UserID.String()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(deleteQuery).
			WillReturnResult(sqlmock.NewResult(0, 0))

		s := NewPostgresListingStore(db, nil)
		assert.NoError(t, s.Delete(ctx, listing.ID, listing.UserID))
		assert.ErrorIs(t, s.Delete(ctx, listing.ID, listing.UserID), store.ErrListingNotFound)
	})
}

func TestFavoriteStore(t *testing.T) {
	ctx := context.Background()
	userID, listingID := uuid.New(), uuid.New()

	t.Run("second add is a duplicate", func(t *testing.T) {
		db, mock := newMock(t)
		insert := regexp.QuoteMeta("INSERT INTO favorites")
		mock.ExpectExec(insert).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(insert).
			WillReturnError(&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "favorites_user_listing_key"})

		s := NewPostgresFavoriteStore(db, nil)
		first, _ := domain.NewFavorite(userID, listingID)
		second, _ := domain.NewFavorite(userID, listingID)
		assert.NoError(t, s.Add(ctx, first))
		assert.ErrorIs(t, s.Add(ctx, second), store.ErrFavoriteExists)
	})

	t.Run("removing a missing favorite", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM favorites")).
			WithArgs(userID.String(), listingID.String()).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := NewPostgresFavoriteStore(db, nil).Remove(ctx, userID, listingID)
		assert.ErrorIs(t, err, store.ErrFavoriteNotFound)
	})

	t.Run("list embeds listing", func(t *testing.T) {
		db, mock := newMock(t)
		now := time.Now().UTC()
		favoriteID, ownerID, categoryID := uuid.New(), uuid.New(), uuid.New()
		columns := append([]string{"id", "user_id", "listing_id", "created_at"}, listingRowColumns...)
		mock.ExpectQuery(regexp.QuoteMeta("FROM favorites f")).
			WithArgs(userID.String(), "ACTIVE").
			WillReturnRows(sqlmock.NewRows(columns).AddRow(
				favoriteID.String(), userID.String(), listingID.String(), now,
				listingID.String(), "Vélo", "Vélo de course en bon état", 250.0, "Lyon", "ACTIVE",
				ownerID.String(), categoryID.String(), now, now,
				"Bob", "0612345678", "Loisirs", "loisirs",
			))

		favorites, err := NewPostgresFavoriteStore(db, nil).ListByUser(ctx, userID)

		require.NoError(t, err)
		require.Len(t, favorites, 1)
		assert.Equal(t, favoriteID, favorites[0].ID)
		require.NotNil(t, favorites[0].Listing)
		assert.Equal(t, "Bob", favorites[0].Listing.User.Name)
		assert.Nil(t, favorites[0].Listing.User.Phone)
	})
}

func TestCategoryStore(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	columns := []string{"id", "name", "slug", "created_at", "count"}

	t.Run("list ordered by name with counts", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("GROUP BY c.id ORDER BY c.name ASC")).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(uuid.NewString(), "Emploi & Services", "emploi-services", now, 0).
				AddRow(uuid.NewString(), "Immobilier", "immobilier", now, 3))

		categories, err := NewPostgresCategoryStore(db, nil).List(ctx)

		require.NoError(t, err)
		require.Len(t, categories, 2)
		assert.Equal(t, "immobilier", categories[1].Slug)
		assert.Equal(t, 3, categories[1].Count.Listings)
	})

	t.Run("unknown slug", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("WHERE c.slug = $1")).
			WithArgs("bateaux").
			WillReturnRows(sqlmock.NewRows(columns))

		_, err := NewPostgresCategoryStore(db, nil).GetBySlug(ctx, "bateaux")
		assert.ErrorIs(t, err, store.ErrCategoryNotFound)
	})

	t.Run("upsert returns the stored row", func(t *testing.T) {
		db, mock := newMock(t)
		existingID := uuid.New()
		mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (slug) DO UPDATE")).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "created_at"}).
				AddRow(existingID.String(), "Mode", "mode", now))

		stored, err := NewPostgresCategoryStore(db, nil).Upsert(ctx, &domain.Category{
			ID: uuid.New(), Name: "Mode", Slug: "mode", CreatedAt: now,
		})

		require.NoError(t, err)
		assert.Equal(t, existingID, stored.ID)
	})
}
