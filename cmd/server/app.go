package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/classifieds-api/internal/api/middleware"
	"github.com/phrazzld/classifieds-api/internal/config"
	"github.com/phrazzld/classifieds-api/internal/platform/postgres"
	"github.com/phrazzld/classifieds-api/internal/service"
	"github.com/phrazzld/classifieds-api/internal/service/auth"
	"github.com/phrazzld/classifieds-api/internal/store"
)

// metricsNamespace prefixes every exported Prometheus series.
const metricsNamespace = "classifieds"

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// db is nil in router tests, which run against in-memory stores.
	db *sql.DB

	// Stores (using interfaces for proper abstraction)
	userStore     store.UserStore
	categoryStore store.CategoryStore
	listingStore  store.ListingStore
	favoriteStore store.FavoriteStore

	// Service interfaces
	jwtService      auth.JWTService
	authService     service.AuthService
	listingService  service.ListingService
	categoryService service.CategoryService

	metrics *middleware.Metrics
}

// newApplication wires the Postgres stores into the services.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	return assembleApplication(cfg, logger, db, appStores{
		users:      postgres.NewPostgresUserStore(db, logger),
		categories: postgres.NewPostgresCategoryStore(db, logger),
		listings:   postgres.NewPostgresListingStore(db, logger),
		favorites:  postgres.NewPostgresFavoriteStore(db, logger),
	})
}

// appStores groups the persistence dependencies of the application.
type appStores struct {
	users      store.UserStore
	categories store.CategoryStore
	listings   store.ListingStore
	favorites  store.FavoriteStore
}

func assembleApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB, stores appStores) (*application, error) {
	app := &application{
		config:        cfg,
		logger:        logger,
		db:            db,
		userStore:     stores.users,
		categoryStore: stores.categories,
		listingStore:  stores.listings,
		favoriteStore: stores.favorites,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	app.authService = service.NewAuthService(app.userStore, app.listingStore, hasher, app.jwtService, logger)
	app.listingService = service.NewListingService(app.listingStore, app.categoryStore, app.favoriteStore, logger)
	app.categoryService = service.NewCategoryService(app.categoryStore, db, logger)

	if cfg.Metrics.Enabled {
		app.metrics = middleware.NewMetrics(metricsNamespace)
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}
	app.logger.Info("application shutdown completed")
}
