package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/phrazzld/classifieds-api/internal/api"
	"github.com/phrazzld/classifieds-api/internal/api/middleware"
	"github.com/phrazzld/classifieds-api/internal/api/shared"
	"github.com/phrazzld/classifieds-api/internal/domain"
)

// setupRouter creates the chi router with middleware and every route.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewTraceMiddleware(app.logger))
	r.Use(middleware.Recoverer)
	if app.metrics != nil {
		r.Use(app.metrics.Middleware)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.config.Server.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", shared.TraceIDHeader},
		ExposedHeaders:   []string{shared.TraceIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authMiddleware := middleware.NewAuthMiddleware(app.jwtService)
	authHandler := api.NewAuthHandler(app.authService)
	listingHandler := api.NewListingHandler(app.listingService)
	categoryHandler := api.NewCategoryHandler(app.categoryService)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.With(authMiddleware.Authenticate).Get("/me", authHandler.Me)
	})

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", categoryHandler.List)
		r.Get("/slug/{slug}", categoryHandler.GetBySlug)
		r.Get("/{id}", categoryHandler.Get)
	})

	r.Route("/listings", func(r chi.Router) {
		r.Get("/", listingHandler.Search)
		r.With(authMiddleware.OptionalAuthenticate).Get("/{id}", listingHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Get("/favorites", listingHandler.ListFavorites)
			r.Post("/", listingHandler.Create)
			r.Put("/{id}", listingHandler.Update)
			r.Delete("/{id}", listingHandler.Delete)
			r.Post("/{id}/favorite", listingHandler.AddFavorite)
			r.Delete("/{id}/favorite", listingHandler.RemoveFavorite)
		})
	})

	r.Get("/health", app.handleHealth)
	if app.metrics != nil {
		r.Handle(app.config.Metrics.Path, app.metrics.Handler())
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusNotFound, domain.KindNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusMethodNotAllowed, domain.KindNotFound, "Method not allowed")
	})

	return r
}

// healthResponse is the body of GET /health.
type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

func (app *application) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Database: "not configured"}
	if app.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := app.db.PingContext(ctx); err != nil {
			app.logger.Error("health check database ping failed", "error", err)
			resp = healthResponse{Status: "unavailable", Database: "unreachable"}
			shared.RespondWithJSON(w, r, http.StatusServiceUnavailable, resp)
			return
		}
		resp.Database = "ok"
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}
