package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/classifieds-api/internal/config"
	"github.com/phrazzld/classifieds-api/internal/domain"
	"github.com/phrazzld/classifieds-api/internal/mocks"
	"github.com/phrazzld/classifieds-api/internal/platform/logger"
	"github.com/stretchr/testify/require"
)

// testServer is an application backed by in-memory stores.
type testServer struct {
	app      *application
	handler  http.Handler
	category domain.Category
	logs     *logger.Buffer
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:                   4000,
			LogLevel:               "debug",
			AllowedOrigins:         []string{"*"},
			ShutdownTimeoutSeconds: 1,
		},
		Auth: config.AuthConfig{
			JWTSecret:            strings.Repeat("k", 48),
			TokenLifetimeMinutes: 1440,
			BcryptCost:           4,
		},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	category := domain.Category{ID: uuid.New(), Name: "Véhicules", Slug: "vehicules"}
	users := mocks.NewMockUserStore()
	categories := mocks.NewMockCategoryStore(category)
	listings := mocks.NewMockListingStore()
	listings.Users = users
	listings.Categories = categories
	favorites := mocks.NewMockFavoriteStore()
	favorites.Listings = listings

	log, logs := logger.NewBufferLogger()
	app, err := assembleApplication(testConfig(), log, nil, appStores{
		users:      users,
		categories: categories,
		listings:   listings,
		favorites:  favorites,
	})
	require.NoError(t, err)

	return &testServer{app: app, handler: app.setupRouter(), category: category, logs: logs}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

// register creates an account and returns its id and token.
func (s *testServer) register(t *testing.T, email, name string) (uuid.UUID, string) {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/auth/register", "", map[string]any{
		"email": email, "password": "secret1", "name": name,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		User  struct{ ID uuid.UUID } `json:"user"`
		Token string                 `json:"token"`
	}
	decode(t, rec, &resp)
	return resp.User.ID, resp.Token
}

// createListing publishes a listing and returns its id.
func (s *testServer) createListing(t *testing.T, token, title string, price float64) uuid.UUID {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/listings", token, map[string]any{
		"title":       title,
		"description": "Une description suffisamment longue",
		"price":       price,
		"location":    "Paris",
		"categoryId":  s.category.ID.String(),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var listing domain.Listing
	decode(t, rec, &listing)
	return listing.ID
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

type errorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	TraceID string `json:"traceId"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	decode(t, rec, &env)
	return env
}
