package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/classifieds-api/internal/api/shared"
	"github.com/phrazzld/classifieds-api/internal/domain"
	"github.com/phrazzld/classifieds-api/internal/platform/logger"
	"github.com/phrazzld/classifieds-api/internal/service"
	"github.com/phrazzld/classifieds-api/internal/service/auth"
	"github.com/phrazzld/classifieds-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", domain.NewValidationError("bad"), http.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("ctx: %w", domain.NewValidationError("bad")), http.StatusBadRequest},
		{"invalid credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"not owned", service.ErrNotOwned, http.StatusForbidden},
		{"listing not found", service.ErrListingNotFound, http.StatusNotFound},
		{"email taken", service.ErrEmailTaken, http.StatusConflict},
		{"store not found", fmt.Errorf("lookup: %w", store.ErrNotFound), http.StatusNotFound},
		{"store duplicate", store.ErrDuplicate, http.StatusConflict},
		{"store invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"body too large", &http.MaxBytesError{Limit: 10}, http.StatusRequestEntityTooLarge},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"internal domain error", domain.Wrap(domain.KindInternal, "db down", errors.New("dial")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Invalid email or password", GetSafeErrorMessage(service.ErrInvalidCredentials))
	assert.Equal(t, "Token expired", GetSafeErrorMessage(auth.ErrExpiredToken))
	assert.Equal(t, "Resource not found", GetSafeErrorMessage(store.ErrNotFound))
	assert.Equal(t, internalErrorMessage, GetSafeErrorMessage(nil))
	assert.Equal(t, internalErrorMessage, GetSafeErrorMessage(errors.New("pq: syntax error at or near")))
	assert.Equal(t, internalErrorMessage,
		GetSafeErrorMessage(domain.Wrap(domain.KindInternal, "connection refused to 10.0.0.3", nil)))
}

func TestHandleAPIError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   domain.ErrorKind
		wantMsg    string
	}{
		{"not owned", service.ErrNotOwned, http.StatusForbidden, domain.KindAuthorization, service.ErrNotOwned.Message},
		{"too large", fmt.Errorf("decode: %w", &http.MaxBytesError{Limit: 1}), http.StatusRequestEntityTooLarge, domain.KindValidation, "Request body is too large"},
		{"internal", errors.New("password=hunter2 rejected"), http.StatusInternalServerError, domain.KindInternal, internalErrorMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, logs := logger.NewBufferLogger()
			req := httptest.NewRequest(http.MethodGet, "/listings", nil)
			ctx := shared.SetTraceID(req.Context(), "")
			req = req.WithContext(logger.WithLogger(ctx, log))
			rec := httptest.NewRecorder()

			HandleAPIError(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var env shared.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
			assert.Equal(t, tt.wantKind, env.Error)
			assert.Equal(t, tt.wantMsg, env.Message)
			assert.Equal(t, shared.GetTraceID(ctx), env.TraceID)
			assert.NotContains(t, rec.Body.String(), "hunter2")
			assert.NotContains(t, logs.String(), "hunter2")
		})
	}
}
