package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/classifieds-api/internal/api/shared"
	"github.com/phrazzld/classifieds-api/internal/mocks"
	"github.com/phrazzld/classifieds-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoUser writes the authenticated user ID, or "anonymous".
var echoUser = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	if id, ok := GetUserID(r); ok {
		_, _ = w.Write([]byte(id.String()))
		return
	}
	_, _ = w.Write([]byte("anonymous"))
})

func newJWTMock(userID uuid.UUID) *mocks.MockJWTService {
	return &mocks.MockJWTService{
		ValidateTokenFn: func(_ context.Context, token string) (*auth.Claims, error) {
			switch token {
			case "good":
				return &auth.Claims{UserID: userID}, nil
			case "expired":
				return nil, auth.ErrExpiredToken
			case "broken":
				return nil, errors.New("keystore unavailable")
			}
			return nil, auth.ErrInvalidToken
		},
	}
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	handler := NewAuthMiddleware(newJWTMock(userID)).Authenticate(echoUser)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
		wantMsg    string
	}{
		{name: "valid token", header: "Bearer good", wantStatus: http.StatusOK, wantBody: userID.String()},
		{name: "lowercase scheme", header: "bearer good", wantStatus: http.StatusOK, wantBody: userID.String()},
		{name: "missing header", wantStatus: http.StatusUnauthorized, wantMsg: "Authentication required"},
		{name: "basic auth", header: "Basic dXNlcjpwYXNz", wantStatus: http.StatusUnauthorized, wantMsg: "Invalid authorization format"},
		{name: "bearer without token", header: "Bearer", wantStatus: http.StatusUnauthorized, wantMsg: "Invalid authorization format"},
		{name: "expired", header: "Bearer expired", wantStatus: http.StatusUnauthorized, wantMsg: "Token expired"},
		{name: "invalid", header: "Bearer forged", wantStatus: http.StatusUnauthorized, wantMsg: "Invalid token"},
		{name: "validator failure", header: "Bearer broken", wantStatus: http.StatusInternalServerError, wantMsg: "Authentication error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
				return
			}
			var env shared.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
			assert.Equal(t, tt.wantMsg, env.Message)
		})
	}
}

func TestOptionalAuthenticate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	handler := NewAuthMiddleware(newJWTMock(userID)).OptionalAuthenticate(echoUser)

	tests := []struct {
		header string
		want   string
	}{
		{"Bearer good", userID.String()},
		{"", "anonymous"},
		{"Bearer expired", "anonymous"},
		{"Bearer forged", "anonymous"},
		{"Token good", "anonymous"},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/listings/x", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, tt.header)
		assert.Equal(t, tt.want, rec.Body.String(), tt.header)
	}
}

func TestBearerToken(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := BearerToken(req)
	assert.ErrorIs(t, err, auth.ErrMissingToken)

	req.Header.Set("Authorization", "Bearer  abc.def.ghi ")
	token, err := BearerToken(req)
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	req.Header.Set("Authorization", "Bearer abc def")
	_, err = BearerToken(req)
	assert.ErrorIs(t, err, auth.ErrMalformedHeader)
}
