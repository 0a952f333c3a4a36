package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/classifieds-api/internal/api/shared"
	"github.com/phrazzld/classifieds-api/internal/domain"
	"github.com/phrazzld/classifieds-api/internal/platform/logger"
	"github.com/phrazzld/classifieds-api/internal/redact"
	"github.com/phrazzld/classifieds-api/internal/service/auth"
)

// AuthMiddleware provides JWT authentication for routes.
type AuthMiddleware struct {
	jwtService auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// Authenticate requires a valid bearer token and adds the caller's user ID
// to the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := m.authenticate(r)
		if err != nil {
			m.reject(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(shared.WithUserID(r.Context(), userID)))
	})
}

// OptionalAuthenticate identifies the caller when a valid bearer token is
// present and otherwise serves the request anonymously.
func (m *AuthMiddleware) OptionalAuthenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := m.authenticate(r)
		if err != nil {
			if !errors.Is(err, auth.ErrMissingToken) {
				logger.FromContext(r.Context()).Debug("ignoring unusable bearer token on optional route",
					redact.ErrorAttr(err))
			}
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(shared.WithUserID(r.Context(), userID)))
	})
}

func (m *AuthMiddleware) authenticate(r *http.Request) (uuid.UUID, error) {
	token, err := BearerToken(r)
	if err != nil {
		return uuid.Nil, err
	}
	claims, err := m.jwtService.ValidateToken(r.Context(), token)
	if err != nil {
		return uuid.Nil, err
	}
	return claims.UserID, nil
}

func (m *AuthMiddleware) reject(w http.ResponseWriter, r *http.Request, err error) {
	var message string
	switch {
	case errors.Is(err, auth.ErrMissingToken):
		message = "Authentication required"
	case errors.Is(err, auth.ErrMalformedHeader):
		message = "Invalid authorization format"
	case errors.Is(err, auth.ErrExpiredToken):
		message = "Token expired"
	case errors.Is(err, auth.ErrInvalidToken):
		message = "Invalid token"
	default:
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			domain.KindInternal, "Authentication error", err)
		return
	}
	shared.RespondWithError(w, r, http.StatusUnauthorized, domain.KindAuthentication, message)
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", auth.ErrMissingToken
	}

	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" || strings.Contains(token, " ") {
		return "", auth.ErrMalformedHeader
	}
	return token, nil
}

// GetUserID extracts the user ID from the request context.
// Returns the user ID and a boolean indicating if it was found.
func GetUserID(r *http.Request) (uuid.UUID, bool) {
	return shared.UserIDFromContext(r.Context())
}
