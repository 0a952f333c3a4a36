package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/classifieds-api/internal/api/shared"
	"github.com/phrazzld/classifieds-api/internal/domain"
	"github.com/phrazzld/classifieds-api/internal/service/auth"
	"github.com/phrazzld/classifieds-api/internal/store"
)

const internalErrorMessage = shared.InternalErrorMessage

// MapErrorToStatusCode maps an error to its HTTP status code.
func MapErrorToStatusCode(err error) int {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return http.StatusRequestEntityTooLarge
	}

	switch classify(err) {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindAuthentication:
		return http.StatusUnauthorized
	case domain.KindAuthorization:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// GetSafeErrorMessage returns the client-facing message for err. Messages of
// domain errors are written for clients; anything else, including every
// internal error, gets a fixed message so no internal detail leaks.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return internalErrorMessage
	}

	var domainErr *domain.Error
	if errors.As(err, &domainErr) && domainErr.Kind != domain.KindInternal && domainErr.Message != "" {
		return domainErr.Message
	}

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken):
		return "Invalid token"
	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"
	case errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"
	}
	return internalErrorMessage
}

// classify returns the error kind of err, translating store and auth
// sentinels that reach the API without a domain wrapper.
func classify(err error) domain.ErrorKind {
	var domainErr *domain.Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrMalformedHeader):
		return domain.KindAuthentication
	case errors.Is(err, store.ErrNotFound):
		return domain.KindNotFound
	case errors.Is(err, store.ErrDuplicate):
		return domain.KindConflict
	case errors.Is(err, store.ErrInvalidEntity):
		return domain.KindValidation
	}
	return domain.KindInternal
}

// HandleAPIError renders err as an error envelope. It is the single place
// where errors become HTTP responses.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	kind := classify(err)
	message := GetSafeErrorMessage(err)

	if status == http.StatusRequestEntityTooLarge {
		kind = domain.KindValidation
		message = "Request body is too large"
	}
	if status >= http.StatusInternalServerError {
		kind = domain.KindInternal
		message = internalErrorMessage
	}

	shared.RespondWithErrorAndLog(w, r, status, kind, message, err)
}
