package handler

import (
	"errors"
	"net/http"

	apperrors "warehouse-service/pkg/errors"

	"github.com/labstack/echo/v4"
)

// MapToPublicError maps internal errors to public-facing HTTP status codes and messages.
// Token failures collapse to one message so callers cannot tell which check failed.
func MapToPublicError(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, "resource not found"
	case errors.Is(err, apperrors.ErrUnauthorized),
		errors.Is(err, apperrors.ErrInvalidCredentials),
		errors.Is(err, apperrors.ErrMalformedToken),
		errors.Is(err, apperrors.ErrSignatureMismatch),
		errors.Is(err, apperrors.ErrWrongKind):
		return http.StatusUnauthorized, "authentication required"
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden, "access denied"
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, "invalid input"
	case errors.Is(err, apperrors.ErrExpired):
		return http.StatusGone, "link expired"
	default:
		// Never expose internal errors to clients
		return http.StatusInternalServerError, "internal server error"
	}
}

// RespondWithMappedError responds with a mapped error, preventing information disclosure
func RespondWithMappedError(c echo.Context, err error) error {
	status, msg := MapToPublicError(err)
	if status >= http.StatusInternalServerError {
		c.Logger().Errorf("internal error: %v", err)
	}
	return respondError(c, status, msg)
}

// SafeErrorResponse returns safeStatus for err regardless of its kind.
// Use it where a missing resource and a denied one must look the same.
func SafeErrorResponse(c echo.Context, err error, safeStatus int, safeMessage string) error {
	c.Logger().Debugf("error (masked as %d): %v", safeStatus, err)
	return respondError(c, safeStatus, safeMessage)
}
