package http

import (
	"errors"
	"fmt"
	"net/http"

	"warehouse-service/internal/http/middleware"
	apperrors "warehouse-service/pkg/errors"
	"warehouse-service/pkg/logger"

	"github.com/labstack/echo/v4"
)

const unknownRequestID = "unknown"

// CustomHTTPErrorHandler handles all errors returned by handlers and middleware.
// It maps sentinel errors to HTTP status codes, hides internal errors and
// logs with the request id.
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code, message := statusFor(err)

	requestID := middleware.GetRequestID(c)
	if requestID == "" {
		requestID = unknownRequestID
	}

	logged := logger.SanitizeLogMessage(err.Error())
	if code >= http.StatusInternalServerError {
		c.Logger().Errorf("internal_server_error request_id=%s status=%d error=%s", requestID, code, logged)
		message = "Internal server error"
	} else {
		c.Logger().Warnf("client_error request_id=%s status=%d error=%s", requestID, code, logged)
	}

	if err := c.JSON(code, map[string]interface{}{
		"error":      message,
		"request_id": requestID,
	}); err != nil {
		c.Logger().Error(err)
	}
}

func statusFor(err error) (int, string) {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code, fmt.Sprintf("%v", httpErr.Message)
	}

	code := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		code, message = http.StatusNotFound, "Resource not found"
	case errors.Is(err, apperrors.ErrUnauthorized):
		code, message = http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		code, message = http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, apperrors.ErrMalformedToken),
		errors.Is(err, apperrors.ErrSignatureMismatch),
		errors.Is(err, apperrors.ErrWrongKind):
		// Which check failed is not disclosed.
		return http.StatusUnauthorized, "Invalid or expired token"
	case errors.Is(err, apperrors.ErrForbidden):
		code, message = http.StatusForbidden, "Forbidden"
	case errors.Is(err, apperrors.ErrBadRequest):
		code, message = http.StatusBadRequest, "Bad request"
	case errors.Is(err, apperrors.ErrExpired):
		code, message = http.StatusGone, "Resource expired"
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && code < http.StatusInternalServerError {
		message = appErr.Message
	}

	return code, message
}
