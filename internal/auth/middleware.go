package auth

import (
	"errors"
	"net/http"

	apperrors "warehouse-service/pkg/errors"

	"github.com/labstack/echo/v4"
)

type Middleware struct {
	gate *Gate
}

func NewMiddleware(gate *Gate) *Middleware {
	return &Middleware{gate: gate}
}

// RequireRoles admits requests whose credential carries one of roles.
// With no roles, any valid credential is admitted.
func (m *Middleware) RequireRoles(roles ...Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, err := m.gate.Authorize(c.Request(), roles...)
			if err != nil {
				return respondGateError(c, err)
			}

			c.Set(ContextKeyIdentity, identity)
			c.Set(ContextKeyAuthType, AuthTypeCredential)

			return next(c)
		}
	}
}

func respondGateError(c echo.Context, err error) error {
	var appErr *apperrors.AppError
	message := msgInvalidOrExpiredToken
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	if errors.Is(err, apperrors.ErrForbidden) {
		return respondError(c, http.StatusForbidden, message)
	}
	return respondError(c, http.StatusUnauthorized, message)
}

func respondError(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{jsonKeyError: message})
}

func GetIdentity(c echo.Context) (*Identity, error) {
	raw := c.Get(ContextKeyIdentity)
	if raw == nil {
		return nil, apperrors.Unauthorized(msgUserNotAuthenticated)
	}

	identity, ok := raw.(*Identity)
	if !ok || identity == nil {
		return nil, apperrors.InternalServer(msgInvalidIdentityCtx, nil)
	}

	return identity, nil
}

func GetAuthType(c echo.Context) AuthType {
	authType := c.Get(ContextKeyAuthType)
	if authType == nil {
		return ""
	}

	t, ok := authType.(AuthType)
	if !ok {
		return ""
	}

	return t
}
