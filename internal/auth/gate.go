package auth

import (
	"net/http"
	"slices"
	"strings"

	apperrors "warehouse-service/pkg/errors"
)

// CredentialVerifier verifies a raw credential token.
type CredentialVerifier interface {
	Verify(token string) (*Claims, error)
}

// Gate turns an inbound request and a permitted role set into an
// authorization decision. It has no side effects.
type Gate struct {
	verifier CredentialVerifier
}

func NewGate(verifier CredentialVerifier) *Gate {
	return &Gate{verifier: verifier}
}

// Authorize returns the caller's identity, or an error matching
// ErrUnauthorized (no or bad credential) or ErrForbidden (role not in
// allowed). An empty allowed set admits every authenticated role.
func (g *Gate) Authorize(r *http.Request, allowed ...Role) (*Identity, error) {
	token := extractBearerToken(r)
	if token == "" {
		return nil, apperrors.Unauthorized(msgMissingAuthorization)
	}

	claims, err := g.verifier.Verify(token)
	if err != nil {
		return nil, apperrors.Unauthorized(msgInvalidOrExpiredToken)
	}

	if len(allowed) > 0 && !slices.Contains(allowed, claims.Role) {
		return nil, apperrors.Forbidden(msgInsufficientRole)
	}

	identity := claims.Identity()
	return &identity, nil
}

func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get(headerAuthorization)
	if authHeader == "" {
		return ""
	}

	parts := strings.Fields(authHeader)
	if len(parts) != authHeaderParts || strings.ToLower(parts[0]) != bearerScheme {
		return ""
	}

	return parts[1]
}
