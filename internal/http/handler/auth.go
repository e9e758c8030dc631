package handler

import (
	"net/http"
	"time"

	"warehouse-service/internal/audit"
	"warehouse-service/internal/auth"
	"warehouse-service/pkg/password"

	"github.com/labstack/echo/v4"
)

// Pre-computed bcrypt hash (cost 12) used to equalize timing on failed lookups.
const dummyBcryptHash = "$2a$12$dWR5CQpS4zNHLavLSIr4o.P6QDQEUJKv7mJ7WekUHHqyRSRMJzH0S"

type AuthHandler struct {
	userRepo      UserRepository
	issuer        CredentialIssuer
	credentialTTL time.Duration
	auditLogger   AuditRecorder
}

func NewAuthHandler(userRepo UserRepository, issuer CredentialIssuer, credentialTTL time.Duration, auditLogger AuditRecorder) *AuthHandler {
	return &AuthHandler{
		userRepo:      userRepo,
		issuer:        issuer,
		credentialTTL: credentialTTL,
		auditLogger:   auditLogger,
	}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt int64     `json:"expires_at"`
	Role      auth.Role `json:"role"`
}

func (h *AuthHandler) Login(c echo.Context) error {
	req, err := decodeLoginRequest(c)
	if err != nil {
		return handleHTTPError(c, err)
	}

	if req.Username == "" || req.Password == "" {
		password.Verify("", dummyBcryptHash)
		return respondError(c, http.StatusUnauthorized, msgInvalidCredentials)
	}

	u, err := h.userRepo.GetByUsername(c.Request().Context(), req.Username)
	if err != nil {
		// Keep the not-found path as slow as a wrong password so response
		// time does not reveal which usernames exist.
		password.Verify(req.Password, dummyBcryptHash)
		return respondError(c, http.StatusUnauthorized, msgInvalidCredentials)
	}

	if !password.Verify(req.Password, u.PasswordHash) || u.Disabled {
		h.recordLogin(c, u.ID, audit.StatusFailure)
		return respondError(c, http.StatusUnauthorized, msgInvalidCredentials)
	}

	role := auth.Role(u.Role)
	if !role.Valid() {
		c.Logger().Errorf("user %s has unknown role %q", u.ID, u.Role)
		return respondError(c, http.StatusInternalServerError, msgAccountMisconfigured)
	}

	token, claims, err := h.issuer.IssueClaims(auth.Identity{
		SubjectID:   u.ID,
		DisplayName: u.DisplayName,
		Role:        role,
		ExternalID:  u.ExternalID,
	}, h.credentialTTL)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, msgGenerateTokenFail)
	}

	h.recordLogin(c, u.ID, audit.StatusSuccess)

	return c.JSON(http.StatusOK, LoginResponse{
		Token:     token,
		TokenType: tokenTypeBearer,
		ExpiresAt: claims.ExpiresAtUnix(),
		Role:      role,
	})
}

func (h *AuthHandler) recordLogin(c echo.Context, userID string, status audit.Status) {
	if h.auditLogger != nil {
		h.auditLogger.Record(c, audit.ResourceTypeUser, userID, audit.ActionLogin, status, nil)
	}
}

// Me echoes the identity the credential speaks for.
func (h *AuthHandler) Me(c echo.Context) error {
	identity, err := auth.GetIdentity(c)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	return c.JSON(http.StatusOK, identity)
}
