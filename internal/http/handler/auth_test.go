package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"warehouse-service/internal/audit"
	"warehouse-service/internal/auth"
	"warehouse-service/internal/domain/user"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthHandler(t *testing.T) (*AuthHandler, *auth.Credentials) {
	h, creds, _ := newAuditedAuthHandler(t)
	return h, creds
}

func newAuditedAuthHandler(t *testing.T) (*AuthHandler, *auth.Credentials, *fakeAudit) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &fakeUserRepo{users: map[string]*user.User{
		"li.wei": {
			ID:           "u-1",
			Username:     "li.wei",
			DisplayName:  "李伟",
			Role:         "staff",
			ExternalID:   "oXyZ",
			PasswordHash: string(hash),
		},
		"gone": {
			ID:           "u-2",
			Username:     "gone",
			DisplayName:  "Former",
			Role:         "viewer",
			PasswordHash: string(hash),
			Disabled:     true,
		},
		"odd": {
			ID:           "u-3",
			Username:     "odd",
			DisplayName:  "Odd Role",
			Role:         "superuser",
			PasswordHash: string(hash),
		},
	}}

	creds := auth.NewCredentials(newTestSigner(t), frozen(fixedNow))
	recorder := &fakeAudit{}
	return NewAuthHandler(repo, creds, 2*time.Hour, recorder), creds, recorder
}

func TestLogin_Success(t *testing.T) {
	h, creds := newTestAuthHandler(t)
	c, rec := newContext(http.MethodPost, "/auth/login", `{"username":" li.wei ","password":"correct horse"}`)

	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, auth.RoleStaff, resp.Role)
	assert.Equal(t, fixedNow.Add(2*time.Hour).Unix(), resp.ExpiresAt)

	claims, err := creds.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, auth.Identity{
		SubjectID:   "u-1",
		DisplayName: "李伟",
		Role:        auth.RoleStaff,
		ExternalID:  "oXyZ",
	}, claims.Identity())
}

func TestLogin_Rejections(t *testing.T) {
	h, _ := newTestAuthHandler(t)

	tests := []struct {
		name string
		body string
		code int
	}{
		{"wrong password", `{"username":"li.wei","password":"nope"}`, http.StatusUnauthorized},
		{"unknown user", `{"username":"nobody","password":"correct horse"}`, http.StatusUnauthorized},
		{"disabled user", `{"username":"gone","password":"correct horse"}`, http.StatusUnauthorized},
		{"empty fields", `{"username":"","password":""}`, http.StatusUnauthorized},
		{"unknown field", `{"username":"li.wei","password":"correct horse","admin":true}`, http.StatusBadRequest},
		{"trailing data", `{"username":"li.wei","password":"correct horse"}{}`, http.StatusBadRequest},
		{"unknown role", `{"username":"odd","password":"correct horse"}`, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newContext(http.MethodPost, "/auth/login", tt.body)
			require.NoError(t, h.Login(c))
			assert.Equal(t, tt.code, rec.Code)
			assert.NotContains(t, rec.Body.String(), "token\"")
		})
	}
}

func TestLogin_Audited(t *testing.T) {
	h, _, recorder := newAuditedAuthHandler(t)

	c, _ := newContext(http.MethodPost, "/auth/login", `{"username":"li.wei","password":"correct horse"}`)
	require.NoError(t, h.Login(c))
	c, _ = newContext(http.MethodPost, "/auth/login", `{"username":"li.wei","password":"wrong"}`)
	require.NoError(t, h.Login(c))
	c, _ = newContext(http.MethodPost, "/auth/login", `{"username":"nobody","password":"wrong"}`)
	require.NoError(t, h.Login(c))

	assert.Equal(t, []auditEntry{
		{audit.ResourceTypeUser, "u-1", audit.ActionLogin, audit.StatusSuccess},
		{audit.ResourceTypeUser, "u-1", audit.ActionLogin, audit.StatusFailure},
	}, recorder.entries)
}

func TestLogin_RequiresJSONContentType(t *testing.T) {
	h, _ := newTestAuthHandler(t)
	c, rec := newContext(http.MethodPost, "/auth/login", "")

	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestMe(t *testing.T) {
	h, _ := newTestAuthHandler(t)

	c, rec := newContext(http.MethodGet, "/api/me", "")
	c.Set(auth.ContextKeyIdentity, &auth.Identity{SubjectID: "u-1", DisplayName: "李伟", Role: auth.RoleViewer})

	require.NoError(t, h.Me(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var got auth.Identity
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "u-1", got.SubjectID)
	assert.Equal(t, auth.RoleViewer, got.Role)
}

func TestMe_WithoutIdentity(t *testing.T) {
	h, _ := newTestAuthHandler(t)
	c, rec := newContext(http.MethodGet, "/api/me", "")

	require.NoError(t, h.Me(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDecodeLoginRequest(t *testing.T) {
	t.Run("charset parameter accepted and username trimmed", func(t *testing.T) {
		c, _ := newContext(http.MethodPost, "/auth/login", `{"username":"  li.wei ","password":" pw "}`)
		c.Request().Header.Set(echo.HeaderContentType, "application/json; charset=utf-8")

		req, err := decodeLoginRequest(c)
		require.NoError(t, err)
		assert.Equal(t, LoginRequest{Username: "li.wei", Password: " pw "}, req)
	})

	t.Run("other media type", func(t *testing.T) {
		c, _ := newContext(http.MethodPost, "/auth/login", `{"username":"li.wei"}`)
		c.Request().Header.Set(echo.HeaderContentType, "application/jsonx")

		_, err := decodeLoginRequest(c)
		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, http.StatusUnsupportedMediaType, he.Code)
	})

	t.Run("oversized body", func(t *testing.T) {
		body := `{"username":"li.wei","password":"` + strings.Repeat("x", int(maxLoginBodyBytes)) + `"}`
		c, _ := newContext(http.MethodPost, "/auth/login", body)

		_, err := decodeLoginRequest(c)
		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, http.StatusBadRequest, he.Code)
	})
}
