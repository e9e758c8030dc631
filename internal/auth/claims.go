package auth

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// Role is one of a closed set of caller roles.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleStaff  Role = "staff"
	RoleViewer Role = "viewer"
)

// KindAccessToken distinguishes credential tokens from any other token
// family signed with the same secret.
const KindAccessToken = "access_token"

var knownRoles = []Role{RoleAdmin, RoleStaff, RoleViewer}

// Valid reports whether r is a member of the closed role set.
func (r Role) Valid() bool {
	return slices.Contains(knownRoles, r)
}

// Identity is who a credential token speaks for.
type Identity struct {
	SubjectID   string `json:"subject_id"`
	DisplayName string `json:"display_name"`
	Role        Role   `json:"role"`
	ExternalID  string `json:"external_id,omitempty"`
}

// Claims is the payload of a credential token. Subject, IssuedAt and
// ExpiresAt live in the registered claims (sub, iat, exp).
type Claims struct {
	DisplayName string `json:"name"`
	Role        Role   `json:"role"`
	ExternalID  string `json:"external_id,omitempty"`
	Kind        string `json:"kind"`
	jwt.RegisteredClaims
}

func (c *Claims) Identity() Identity {
	return Identity{
		SubjectID:   c.Subject,
		DisplayName: c.DisplayName,
		Role:        c.Role,
		ExternalID:  c.ExternalID,
	}
}

// IssuedAtUnix returns iat in epoch seconds, or 0 when absent.
func (c *Claims) IssuedAtUnix() int64 {
	if c.IssuedAt == nil {
		return 0
	}
	return c.IssuedAt.Unix()
}

// ExpiresAtUnix returns exp in epoch seconds, or 0 when absent.
func (c *Claims) ExpiresAtUnix() int64 {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Unix()
}
