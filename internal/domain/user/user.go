package user

import (
	"time"
)

// User is a warehouse account that can sign in and receive a credential
// token. ExternalID is the mini-app's own user identifier, when linked.
type User struct {
	ID           string
	Username     string
	DisplayName  string
	Role         string
	ExternalID   string
	PasswordHash string
	Disabled     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type CreateUserInput struct {
	Username     string
	DisplayName  string
	Role         string
	ExternalID   string
	PasswordHash string
}
