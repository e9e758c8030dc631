package postgres

import (
	"context"

	"warehouse-service/internal/domain/user"
	apperrors "warehouse-service/pkg/errors"
)

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByUsername returns enabled and disabled accounts alike; callers decide
// what a disabled account may do.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	query := `
		SELECT id, username, display_name, role, COALESCE(external_id, ''), password_hash, disabled, created_at, updated_at
		FROM users
		WHERE username = $1
	`

	u := &user.User{}
	err := r.db.Pool.QueryRow(ctx, query, username).Scan(
		&u.ID,
		&u.Username,
		&u.DisplayName,
		&u.Role,
		&u.ExternalID,
		&u.PasswordHash,
		&u.Disabled,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errUserNotFound)
		}
		return nil, errFailedGetUser(err)
	}

	return u, nil
}

// EnsureUser inserts the account unless the username already exists, and
// reports whether a row was written.
func (r *UserRepository) EnsureUser(ctx context.Context, input user.CreateUserInput) (bool, error) {
	query := `
		INSERT INTO users (username, display_name, role, external_id, password_hash)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5)
		ON CONFLICT (username) DO NOTHING
	`

	tag, err := r.db.Pool.Exec(ctx, query,
		input.Username,
		input.DisplayName,
		input.Role,
		input.ExternalID,
		input.PasswordHash,
	)
	if err != nil {
		return false, errFailedCreateUser(err)
	}

	return tag.RowsAffected() > 0, nil
}
