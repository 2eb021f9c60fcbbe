package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jason-s-yu/preferans/internal/models"
)

// ErrUserExists is returned when the username is already taken.
var ErrUserExists = errors.New("username taken")

// ErrUserNotFound is returned when no user matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// CreateUser inserts a new account. The password must already be hashed.
func CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error) {
	u := &models.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: passwordHash,
		Elo:          1500,
	}
	_, err := DB.Exec(ctx, `
INSERT INTO users (id, username, password_hash, elo) VALUES ($1, $2, $3, $4)`,
		u.ID, u.Username, u.PasswordHash, u.Elo)
	if err != nil {
		var exists int
		if scanErr := DB.QueryRow(ctx,
			`SELECT 1 FROM users WHERE lower(username) = lower($1)`, username).Scan(&exists); scanErr == nil {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// FindUserByID loads an account by id.
func FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row := DB.QueryRow(ctx, `
SELECT id, username, password_hash, elo FROM users WHERE id = $1`, id)
	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Elo); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindUserByUsername loads an account for login.
func FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	row := DB.QueryRow(ctx, `
SELECT id, username, password_hash, elo FROM users WHERE lower(username) = lower($1)`, username)
	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Elo); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}
