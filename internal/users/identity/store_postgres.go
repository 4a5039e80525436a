// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package identity

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/kritika/internal/platform/apperr"
	"github.com/taibuivan/kritika/internal/platform/dberr"
)

// # PostgreSQL Implementation

// PostgresUserRepository implements UserRepository backed by users.account.
type PostgresUserRepository struct {
	db *pgxpool.Pool
}

// NewPostgresUserRepository wires a pgx connection pool into the repository.
func NewPostgresUserRepository(db *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

const userSelectColumns = `id, username, email, firstname, lastname, bio, role, createdat, updatedat`

func scanUser(row pgx.Row) (*User, error) {
	var user User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.Bio,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername fetches a single account row by its username.
func (repository *PostgresUserRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users.account WHERE username = $1`, userSelectColumns)

	user, err := scanUser(repository.db.QueryRow(ctx, query, username))
	if err != nil {
		return nil, fmt.Errorf("identity_find_by_username_failed: %w", dberr.Wrap(err, ""))
	}
	return user, nil
}

// FindByEmail fetches a single account row by its email address.
func (repository *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users.account WHERE email = $1`, userSelectColumns)

	user, err := scanUser(repository.db.QueryRow(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("identity_find_by_email_failed: %w", dberr.Wrap(err, ""))
	}
	return user, nil
}

// Create inserts a fresh account row and backfills the generated timestamps.
func (repository *PostgresUserRepository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users.account (id, username, email, firstname, lastname, bio, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING createdat, updatedat`

	err := repository.db.QueryRow(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Bio,
		user.Role,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		wrapped := dberr.Wrap(err, "A user with this username or email already exists")
		if apperr.IsAppError(wrapped) {
			return wrapped
		}
		return fmt.Errorf("identity_create_failed: %w", wrapped)
	}
	return nil
}
