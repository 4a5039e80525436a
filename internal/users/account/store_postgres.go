// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/kritika/internal/platform/apperr"
	"github.com/taibuivan/kritika/internal/platform/database/schema"
	"github.com/taibuivan/kritika/internal/platform/dberr"
	"github.com/taibuivan/kritika/internal/users/identity"
)

// # Repository Implementation

// PostgresAccountRepository implements [AccountRepository] using pgx.
//
// # Schema Table Mapping
//   - users.account: Master identity and profile data.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new Postgres implementation for user administration.
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

func accountColumnList() string {
	return strings.Join(schema.UserAccount.Columns(), ", ")
}

func scanAccount(row pgx.Row) (*identity.User, error) {
	user := &identity.User{}
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
	return user, nil
}

// # AccountRepository Methods

/*
List retrieves a page of users ordered by username, with the total count
computed in the same round-trip via a window function.

Parameters:
  - context: context.Context
  - search: string (case-insensitive username substring; empty disables the filter)
  - limit, offset: page window

Returns:
  - []*identity.User: The page of users
  - int64: Total matching rows
  - error: Database execution failure
*/
func (repository *PostgresAccountRepository) List(context context.Context, search string, limit, offset int) ([]*identity.User, int64, error) {
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total
		FROM %s
		WHERE ($1 = '' OR %s ILIKE '%%' || $1 || '%%')
		ORDER BY %s
		LIMIT $2 OFFSET $3`,
		accountColumnList(), schema.UserAccount.Table,
		schema.UserAccount.Username, schema.UserAccount.Username,
	)

	rows, err := repository.pool.Query(context, query, search, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("account_list_failed: %w", dberr.Wrap(err, ""))
	}
	defer rows.Close()

	// Non-nil even when the page is empty, so the response data is [] not null.
	users := make([]*identity.User, 0)
	var total int64
	for rows.Next() {
		user := &identity.User{}
		err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Email,
			&user.FirstName,
			&user.LastName,
			&user.Bio,
			&user.Role,
			&user.CreatedAt,
			&user.UpdatedAt,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("account_list_scan_failed: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("account_list_rows_failed: %w", err)
	}
	return users, total, nil
}

// FindByID retrieves a user record from users.account by primary key.
func (repository *PostgresAccountRepository) FindByID(context context.Context, id string) (*identity.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		accountColumnList(), schema.UserAccount.Table, schema.UserAccount.ID,
	)

	user, err := scanAccount(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, fmt.Errorf("account_find_by_id_failed: %w", dberr.Wrap(err, ""))
	}
	return user, nil
}

// FindByUsername retrieves a user record from users.account by username.
func (repository *PostgresAccountRepository) FindByUsername(context context.Context, username string) (*identity.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		accountColumnList(), schema.UserAccount.Table, schema.UserAccount.Username,
	)

	user, err := scanAccount(repository.pool.QueryRow(context, query, username))
	if err != nil {
		return nil, fmt.Errorf("account_find_by_username_failed: %w", dberr.Wrap(err, ""))
	}
	return user, nil
}

// Create inserts a new account row, including an explicit role.
func (repository *PostgresAccountRepository) Create(context context.Context, user *identity.User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s, %s`,
		schema.UserAccount.Table,
		schema.UserAccount.ID, schema.UserAccount.Username, schema.UserAccount.Email,
		schema.UserAccount.FirstName, schema.UserAccount.LastName, schema.UserAccount.Bio,
		schema.UserAccount.Role,
		schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		user.ID, user.Username, user.Email,
		user.FirstName, user.LastName, user.Bio,
		user.Role,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		wrapped := dberr.Wrap(err, "A user with this username or email already exists")
		if apperr.IsAppError(wrapped) {
			return wrapped
		}
		return fmt.Errorf("account_create_failed: %w", wrapped)
	}
	return nil
}

// Update persists the mutable profile fields of a user row.
func (repository *PostgresAccountRepository) Update(context context.Context, user *identity.User) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = now()
		WHERE %s = $1
		RETURNING %s`,
		schema.UserAccount.Table,
		schema.UserAccount.Username, schema.UserAccount.Email,
		schema.UserAccount.FirstName, schema.UserAccount.LastName,
		schema.UserAccount.Bio, schema.UserAccount.Role,
		schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID,
		schema.UserAccount.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		user.ID, user.Username, user.Email,
		user.FirstName, user.LastName, user.Bio,
		user.Role,
	).Scan(&user.UpdatedAt)
	if err != nil {
		wrapped := dberr.Wrap(err, "A user with this username or email already exists")
		if apperr.IsAppError(wrapped) {
			return wrapped
		}
		return fmt.Errorf("account_update_failed: %w", wrapped)
	}
	return nil
}

// Delete removes a user row by username.
func (repository *PostgresAccountRepository) Delete(context context.Context, username string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.Username,
	)

	tag, err := repository.pool.Exec(context, query, username)
	if err != nil {
		return fmt.Errorf("account_delete_failed: %w", dberr.Wrap(err, ""))
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
