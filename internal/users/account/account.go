// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles user profile management and administrative user CRUD.

It provides functionality for users to view and update their own profile
("/users/me") and for administrators to manage the full user base.

# Architecture

  - Domain: This package depends on the identity package for the User entity.
  - Authorization: Self endpoints require any authenticated user; the
    management endpoints require the admin role.
*/
package account

import (
	"context"

	"github.com/taibuivan/kritika/internal/users/identity"
)

// # Repository Contracts

// AccountRepository defines the persistence contract for user administration.
type AccountRepository interface {
	/*
		List retrieves a page of users, optionally filtered by a username
		substring, ordered by username.

		Parameters:
		  - context: context.Context
		  - search: string (empty means no filter)
		  - limit, offset: page window

		Returns:
		  - []*identity.User: The page of users, non-nil even when empty
		  - int64: Total row count for the filter
		  - error: Storage failures
	*/
	List(context context.Context, search string, limit, offset int) ([]*identity.User, int64, error)

	/*
		FindByID retrieves a user record by their unique ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *identity.User: Loaded account entity
		  - error: apperr.ErrNotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*identity.User, error)

	/*
		FindByUsername retrieves a user record by username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *identity.User: Loaded account entity
		  - error: apperr.ErrNotFound or storage failures
	*/
	FindByUsername(context context.Context, username string) (*identity.User, error)

	/*
		Create inserts a new user row with an explicit role.

		Parameters:
		  - context: context.Context
		  - user: *identity.User

		Returns:
		  - error: apperr.Conflict on username/email collision, storage failures
	*/
	Create(context context.Context, user *identity.User) error

	/*
		Update persists the mutable profile fields of an existing user.

		Parameters:
		  - context: context.Context
		  - user: *identity.User (hydrated entity with changes)

		Returns:
		  - error: apperr.Conflict on email collision, storage failures
	*/
	Update(context context.Context, user *identity.User) error

	/*
		Delete removes a user row by username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - error: apperr.ErrNotFound when no row matched, storage failures
	*/
	Delete(context context.Context, username string) error
}
