// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package identity

import (
	"context"
	"time"
)

// # Persistence Contracts

// UserRepository defines persistence operations the identity service needs.
// It is intentionally narrower than the account repository: signup only ever
// looks a user up by natural key or inserts one.
type UserRepository interface {
	// FindByUsername returns the user with the given username or apperr.ErrNotFound.
	FindByUsername(ctx context.Context, username string) (*User, error)

	// FindByEmail returns the user with the given email or apperr.ErrNotFound.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// Create inserts a new user row. Returns apperr.Conflict on a
	// username or email collision.
	Create(ctx context.Context, user *User) error
}

// CodeRepository stores confirmation-code hashes keyed by username with a TTL.
// Only the bcrypt hash of a code is ever stored; the plaintext exists solely
// in the delivery email.
type CodeRepository interface {
	// Set stores the code hash under the username, replacing any previous
	// code and resetting the TTL window.
	Set(ctx context.Context, username, codeHash string, ttl time.Duration) error

	// Get returns the stored code hash, or apperr.ErrNotFound when no code
	// exists (never issued, already consumed, or expired).
	Get(ctx context.Context, username string) (string, error)

	// Delete removes the stored code. Missing keys are not an error.
	Delete(ctx context.Context, username string) error
}
