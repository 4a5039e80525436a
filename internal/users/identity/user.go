// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package identity implements the user identity layer: the signup handshake,
confirmation-code delivery, and the code-for-token exchange.

It defines the core User entity shared with the account package.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.
*/
package identity

import (
	"time"

	"github.com/taibuivan/kritika/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the Kritika platform.
//
// There is no password: authentication is a confirmation-code handshake.
// The code itself is volatile state (Redis) and never part of the entity.
type User struct {
	ID        string       `json:"-"`
	Username  string       `json:"username"`
	Email     string       `json:"email"`
	FirstName string       `json:"first_name"`
	LastName  string       `json:"last_name"`
	Bio       string       `json:"bio"`
	Role      sec.UserRole `json:"role"`
	CreatedAt time.Time    `json:"-"`
	UpdatedAt time.Time    `json:"-"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the identity domain.
const (
	FieldUsername         = "username"
	FieldEmail            = "email"
	FieldFirstName        = "first_name"
	FieldLastName         = "last_name"
	FieldBio              = "bio"
	FieldRole             = "role"
	FieldConfirmationCode = "confirmation_code"
	FieldToken            = "token"
)
