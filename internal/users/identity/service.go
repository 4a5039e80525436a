// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/kritika/internal/platform/apperr"
	"github.com/taibuivan/kritika/internal/platform/mailer"
	"github.com/taibuivan/kritika/internal/platform/sec"
	"github.com/taibuivan/kritika/internal/platform/validate"
	"github.com/taibuivan/kritika/pkg/uuid"
)

// # Service Contracts

// TokenProvider mints signed access tokens for authenticated users.
type TokenProvider interface {
	GenerateAccessToken(userID, username string, role sec.UserRole, ttl time.Duration) (string, error)
}

// # Service Implementation

// Service orchestrates the signup handshake and token exchange.
type Service struct {
	users  UserRepository
	codes  CodeRepository
	tokens TokenProvider
	mail   mailer.Mailer
	limits validate.Limits
	logger *slog.Logger
}

// NewService constructs the identity service with its collaborators.
func NewService(
	users UserRepository,
	codes CodeRepository,
	tokens TokenProvider,
	mail mailer.Mailer,
	limits validate.Limits,
	logger *slog.Logger,
) *Service {
	return &Service{
		users:  users,
		codes:  codes,
		tokens: tokens,
		mail:   mail,
		limits: limits,
		logger: logger,
	}
}

// # Input Models

// SignUpInput carries the username/email pair of a registration request.
type SignUpInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// ExchangeInput carries a username and the confirmation code to trade for a token.
type ExchangeInput struct {
	Username         string `json:"username"`
	ConfirmationCode string `json:"confirmation_code"`
}

// # Operations

/*
SignUp registers a new user or re-issues a confirmation code for an existing one.

The operation is idempotent on the exact (username, email) pair: when both
fields match an existing account a fresh code is generated and delivered,
superseding any previous one. When only one side of the pair collides with a
different account, the request is rejected with a conflict.

Self-signup always produces the base "user" role; elevated roles are assigned
through the admin account API.

Parameters:
  - ctx: request-scoped context.
  - input: the validated username/email pair.

Returns:
  - *User: the created or matched account.
  - error: validation, conflict, or infrastructure failure.
*/
func (service *Service) SignUp(ctx context.Context, input SignUpInput) (*User, error) {
	validator := validate.New().
		Required(FieldUsername, input.Username).
		MaxLen(FieldUsername, input.Username, service.limits.UsernameMaxLen).
		Username(FieldUsername, input.Username, service.limits.ReservedUsernames...).
		Required(FieldEmail, input.Email).
		MaxLen(FieldEmail, input.Email, service.limits.EmailMaxLen).
		Email(FieldEmail, input.Email)
	if validator.HasErrors() {
		return nil, validator.Err()
	}

	byUsername, err := service.users.FindByUsername(ctx, input.Username)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}
	byEmail, err := service.users.FindByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	switch {
	case byUsername != nil && byUsername.Email == input.Email:
		// Exact pair match: idempotent resend.
		if err := service.deliverCode(ctx, byUsername); err != nil {
			return nil, err
		}
		return byUsername, nil

	case byUsername != nil:
		return nil, apperr.Conflict("Username is already taken")

	case byEmail != nil:
		return nil, apperr.Conflict("Email is already registered")
	}

	user := &User{
		ID:       uuid.Must(),
		Username: input.Username,
		Email:    input.Email,
		Role:     sec.RoleUser,
	}
	if err := service.users.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := service.deliverCode(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

/*
ExchangeToken trades a username and confirmation code for a signed access token.

An unknown username yields a not-found error; a wrong, expired, or already
consumed code yields an invalid-credentials error. The code is single-use:
it is deleted on a successful exchange but kept on failed attempts so a typo
does not force a new signup round-trip.

Parameters:
  - ctx: request-scoped context.
  - input: username and plaintext confirmation code.

Returns:
  - string: the signed JWT access token.
  - error: validation, not-found, invalid-credentials, or infrastructure failure.
*/
func (service *Service) ExchangeToken(ctx context.Context, input ExchangeInput) (string, error) {
	validator := validate.New().
		Required(FieldUsername, input.Username).
		Required(FieldConfirmationCode, input.ConfirmationCode)
	if validator.HasErrors() {
		return "", validator.Err()
	}

	user, err := service.users.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return "", apperr.NotFound("User")
		}
		return "", err
	}

	codeHash, err := service.codes.Get(ctx, user.Username)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return "", apperr.InvalidCredentials("Confirmation code is invalid or expired")
		}
		return "", err
	}
	if !sec.CheckCodeHash(input.ConfirmationCode, codeHash) {
		return "", apperr.InvalidCredentials("Confirmation code is invalid or expired")
	}

	token, err := service.tokens.GenerateAccessToken(user.ID, user.Username, user.Role, AccessTokenTTL)
	if err != nil {
		return "", fmt.Errorf("identity_token_generation_failed: %w", err)
	}

	// Best effort: the token is already minted, a dangling code only shortens
	// the replay window by its own TTL.
	if err := service.codes.Delete(ctx, user.Username); err != nil {
		service.logger.Warn("failed to delete consumed confirmation code",
			slog.String("username", user.Username),
			slog.Any("error", err),
		)
	}
	return token, nil
}

// deliverCode generates a fresh confirmation code, stores its hash, and mails
// the plaintext to the user. Mail delivery is best effort: a delivery failure
// is logged but does not fail the signup, matching the idempotent-resend
// contract (the user can simply sign up again).
func (service *Service) deliverCode(ctx context.Context, user *User) error {
	code, err := sec.GenerateSecureToken(ConfirmationCodeLength)
	if err != nil {
		return fmt.Errorf("identity_code_generation_failed: %w", err)
	}
	codeHash, err := sec.HashCode(code)
	if err != nil {
		return fmt.Errorf("identity_code_hash_failed: %w", err)
	}
	if err := service.codes.Set(ctx, user.Username, codeHash, ConfirmationCodeTTL); err != nil {
		return err
	}

	body := fmt.Sprintf(
		"Hello %s,\n\nYour Kritika confirmation code is:\n\n%s\n\nThe code expires in %d hours.\n",
		user.Username, code, int(ConfirmationCodeTTL.Hours()),
	)
	if err := service.mail.Send(user.Email, ConfirmationEmailSubject, body); err != nil {
		service.logger.Warn("confirmation code email delivery failed",
			slog.String("username", user.Username),
			slog.Any("error", err),
		)
	}
	return nil
}
