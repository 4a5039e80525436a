// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taibuivan/kritika/internal/platform/apperr"
	"github.com/taibuivan/kritika/internal/platform/sec"
	"github.com/taibuivan/kritika/internal/platform/validate"
	"github.com/taibuivan/kritika/internal/users/identity"
	"github.com/taibuivan/kritika/pkg/pagination"
	"github.com/taibuivan/kritika/pkg/uuid"
)

// # Service Layer

// Service orchestrates business logic for user profiles and administration.
type Service struct {
	accountRepository AccountRepository
	limits            validate.Limits
	logger            *slog.Logger
}

// NewService constructs a new [Service] with its repository dependency.
func NewService(accountRepo AccountRepository, limits validate.Limits, logger *slog.Logger) *Service {
	return &Service{
		accountRepository: accountRepo,
		limits:            limits,
		logger:            logger,
	}
}

// # Input Models

// CreateInput holds the fields an administrator supplies to create a user.
type CreateInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Bio       string
	Role      string
}

// UpdateInput defines the mutable subset of user profile fields.
// Nil pointers mean "leave unchanged".
type UpdateInput struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *string
}

// # Administration

/*
ListUsers retrieves a page of users, optionally filtered by username substring.

Parameters:
  - context: context.Context
  - search: string (empty means no filter)
  - params: pagination.Params

Returns:
  - []*identity.User: The page of users
  - pagination.Meta: Page metadata
  - error: Storage failures
*/
func (service *Service) ListUsers(context context.Context, search string, params pagination.Params) ([]*identity.User, pagination.Meta, error) {
	users, total, err := service.accountRepository.List(context, search, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("account_service_list_failed: %w", err)
	}
	return users, pagination.NewMeta(params.Page, params.Limit, int(total)), nil
}

/*
CreateUser provisions an account on behalf of an administrator.

Description: Unlike self-signup, an explicit role may be assigned. The created
user obtains tokens through the regular signup/code flow afterwards.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *identity.User: Created entity
  - error: Validation, conflict, or storage failures
*/
func (service *Service) CreateUser(context context.Context, input CreateInput) (*identity.User, error) {
	role := input.Role
	if role == "" {
		role = string(sec.RoleUser)
	}

	validator := validate.New().
		Required(identity.FieldUsername, input.Username).
		MaxLen(identity.FieldUsername, input.Username, service.limits.UsernameMaxLen).
		Username(identity.FieldUsername, input.Username, service.limits.ReservedUsernames...).
		Required(identity.FieldEmail, input.Email).
		MaxLen(identity.FieldEmail, input.Email, service.limits.EmailMaxLen).
		Email(identity.FieldEmail, input.Email).
		MaxLen(identity.FieldFirstName, input.FirstName, service.limits.NameMaxLen).
		MaxLen(identity.FieldLastName, input.LastName, service.limits.NameMaxLen).
		OneOf(identity.FieldRole, role,
			string(sec.RoleUser), string(sec.RoleModerator), string(sec.RoleAdmin))
	if validator.HasErrors() {
		return nil, validator.Err()
	}

	user := &identity.User{
		ID:        uuid.Must(),
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      sec.UserRole(role),
	}
	if err := service.accountRepository.Create(context, user); err != nil {
		return nil, err
	}
	return user, nil
}

/*
GetUser retrieves a single user by username.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *identity.User: The hydrated user profile
  - error: Not found or execution failures
*/
func (service *Service) GetUser(context context.Context, username string) (*identity.User, error) {
	user, err := service.accountRepository.FindByUsername(context, username)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("account_service_get_failed: %w", err)
	}
	return user, nil
}

/*
UpdateUser applies a partial set of changes to any user's account, including
their role. Administrative endpoint.

Parameters:
  - context: context.Context
  - username: string (current username of the target)
  - input: UpdateInput

Returns:
  - *identity.User: The updated profile
  - error: Not found, validation, conflict, or storage failures
*/
func (service *Service) UpdateUser(context context.Context, username string, input UpdateInput) (*identity.User, error) {
	user, err := service.GetUser(context, username)
	if err != nil {
		return nil, err
	}
	return service.applyUpdate(context, user, input)
}

/*
DeleteUser removes a user account by username.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - error: apperr.NotFound when the user does not exist, storage failures
*/
func (service *Service) DeleteUser(context context.Context, username string) error {
	err := service.accountRepository.Delete(context, username)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.NotFound("User")
		}
		return fmt.Errorf("account_service_delete_failed: %w", err)
	}
	return nil
}

// # Self Service

/*
GetSelf retrieves the profile of the authenticated user.

Parameters:
  - context: context.Context
  - userID: string (UUID from the access token)

Returns:
  - *identity.User: The hydrated profile
  - error: Not found or execution failures
*/
func (service *Service) GetSelf(context context.Context, userID string) (*identity.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("account_service_get_self_failed: %w", err)
	}
	return user, nil
}

/*
UpdateSelf applies a partial profile update for the authenticated user.

Description: The role field is read-only on this path; a submitted role is
silently ignored so that clients can round-trip the profile object they read.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdateInput (Role is ignored)

Returns:
  - *identity.User: The updated profile
  - error: Validation, conflict, or storage failures
*/
func (service *Service) UpdateSelf(context context.Context, userID string, input UpdateInput) (*identity.User, error) {
	user, err := service.GetSelf(context, userID)
	if err != nil {
		return nil, err
	}

	// Role is never self-assignable.
	input.Role = nil
	return service.applyUpdate(context, user, input)
}

// applyUpdate validates and persists the provided fields onto the user.
func (service *Service) applyUpdate(context context.Context, user *identity.User, input UpdateInput) (*identity.User, error) {
	validator := validate.New()
	if input.Username != nil {
		validator.
			Required(identity.FieldUsername, *input.Username).
			MaxLen(identity.FieldUsername, *input.Username, service.limits.UsernameMaxLen).
			Username(identity.FieldUsername, *input.Username, service.limits.ReservedUsernames...)
	}
	if input.Email != nil {
		validator.
			Required(identity.FieldEmail, *input.Email).
			MaxLen(identity.FieldEmail, *input.Email, service.limits.EmailMaxLen).
			Email(identity.FieldEmail, *input.Email)
	}
	if input.FirstName != nil {
		validator.MaxLen(identity.FieldFirstName, *input.FirstName, service.limits.NameMaxLen)
	}
	if input.LastName != nil {
		validator.MaxLen(identity.FieldLastName, *input.LastName, service.limits.NameMaxLen)
	}
	if input.Role != nil {
		validator.OneOf(identity.FieldRole, *input.Role,
			string(sec.RoleUser), string(sec.RoleModerator), string(sec.RoleAdmin))
	}
	if validator.HasErrors() {
		return nil, validator.Err()
	}

	if input.Username != nil {
		user.Username = *input.Username
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.Role != nil {
		user.Role = sec.UserRole(*input.Role)
	}

	if err := service.accountRepository.Update(context, user); err != nil {
		return nil, err
	}
	return user, nil
}
