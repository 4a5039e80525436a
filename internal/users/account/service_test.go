// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kritika/internal/platform/apperr"
	"github.com/taibuivan/kritika/internal/platform/sec"
	"github.com/taibuivan/kritika/internal/platform/validate"
	"github.com/taibuivan/kritika/internal/users/identity"
	"github.com/taibuivan/kritika/pkg/pagination"
	"github.com/taibuivan/kritika/pkg/pointer"
)

// # Test Doubles

type fakeAccountRepository struct {
	users   map[string]*identity.User // keyed by username
	deleted []string
}

func newFakeAccountRepository(users ...*identity.User) *fakeAccountRepository {
	repository := &fakeAccountRepository{users: make(map[string]*identity.User)}
	for _, user := range users {
		repository.users[user.Username] = user
	}
	return repository
}

func (repository *fakeAccountRepository) List(_ context.Context, search string, limit, offset int) ([]*identity.User, int64, error) {
	all := make([]*identity.User, 0, len(repository.users))
	for _, user := range repository.users {
		all = append(all, user)
	}
	return all, int64(len(all)), nil
}

func (repository *fakeAccountRepository) FindByID(_ context.Context, id string) (*identity.User, error) {
	for _, user := range repository.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (repository *fakeAccountRepository) FindByUsername(_ context.Context, username string) (*identity.User, error) {
	if user, ok := repository.users[username]; ok {
		return user, nil
	}
	return nil, apperr.ErrNotFound
}

func (repository *fakeAccountRepository) Create(_ context.Context, user *identity.User) error {
	if _, ok := repository.users[user.Username]; ok {
		return apperr.Conflict("A user with this username or email already exists")
	}
	repository.users[user.Username] = user
	return nil
}

func (repository *fakeAccountRepository) Update(_ context.Context, user *identity.User) error {
	return nil
}

func (repository *fakeAccountRepository) Delete(_ context.Context, username string) error {
	if _, ok := repository.users[username]; !ok {
		return apperr.ErrNotFound
	}
	delete(repository.users, username)
	repository.deleted = append(repository.deleted, username)
	return nil
}

func newTestService(repository *fakeAccountRepository) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repository, validate.DefaultLimits(), logger)
}

// # Administration

func TestCreateUser_DefaultsToUserRole(t *testing.T) {
	service := newTestService(newFakeAccountRepository())

	user, err := service.CreateUser(context.Background(), CreateInput{
		Username: "reviewer",
		Email:    "reviewer@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, sec.RoleUser, user.Role)
	assert.NotEmpty(t, user.ID)
}

func TestCreateUser_WithExplicitRole(t *testing.T) {
	service := newTestService(newFakeAccountRepository())

	user, err := service.CreateUser(context.Background(), CreateInput{
		Username: "mod",
		Email:    "mod@example.com",
		Role:     "moderator",
	})

	require.NoError(t, err)
	assert.Equal(t, sec.RoleModerator, user.Role)
}

func TestCreateUser_RejectsUnknownRole(t *testing.T) {
	service := newTestService(newFakeAccountRepository())

	_, err := service.CreateUser(context.Background(), CreateInput{
		Username: "hacker",
		Email:    "hacker@example.com",
		Role:     "superuser",
	})

	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, 400, appError.HTTPStatus)
}

func TestUpdateUser_ChangesRole(t *testing.T) {
	existing := &identity.User{ID: "u-1", Username: "alice", Email: "alice@example.com", Role: sec.RoleUser}
	service := newTestService(newFakeAccountRepository(existing))

	user, err := service.UpdateUser(context.Background(), "alice", UpdateInput{
		Role: pointer.To("admin"),
	})

	require.NoError(t, err)
	assert.Equal(t, sec.RoleAdmin, user.Role)
}

func TestUpdateUser_UnknownUsername(t *testing.T) {
	service := newTestService(newFakeAccountRepository())

	_, err := service.UpdateUser(context.Background(), "ghost", UpdateInput{
		Bio: pointer.To("boo"),
	})

	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, 404, appError.HTTPStatus)
}

func TestDeleteUser(t *testing.T) {
	existing := &identity.User{ID: "u-1", Username: "alice", Email: "alice@example.com", Role: sec.RoleUser}
	repository := newFakeAccountRepository(existing)
	service := newTestService(repository)

	require.NoError(t, service.DeleteUser(context.Background(), "alice"))
	assert.Equal(t, []string{"alice"}, repository.deleted)

	err := service.DeleteUser(context.Background(), "alice")
	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, 404, appError.HTTPStatus)
}

func TestListUsers_Meta(t *testing.T) {
	repository := newFakeAccountRepository(
		&identity.User{ID: "u-1", Username: "alice", Email: "a@example.com", Role: sec.RoleUser},
		&identity.User{ID: "u-2", Username: "bob", Email: "b@example.com", Role: sec.RoleUser},
	)
	service := newTestService(repository)

	users, meta, err := service.ListUsers(context.Background(), "", pagination.Params{Page: 1, Limit: 20})

	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, 2, meta.Total)
	assert.Equal(t, 1, meta.TotalPages)
}

/*
TestListUsers_EmptyPageIsNotNull verifies that an empty page is a non-nil
slice, so the response envelope renders "data": [] rather than "data": null.
*/
func TestListUsers_EmptyPageIsNotNull(t *testing.T) {
	service := newTestService(newFakeAccountRepository())

	users, meta, err := service.ListUsers(context.Background(), "", pagination.Params{Page: 1, Limit: 20})

	require.NoError(t, err)
	require.NotNil(t, users)
	assert.Len(t, users, 0)
	assert.Equal(t, 0, meta.Total)
}

// # Self Service

func TestUpdateSelf_RoleIsReadOnly(t *testing.T) {
	existing := &identity.User{ID: "u-1", Username: "alice", Email: "alice@example.com", Role: sec.RoleUser}
	service := newTestService(newFakeAccountRepository(existing))

	user, err := service.UpdateSelf(context.Background(), "u-1", UpdateInput{
		Bio:  pointer.To("I review things."),
		Role: pointer.To("admin"),
	})

	require.NoError(t, err)
	assert.Equal(t, "I review things.", user.Bio)
	assert.Equal(t, sec.RoleUser, user.Role, "self-update must not escalate the role")
}

func TestGetSelf_UnknownID(t *testing.T) {
	service := newTestService(newFakeAccountRepository())

	_, err := service.GetSelf(context.Background(), "missing")

	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, 404, appError.HTTPStatus)
}
