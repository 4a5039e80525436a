// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package identity

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kritika/internal/platform/apperr"
	"github.com/taibuivan/kritika/internal/platform/sec"
	"github.com/taibuivan/kritika/internal/platform/validate"
)

// # Test Doubles

type fakeUserRepository struct {
	usersByName  map[string]*User
	usersByEmail map[string]*User
	created      []*User
}

func newFakeUserRepository(users ...*User) *fakeUserRepository {
	repository := &fakeUserRepository{
		usersByName:  make(map[string]*User),
		usersByEmail: make(map[string]*User),
	}
	for _, user := range users {
		repository.usersByName[user.Username] = user
		repository.usersByEmail[user.Email] = user
	}
	return repository
}

func (repository *fakeUserRepository) FindByUsername(_ context.Context, username string) (*User, error) {
	if user, ok := repository.usersByName[username]; ok {
		return user, nil
	}
	return nil, apperr.ErrNotFound
}

func (repository *fakeUserRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	if user, ok := repository.usersByEmail[email]; ok {
		return user, nil
	}
	return nil, apperr.ErrNotFound
}

func (repository *fakeUserRepository) Create(_ context.Context, user *User) error {
	repository.usersByName[user.Username] = user
	repository.usersByEmail[user.Email] = user
	repository.created = append(repository.created, user)
	return nil
}

type fakeCodeRepository struct {
	hashes  map[string]string
	deletes int
}

func newFakeCodeRepository() *fakeCodeRepository {
	return &fakeCodeRepository{hashes: make(map[string]string)}
}

func (repository *fakeCodeRepository) Set(_ context.Context, username, codeHash string, _ time.Duration) error {
	repository.hashes[username] = codeHash
	return nil
}

func (repository *fakeCodeRepository) Get(_ context.Context, username string) (string, error) {
	if hash, ok := repository.hashes[username]; ok {
		return hash, nil
	}
	return "", apperr.ErrNotFound
}

func (repository *fakeCodeRepository) Delete(_ context.Context, username string) error {
	delete(repository.hashes, username)
	repository.deletes++
	return nil
}

type fakeTokenProvider struct{}

func (fakeTokenProvider) GenerateAccessToken(userID, _ string, _ sec.UserRole, _ time.Duration) (string, error) {
	return "token-for-" + userID, nil
}

type capturingMailer struct {
	sent []string
}

func (mailer *capturingMailer) Send(toAddress, _, _ string) error {
	mailer.sent = append(mailer.sent, toAddress)
	return nil
}

func newTestService(users *fakeUserRepository, codes *fakeCodeRepository, mail *capturingMailer) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(users, codes, fakeTokenProvider{}, mail, validate.DefaultLimits(), logger)
}

// # SignUp

func TestSignUp_CreatesUserAndDeliversCode(t *testing.T) {
	users := newFakeUserRepository()
	codes := newFakeCodeRepository()
	mail := &capturingMailer{}
	service := newTestService(users, codes, mail)

	user, err := service.SignUp(context.Background(), SignUpInput{
		Username: "alice",
		Email:    "alice@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, sec.RoleUser, user.Role)
	assert.NotEmpty(t, user.ID)
	assert.Len(t, users.created, 1)
	assert.Contains(t, codes.hashes, "alice")
	assert.Equal(t, []string{"alice@example.com"}, mail.sent)
}

func TestSignUp_ExactPairIsIdempotentResend(t *testing.T) {
	existing := &User{ID: "u-1", Username: "alice", Email: "alice@example.com", Role: sec.RoleUser}
	users := newFakeUserRepository(existing)
	codes := newFakeCodeRepository()
	codes.hashes["alice"] = "old-hash"
	mail := &capturingMailer{}
	service := newTestService(users, codes, mail)

	user, err := service.SignUp(context.Background(), SignUpInput{
		Username: "alice",
		Email:    "alice@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)
	assert.Empty(t, users.created, "no new row for an exact pair match")
	assert.NotEqual(t, "old-hash", codes.hashes["alice"], "previous code is superseded")
	assert.Len(t, mail.sent, 1)
}

func TestSignUp_Conflicts(t *testing.T) {
	existing := &User{ID: "u-1", Username: "alice", Email: "alice@example.com", Role: sec.RoleUser}

	testCases := []struct {
		name  string
		input SignUpInput
	}{
		{
			name:  "username taken by different email",
			input: SignUpInput{Username: "alice", Email: "other@example.com"},
		},
		{
			name:  "email registered under different username",
			input: SignUpInput{Username: "bob", Email: "alice@example.com"},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			users := newFakeUserRepository(existing)
			service := newTestService(users, newFakeCodeRepository(), &capturingMailer{})

			_, err := service.SignUp(context.Background(), testCase.input)

			var appError *apperr.AppError
			require.ErrorAs(t, err, &appError)
			assert.Equal(t, 409, appError.HTTPStatus)
			assert.Empty(t, users.created)
		})
	}
}

func TestSignUp_Validation(t *testing.T) {
	testCases := []struct {
		name  string
		input SignUpInput
	}{
		{name: "reserved username me", input: SignUpInput{Username: "me", Email: "me@example.com"}},
		{name: "illegal characters", input: SignUpInput{Username: "al ice!", Email: "alice@example.com"}},
		{name: "missing email", input: SignUpInput{Username: "alice"}},
		{name: "malformed email", input: SignUpInput{Username: "alice", Email: "not-an-email"}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			users := newFakeUserRepository()
			service := newTestService(users, newFakeCodeRepository(), &capturingMailer{})

			_, err := service.SignUp(context.Background(), testCase.input)

			var appError *apperr.AppError
			require.ErrorAs(t, err, &appError)
			assert.Equal(t, 400, appError.HTTPStatus)
			assert.Empty(t, users.created)
		})
	}
}

// # ExchangeToken

func exchangeFixture(t *testing.T) (*Service, *fakeCodeRepository, string) {
	t.Helper()

	users := newFakeUserRepository()
	codes := newFakeCodeRepository()
	mail := &capturingMailer{}
	service := newTestService(users, codes, mail)

	_, err := service.SignUp(context.Background(), SignUpInput{
		Username: "alice",
		Email:    "alice@example.com",
	})
	require.NoError(t, err)

	// Recover the plaintext by issuing a known code: replace the stored hash
	// with one derived from a fixed value.
	plaintext := "fixed-test-code"
	codeHash, err := sec.HashCode(plaintext)
	require.NoError(t, err)
	codes.hashes["alice"] = codeHash

	return service, codes, plaintext
}

func TestExchangeToken_Success(t *testing.T) {
	service, codes, plaintext := exchangeFixture(t)

	token, err := service.ExchangeToken(context.Background(), ExchangeInput{
		Username:         "alice",
		ConfirmationCode: plaintext,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotContains(t, codes.hashes, "alice", "code is consumed on success")
}

func TestExchangeToken_UnknownUsername(t *testing.T) {
	service, _, plaintext := exchangeFixture(t)

	_, err := service.ExchangeToken(context.Background(), ExchangeInput{
		Username:         "nobody",
		ConfirmationCode: plaintext,
	})

	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, 404, appError.HTTPStatus)
}

func TestExchangeToken_WrongCodeKeepsStoredCode(t *testing.T) {
	service, codes, _ := exchangeFixture(t)

	_, err := service.ExchangeToken(context.Background(), ExchangeInput{
		Username:         "alice",
		ConfirmationCode: "wrong-code",
	})

	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, 400, appError.HTTPStatus)
	assert.Contains(t, codes.hashes, "alice", "a failed attempt does not burn the code")
}

func TestExchangeToken_ExpiredOrMissingCode(t *testing.T) {
	service, codes, plaintext := exchangeFixture(t)
	delete(codes.hashes, "alice")

	_, err := service.ExchangeToken(context.Background(), ExchangeInput{
		Username:         "alice",
		ConfirmationCode: plaintext,
	})

	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, 400, appError.HTTPStatus)
}
