// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package identity

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/kritika/internal/platform/request"
	"github.com/taibuivan/kritika/internal/platform/respond"
	"github.com/taibuivan/kritika/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the public signup and token-exchange HTTP endpoints.
//
// Both endpoints are unauthenticated: they are the entry points through which
// a client obtains its first access token.
type Handler struct {
	identityService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{identityService: service}
}

// Routes returns a [chi.Router] configured with identity routes.
//
// # Endpoints
//   - POST /signup : Registers a user (or re-issues a code) and emails a confirmation code.
//   - POST /token  : Exchanges a username + confirmation code for a JWT.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/signup", handler.signUp)
	router.Post("/token", handler.token)

	return router
}

// # Request Payloads

type signUpRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type signUpResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type tokenRequest struct {
	Username         string `json:"username"`
	ConfirmationCode string `json:"confirmation_code"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// # Handlers

/*
SignUp registers a user and dispatches a confirmation code by email.

POST /api/v1/auth/signup

Description: Creates the account on first call; re-sends a fresh code when the
exact same username/email pair signs up again. The response deliberately echoes
only the submitted pair, never the code.

Request:
  - Body: signUpRequest (Username, Email)

Response:
  - 200: signUpResponse: The registered pair
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Username or Email belongs to a different account
*/
func (handler *Handler) signUp(writer http.ResponseWriter, request *http.Request) {
	var input signUpRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	user, err := handler.identityService.SignUp(request.Context(), SignUpInput{
		Username: input.Username,
		Email:    input.Email,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, signUpResponse{Username: user.Username, Email: user.Email})
}

/*
Token exchanges a confirmation code for an access token.

POST /api/v1/auth/token

Description: Verifies the code delivered during signup and mints a signed JWT.
The code is consumed on success.

Request:
  - Body: tokenRequest (Username, ConfirmationCode)

Response:
  - 200: tokenResponse: The signed JWT
  - 400: ErrInvalidCredentials: Wrong, expired, or consumed code
  - 404: ErrNotFound: Unknown username
*/
func (handler *Handler) token(writer http.ResponseWriter, request *http.Request) {
	var input tokenRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	token, err := handler.identityService.ExchangeToken(request.Context(), ExchangeInput{
		Username:         input.Username,
		ConfirmationCode: input.ConfirmationCode,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, tokenResponse{Token: token})
}
