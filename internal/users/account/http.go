// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/kritika/internal/platform/middleware"
	requestutil "github.com/taibuivan/kritika/internal/platform/request"
	"github.com/taibuivan/kritika/internal/platform/respond"
	"github.com/taibuivan/kritika/internal/platform/sec"
	"github.com/taibuivan/kritika/internal/platform/validate"
	"github.com/taibuivan/kritika/pkg/pagination"
)

// # Definitions & Constructors

// Handler implements the user profile and administration HTTP endpoints.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with user management routes.
//
// # Endpoints
//   - GET    /me         : Own profile (any authenticated user).
//   - PATCH  /me         : Update own profile; role is read-only.
//   - GET    /           : List users (admin).
//   - POST   /           : Create a user with an explicit role (admin).
//   - GET    /{username} : Fetch a user (admin).
//   - PATCH  /{username} : Update a user, including role (admin).
//   - DELETE /{username} : Remove a user (admin).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/me", handler.getSelf)
	router.Patch("/me", handler.updateSelf)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleAdmin))
		r.Get("/", handler.list)
		r.Post("/", handler.create)
		r.Get("/{username}", handler.get)
		r.Patch("/{username}", handler.update)
		r.Delete("/{username}", handler.delete)
	})

	return router
}

// # Request Payloads

type createUserRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
	Role      string `json:"role"`
}

type updateUserRequest struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role"`
}

func (request updateUserRequest) toInput() UpdateInput {
	return UpdateInput{
		Username:  request.Username,
		Email:     request.Email,
		FirstName: request.FirstName,
		LastName:  request.LastName,
		Bio:       request.Bio,
		Role:      request.Role,
	}
}

// # Self Handlers

/*
GetSelf returns the authenticated user's own profile.

GET /api/v1/users/me

Response:
  - 200: identity.User: The profile
  - 401: ErrUnauthorized: Missing or invalid token
*/
func (handler *Handler) getSelf(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetSelf(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

/*
UpdateSelf partially updates the authenticated user's own profile.

PATCH /api/v1/users/me

Description: Accepts any subset of profile fields. A submitted role is ignored;
only administrators may change roles.

Response:
  - 200: identity.User: The updated profile
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 401: ErrUnauthorized: Missing or invalid token
*/
func (handler *Handler) updateSelf(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateUserRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	user, err := handler.accountService.UpdateSelf(request.Context(), userID, input.toInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

// # Administration Handlers

/*
List returns a page of users, optionally filtered by username substring.

GET /api/v1/users?search=&page=&limit=

Response:
  - 200: []identity.User + pagination meta
  - 403: ErrForbidden: Caller is not an administrator
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	search := request.URL.Query().Get("search")

	users, meta, err := handler.accountService.ListUsers(request.Context(), search, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, users, meta)
}

/*
Create provisions a user account with an explicit role.

POST /api/v1/users

Response:
  - 201: identity.User: Created user
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Username or email already exists
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createUserRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	user, err := handler.accountService.CreateUser(request.Context(), CreateInput{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      input.Role,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, user)
}

/*
Get fetches a single user by username.

GET /api/v1/users/{username}

Response:
  - 200: identity.User
  - 404: ErrNotFound: Unknown username
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	username := requestutil.Param(request, "username")

	user, err := handler.accountService.GetUser(request.Context(), username)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

/*
Update partially updates any user, including their role.

PATCH /api/v1/users/{username}

Response:
  - 200: identity.User: Updated user
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 404: ErrNotFound: Unknown username
  - 409: ErrConflict: Username or email already exists
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	username := requestutil.Param(request, "username")

	var input updateUserRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	user, err := handler.accountService.UpdateUser(request.Context(), username, input.toInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

/*
Delete removes a user account.

DELETE /api/v1/users/{username}

Response:
  - 204: Deleted
  - 404: ErrNotFound: Unknown username
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	username := requestutil.Param(request, "username")

	if err := handler.accountService.DeleteUser(request.Context(), username); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
