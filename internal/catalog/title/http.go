// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/kritika/internal/platform/apperr"
	"github.com/taibuivan/kritika/internal/platform/middleware"
	requestutil "github.com/taibuivan/kritika/internal/platform/request"
	"github.com/taibuivan/kritika/internal/platform/respond"
	"github.com/taibuivan/kritika/internal/platform/sec"
	"github.com/taibuivan/kritika/internal/platform/validate"
	"github.com/taibuivan/kritika/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for catalogue discovery and management.
type Handler struct {
	service *Service
}

// NewHandler constructs a new title [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the catalogue endpoints.
// The reviews sub-router is mounted beneath each title.
//
// # Routing Strategy
//
//   - Discovery (Public): Listing and detail pages for all visitors.
//   - Management (Restricted): Requires [sec.RoleAdmin] for mutations.
func (handler *Handler) Routes(reviews chi.Router) chi.Router {
	router := chi.NewRouter()

	// ## Public Discovery Endpoints
	router.Get("/", handler.list)
	router.Get("/{titleID}", handler.get)

	// ## Reviews & Comments
	router.Mount("/{titleID}/reviews", reviews)

	// ## Catalogue Management (Admin Protected)
	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireAuth)
		admin.Use(middleware.RequireRole(sec.RoleAdmin))

		admin.Post("/", handler.create)
		admin.Patch("/{titleID}", handler.update)
		admin.Delete("/{titleID}", handler.delete)
	})

	return router
}

// # Request Payloads

type createTitleRequest struct {
	Name        string   `json:"name"`
	Year        int      `json:"year"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Genre       []string `json:"genre"`
}

type updateTitleRequest struct {
	Name        *string   `json:"name"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Genre       *[]string `json:"genre"`
}

// # Handlers

/*
List returns a filtered page of catalogue entries.

GET /api/v1/titles?category=&genre=&name=&year=&page=&limit=

Response:
  - 200: []Title + pagination meta
  - 400: ErrValidation: year is present but not an integer
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	query := request.URL.Query()

	filter := Filter{
		CategorySlug: query.Get("category"),
		GenreSlug:    query.Get("genre"),
		Name:         query.Get("name"),
	}
	if rawYear := query.Get("year"); rawYear != "" {
		year, err := strconv.Atoi(rawYear)
		if err != nil {
			respond.Error(writer, request, apperr.ValidationError("Invalid query parameter",
				apperr.FieldError{Field: "year", Message: "year must be an integer"}))
			return
		}
		filter.Year = &year
	}

	titles, meta, err := handler.service.List(request.Context(), filter, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, titles, meta)
}

/*
Get fetches one catalogue entry with its derived rating.

GET /api/v1/titles/{titleID}

Response:
  - 200: Title
  - 404: ErrNotFound: Unknown title
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	titleID, err := requestutil.IntParam(request, "titleID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.service.Get(request.Context(), titleID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, title)
}

/*
Create adds a work to the catalogue.

POST /api/v1/titles

Response:
  - 201: Title: the created entry
  - 400: ErrInvalidJSON: Bad input, future year, or unknown taxonomy slug
  - 403: ErrForbidden: Caller is not an administrator
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createTitleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	title, err := handler.service.Create(request.Context(), CreateInput{
		Name:         input.Name,
		Year:         input.Year,
		Description:  input.Description,
		CategorySlug: input.Category,
		GenreSlugs:   input.Genre,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, title)
}

/*
Update partially modifies a catalogue entry.

PATCH /api/v1/titles/{titleID}

Response:
  - 200: Title: the updated entry
  - 400: ErrInvalidJSON: Bad input, future year, or unknown taxonomy slug
  - 404: ErrNotFound: Unknown title
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	titleID, err := requestutil.IntParam(request, "titleID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateTitleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	title, err := handler.service.Update(request.Context(), titleID, UpdateInput{
		Name:         input.Name,
		Year:         input.Year,
		Description:  input.Description,
		CategorySlug: input.Category,
		GenreSlugs:   input.Genre,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, title)
}

/*
Delete removes a catalogue entry and, via cascade, its reviews.

DELETE /api/v1/titles/{titleID}

Response:
  - 204: Deleted
  - 404: ErrNotFound: Unknown title
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	titleID, err := requestutil.IntParam(request, "titleID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), titleID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
