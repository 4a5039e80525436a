package category

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

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes exposes public listing and admin-only mutation endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(middleware.RequireRole(sec.RoleAdmin))
		r.Post("/", handler.create)
		r.Delete("/{slug}", handler.delete)
	})

	return router
}

type createRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	search := request.URL.Query().Get("search")

	categories, meta, err := handler.service.List(request.Context(), search, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, categories, meta)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	category, err := handler.service.Create(request.Context(), CreateInput{
		Name: input.Name,
		Slug: input.Slug,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, category)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.Param(request, "slug")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
