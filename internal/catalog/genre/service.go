package genre

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taibuivan/kritika/internal/platform/apperr"
	"github.com/taibuivan/kritika/internal/platform/validate"
	"github.com/taibuivan/kritika/pkg/pagination"
	"github.com/taibuivan/kritika/pkg/slug"
)

type Service struct {
	repo   Repository
	limits validate.Limits
	logger *slog.Logger
}

func NewService(repo Repository, limits validate.Limits, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		limits: limits,
		logger: logger,
	}
}

type CreateInput struct {
	Name string
	Slug string
}

func (service *Service) List(context context.Context, search string, params pagination.Params) ([]*Genre, pagination.Meta, error) {
	genres, total, err := service.repo.List(context, search, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("genre_service_list_failed: %w", err)
	}
	return genres, pagination.NewMeta(params.Page, params.Limit, int(total)), nil
}

// Create persists a new genre. A missing slug is derived from the name.
func (service *Service) Create(context context.Context, input CreateInput) (*Genre, error) {
	if input.Slug == "" {
		input.Slug = slug.From(input.Name)
	}

	validator := validate.New().
		Required("name", input.Name).
		MaxLen("name", input.Name, service.limits.TaxonomyNameMaxLen).
		Required("slug", input.Slug).
		MaxLen("slug", input.Slug, service.limits.SlugMaxLen).
		Slug("slug", input.Slug)
	if validator.HasErrors() {
		return nil, validator.Err()
	}

	genre := &Genre{Name: input.Name, Slug: input.Slug}
	if err := service.repo.Create(context, genre); err != nil {
		return nil, err
	}
	return genre, nil
}

func (service *Service) Delete(context context.Context, genreSlug string) error {
	err := service.repo.DeleteBySlug(context, genreSlug)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.NotFound("Genre")
		}
		return fmt.Errorf("genre_service_delete_failed: %w", err)
	}
	return nil
}
