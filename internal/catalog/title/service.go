// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taibuivan/kritika/internal/catalog/category"
	"github.com/taibuivan/kritika/internal/catalog/genre"
	"github.com/taibuivan/kritika/internal/platform/apperr"
	"github.com/taibuivan/kritika/internal/platform/validate"
	"github.com/taibuivan/kritika/pkg/pagination"
)

// # Service Layer

// Service orchestrates catalogue business logic.
//
// Writes reference taxonomies by slug; the service resolves those slugs
// against the category and genre repositories so that a dangling slug is a
// validation failure rather than a foreign-key explosion.
type Service struct {
	repo       Repository
	categories category.Repository
	genres     genre.Repository
	limits     validate.Limits
	logger     *slog.Logger
}

// NewService constructs a new [Service] with its repository dependencies.
func NewService(
	repo Repository,
	categories category.Repository,
	genres genre.Repository,
	limits validate.Limits,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:       repo,
		categories: categories,
		genres:     genres,
		limits:     limits,
		logger:     logger,
	}
}

// # Input Models

// CreateInput holds the fields for a new catalogue entry.
type CreateInput struct {
	Name         string
	Year         int
	Description  string
	CategorySlug string
	GenreSlugs   []string
}

// UpdateInput defines the mutable subset of title fields.
// Nil pointers mean "leave unchanged".
type UpdateInput struct {
	Name         *string
	Year         *int
	Description  *string
	CategorySlug *string
	GenreSlugs   *[]string
}

// # Operations

/*
List retrieves a filtered page of titles.

Parameters:
  - context: context.Context
  - filter: Filter (category slug, genre slug, name substring, exact year)
  - params: pagination.Params

Returns:
  - []*Title: The page of titles
  - pagination.Meta: Page metadata
  - error: Storage failures
*/
func (service *Service) List(context context.Context, filter Filter, params pagination.Params) ([]*Title, pagination.Meta, error) {
	titles, total, err := service.repo.List(context, filter, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("title_service_list_failed: %w", err)
	}
	return titles, pagination.NewMeta(params.Page, params.Limit, int(total)), nil
}

// Get retrieves a single title with its derived rating.
func (service *Service) Get(context context.Context, id int64) (*Title, error) {
	title, err := service.repo.GetByID(context, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.NotFound("Title")
		}
		return nil, fmt.Errorf("title_service_get_failed: %w", err)
	}
	return title, nil
}

/*
Create adds a work to the catalogue.

Description: The referenced category and genres must already exist; unknown
slugs are rejected as validation failures. The year must not lie in the future.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *Title: The created entry with hydrated taxonomies
  - error: Validation or storage failures
*/
func (service *Service) Create(context context.Context, input CreateInput) (*Title, error) {
	validator := validate.New().
		Required("name", input.Name).
		MaxLen("name", input.Name, service.limits.TitleNameMaxLen).
		YearNotFuture("year", input.Year)
	if validator.HasErrors() {
		return nil, validator.Err()
	}

	title := &Title{
		Name:        input.Name,
		Year:        input.Year,
		Description: input.Description,
	}
	if err := service.resolveTaxonomies(context, title, input.CategorySlug, input.GenreSlugs); err != nil {
		return nil, err
	}

	if err := service.repo.Create(context, title); err != nil {
		return nil, err
	}
	return title, nil
}

/*
Update applies a partial set of changes to a catalogue entry.

Parameters:
  - context: context.Context
  - id: int64
  - input: UpdateInput

Returns:
  - *Title: The updated entry
  - error: Not found, validation, or storage failures
*/
func (service *Service) Update(context context.Context, id int64, input UpdateInput) (*Title, error) {
	title, err := service.Get(context, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		title.Name = *input.Name
	}
	if input.Year != nil {
		title.Year = *input.Year
	}
	if input.Description != nil {
		title.Description = *input.Description
	}

	validator := validate.New().
		Required("name", title.Name).
		MaxLen("name", title.Name, service.limits.TitleNameMaxLen).
		YearNotFuture("year", title.Year)
	if validator.HasErrors() {
		return nil, validator.Err()
	}

	// Re-resolve even untouched taxonomies: the read model carries genres
	// without their IDs, and Update rewrites the junction rows from IDs.
	categorySlug := currentCategorySlug(title)
	if input.CategorySlug != nil {
		categorySlug = *input.CategorySlug
	}
	genreSlugs := currentGenreSlugs(title)
	if input.GenreSlugs != nil {
		genreSlugs = *input.GenreSlugs
	}
	if err := service.resolveTaxonomies(context, title, categorySlug, genreSlugs); err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, title); err != nil {
		return nil, err
	}
	return title, nil
}

// Delete removes a title and, via cascade, its reviews.
func (service *Service) Delete(context context.Context, id int64) error {
	err := service.repo.Delete(context, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.NotFound("Title")
		}
		return fmt.Errorf("title_service_delete_failed: %w", err)
	}
	return nil
}

// # Helpers

// resolveTaxonomies exchanges slugs for hydrated category/genre entities.
func (service *Service) resolveTaxonomies(context context.Context, title *Title, categorySlug string, genreSlugs []string) error {
	title.Category = nil
	if categorySlug != "" {
		matched, err := service.categories.GetBySlug(context, categorySlug)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return apperr.ValidationError("Invalid reference",
					apperr.FieldError{Field: "category", Message: "category must already exist"})
			}
			return fmt.Errorf("title_service_resolve_category_failed: %w", err)
		}
		title.Category = matched
	}

	title.Genres = make([]genre.Genre, 0, len(genreSlugs))
	for _, slug := range genreSlugs {
		matched, err := service.genres.GetBySlug(context, slug)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return apperr.ValidationError("Invalid reference",
					apperr.FieldError{Field: "genre", Message: "genre must already exist"})
			}
			return fmt.Errorf("title_service_resolve_genre_failed: %w", err)
		}
		title.Genres = append(title.Genres, *matched)
	}
	return nil
}

func currentCategorySlug(title *Title) string {
	if title.Category == nil {
		return ""
	}
	return title.Category.Slug
}

func currentGenreSlugs(title *Title) []string {
	slugs := make([]string, 0, len(title.Genres))
	for _, linked := range title.Genres {
		slugs = append(slugs, linked.Slug)
	}
	return slugs
}
