// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kritika/internal/catalog/category"
	"github.com/taibuivan/kritika/internal/catalog/genre"
	"github.com/taibuivan/kritika/internal/platform/apperr"
	"github.com/taibuivan/kritika/internal/platform/validate"
	"github.com/taibuivan/kritika/pkg/pagination"
	"github.com/taibuivan/kritika/pkg/pointer"
)

// # Test Doubles

type fakeTitleRepository struct {
	byID    map[int64]*Title
	nextID  int64
	deleted []int64
}

func newFakeTitleRepository() *fakeTitleRepository {
	return &fakeTitleRepository{byID: make(map[int64]*Title), nextID: 1}
}

func (repository *fakeTitleRepository) List(_ context.Context, filter Filter, limit, offset int) ([]*Title, int64, error) {
	var all []*Title
	for _, t := range repository.byID {
		all = append(all, t)
	}
	return all, int64(len(all)), nil
}

func (repository *fakeTitleRepository) GetByID(_ context.Context, id int64) (*Title, error) {
	if t, ok := repository.byID[id]; ok {
		return t, nil
	}
	return nil, apperr.ErrNotFound
}

func (repository *fakeTitleRepository) Create(_ context.Context, title *Title) error {
	title.ID = repository.nextID
	repository.nextID++
	repository.byID[title.ID] = title
	return nil
}

func (repository *fakeTitleRepository) Update(_ context.Context, title *Title) error {
	if _, ok := repository.byID[title.ID]; !ok {
		return apperr.ErrNotFound
	}
	repository.byID[title.ID] = title
	return nil
}

func (repository *fakeTitleRepository) Delete(_ context.Context, id int64) error {
	if _, ok := repository.byID[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(repository.byID, id)
	repository.deleted = append(repository.deleted, id)
	return nil
}

type fakeCategoryRepository struct {
	bySlug map[string]*category.Category
}

func (repository *fakeCategoryRepository) List(_ context.Context, search string, limit, offset int) ([]*category.Category, int64, error) {
	return nil, 0, nil
}

func (repository *fakeCategoryRepository) GetBySlug(_ context.Context, slug string) (*category.Category, error) {
	if c, ok := repository.bySlug[slug]; ok {
		return c, nil
	}
	return nil, apperr.ErrNotFound
}

func (repository *fakeCategoryRepository) Create(_ context.Context, c *category.Category) error {
	return nil
}
func (repository *fakeCategoryRepository) DeleteBySlug(_ context.Context, slug string) error {
	return nil
}

type fakeGenreRepository struct {
	bySlug map[string]*genre.Genre
}

func (repository *fakeGenreRepository) List(_ context.Context, search string, limit, offset int) ([]*genre.Genre, int64, error) {
	return nil, 0, nil
}

func (repository *fakeGenreRepository) GetBySlug(_ context.Context, slug string) (*genre.Genre, error) {
	if g, ok := repository.bySlug[slug]; ok {
		return g, nil
	}
	return nil, apperr.ErrNotFound
}

func (repository *fakeGenreRepository) Create(_ context.Context, g *genre.Genre) error    { return nil }
func (repository *fakeGenreRepository) DeleteBySlug(_ context.Context, slug string) error { return nil }

func newTestService(repository *fakeTitleRepository) *Service {
	categories := &fakeCategoryRepository{bySlug: map[string]*category.Category{
		"films": {ID: 1, Name: "Films", Slug: "films"},
	}}
	genres := &fakeGenreRepository{bySlug: map[string]*genre.Genre{
		"drama":  {ID: 1, Name: "Drama", Slug: "drama"},
		"comedy": {ID: 2, Name: "Comedy", Slug: "comedy"},
	}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repository, categories, genres, validate.DefaultLimits(), logger)
}

// # Create

func TestCreate_ResolvesTaxonomies(t *testing.T) {
	service := newTestService(newFakeTitleRepository())

	title, err := service.Create(context.Background(), CreateInput{
		Name:         "The Shawshank Redemption",
		Year:         1994,
		CategorySlug: "films",
		GenreSlugs:   []string{"drama", "comedy"},
	})

	require.NoError(t, err)
	require.NotNil(t, title.Category)
	assert.Equal(t, int64(1), title.Category.ID)
	require.Len(t, title.Genres, 2)
	assert.Equal(t, int64(2), title.Genres[1].ID)
	assert.Nil(t, title.Rating, "a fresh title has no rating")
}

func TestCreate_AllowsMissingCategory(t *testing.T) {
	service := newTestService(newFakeTitleRepository())

	title, err := service.Create(context.Background(), CreateInput{
		Name: "Orphaned Work",
		Year: 2001,
	})

	require.NoError(t, err)
	assert.Nil(t, title.Category)
	assert.Empty(t, title.Genres)
}

func TestCreate_RejectsFutureYear(t *testing.T) {
	service := newTestService(newFakeTitleRepository())

	_, err := service.Create(context.Background(), CreateInput{
		Name: "Time Machine",
		Year: time.Now().Year() + 1,
	})

	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, 400, appError.HTTPStatus)
}

func TestCreate_RejectsUnknownTaxonomySlugs(t *testing.T) {
	testCases := []struct {
		name  string
		input CreateInput
	}{
		{
			name:  "unknown category",
			input: CreateInput{Name: "X", Year: 2000, CategorySlug: "ghost"},
		},
		{
			name:  "unknown genre",
			input: CreateInput{Name: "X", Year: 2000, GenreSlugs: []string{"ghost"}},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			service := newTestService(newFakeTitleRepository())

			_, err := service.Create(context.Background(), testCase.input)

			var appError *apperr.AppError
			require.ErrorAs(t, err, &appError)
			assert.Equal(t, 400, appError.HTTPStatus)
		})
	}
}

// # Update

func TestUpdate_ReplacesGenres(t *testing.T) {
	repository := newFakeTitleRepository()
	service := newTestService(repository)

	created, err := service.Create(context.Background(), CreateInput{
		Name:       "Work",
		Year:       1999,
		GenreSlugs: []string{"drama"},
	})
	require.NoError(t, err)

	updated, err := service.Update(context.Background(), created.ID, UpdateInput{
		GenreSlugs: &[]string{"comedy"},
	})

	require.NoError(t, err)
	require.Len(t, updated.Genres, 1)
	assert.Equal(t, "comedy", updated.Genres[0].Slug)
	assert.Equal(t, "Work", updated.Name, "untouched fields survive")
}

func TestUpdate_UnknownTitle(t *testing.T) {
	service := newTestService(newFakeTitleRepository())

	name := "New Name"
	_, err := service.Update(context.Background(), 42, UpdateInput{Name: &name})

	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, 404, appError.HTTPStatus)
}

// # Delete

func TestDelete(t *testing.T) {
	repository := newFakeTitleRepository()
	service := newTestService(repository)

	created, err := service.Create(context.Background(), CreateInput{Name: "Work", Year: 1999})
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), created.ID))

	err = service.Delete(context.Background(), created.ID)
	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, 404, appError.HTTPStatus)
}

// # Rating

/*
TestGet_RatingIsDerivedNotStored verifies that the service passes the
storage-computed rating through untouched: nil while a title has no reviews,
and the average (e.g. scores 6 and 8 -> 7.0) once it does.
*/
func TestGet_RatingIsDerivedNotStored(t *testing.T) {
	repository := newFakeTitleRepository()
	service := newTestService(repository)

	created, err := service.Create(context.Background(), CreateInput{Name: "Work", Year: 1999})
	require.NoError(t, err)

	unrated, err := service.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Nil(t, unrated.Rating, "no reviews means no rating, not zero")

	repository.byID[created.ID].Rating = pointer.To(7.0)

	rated, err := service.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, rated.Rating)
	assert.Equal(t, 7.0, *rated.Rating)
}

/*
TestList_RatingPassthrough verifies that listings carry each title's derived
rating pointer unchanged.
*/
func TestList_RatingPassthrough(t *testing.T) {
	repository := newFakeTitleRepository()
	service := newTestService(repository)

	first, err := service.Create(context.Background(), CreateInput{Name: "Unrated", Year: 1990})
	require.NoError(t, err)
	second, err := service.Create(context.Background(), CreateInput{Name: "Rated", Year: 1995})
	require.NoError(t, err)
	repository.byID[second.ID].Rating = pointer.To(7.0)

	titles, _, err := service.List(context.Background(), Filter{}, pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Len(t, titles, 2)

	byID := make(map[int64]*Title, len(titles))
	for _, title := range titles {
		byID[title.ID] = title
	}
	assert.Nil(t, byID[first.ID].Rating)
	require.NotNil(t, byID[second.ID].Rating)
	assert.Equal(t, 7.0, *byID[second.ID].Rating)
}
