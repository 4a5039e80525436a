package category

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kritika/internal/platform/apperr"
	"github.com/taibuivan/kritika/internal/platform/validate"
)

type fakeRepository struct {
	bySlug map[string]*Category
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{bySlug: make(map[string]*Category)}
}

func (repository *fakeRepository) List(_ context.Context, search string, limit, offset int) ([]*Category, int64, error) {
	var matched []*Category
	for _, c := range repository.bySlug {
		if search == "" || strings.Contains(strings.ToLower(c.Name), strings.ToLower(search)) {
			matched = append(matched, c)
		}
	}
	return matched, int64(len(matched)), nil
}

func (repository *fakeRepository) GetBySlug(_ context.Context, slug string) (*Category, error) {
	if c, ok := repository.bySlug[slug]; ok {
		return c, nil
	}
	return nil, apperr.ErrNotFound
}

func (repository *fakeRepository) Create(_ context.Context, category *Category) error {
	if _, ok := repository.bySlug[category.Slug]; ok {
		return apperr.Conflict("A category with this slug already exists")
	}
	category.ID = int64(len(repository.bySlug) + 1)
	repository.bySlug[category.Slug] = category
	return nil
}

func (repository *fakeRepository) DeleteBySlug(_ context.Context, slug string) error {
	if _, ok := repository.bySlug[slug]; !ok {
		return apperr.ErrNotFound
	}
	delete(repository.bySlug, slug)
	return nil
}

func newTestService(repository *fakeRepository) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repository, validate.DefaultLimits(), logger)
}

func TestCreate_DerivesSlugFromName(t *testing.T) {
	service := newTestService(newFakeRepository())

	category, err := service.Create(context.Background(), CreateInput{Name: "Science Fiction"})

	require.NoError(t, err)
	assert.Equal(t, "science-fiction", category.Slug)
}

func TestCreate_RejectsInvalidSlug(t *testing.T) {
	testCases := []struct {
		name string
		slug string
	}{
		{name: "uppercase", slug: "Films"},
		{name: "spaces", slug: "the films"},
		{name: "too long", slug: strings.Repeat("a", 51)},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			service := newTestService(newFakeRepository())

			_, err := service.Create(context.Background(), CreateInput{Name: "Films", Slug: testCase.slug})

			var appError *apperr.AppError
			require.ErrorAs(t, err, &appError)
			assert.Equal(t, 400, appError.HTTPStatus)
		})
	}
}

func TestCreate_DuplicateSlugConflicts(t *testing.T) {
	repository := newFakeRepository()
	service := newTestService(repository)

	_, err := service.Create(context.Background(), CreateInput{Name: "Films", Slug: "films"})
	require.NoError(t, err)

	_, err = service.Create(context.Background(), CreateInput{Name: "Movies", Slug: "films"})

	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, 409, appError.HTTPStatus)
}

func TestDelete(t *testing.T) {
	repository := newFakeRepository()
	service := newTestService(repository)

	_, err := service.Create(context.Background(), CreateInput{Name: "Films", Slug: "films"})
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), "films"))

	err = service.Delete(context.Background(), "films")
	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, 404, appError.HTTPStatus)
}
