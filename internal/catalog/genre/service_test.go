package genre

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kritika/internal/platform/apperr"
	"github.com/taibuivan/kritika/internal/platform/validate"
)

type fakeRepository struct {
	bySlug map[string]*Genre
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{bySlug: make(map[string]*Genre)}
}

func (repository *fakeRepository) List(_ context.Context, search string, limit, offset int) ([]*Genre, int64, error) {
	var all []*Genre
	for _, g := range repository.bySlug {
		all = append(all, g)
	}
	return all, int64(len(all)), nil
}

func (repository *fakeRepository) GetBySlug(_ context.Context, slug string) (*Genre, error) {
	if g, ok := repository.bySlug[slug]; ok {
		return g, nil
	}
	return nil, apperr.ErrNotFound
}

func (repository *fakeRepository) Create(_ context.Context, genre *Genre) error {
	if _, ok := repository.bySlug[genre.Slug]; ok {
		return apperr.Conflict("A genre with this slug already exists")
	}
	repository.bySlug[genre.Slug] = genre
	return nil
}

func (repository *fakeRepository) DeleteBySlug(_ context.Context, slug string) error {
	if _, ok := repository.bySlug[slug]; !ok {
		return apperr.ErrNotFound
	}
	delete(repository.bySlug, slug)
	return nil
}

func newTestService() *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(newFakeRepository(), validate.DefaultLimits(), logger)
}

func TestCreate_DerivesSlug(t *testing.T) {
	service := newTestService()

	genre, err := service.Create(context.Background(), CreateInput{Name: "Rock and Roll"})

	require.NoError(t, err)
	assert.Equal(t, "rock-and-roll", genre.Slug)
}

func TestCreate_RequiresName(t *testing.T) {
	service := newTestService()

	_, err := service.Create(context.Background(), CreateInput{})

	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, 400, appError.HTTPStatus)
}

func TestDelete_Unknown(t *testing.T) {
	service := newTestService()

	err := service.Delete(context.Background(), "ghost")

	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, 404, appError.HTTPStatus)
}
