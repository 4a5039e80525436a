// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

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
	"github.com/taibuivan/kritika/pkg/pagination"
)

// # Test Doubles

type pairKey struct {
	titleID  int64
	authorID string
}

type fakeRepository struct {
	titles        map[int64]bool
	reviews       map[int64]*Review
	comments      map[int64]*Comment
	reviewPairs   map[pairKey]bool
	nextReviewID  int64
	nextCommentID int64
}

func newFakeRepository(titleIDs ...int64) *fakeRepository {
	repository := &fakeRepository{
		titles:        make(map[int64]bool),
		reviews:       make(map[int64]*Review),
		comments:      make(map[int64]*Comment),
		reviewPairs:   make(map[pairKey]bool),
		nextReviewID:  1,
		nextCommentID: 1,
	}
	for _, id := range titleIDs {
		repository.titles[id] = true
	}
	return repository
}

func (repository *fakeRepository) TitleExists(_ context.Context, titleID int64) (bool, error) {
	return repository.titles[titleID], nil
}

func (repository *fakeRepository) ListReviews(_ context.Context, titleID int64, limit, offset int) ([]*Review, int64, error) {
	var matched []*Review
	for _, review := range repository.reviews {
		if review.TitleID == titleID {
			matched = append(matched, review)
		}
	}
	return matched, int64(len(matched)), nil
}

func (repository *fakeRepository) GetReview(_ context.Context, titleID, reviewID int64) (*Review, error) {
	review, ok := repository.reviews[reviewID]
	if !ok || review.TitleID != titleID {
		return nil, apperr.ErrNotFound
	}
	return review, nil
}

func (repository *fakeRepository) CreateReview(_ context.Context, review *Review) error {
	key := pairKey{titleID: review.TitleID, authorID: review.AuthorID}
	if repository.reviewPairs[key] {
		return apperr.Conflict("You have already reviewed this title")
	}
	review.ID = repository.nextReviewID
	review.PubDate = time.Now()
	repository.nextReviewID++
	repository.reviews[review.ID] = review
	repository.reviewPairs[key] = true
	return nil
}

func (repository *fakeRepository) UpdateReview(_ context.Context, review *Review) error {
	if _, ok := repository.reviews[review.ID]; !ok {
		return apperr.ErrNotFound
	}
	repository.reviews[review.ID] = review
	return nil
}

func (repository *fakeRepository) DeleteReview(_ context.Context, titleID, reviewID int64) error {
	review, ok := repository.reviews[reviewID]
	if !ok || review.TitleID != titleID {
		return apperr.ErrNotFound
	}
	delete(repository.reviews, reviewID)
	delete(repository.reviewPairs, pairKey{titleID: titleID, authorID: review.AuthorID})
	for id, comment := range repository.comments {
		if comment.ReviewID == reviewID {
			delete(repository.comments, id)
		}
	}
	return nil
}

func (repository *fakeRepository) ListComments(_ context.Context, reviewID int64, limit, offset int) ([]*Comment, int64, error) {
	var matched []*Comment
	for _, comment := range repository.comments {
		if comment.ReviewID == reviewID {
			matched = append(matched, comment)
		}
	}
	return matched, int64(len(matched)), nil
}

func (repository *fakeRepository) GetComment(_ context.Context, reviewID, commentID int64) (*Comment, error) {
	comment, ok := repository.comments[commentID]
	if !ok || comment.ReviewID != reviewID {
		return nil, apperr.ErrNotFound
	}
	return comment, nil
}

func (repository *fakeRepository) CreateComment(_ context.Context, comment *Comment) error {
	comment.ID = repository.nextCommentID
	comment.PubDate = time.Now()
	repository.nextCommentID++
	repository.comments[comment.ID] = comment
	return nil
}

func (repository *fakeRepository) UpdateComment(_ context.Context, comment *Comment) error {
	if _, ok := repository.comments[comment.ID]; !ok {
		return apperr.ErrNotFound
	}
	repository.comments[comment.ID] = comment
	return nil
}

func (repository *fakeRepository) DeleteComment(_ context.Context, reviewID, commentID int64) error {
	comment, ok := repository.comments[commentID]
	if !ok || comment.ReviewID != reviewID {
		return apperr.ErrNotFound
	}
	delete(repository.comments, commentID)
	return nil
}

func newTestService(repository *fakeRepository) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repository, validate.DefaultLimits(), logger)
}

var (
	alice = Actor{ID: "u-alice", Username: "alice", Role: sec.RoleUser}
	bob   = Actor{ID: "u-bob", Username: "bob", Role: sec.RoleUser}
	mod   = Actor{ID: "u-mod", Username: "mod", Role: sec.RoleModerator}
)

// # Reviews

func TestCreateReview(t *testing.T) {
	service := newTestService(newFakeRepository(1))

	review, err := service.CreateReview(context.Background(), 1, alice, ReviewInput{
		Text:  "Watched it twice.",
		Score: 9,
	})

	require.NoError(t, err)
	assert.Equal(t, "alice", review.Author)
	assert.Equal(t, 9, review.Score)
	assert.False(t, review.PubDate.IsZero())
}

func TestCreateReview_ScoreBounds(t *testing.T) {
	testCases := []struct {
		name    string
		score   int
		wantErr bool
	}{
		{name: "below minimum", score: 0, wantErr: true},
		{name: "at minimum", score: 1},
		{name: "at maximum", score: 10},
		{name: "above maximum", score: 11, wantErr: true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			service := newTestService(newFakeRepository(1))

			_, err := service.CreateReview(context.Background(), 1, alice, ReviewInput{
				Text:  "ok",
				Score: testCase.score,
			})

			if testCase.wantErr {
				var appError *apperr.AppError
				require.ErrorAs(t, err, &appError)
				assert.Equal(t, 400, appError.HTTPStatus)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestCreateReview_OnePerTitlePerAuthor(t *testing.T) {
	service := newTestService(newFakeRepository(1, 2))

	_, err := service.CreateReview(context.Background(), 1, alice, ReviewInput{Text: "first", Score: 7})
	require.NoError(t, err)

	// Same author, same title: conflict.
	_, err = service.CreateReview(context.Background(), 1, alice, ReviewInput{Text: "second", Score: 8})
	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, 409, appError.HTTPStatus)

	// Same author, different title: allowed.
	_, err = service.CreateReview(context.Background(), 2, alice, ReviewInput{Text: "other", Score: 8})
	require.NoError(t, err)

	// Different author, same title: allowed.
	_, err = service.CreateReview(context.Background(), 1, bob, ReviewInput{Text: "mine", Score: 5})
	require.NoError(t, err)
}

func TestCreateReview_UnknownTitle(t *testing.T) {
	service := newTestService(newFakeRepository())

	_, err := service.CreateReview(context.Background(), 99, alice, ReviewInput{Text: "x", Score: 5})

	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, 404, appError.HTTPStatus)
}

func TestUpdateReview_Authorization(t *testing.T) {
	testCases := []struct {
		name       string
		actor      Actor
		wantStatus int
	}{
		{name: "author may edit", actor: alice},
		{name: "moderator may edit", actor: mod},
		{name: "stranger may not", actor: bob, wantStatus: 403},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			repository := newFakeRepository(1)
			service := newTestService(repository)

			created, err := service.CreateReview(context.Background(), 1, alice, ReviewInput{Text: "v1", Score: 5})
			require.NoError(t, err)

			text := "v2"
			updated, err := service.UpdateReview(context.Background(), 1, created.ID, testCase.actor, ReviewPatch{Text: &text})

			if testCase.wantStatus != 0 {
				var appError *apperr.AppError
				require.ErrorAs(t, err, &appError)
				assert.Equal(t, testCase.wantStatus, appError.HTTPStatus)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "v2", updated.Text)
			assert.Equal(t, 5, updated.Score, "untouched score survives a partial update")
		})
	}
}

func TestDeleteReview_FreesThePairForReReview(t *testing.T) {
	repository := newFakeRepository(1)
	service := newTestService(repository)

	created, err := service.CreateReview(context.Background(), 1, alice, ReviewInput{Text: "v1", Score: 5})
	require.NoError(t, err)

	require.NoError(t, service.DeleteReview(context.Background(), 1, created.ID, alice))

	_, err = service.CreateReview(context.Background(), 1, alice, ReviewInput{Text: "again", Score: 6})
	require.NoError(t, err, "deleting a review allows the author to review the title again")
}

func TestGetReview_ScopedToTitle(t *testing.T) {
	repository := newFakeRepository(1, 2)
	service := newTestService(repository)

	created, err := service.CreateReview(context.Background(), 1, alice, ReviewInput{Text: "x", Score: 5})
	require.NoError(t, err)

	// The review exists, but not beneath title 2.
	_, err = service.GetReview(context.Background(), 2, created.ID)

	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, 404, appError.HTTPStatus)
}

// # Comments

func TestCreateComment(t *testing.T) {
	repository := newFakeRepository(1)
	service := newTestService(repository)

	created, err := service.CreateReview(context.Background(), 1, alice, ReviewInput{Text: "x", Score: 5})
	require.NoError(t, err)

	comment, err := service.CreateComment(context.Background(), 1, created.ID, bob, CommentInput{Text: "agreed"})

	require.NoError(t, err)
	assert.Equal(t, "bob", comment.Author)
	assert.False(t, comment.PubDate.IsZero())
}

func TestCreateComment_UnknownReview(t *testing.T) {
	service := newTestService(newFakeRepository(1))

	_, err := service.CreateComment(context.Background(), 1, 99, bob, CommentInput{Text: "?"})

	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, 404, appError.HTTPStatus)
}

func TestDeleteComment_Authorization(t *testing.T) {
	testCases := []struct {
		name       string
		actor      Actor
		wantStatus int
	}{
		{name: "author may delete", actor: bob},
		{name: "moderator may delete", actor: mod},
		{name: "stranger may not", actor: alice, wantStatus: 403},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			repository := newFakeRepository(1)
			service := newTestService(repository)

			review, err := service.CreateReview(context.Background(), 1, alice, ReviewInput{Text: "x", Score: 5})
			require.NoError(t, err)
			comment, err := service.CreateComment(context.Background(), 1, review.ID, bob, CommentInput{Text: "hi"})
			require.NoError(t, err)

			err = service.DeleteComment(context.Background(), 1, review.ID, comment.ID, testCase.actor)

			if testCase.wantStatus != 0 {
				var appError *apperr.AppError
				require.ErrorAs(t, err, &appError)
				assert.Equal(t, testCase.wantStatus, appError.HTTPStatus)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestListReviews_UnknownTitle(t *testing.T) {
	service := newTestService(newFakeRepository())

	_, _, err := service.ListReviews(context.Background(), 42, pagination.Params{Page: 1, Limit: 20})

	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, 404, appError.HTTPStatus)
}
