// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taibuivan/kritika/internal/platform/apperr"
	"github.com/taibuivan/kritika/internal/platform/sec"
	"github.com/taibuivan/kritika/internal/platform/validate"
	"github.com/taibuivan/kritika/pkg/pagination"
)

// # Service Layer

// Service orchestrates review and comment business logic.
type Service struct {
	repo   Repository
	limits validate.Limits
	logger *slog.Logger
}

// NewService constructs a new [Service] with its repository dependency.
func NewService(repo Repository, limits validate.Limits, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		limits: limits,
		logger: logger,
	}
}

// # Input Models

// ReviewInput carries the writable review fields.
type ReviewInput struct {
	Text  string
	Score int
}

// ReviewPatch is a partial review update. Nil pointers mean "leave unchanged".
type ReviewPatch struct {
	Text  *string
	Score *int
}

// CommentInput carries the writable comment fields.
type CommentInput struct {
	Text string
}

// # Review Operations

/*
ListReviews retrieves a page of a title's reviews.

Parameters:
  - context: context.Context
  - titleID: int64
  - params: pagination.Params

Returns:
  - []*Review: The page, newest first
  - pagination.Meta: Page metadata
  - error: apperr.NotFound when the title does not exist, storage failures
*/
func (service *Service) ListReviews(context context.Context, titleID int64, params pagination.Params) ([]*Review, pagination.Meta, error) {
	if err := service.requireTitle(context, titleID); err != nil {
		return nil, pagination.Meta{}, err
	}

	reviews, total, err := service.repo.ListReviews(context, titleID, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("review_service_list_failed: %w", err)
	}
	return reviews, pagination.NewMeta(params.Page, params.Limit, int(total)), nil
}

// GetReview retrieves one review of a title.
func (service *Service) GetReview(context context.Context, titleID, reviewID int64) (*Review, error) {
	review, err := service.repo.GetReview(context, titleID, reviewID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.NotFound("Review")
		}
		return nil, fmt.Errorf("review_service_get_failed: %w", err)
	}
	return review, nil
}

/*
CreateReview publishes a review on a title.

Description: The score must lie in the inclusive 1..10 range. A second review
by the same author on the same title is rejected with a conflict; the check is
a database constraint, so racing submissions are serialized by Postgres.

Parameters:
  - context: context.Context
  - titleID: int64
  - actor: Actor (the authenticated author)
  - input: ReviewInput

Returns:
  - *Review: The published review
  - error: Not found (title), validation, conflict, or storage failures
*/
func (service *Service) CreateReview(context context.Context, titleID int64, actor Actor, input ReviewInput) (*Review, error) {
	validator := validate.New().
		Required("text", input.Text).
		Range("score", input.Score, service.limits.ScoreMin, service.limits.ScoreMax)
	if validator.HasErrors() {
		return nil, validator.Err()
	}

	if err := service.requireTitle(context, titleID); err != nil {
		return nil, err
	}

	review := &Review{
		TitleID:  titleID,
		AuthorID: actor.ID,
		Author:   actor.Username,
		Text:     input.Text,
		Score:    input.Score,
	}
	if err := service.repo.CreateReview(context, review); err != nil {
		return nil, err
	}
	return review, nil
}

/*
UpdateReview partially modifies a review.

Description: Permitted for the review's author and for moderators and
administrators. The one-review-per-title pairing is immutable; only text and
score can change.

Parameters:
  - context: context.Context
  - titleID, reviewID: int64
  - actor: Actor
  - patch: ReviewPatch

Returns:
  - *Review: The updated review
  - error: Not found, forbidden, validation, or storage failures
*/
func (service *Service) UpdateReview(context context.Context, titleID, reviewID int64, actor Actor, patch ReviewPatch) (*Review, error) {
	review, err := service.GetReview(context, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if !sec.CanManageResource(actor.Role, actor.ID, review.AuthorID) {
		return nil, apperr.Forbidden("You may only edit your own review")
	}

	if patch.Text != nil {
		review.Text = *patch.Text
	}
	if patch.Score != nil {
		review.Score = *patch.Score
	}

	validator := validate.New().
		Required("text", review.Text).
		Range("score", review.Score, service.limits.ScoreMin, service.limits.ScoreMax)
	if validator.HasErrors() {
		return nil, validator.Err()
	}

	if err := service.repo.UpdateReview(context, review); err != nil {
		return nil, err
	}
	return review, nil
}

// DeleteReview removes a review and its comment thread.
func (service *Service) DeleteReview(context context.Context, titleID, reviewID int64, actor Actor) error {
	review, err := service.GetReview(context, titleID, reviewID)
	if err != nil {
		return err
	}
	if !sec.CanManageResource(actor.Role, actor.ID, review.AuthorID) {
		return apperr.Forbidden("You may only delete your own review")
	}

	if err := service.repo.DeleteReview(context, titleID, reviewID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.NotFound("Review")
		}
		return fmt.Errorf("review_service_delete_failed: %w", err)
	}
	return nil
}

// # Comment Operations

/*
ListComments retrieves a page of the comment thread beneath a review.

Parameters:
  - context: context.Context
  - titleID, reviewID: int64
  - params: pagination.Params

Returns:
  - []*Comment: The page, oldest first
  - pagination.Meta: Page metadata
  - error: apperr.NotFound when the review does not exist, storage failures
*/
func (service *Service) ListComments(context context.Context, titleID, reviewID int64, params pagination.Params) ([]*Comment, pagination.Meta, error) {
	if _, err := service.GetReview(context, titleID, reviewID); err != nil {
		return nil, pagination.Meta{}, err
	}

	comments, total, err := service.repo.ListComments(context, reviewID, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("comment_service_list_failed: %w", err)
	}
	return comments, pagination.NewMeta(params.Page, params.Limit, int(total)), nil
}

// GetComment retrieves one comment beneath a review.
func (service *Service) GetComment(context context.Context, titleID, reviewID, commentID int64) (*Comment, error) {
	if _, err := service.GetReview(context, titleID, reviewID); err != nil {
		return nil, err
	}

	comment, err := service.repo.GetComment(context, reviewID, commentID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.NotFound("Comment")
		}
		return nil, fmt.Errorf("comment_service_get_failed: %w", err)
	}
	return comment, nil
}

// CreateComment publishes a comment beneath a review.
func (service *Service) CreateComment(context context.Context, titleID, reviewID int64, actor Actor, input CommentInput) (*Comment, error) {
	validator := validate.New().Required("text", input.Text)
	if validator.HasErrors() {
		return nil, validator.Err()
	}

	if _, err := service.GetReview(context, titleID, reviewID); err != nil {
		return nil, err
	}

	comment := &Comment{
		ReviewID: reviewID,
		AuthorID: actor.ID,
		Author:   actor.Username,
		Text:     input.Text,
	}
	if err := service.repo.CreateComment(context, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// UpdateComment rewrites the text of a comment. Author, moderator, or admin only.
func (service *Service) UpdateComment(context context.Context, titleID, reviewID, commentID int64, actor Actor, input CommentInput) (*Comment, error) {
	comment, err := service.GetComment(context, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if !sec.CanManageResource(actor.Role, actor.ID, comment.AuthorID) {
		return nil, apperr.Forbidden("You may only edit your own comment")
	}

	validator := validate.New().Required("text", input.Text)
	if validator.HasErrors() {
		return nil, validator.Err()
	}

	comment.Text = input.Text
	if err := service.repo.UpdateComment(context, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment removes a comment. Author, moderator, or admin only.
func (service *Service) DeleteComment(context context.Context, titleID, reviewID, commentID int64, actor Actor) error {
	comment, err := service.GetComment(context, titleID, reviewID, commentID)
	if err != nil {
		return err
	}
	if !sec.CanManageResource(actor.Role, actor.ID, comment.AuthorID) {
		return apperr.Forbidden("You may only delete your own comment")
	}

	if err := service.repo.DeleteComment(context, reviewID, commentID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.NotFound("Comment")
		}
		return fmt.Errorf("comment_service_delete_failed: %w", err)
	}
	return nil
}

// requireTitle maps a missing catalogue row to a client-safe 404.
func (service *Service) requireTitle(context context.Context, titleID int64) error {
	exists, err := service.repo.TitleExists(context, titleID)
	if err != nil {
		return fmt.Errorf("review_service_title_check_failed: %w", err)
	}
	if !exists {
		return apperr.NotFound("Title")
	}
	return nil
}
