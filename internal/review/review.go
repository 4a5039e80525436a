// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package review implements user reviews on catalogue titles and the comment
threads beneath them.

# Invariants

  - A user may publish at most one review per title, enforced by a database
    uniqueness constraint so concurrent submissions cannot slip through.
  - A review score lies in the inclusive 1..10 range.
  - Reviews and comments can be edited or removed by their author, or by a
    moderator or administrator.
*/
package review

import (
	"context"
	"time"

	"github.com/taibuivan/kritika/internal/platform/sec"
)

// # Domain Entities

// Review is a scored opinion a user publishes about one title.
type Review struct {
	ID       int64     `json:"id"`
	TitleID  int64     `json:"-"`
	AuthorID string    `json:"-"`
	Author   string    `json:"author"`
	Text     string    `json:"text"`
	Score    int       `json:"score"`
	PubDate  time.Time `json:"pub_date"`
}

// Comment is a reply in the thread beneath a review.
type Comment struct {
	ID       int64     `json:"id"`
	ReviewID int64     `json:"-"`
	AuthorID string    `json:"-"`
	Author   string    `json:"author"`
	Text     string    `json:"text"`
	PubDate  time.Time `json:"pub_date"`
}

// Actor identifies the authenticated user performing an operation.
type Actor struct {
	ID       string
	Username string
	Role     sec.UserRole
}

// # Repository Contract

// Repository defines persistence operations for reviews and comments.
// Author usernames are hydrated by joining the account table on reads.
type Repository interface {
	// TitleExists reports whether the referenced title is in the catalogue.
	TitleExists(context context.Context, titleID int64) (bool, error)

	// ListReviews returns a page of a title's reviews, newest first, with
	// the total count.
	ListReviews(context context.Context, titleID int64, limit, offset int) ([]*Review, int64, error)

	// GetReview returns one review scoped to its title, or dberr.ErrNotFound.
	GetReview(context context.Context, titleID, reviewID int64) (*Review, error)

	// CreateReview inserts a review. A second review by the same author on
	// the same title surfaces as apperr.Conflict.
	CreateReview(context context.Context, review *Review) error

	// UpdateReview rewrites the text and score of an existing review.
	UpdateReview(context context.Context, review *Review) error

	// DeleteReview removes a review and cascades its comments.
	// Returns apperr.ErrNotFound when no row matched.
	DeleteReview(context context.Context, titleID, reviewID int64) error

	// ListComments returns a page of a review's comments, oldest first, with
	// the total count.
	ListComments(context context.Context, reviewID int64, limit, offset int) ([]*Comment, int64, error)

	// GetComment returns one comment scoped to its review, or dberr.ErrNotFound.
	GetComment(context context.Context, reviewID, commentID int64) (*Comment, error)

	// CreateComment inserts a comment under a review.
	CreateComment(context context.Context, comment *Comment) error

	// UpdateComment rewrites the text of an existing comment.
	UpdateComment(context context.Context, comment *Comment) error

	// DeleteComment removes a comment.
	// Returns apperr.ErrNotFound when no row matched.
	DeleteComment(context context.Context, reviewID, commentID int64) error
}
