// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/kritika/internal/platform/apperr"
	"github.com/taibuivan/kritika/internal/platform/database/schema"
	"github.com/taibuivan/kritika/internal/platform/dberr"
)

// # Repository Implementation

// PostgresRepository implements [Repository] using pgx.
//
// # Schema Table Mapping
//   - social.review: Scored reviews, one per (title, author) pair.
//   - social.comment: Replies threaded under a review.
//   - users.account: Joined for author usernames on reads.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository wires a pgx connection pool into the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// TitleExists reports whether a catalogue row exists for the ID.
func (repository *PostgresRepository) TitleExists(context context.Context, titleID int64) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`,
		schema.CoreTitle.Table, schema.CoreTitle.ID,
	)

	var exists bool
	if err := repository.pool.QueryRow(context, query, titleID).Scan(&exists); err != nil {
		return false, fmt.Errorf("review_title_exists_failed: %w", dberr.Wrap(err, ""))
	}
	return exists, nil
}

// # Reviews

// ListReviews returns a page of a title's reviews, newest first.
func (repository *PostgresRepository) ListReviews(context context.Context, titleID int64, limit, offset int) ([]*Review, int64, error) {
	query := fmt.Sprintf(`
		SELECT r.%s, r.%s, r.%s, a.%s, r.%s, r.%s, r.%s, COUNT(*) OVER() AS total
		FROM %s r
		JOIN %s a ON a.%s = r.%s
		WHERE r.%s = $1
		ORDER BY r.%s DESC, r.%s DESC
		LIMIT $2 OFFSET $3`,
		schema.SocialReview.ID, schema.SocialReview.TitleID, schema.SocialReview.AuthorID,
		schema.UserAccount.Username,
		schema.SocialReview.Body, schema.SocialReview.Score, schema.SocialReview.PubDate,
		schema.SocialReview.Table,
		schema.UserAccount.Table, schema.UserAccount.ID, schema.SocialReview.AuthorID,
		schema.SocialReview.TitleID,
		schema.SocialReview.PubDate, schema.SocialReview.ID,
	)

	rows, err := repository.pool.Query(context, query, titleID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("review_list_failed: %w", dberr.Wrap(err, ""))
	}
	defer rows.Close()

	reviews := make([]*Review, 0)
	var total int64
	for rows.Next() {
		review := &Review{}
		err := rows.Scan(
			&review.ID, &review.TitleID, &review.AuthorID, &review.Author,
			&review.Text, &review.Score, &review.PubDate, &total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("review_list_scan_failed: %w", err)
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("review_list_rows_failed: %w", err)
	}
	return reviews, total, nil
}

// GetReview returns one review scoped to its title.
func (repository *PostgresRepository) GetReview(context context.Context, titleID, reviewID int64) (*Review, error) {
	query := fmt.Sprintf(`
		SELECT r.%s, r.%s, r.%s, a.%s, r.%s, r.%s, r.%s
		FROM %s r
		JOIN %s a ON a.%s = r.%s
		WHERE r.%s = $1 AND r.%s = $2`,
		schema.SocialReview.ID, schema.SocialReview.TitleID, schema.SocialReview.AuthorID,
		schema.UserAccount.Username,
		schema.SocialReview.Body, schema.SocialReview.Score, schema.SocialReview.PubDate,
		schema.SocialReview.Table,
		schema.UserAccount.Table, schema.UserAccount.ID, schema.SocialReview.AuthorID,
		schema.SocialReview.TitleID, schema.SocialReview.ID,
	)

	review := &Review{}
	err := repository.pool.QueryRow(context, query, titleID, reviewID).Scan(
		&review.ID, &review.TitleID, &review.AuthorID, &review.Author,
		&review.Text, &review.Score, &review.PubDate,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "")
	}
	return review, nil
}

// CreateReview inserts a review row. The one-review-per-title invariant is a
// uniqueness constraint, so a duplicate comes back as a conflict.
func (repository *PostgresRepository) CreateReview(context context.Context, review *Review) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		RETURNING %s, %s`,
		schema.SocialReview.Table,
		schema.SocialReview.TitleID, schema.SocialReview.AuthorID,
		schema.SocialReview.Body, schema.SocialReview.Score,
		schema.SocialReview.ID, schema.SocialReview.PubDate,
	)

	err := repository.pool.QueryRow(context, query,
		review.TitleID, review.AuthorID, review.Text, review.Score,
	).Scan(&review.ID, &review.PubDate)
	if err != nil {
		return dberr.Wrap(err, "You have already reviewed this title")
	}
	return nil
}

// UpdateReview rewrites the text and score of an existing review.
func (repository *PostgresRepository) UpdateReview(context context.Context, review *Review) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1`,
		schema.SocialReview.Table,
		schema.SocialReview.Body, schema.SocialReview.Score,
		schema.SocialReview.ID,
	)

	tag, err := repository.pool.Exec(context, query, review.ID, review.Text, review.Score)
	if err != nil {
		return dberr.Wrap(err, "")
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// DeleteReview removes a review; its comments cascade at the schema level.
func (repository *PostgresRepository) DeleteReview(context context.Context, titleID, reviewID int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.SocialReview.Table, schema.SocialReview.TitleID, schema.SocialReview.ID,
	)

	tag, err := repository.pool.Exec(context, query, titleID, reviewID)
	if err != nil {
		return dberr.Wrap(err, "")
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// # Comments

// ListComments returns a page of a review's comments, oldest first.
func (repository *PostgresRepository) ListComments(context context.Context, reviewID int64, limit, offset int) ([]*Comment, int64, error) {
	query := fmt.Sprintf(`
		SELECT c.%s, c.%s, c.%s, a.%s, c.%s, c.%s, COUNT(*) OVER() AS total
		FROM %s c
		JOIN %s a ON a.%s = c.%s
		WHERE c.%s = $1
		ORDER BY c.%s ASC, c.%s ASC
		LIMIT $2 OFFSET $3`,
		schema.SocialComment.ID, schema.SocialComment.ReviewID, schema.SocialComment.AuthorID,
		schema.UserAccount.Username,
		schema.SocialComment.Body, schema.SocialComment.PubDate,
		schema.SocialComment.Table,
		schema.UserAccount.Table, schema.UserAccount.ID, schema.SocialComment.AuthorID,
		schema.SocialComment.ReviewID,
		schema.SocialComment.PubDate, schema.SocialComment.ID,
	)

	rows, err := repository.pool.Query(context, query, reviewID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("comment_list_failed: %w", dberr.Wrap(err, ""))
	}
	defer rows.Close()

	comments := make([]*Comment, 0)
	var total int64
	for rows.Next() {
		comment := &Comment{}
		err := rows.Scan(
			&comment.ID, &comment.ReviewID, &comment.AuthorID, &comment.Author,
			&comment.Text, &comment.PubDate, &total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("comment_list_scan_failed: %w", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("comment_list_rows_failed: %w", err)
	}
	return comments, total, nil
}

// GetComment returns one comment scoped to its review.
func (repository *PostgresRepository) GetComment(context context.Context, reviewID, commentID int64) (*Comment, error) {
	query := fmt.Sprintf(`
		SELECT c.%s, c.%s, c.%s, a.%s, c.%s, c.%s
		FROM %s c
		JOIN %s a ON a.%s = c.%s
		WHERE c.%s = $1 AND c.%s = $2`,
		schema.SocialComment.ID, schema.SocialComment.ReviewID, schema.SocialComment.AuthorID,
		schema.UserAccount.Username,
		schema.SocialComment.Body, schema.SocialComment.PubDate,
		schema.SocialComment.Table,
		schema.UserAccount.Table, schema.UserAccount.ID, schema.SocialComment.AuthorID,
		schema.SocialComment.ReviewID, schema.SocialComment.ID,
	)

	comment := &Comment{}
	err := repository.pool.QueryRow(context, query, reviewID, commentID).Scan(
		&comment.ID, &comment.ReviewID, &comment.AuthorID, &comment.Author,
		&comment.Text, &comment.PubDate,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "")
	}
	return comment, nil
}

// CreateComment inserts a comment under a review.
func (repository *PostgresRepository) CreateComment(context context.Context, comment *Comment) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)
		RETURNING %s, %s`,
		schema.SocialComment.Table,
		schema.SocialComment.ReviewID, schema.SocialComment.AuthorID, schema.SocialComment.Body,
		schema.SocialComment.ID, schema.SocialComment.PubDate,
	)

	err := repository.pool.QueryRow(context, query,
		comment.ReviewID, comment.AuthorID, comment.Text,
	).Scan(&comment.ID, &comment.PubDate)
	if err != nil {
		return dberr.Wrap(err, "")
	}
	return nil
}

// UpdateComment rewrites the text of an existing comment.
func (repository *PostgresRepository) UpdateComment(context context.Context, comment *Comment) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`,
		schema.SocialComment.Table, schema.SocialComment.Body, schema.SocialComment.ID,
	)

	tag, err := repository.pool.Exec(context, query, comment.ID, comment.Text)
	if err != nil {
		return dberr.Wrap(err, "")
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// DeleteComment removes a comment.
func (repository *PostgresRepository) DeleteComment(context context.Context, reviewID, commentID int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.SocialComment.Table, schema.SocialComment.ReviewID, schema.SocialComment.ID,
	)

	tag, err := repository.pool.Exec(context, query, reviewID, commentID)
	if err != nil {
		return dberr.Wrap(err, "")
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
