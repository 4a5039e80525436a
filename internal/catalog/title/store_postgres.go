// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/kritika/internal/catalog/category"
	"github.com/taibuivan/kritika/internal/platform/apperr"
	"github.com/taibuivan/kritika/internal/platform/database/schema"
	"github.com/taibuivan/kritika/internal/platform/dberr"
)

// # Repository Implementation

// PostgresRepository implements [Repository] using pgx.
//
// # Schema Table Mapping
//   - core.title: The work itself.
//   - core.titlegenre: Many-to-many genre links.
//   - core.category / core.genre: Joined taxonomies.
//   - social.review: Source of the averaged rating.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository wires a pgx connection pool into the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
List returns a filtered, paginated slice of titles and the total count.

Description: A single round-trip query using several PostgreSQL features:
  - Window Function: COUNT(*) OVER() retrieves the total without a second query.
  - JSON Aggregation: a sub-query folds the linked genres into a JSON array,
    avoiding N+1 lookups.
  - Derived Rating: a correlated sub-query averages review scores; NULL when
    the title has no reviews yet.

Parameters:
  - context: context.Context
  - filter: Filter (category slug, genre slug, name substring, exact year)
  - limit, offset: page window

Returns:
  - []*Title: Hydrated titles
  - int64: Total count matching the filter
  - error: Database execution errors
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Title, int64, error) {
	query, args := buildListQuery(filter, limit, offset)

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("title_list_failed: %w", dberr.Wrap(err, ""))
	}
	defer rows.Close()

	titles := make([]*Title, 0)
	var totalCount int64
	for rows.Next() {
		title, err := scanTitle(rows, &totalCount)
		if err != nil {
			return nil, 0, err
		}
		titles = append(titles, title)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("title_list_rows_failed: %w", err)
	}
	return titles, totalCount, nil
}

// buildListQuery assembles the dynamic listing statement. Pages are ordered by
// release year, oldest first, with the row ID as a stable tie-breaker.
func buildListQuery(filter Filter, limit, offset int) (string, []any) {
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT
			t.%s, t.%s, t.%s, t.%s,
			(SELECT AVG(r.%s)::float8 FROM %s r WHERE r.%s = t.%s) AS rating,
			c.%s, c.%s, c.%s,
			COUNT(*) OVER() AS total_count,
			COALESCE((
				SELECT json_agg(json_build_object('name', g.%s, 'slug', g.%s) ORDER BY g.%s)
				FROM %s g
				JOIN %s tg ON g.%s = tg.%s
				WHERE tg.%s = t.%s
			), '[]') AS genres
		FROM %s t
		LEFT JOIN %s c ON t.%s = c.%s
		WHERE TRUE
	`,
		schema.CoreTitle.ID, schema.CoreTitle.Name, schema.CoreTitle.Year, schema.CoreTitle.Description,
		schema.SocialReview.Score, schema.SocialReview.Table, schema.SocialReview.TitleID, schema.CoreTitle.ID,
		schema.CoreCategory.ID, schema.CoreCategory.Name, schema.CoreCategory.Slug,
		schema.CoreGenre.Name, schema.CoreGenre.Slug, schema.CoreGenre.Name,
		schema.CoreGenre.Table,
		schema.TitleGenre.Table, schema.CoreGenre.ID, schema.TitleGenre.GenreID,
		schema.TitleGenre.TitleID, schema.CoreTitle.ID,
		schema.CoreTitle.Table,
		schema.CoreCategory.Table, schema.CoreTitle.CategoryID, schema.CoreCategory.ID,
	))

	// Dynamic WHERE clause construction
	if filter.CategorySlug != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND c.%s = $%d", schema.CoreCategory.Slug, argID))
		args = append(args, filter.CategorySlug)
		argID++
	}

	if filter.GenreSlug != "" {
		queryBuilder.WriteString(fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM %s tg JOIN %s g ON g.%s = tg.%s
			WHERE tg.%s = t.%s AND g.%s = $%d)`,
			schema.TitleGenre.Table, schema.CoreGenre.Table,
			schema.CoreGenre.ID, schema.TitleGenre.GenreID,
			schema.TitleGenre.TitleID, schema.CoreTitle.ID,
			schema.CoreGenre.Slug, argID,
		))
		args = append(args, filter.GenreSlug)
		argID++
	}

	if filter.Name != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND t.%s ILIKE '%%' || $%d || '%%'", schema.CoreTitle.Name, argID))
		args = append(args, filter.Name)
		argID++
	}

	if filter.Year != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND t.%s = $%d", schema.CoreTitle.Year, argID))
		args = append(args, *filter.Year)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY t.%s, t.%s", schema.CoreTitle.Year, schema.CoreTitle.ID))
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	return queryBuilder.String(), args
}

// GetByID returns a single hydrated title using the same aggregation strategy
// as List.
func (repository *PostgresRepository) GetByID(context context.Context, id int64) (*Title, error) {
	query := fmt.Sprintf(`
		SELECT
			t.%s, t.%s, t.%s, t.%s,
			(SELECT AVG(r.%s)::float8 FROM %s r WHERE r.%s = t.%s) AS rating,
			c.%s, c.%s, c.%s,
			COALESCE((
				SELECT json_agg(json_build_object('name', g.%s, 'slug', g.%s) ORDER BY g.%s)
				FROM %s g
				JOIN %s tg ON g.%s = tg.%s
				WHERE tg.%s = t.%s
			), '[]') AS genres
		FROM %s t
		LEFT JOIN %s c ON t.%s = c.%s
		WHERE t.%s = $1`,
		schema.CoreTitle.ID, schema.CoreTitle.Name, schema.CoreTitle.Year, schema.CoreTitle.Description,
		schema.SocialReview.Score, schema.SocialReview.Table, schema.SocialReview.TitleID, schema.CoreTitle.ID,
		schema.CoreCategory.ID, schema.CoreCategory.Name, schema.CoreCategory.Slug,
		schema.CoreGenre.Name, schema.CoreGenre.Slug, schema.CoreGenre.Name,
		schema.CoreGenre.Table,
		schema.TitleGenre.Table, schema.CoreGenre.ID, schema.TitleGenre.GenreID,
		schema.TitleGenre.TitleID, schema.CoreTitle.ID,
		schema.CoreTitle.Table,
		schema.CoreCategory.Table, schema.CoreTitle.CategoryID, schema.CoreCategory.ID,
		schema.CoreTitle.ID,
	)

	title := &Title{}
	var (
		categoryID   *int64
		categoryName *string
		categorySlug *string
		genresJSON   []byte
	)
	err := repository.pool.QueryRow(context, query, id).Scan(
		&title.ID,
		&title.Name,
		&title.Year,
		&title.Description,
		&title.Rating,
		&categoryID,
		&categoryName,
		&categorySlug,
		&genresJSON,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "")
	}

	if categoryID != nil {
		title.Category = &category.Category{ID: *categoryID, Name: *categoryName, Slug: *categorySlug}
	}
	if err := json.Unmarshal(genresJSON, &title.Genres); err != nil {
		return nil, fmt.Errorf("title_genres_unmarshal_failed: %w", err)
	}
	return title, nil
}

// Create inserts the title row and its genre links in one transaction.
func (repository *PostgresRepository) Create(context context.Context, title *Title) error {
	tx, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("title_create_begin_failed: %w", err)
	}
	defer tx.Rollback(context)

	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4) RETURNING %s`,
		schema.CoreTitle.Table,
		schema.CoreTitle.Name, schema.CoreTitle.Year, schema.CoreTitle.Description, schema.CoreTitle.CategoryID,
		schema.CoreTitle.ID,
	)
	err = tx.QueryRow(context, query,
		title.Name, title.Year, title.Description, categoryIDOf(title),
	).Scan(&title.ID)
	if err != nil {
		return dberr.Wrap(err, "")
	}

	if err := insertGenreLinks(context, tx, title); err != nil {
		return err
	}
	if err := tx.Commit(context); err != nil {
		return fmt.Errorf("title_create_commit_failed: %w", err)
	}
	return nil
}

// Update rewrites the title row and replaces its genre links in one transaction.
func (repository *PostgresRepository) Update(context context.Context, title *Title) error {
	tx, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("title_update_begin_failed: %w", err)
	}
	defer tx.Rollback(context)

	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5 WHERE %s = $1`,
		schema.CoreTitle.Table,
		schema.CoreTitle.Name, schema.CoreTitle.Year, schema.CoreTitle.Description, schema.CoreTitle.CategoryID,
		schema.CoreTitle.ID,
	)
	tag, err := tx.Exec(context, query,
		title.ID, title.Name, title.Year, title.Description, categoryIDOf(title),
	)
	if err != nil {
		return dberr.Wrap(err, "")
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}

	deleteLinks := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.TitleGenre.Table, schema.TitleGenre.TitleID,
	)
	if _, err := tx.Exec(context, deleteLinks, title.ID); err != nil {
		return fmt.Errorf("title_update_unlink_failed: %w", dberr.Wrap(err, ""))
	}
	if err := insertGenreLinks(context, tx, title); err != nil {
		return err
	}
	if err := tx.Commit(context); err != nil {
		return fmt.Errorf("title_update_commit_failed: %w", err)
	}
	return nil
}

// Delete removes a title row. Reviews and genre links cascade at the schema level.
func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.CoreTitle.Table, schema.CoreTitle.ID,
	)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "")
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// # Helpers

func categoryIDOf(title *Title) *int64 {
	if title.Category == nil {
		return nil
	}
	return &title.Category.ID
}

func insertGenreLinks(context context.Context, tx pgx.Tx, title *Title) error {
	if len(title.Genres) == 0 {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2)`,
		schema.TitleGenre.Table, schema.TitleGenre.TitleID, schema.TitleGenre.GenreID,
	)
	batch := &pgx.Batch{}
	for _, linked := range title.Genres {
		batch.Queue(query, title.ID, linked.ID)
	}

	results := tx.SendBatch(context, batch)
	defer results.Close()
	for range title.Genres {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("title_genre_link_failed: %w", dberr.Wrap(err, ""))
		}
	}
	return nil
}

// scanTitle hydrates one row from the List query shape.
func scanTitle(rows pgx.Rows, totalCount *int64) (*Title, error) {
	title := &Title{}
	var (
		categoryID   *int64
		categoryName *string
		categorySlug *string
		genresJSON   []byte
	)
	err := rows.Scan(
		&title.ID,
		&title.Name,
		&title.Year,
		&title.Description,
		&title.Rating,
		&categoryID,
		&categoryName,
		&categorySlug,
		totalCount,
		&genresJSON,
	)
	if err != nil {
		return nil, fmt.Errorf("title_scan_failed: %w", err)
	}

	if categoryID != nil {
		title.Category = &category.Category{ID: *categoryID, Name: *categoryName, Slug: *categorySlug}
	}
	if err := json.Unmarshal(genresJSON, &title.Genres); err != nil {
		return nil, fmt.Errorf("title_genres_unmarshal_failed: %w", err)
	}
	return title, nil
}
