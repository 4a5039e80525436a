package category

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/kritika/internal/platform/apperr"
	"github.com/taibuivan/kritika/internal/platform/database/schema"
	"github.com/taibuivan/kritika/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) List(context context.Context, search string, limit, offset int) ([]*Category, int64, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, COUNT(*) OVER() AS total
		FROM %s
		WHERE ($1 = '' OR %s ILIKE '%%' || $1 || '%%')
		ORDER BY %s
		LIMIT $2 OFFSET $3`,
		schema.CoreCategory.ID, schema.CoreCategory.Name, schema.CoreCategory.Slug,
		schema.CoreCategory.Table, schema.CoreCategory.Name, schema.CoreCategory.Name,
	)

	rows, err := repository.db.Query(context, query, search, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "")
	}
	defer rows.Close()

	categories := make([]*Category, 0)
	var total int64
	for rows.Next() {
		c := &Category{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &total); err != nil {
			return nil, 0, fmt.Errorf("category_list_scan_failed: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("category_list_rows_failed: %w", err)
	}
	return categories, total, nil
}

func (repository *PostgresRepository) GetBySlug(context context.Context, slug string) (*Category, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s FROM %s WHERE %s = $1`,
		schema.CoreCategory.ID, schema.CoreCategory.Name, schema.CoreCategory.Slug,
		schema.CoreCategory.Table, schema.CoreCategory.Slug,
	)

	c := &Category{}
	if err := repository.db.QueryRow(context, query, slug).Scan(&c.ID, &c.Name, &c.Slug); err != nil {
		return nil, dberr.Wrap(err, "")
	}
	return c, nil
}

func (repository *PostgresRepository) Create(context context.Context, category *Category) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) RETURNING %s`,
		schema.CoreCategory.Table, schema.CoreCategory.Name, schema.CoreCategory.Slug,
		schema.CoreCategory.ID,
	)

	err := repository.db.QueryRow(context, query, category.Name, category.Slug).Scan(&category.ID)
	if err != nil {
		return dberr.Wrap(err, "A category with this slug already exists")
	}
	return nil
}

func (repository *PostgresRepository) DeleteBySlug(context context.Context, slug string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.CoreCategory.Table, schema.CoreCategory.Slug,
	)

	tag, err := repository.db.Exec(context, query, slug)
	if err != nil {
		return dberr.Wrap(err, "")
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
