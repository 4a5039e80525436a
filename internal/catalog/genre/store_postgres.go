package genre

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

func (repository *PostgresRepository) List(context context.Context, search string, limit, offset int) ([]*Genre, int64, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, COUNT(*) OVER() AS total
		FROM %s
		WHERE ($1 = '' OR %s ILIKE '%%' || $1 || '%%')
		ORDER BY %s
		LIMIT $2 OFFSET $3`,
		schema.CoreGenre.ID, schema.CoreGenre.Name, schema.CoreGenre.Slug,
		schema.CoreGenre.Table, schema.CoreGenre.Name, schema.CoreGenre.Name,
	)

	rows, err := repository.db.Query(context, query, search, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "")
	}
	defer rows.Close()

	genres := make([]*Genre, 0)
	var total int64
	for rows.Next() {
		g := &Genre{}
		if err := rows.Scan(&g.ID, &g.Name, &g.Slug, &total); err != nil {
			return nil, 0, fmt.Errorf("genre_list_scan_failed: %w", err)
		}
		genres = append(genres, g)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("genre_list_rows_failed: %w", err)
	}
	return genres, total, nil
}

func (repository *PostgresRepository) GetBySlug(context context.Context, slug string) (*Genre, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s FROM %s WHERE %s = $1`,
		schema.CoreGenre.ID, schema.CoreGenre.Name, schema.CoreGenre.Slug,
		schema.CoreGenre.Table, schema.CoreGenre.Slug,
	)

	g := &Genre{}
	if err := repository.db.QueryRow(context, query, slug).Scan(&g.ID, &g.Name, &g.Slug); err != nil {
		return nil, dberr.Wrap(err, "")
	}
	return g, nil
}

func (repository *PostgresRepository) Create(context context.Context, genre *Genre) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) RETURNING %s`,
		schema.CoreGenre.Table, schema.CoreGenre.Name, schema.CoreGenre.Slug,
		schema.CoreGenre.ID,
	)

	err := repository.db.QueryRow(context, query, genre.Name, genre.Slug).Scan(&genre.ID)
	if err != nil {
		return dberr.Wrap(err, "A genre with this slug already exists")
	}
	return nil
}

func (repository *PostgresRepository) DeleteBySlug(context context.Context, slug string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.CoreGenre.Table, schema.CoreGenre.Slug,
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
