package sqlite

import (
	"context"

	"github.com/openshelf/openshelf/internal/domain"
)

type resourcesRepo struct {
	db dbtx
}

const resourceColumns = `id, title, author, year, type, subject, url, created_at, updated_at`

func (r *resourcesRepo) ListResources(ctx context.Context) ([]domain.Resource, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+resourceColumns+` FROM resources ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var resources []domain.Resource
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		resources = append(resources, res)
	}
	return resources, rows.Err()
}

func (r *resourcesRepo) GetResourceByID(ctx context.Context, id string) (domain.Resource, error) {
	return scanResource(r.db.QueryRowContext(ctx,
		`SELECT `+resourceColumns+` FROM resources WHERE id = ?`, id))
}

func (r *resourcesRepo) CreateResource(ctx context.Context, res domain.Resource) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO resources (id, title, author, year, type, subject, url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.ID, res.Title, res.Author, res.Year, res.Type, res.Subject, res.URL, res.CreatedAt, res.UpdatedAt)
	return err
}

func (r *resourcesRepo) UpdateResource(ctx context.Context, res domain.Resource) error {
	return requireRow(r.db.ExecContext(ctx,
		`UPDATE resources SET title = ?, author = ?, year = ?, type = ?, subject = ?, url = ?, updated_at = ?
		 WHERE id = ?`,
		res.Title, res.Author, res.Year, res.Type, res.Subject, res.URL, res.UpdatedAt, res.ID))
}

func (r *resourcesRepo) DeleteResource(ctx context.Context, id string) error {
	return requireRow(r.db.ExecContext(ctx, `DELETE FROM resources WHERE id = ?`, id))
}

func (r *resourcesRepo) CountResources(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM resources`).Scan(&n)
	return n, err
}

func scanResource(row rowScanner) (domain.Resource, error) {
	var res domain.Resource
	err := row.Scan(
		&res.ID, &res.Title, &res.Author, &res.Year, &res.Type,
		&res.Subject, &res.URL, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		return domain.Resource{}, mapNotFound(err)
	}
	return res, nil
}
