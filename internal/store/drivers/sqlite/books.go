package sqlite

import (
	"context"

	"github.com/openshelf/openshelf/internal/domain"
)

type booksRepo struct {
	db dbtx
}

const bookColumns = `id, title, author, genre, cover_url, description, available, created_at, updated_at`

func (r *booksRepo) ListBooks(ctx context.Context) ([]domain.Book, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookColumns+` FROM books ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []domain.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func (r *booksRepo) GetBookByID(ctx context.Context, id string) (domain.Book, error) {
	return scanBook(r.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id = ?`, id))
}

func (r *booksRepo) CreateBook(ctx context.Context, b domain.Book) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO books (id, title, author, genre, cover_url, description, available, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Title, b.Author, b.Genre, b.CoverURL, b.Description, b.Available, b.CreatedAt, b.UpdatedAt)
	return err
}

func (r *booksRepo) UpdateBook(ctx context.Context, b domain.Book) error {
	return requireRow(r.db.ExecContext(ctx,
		`UPDATE books SET title = ?, author = ?, genre = ?, cover_url = ?, description = ?, available = ?, updated_at = ?
		 WHERE id = ?`,
		b.Title, b.Author, b.Genre, b.CoverURL, b.Description, b.Available, b.UpdatedAt, b.ID))
}

func (r *booksRepo) DeleteBook(ctx context.Context, id string) error {
	return requireRow(r.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id))
}

func (r *booksRepo) CountBooks(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&n)
	return n, err
}

func scanBook(row rowScanner) (domain.Book, error) {
	var b domain.Book
	err := row.Scan(
		&b.ID, &b.Title, &b.Author, &b.Genre, &b.CoverURL,
		&b.Description, &b.Available, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return domain.Book{}, mapNotFound(err)
	}
	return b, nil
}
