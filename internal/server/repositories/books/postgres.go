package books

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/myshelf/internal/dbx"
	"github.com/dmitrijs2005/myshelf/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, book *models.Book) (*models.Book, error) {

	query :=
		`INSERT INTO books (owner_id, id, title, author, locator)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (owner_id, id) DO UPDATE
		 SET title = EXCLUDED.title, author = EXCLUDED.author, locator = EXCLUDED.locator
		 RETURNING uploaded_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		book.OwnerID, book.ID, book.Title, book.Author, book.Locator).Scan(&book.UploadedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return book, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Book, error) {

	query :=
		`SELECT owner_id, id, title, author, locator, uploaded_at FROM books
		 WHERE owner_id = $1
		 ORDER BY uploaded_at, id
		 `

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Book{}
	for rows.Next() {
		var b models.Book
		if err := rows.Scan(&b.OwnerID, &b.ID, &b.Title, &b.Author, &b.Locator, &b.UploadedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID, bookID string) error {

	query := `DELETE FROM books WHERE owner_id = $1 AND id = $2`

	if _, err := r.db.ExecContext(ctx, query, ownerID, bookID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
