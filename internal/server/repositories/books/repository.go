// Package books persists remote book metadata in PostgreSQL.
package books

import (
	"context"

	"github.com/dmitrijs2005/myshelf/internal/server/models"
)

type Repository interface {
	// Upsert inserts book or replaces title, author and locator of the row
	// with the same (OwnerID, ID). The first UploadedAt is kept.
	Upsert(ctx context.Context, book *models.Book) (*models.Book, error)
	// ListByOwner returns the owner's books ordered by upload time, then id.
	ListByOwner(ctx context.Context, ownerID string) ([]models.Book, error)
	// Delete removes a book. Deleting a missing book is not an error.
	Delete(ctx context.Context, ownerID, bookID string) error
}
