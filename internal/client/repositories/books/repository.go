// Package books is the local cache of the library: a single SQLite table
// whose rows survive restarts and whose order is insertion order.
package books

import (
	"context"

	"github.com/dmitrijs2005/myshelf/internal/client/models"
)

type Repository interface {
	// List returns every cached book in insertion order.
	List(ctx context.Context) ([]models.Book, error)
	// Get returns common.ErrorNotFound when id is unknown.
	Get(ctx context.Context, id string) (models.Book, error)
	// Insert adds b, replacing an existing row with the same id.
	Insert(ctx context.Context, b models.Book) error
	UpsertAll(ctx context.Context, books []models.Book) error
	// Delete is a no-op for unknown ids.
	Delete(ctx context.Context, id string) error
	// SetSyncedLocation swaps a local path for a remote locator and marks the
	// row synced. Returns common.ErrorNotFound when the row is gone.
	SetSyncedLocation(ctx context.Context, id, location string) error
	Unsynced(ctx context.Context) ([]models.Book, error)
	// SyncedIDs returns the ids of the rows currently marked synced.
	SyncedIDs(ctx context.Context) ([]string, error)
	// ReplaceSynced drops the rows listed in known that are still synced and
	// stores fetched as synced. Rows synced after known was taken survive, as
	// do unsynced rows, and both win over a fetched row with the same id.
	ReplaceSynced(ctx context.Context, known []string, fetched []models.Book) error
}
