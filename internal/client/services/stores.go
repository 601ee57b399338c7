package services

import (
	"context"
	"io"

	"github.com/dmitrijs2005/myshelf/internal/client/models"
	"github.com/dmitrijs2005/myshelf/internal/client/repositories/books"
	"github.com/dmitrijs2005/myshelf/internal/client/scheduler"
)

// MetadataStore is the remote, per-owner collection of book records.
type MetadataStore interface {
	PutBook(ctx context.Context, ownerID string, b models.RemoteBook) (models.RemoteBook, error)
	ListBooks(ctx context.Context, ownerID string) ([]models.RemoteBook, error)
	DeleteBook(ctx context.Context, ownerID, bookID string) error
}

// BlobStore keeps book content remotely.
type BlobStore interface {
	Upload(ctx context.Context, ownerID, bookID string, content io.Reader, size int64) (string, error)
	Open(ctx context.Context, ownerID, locator string) (io.ReadCloser, error)
}

// OwnerSource resolves the signed-in user.
type OwnerSource interface {
	CurrentOwnerID(ctx context.Context) (string, bool)
}

// OfflinePreference reports the user's forced-offline toggle.
type OfflinePreference interface {
	OfflineMode(ctx context.Context) bool
}

// TaskQueue accepts deferred background work.
type TaskQueue interface {
	Enqueue(t scheduler.Task, c scheduler.Constraints) error
}

// Stores groups what the upload path touches.
type Stores struct {
	Cache    books.Repository
	Metadata MetadataStore
	Blobs    BlobStore
}
