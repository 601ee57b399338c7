package services

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/myshelf/internal/client/models"
	"github.com/dmitrijs2005/myshelf/internal/common"
	"github.com/dmitrijs2005/myshelf/internal/logging"
	"golang.org/x/sync/singleflight"
)

// PushBook is the one upload path shared by interactive adds and the
// background worker. It sends the local file to the blob store, records the
// remote metadata and only then marks the cache row synced, so a failure at
// any step leaves the row unsynced and a later attempt starts over.
//
// Every step is idempotent for a given book id: the blob key and the
// metadata record are both keyed by it.
func PushBook(ctx context.Context, st Stores, ownerID string, b models.Book) (models.Book, error) {
	if b.Synced {
		return b, nil
	}
	if !models.HasRemote(ownerID) {
		return b, ErrNoOwner
	}

	f, err := os.Open(b.Location)
	if err != nil {
		return b, fmt.Errorf("%w: open %s: %w", ErrLocalCopy, b.Location, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return b, fmt.Errorf("%w: stat %s: %w", ErrLocalCopy, b.Location, err)
	}

	locator, err := st.Blobs.Upload(ctx, ownerID, b.ID, f, fi.Size())
	if err != nil {
		return b, fmt.Errorf("%w: upload %s: %w", ErrRemote, b.ID, err)
	}

	remote := models.RemoteBook{ID: b.ID, Title: b.Title, Author: b.Author, Locator: locator}
	if _, err := st.Metadata.PutBook(ctx, ownerID, remote); err != nil {
		return b, fmt.Errorf("%w: save metadata %s: %w", ErrRemote, b.ID, err)
	}

	if err := st.Cache.SetSyncedLocation(ctx, b.ID, locator); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// Deleted locally while uploading; drop the record we just wrote.
			if derr := st.Metadata.DeleteBook(ctx, ownerID, b.ID); derr != nil {
				return b, fmt.Errorf("%w: book %s removed during upload, remote cleanup: %w", common.ErrorNotFound, b.ID, derr)
			}
			return b, fmt.Errorf("book %s removed during upload: %w", b.ID, common.ErrorNotFound)
		}
		return b, fmt.Errorf("%w: mark synced %s: %w", ErrLocalCopy, b.ID, err)
	}

	b.Location = locator
	b.Synced = true
	return b, nil
}

// Uploader runs PushBook with at most one upload per book id in flight.
// A concurrent caller for the same id waits for and shares the result.
type Uploader struct {
	stores Stores
	logger logging.Logger
	group  singleflight.Group
}

func NewUploader(st Stores, l logging.Logger) *Uploader {
	return &Uploader{stores: st, logger: l.With("module", "uploader")}
}

func (u *Uploader) Push(ctx context.Context, ownerID string, b models.Book) (models.Book, error) {
	v, err, shared := u.group.Do(b.ID, func() (any, error) {
		return PushBook(ctx, u.stores, ownerID, b)
	})
	if shared {
		u.logger.Debug(ctx, "joined in-flight upload", "book_id", b.ID)
	}
	if err != nil {
		return b, err
	}
	return v.(models.Book), nil
}
