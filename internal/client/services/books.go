// Package services holds the client-side use cases: the book orchestrator
// that owns the local cache, the shared upload path, the background sync
// worker and the account flows.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/dmitrijs2005/myshelf/internal/client/connectivity"
	"github.com/dmitrijs2005/myshelf/internal/client/models"
	"github.com/dmitrijs2005/myshelf/internal/client/repositories/books"
	"github.com/dmitrijs2005/myshelf/internal/client/scheduler"
	"github.com/dmitrijs2005/myshelf/internal/common"
	"github.com/dmitrijs2005/myshelf/internal/filex"
	"github.com/dmitrijs2005/myshelf/internal/logging"
	"github.com/dmitrijs2005/myshelf/internal/observable"
	"github.com/google/uuid"
)

const (
	booksSubdir = "books"
	cacheSubdir = "cache"
)

// Deps are the collaborators of an Orchestrator.
type Deps struct {
	Cache    books.Repository
	Remote   MetadataStore
	Blobs    BlobStore
	Uploader *Uploader
	Oracle   connectivity.Oracle
	Prefs    OfflinePreference
	Queue    TaskQueue
	SyncTask scheduler.Task
	// LibraryDir holds imported files under books/ and downloaded copies
	// under cache/.
	LibraryDir string
	Logger     logging.Logger
}

// Orchestrator is the only writer of the local cache. Every user action is
// applied to the cache first and published, then propagated to the remote
// stores either inline or by the background sync task.
type Orchestrator struct {
	cache      books.Repository
	remote     MetadataStore
	blobs      BlobStore
	uploader   *Uploader
	oracle     connectivity.Oracle
	prefs      OfflinePreference
	queue      TaskQueue
	syncTask   scheduler.Task
	libraryDir string
	logger     logging.Logger

	books   *observable.Value[[]models.Book]
	loading *observable.Value[bool]
	upload  *observable.Value[models.UploadState]

	mu       sync.Mutex
	deleting map[string]struct{}
}

func NewOrchestrator(d Deps) *Orchestrator {
	l := d.Logger
	if l == nil {
		l = logging.Nop()
	}
	u := d.Uploader
	if u == nil {
		u = NewUploader(Stores{Cache: d.Cache, Metadata: d.Remote, Blobs: d.Blobs}, l)
	}
	return &Orchestrator{
		cache:      d.Cache,
		remote:     d.Remote,
		blobs:      d.Blobs,
		uploader:   u,
		oracle:     d.Oracle,
		prefs:      d.Prefs,
		queue:      d.Queue,
		syncTask:   d.SyncTask,
		libraryDir: d.LibraryDir,
		logger:     l.With("module", "orchestrator"),
		books:      observable.NewValue[[]models.Book](nil).WithCopy(slices.Clone[[]models.Book]),
		loading:    observable.NewValue(false),
		upload:     observable.NewValue(models.IdleUpload()),
		deleting:   make(map[string]struct{}),
	}
}

// Books publishes the cache contents. Every reader gets its own slice.
func (o *Orchestrator) Books() *observable.Value[[]models.Book] { return o.books }

func (o *Orchestrator) Loading() *observable.Value[bool] { return o.loading }

func (o *Orchestrator) UploadState() *observable.Value[models.UploadState] { return o.upload }

// AcknowledgeUploadState resets the upload notice once it has been shown.
func (o *Orchestrator) AcknowledgeUploadState() {
	o.upload.Set(models.IdleUpload())
}

// Online reports whether remote calls should be attempted right now.
func (o *Orchestrator) Online(ctx context.Context) bool {
	if o.prefs != nil && o.prefs.OfflineMode(ctx) {
		return false
	}
	return o.oracle == nil || o.oracle.IsReachable()
}

// LoadCached publishes the current cache contents.
func (o *Orchestrator) LoadCached(ctx context.Context) error {
	list, err := o.cache.List(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLocalCopy, err)
	}
	o.books.Set(list)
	return nil
}

func (o *Orchestrator) reload(ctx context.Context) {
	if err := o.LoadCached(ctx); err != nil {
		o.logger.Error(ctx, "failed to reload cache", "error", err)
	}
}

// AddBook imports content as a new book. The book is in the cache and
// published before any network activity; upload failures leave it unsynced
// and hand it to the background task. Books of the guest owner stay local.
func (o *Orchestrator) AddBook(ctx context.Context, ownerID, sourceName string, content io.Reader) (models.Book, error) {
	if ownerID == "" {
		return models.Book{}, ErrNoOwner
	}

	id := uuid.NewString()
	title := models.TitleFromFileName(sourceName)
	if title == "" {
		title = id
	}

	path, err := filex.CopyInto(o.booksDir(), id+common.BookExtension, content)
	if err != nil {
		o.upload.Set(models.UploadFailure("failed to save locally"))
		return models.Book{}, fmt.Errorf("%w: %w", ErrLocalCopy, err)
	}

	b := models.Book{ID: id, Title: title, Author: common.DefaultAuthor, Location: path}
	if err := o.cache.Insert(ctx, b); err != nil {
		if rerr := filex.Remove(path); rerr != nil {
			o.logger.Warn(ctx, "failed to remove copied file", "path", path, "error", rerr)
		}
		o.upload.Set(models.UploadFailure("failed to save locally"))
		return models.Book{}, fmt.Errorf("%w: %w", ErrLocalCopy, err)
	}
	o.reload(ctx)

	if !models.HasRemote(ownerID) {
		return b, nil
	}
	if !o.Online(ctx) {
		o.ScheduleSync(ctx)
		return b, nil
	}

	o.upload.Set(models.Uploading())
	synced, err := o.uploader.Push(ctx, ownerID, b)
	if err != nil {
		o.logger.Warn(ctx, "inline upload failed", "book_id", id, "error", err)
		o.upload.Set(models.UploadFailure(err.Error()))
		o.ScheduleSync(ctx)
		return b, nil
	}

	o.reload(ctx)
	o.upload.Set(models.UploadSuccess(synced))
	return synced, nil
}

// Refresh replaces the synced part of the cache with the owner's remote
// records. Unsynced books are kept, and so are books the worker marks synced
// while the fetch is in flight. Books with a pending delete are not brought
// back. A failed fetch leaves the cache as is.
func (o *Orchestrator) Refresh(ctx context.Context, ownerID string) error {
	o.loading.Set(true)
	defer o.loading.Set(false)

	if !o.Online(ctx) || ownerID == models.GuestOwnerID {
		return o.LoadCached(ctx)
	}
	if ownerID == "" {
		o.reload(ctx)
		return ErrNoOwner
	}

	known, err := o.cache.SyncedIDs(ctx)
	if err != nil {
		o.reload(ctx)
		return fmt.Errorf("%w: %w", ErrLocalCopy, err)
	}

	remote, err := o.remote.ListBooks(ctx, ownerID)
	if err != nil {
		o.reload(ctx)
		return fmt.Errorf("%w: %w", ErrRemote, err)
	}

	fetched := make([]models.Book, 0, len(remote))
	for _, r := range remote {
		if o.isDeleting(r.ID) {
			continue
		}
		fetched = append(fetched, r.AsSynced())
	}
	if err := o.cache.ReplaceSynced(ctx, known, fetched); err != nil {
		o.reload(ctx)
		return fmt.Errorf("%w: %w", ErrLocalCopy, err)
	}

	return o.LoadCached(ctx)
}

// RemoveLocally drops b from the cache and republishes. Files and the remote
// record are left alone.
func (o *Orchestrator) RemoveLocally(ctx context.Context, b models.Book) error {
	if err := o.cache.Delete(ctx, b.ID); err != nil {
		return fmt.Errorf("%w: %w", ErrLocalCopy, err)
	}
	o.reload(ctx)
	return nil
}

// Delete removes b everywhere right away.
func (o *Orchestrator) Delete(ctx context.Context, ownerID string, b models.Book) error {
	if err := o.RemoveLocally(ctx, b); err != nil {
		return err
	}
	return o.CommitDelete(ctx, ownerID, b)
}

// CommitDelete finishes a delete whose cache row is already gone: local
// copies are removed and, for synced books, the remote record. If the remote
// call fails the original row is put back. On success any row a refresh
// brought back in the meantime is dropped again.
func (o *Orchestrator) CommitDelete(ctx context.Context, ownerID string, b models.Book) error {
	for _, p := range o.localPaths(b) {
		if err := filex.Remove(p); err != nil {
			o.logger.Warn(ctx, "failed to remove local file", "book_id", b.ID, "path", p, "error", err)
		}
	}

	if !b.Synced {
		return nil
	}

	var err error
	switch {
	case !models.HasRemote(ownerID):
		err = ErrNoOwner
	case o.prefs != nil && o.prefs.OfflineMode(ctx):
		err = errors.New("offline mode is on")
	default:
		err = o.remote.DeleteBook(ctx, ownerID, b.ID)
	}
	if err == nil {
		if derr := o.cache.Delete(ctx, b.ID); derr != nil {
			o.logger.Error(ctx, "failed to drop deleted book from cache", "book_id", b.ID, "error", derr)
		}
		o.reload(ctx)
		return nil
	}

	o.logger.Warn(ctx, "remote delete failed, restoring book", "book_id", b.ID, "error", err)
	if ierr := o.cache.Insert(ctx, b); ierr != nil {
		o.logger.Error(ctx, "failed to restore book after remote delete failure", "book_id", b.ID, "error", ierr)
	}
	o.reload(ctx)
	return fmt.Errorf("%w: %w", ErrRemote, err)
}

// Restore brings back a book removed by RemoveLocally. The book comes back
// unsynced, from a surviving local copy or, failing that, downloaded from
// its remote locator.
func (o *Orchestrator) Restore(ctx context.Context, ownerID string, b models.Book) (models.Book, error) {
	path := o.existingCopy(b)

	if path == "" {
		if !b.Synced || !models.HasRemote(ownerID) || !o.Online(ctx) {
			return b, ErrUndoUnavailable
		}
		p, err := o.download(ctx, ownerID, b, o.booksDir())
		if err != nil {
			return b, fmt.Errorf("%w: %w", ErrUndoUnavailable, err)
		}
		path = p
	}

	restored := models.Book{ID: b.ID, Title: b.Title, Author: b.Author, Location: path}
	if err := o.cache.Insert(ctx, restored); err != nil {
		return b, fmt.Errorf("%w: %w", ErrLocalCopy, err)
	}
	o.reload(ctx)
	if models.HasRemote(ownerID) {
		o.ScheduleSync(ctx)
	}

	return restored, nil
}

// Open returns a readable local path for b, downloading synced books into
// the library cache when no local copy exists.
func (o *Orchestrator) Open(ctx context.Context, ownerID string, b models.Book) (string, error) {
	if p := o.existingCopy(b); p != "" {
		return p, nil
	}
	if !b.Synced {
		return "", fmt.Errorf("%w: %s is missing", ErrLocalCopy, b.Location)
	}
	if !models.HasRemote(ownerID) {
		return "", ErrNoOwner
	}
	if !o.Online(ctx) {
		return "", fmt.Errorf("%w: book is not available offline", ErrRemote)
	}
	return o.download(ctx, ownerID, b, o.cacheDir())
}

// Forget drops the signed-out user's synced books and downloaded copies
// from this device. It refuses while unsynced books remain, since those
// would otherwise be pushed under the next user's account.
func (o *Orchestrator) Forget(ctx context.Context) error {
	pending, err := o.cache.Unsynced(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLocalCopy, err)
	}
	if len(pending) > 0 {
		return fmt.Errorf("%w: %d pending", ErrUnsyncedBooks, len(pending))
	}

	known, err := o.cache.SyncedIDs(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLocalCopy, err)
	}
	if err := o.cache.ReplaceSynced(ctx, known, nil); err != nil {
		return fmt.Errorf("%w: %w", ErrLocalCopy, err)
	}
	if err := os.RemoveAll(o.cacheDir()); err != nil {
		o.logger.Warn(ctx, "failed to clear download cache", "error", err)
	}
	return o.LoadCached(ctx)
}

// ScheduleSync asks the background task to push every unsynced book once
// the network is available.
func (o *Orchestrator) ScheduleSync(ctx context.Context) {
	if o.queue == nil || o.syncTask == nil {
		return
	}
	if err := o.queue.Enqueue(o.syncTask, scheduler.Constraints{RequiresNetwork: true}); err != nil {
		o.logger.Warn(ctx, "failed to schedule sync", "error", err)
	}
}

func (o *Orchestrator) markDeleting(id string) {
	o.mu.Lock()
	o.deleting[id] = struct{}{}
	o.mu.Unlock()
}

func (o *Orchestrator) clearDeleting(id string) {
	o.mu.Lock()
	delete(o.deleting, id)
	o.mu.Unlock()
}

func (o *Orchestrator) isDeleting(id string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.deleting[id]
	return ok
}

func (o *Orchestrator) download(ctx context.Context, ownerID string, b models.Book, dir string) (string, error) {
	rc, err := o.blobs.Open(ctx, ownerID, b.Location)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRemote, err)
	}
	defer rc.Close()

	path, err := filex.CopyInto(dir, b.ID+common.BookExtension, rc)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrLocalCopy, err)
	}
	return path, nil
}

// existingCopy returns the first local file holding b's content, or "".
func (o *Orchestrator) existingCopy(b models.Book) string {
	for _, p := range o.localPaths(b) {
		if filex.Exists(p) {
			return p
		}
	}
	return ""
}

func (o *Orchestrator) localPaths(b models.Book) []string {
	name := b.ID + common.BookExtension
	paths := make([]string, 0, 3)
	if b.IsLocal() && b.Location != "" {
		paths = append(paths, b.Location)
	}
	return append(paths,
		filepath.Join(o.booksDir(), name),
		filepath.Join(o.cacheDir(), name),
	)
}

func (o *Orchestrator) booksDir() string { return filepath.Join(o.libraryDir, booksSubdir) }

func (o *Orchestrator) cacheDir() string { return filepath.Join(o.libraryDir, cacheSubdir) }
