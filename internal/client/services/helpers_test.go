package services

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dmitrijs2005/myshelf/internal/client/connectivity"
	"github.com/dmitrijs2005/myshelf/internal/client/migrations"
	"github.com/dmitrijs2005/myshelf/internal/client/models"
	"github.com/dmitrijs2005/myshelf/internal/client/repositories/books"
	"github.com/dmitrijs2005/myshelf/internal/client/scheduler"
	"github.com/dmitrijs2005/myshelf/internal/logging"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

var errNetwork = errors.New("network down")

func newCache(t *testing.T) books.Repository {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	goose.SetBaseFS(migrations.Migrations)
	require.NoError(t, goose.SetDialect("sqlite3"))
	require.NoError(t, goose.UpContext(context.Background(), db, "."))
	return books.NewSQLiteRepository(db)
}

// writeBook puts a local file for id under dir/books and returns an
// unsynced record pointing at it.
func writeBook(t *testing.T, dir, id, content string) models.Book {
	t.Helper()
	path := filepath.Join(dir, "books", id+".pdf")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return models.Book{ID: id, Title: "Book " + id, Author: "Unknown", Location: path}
}

// ---- fake remote metadata store ----

type fakeRemote struct {
	MetadataStore

	mu        sync.Mutex
	records   map[string]map[string]models.RemoteBook
	puts      int
	putErr    error
	listErr   error
	deleteErr error
	deleted   []string
	// onList runs after the listing is taken and before it is returned.
	onList    func()
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{records: map[string]map[string]models.RemoteBook{}}
}

func (f *fakeRemote) PutBook(_ context.Context, owner string, b models.RemoteBook) (models.RemoteBook, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts++
	if f.putErr != nil {
		return models.RemoteBook{}, f.putErr
	}
	if f.records[owner] == nil {
		f.records[owner] = map[string]models.RemoteBook{}
	}
	f.records[owner][b.ID] = b
	return b, nil
}

func (f *fakeRemote) ListBooks(_ context.Context, owner string) ([]models.RemoteBook, error) {
	f.mu.Lock()
	if f.listErr != nil {
		f.mu.Unlock()
		return nil, f.listErr
	}
	out := make([]models.RemoteBook, 0, len(f.records[owner]))
	for _, b := range f.records[owner] {
		out = append(out, b)
	}
	hook := f.onList
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	return out, nil
}

func (f *fakeRemote) DeleteBook(_ context.Context, owner, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.records[owner], id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRemote) count(owner string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records[owner])
}

func (f *fakeRemote) get(owner, id string) (models.RemoteBook, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.records[owner][id]
	return b, ok
}

// ---- fake blob store ----

type fakeBlobs struct {
	BlobStore

	mu      sync.Mutex
	objects map[string][]byte
	failFor map[string]bool
	uploads int
	openErr error
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{objects: map[string][]byte{}, failFor: map[string]bool{}}
}

func locatorFor(owner, id string) string {
	return "users/" + owner + "/books/" + id + ".pdf"
}

func (f *fakeBlobs) Upload(_ context.Context, owner, id string, r io.Reader, _ int64) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads++
	if f.failFor[id] {
		return "", errNetwork
	}
	loc := locatorFor(owner, id)
	f.objects[loc] = data
	return loc, nil
}

func (f *fakeBlobs) Open(_ context.Context, _ string, locator string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.openErr != nil {
		return nil, f.openErr
	}
	data, ok := f.objects[locator]
	if !ok {
		return nil, errors.New("no such object")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeBlobs) object(locator string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.objects[locator]
	return b, ok
}

// ---- identity, preferences, queue ----

type fakeOwner struct{ id string }

func (f fakeOwner) CurrentOwnerID(context.Context) (string, bool) { return f.id, f.id != "" }

type fakePrefs struct {
	mu      sync.Mutex
	offline bool
}

func (f *fakePrefs) OfflineMode(context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.offline
}

type fakeQueue struct {
	mu          sync.Mutex
	enqueued    []string
	constraints []scheduler.Constraints
}

func (f *fakeQueue) Enqueue(t scheduler.Task, c scheduler.Constraints) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enqueued = append(f.enqueued, t.Name())
	f.constraints = append(f.constraints, c)
	return nil
}

func (f *fakeQueue) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.enqueued)
}

// ---- fixture ----

const owner = "owner-1"

type fixture struct {
	cache  books.Repository
	remote *fakeRemote
	blobs  *fakeBlobs
	oracle *connectivity.Static
	prefs  *fakePrefs
	queue  *fakeQueue
	dir    string
	worker *SyncWorker
	orch   *Orchestrator
}

func newFixture(t *testing.T, reachable bool) *fixture {
	t.Helper()
	f := &fixture{
		cache:  newCache(t),
		remote: newFakeRemote(),
		blobs:  newFakeBlobs(),
		oracle: connectivity.NewStatic(reachable),
		prefs:  &fakePrefs{},
		queue:  &fakeQueue{},
		dir:    t.TempDir(),
	}
	uploader := NewUploader(Stores{Cache: f.cache, Metadata: f.remote, Blobs: f.blobs}, logging.Nop())
	f.worker = NewSyncWorker(fakeOwner{id: owner}, f.cache, uploader, 5, logging.Nop())
	f.orch = NewOrchestrator(Deps{
		Cache:      f.cache,
		Remote:     f.remote,
		Blobs:      f.blobs,
		Uploader:   uploader,
		Oracle:     f.oracle,
		Prefs:      f.prefs,
		Queue:      f.queue,
		SyncTask:   f.worker,
		LibraryDir: f.dir,
		Logger:     logging.Nop(),
	})
	return f
}

func (f *fixture) list(t *testing.T) []models.Book {
	t.Helper()
	bs, err := f.cache.List(context.Background())
	require.NoError(t, err)
	return bs
}
