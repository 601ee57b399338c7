package services

import (
	"context"
	"sync"
	"testing"

	"github.com/dmitrijs2005/myshelf/internal/client/models"
	"github.com/dmitrijs2005/myshelf/internal/common"
	"github.com/dmitrijs2005/myshelf/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushBook_MarksSynced(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	b := writeBook(t, f.dir, "b1", "%PDF-1.4 whale")
	require.NoError(t, f.cache.Insert(ctx, b))

	got, err := PushBook(ctx, Stores{Cache: f.cache, Metadata: f.remote, Blobs: f.blobs}, owner, b)
	require.NoError(t, err)
	assert.True(t, got.Synced)
	assert.Equal(t, locatorFor(owner, "b1"), got.Location)

	data, ok := f.blobs.object(got.Location)
	require.True(t, ok)
	assert.Equal(t, "%PDF-1.4 whale", string(data))

	rec, ok := f.remote.get(owner, "b1")
	require.True(t, ok)
	assert.Equal(t, got.Location, rec.Locator)
	assert.Equal(t, "Book b1", rec.Title)

	cached, err := f.cache.Get(ctx, "b1")
	require.NoError(t, err)
	assert.True(t, cached.Synced)
	assert.Equal(t, got.Location, cached.Location)
}

func TestPushBook_TwiceConverges(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	b := writeBook(t, f.dir, "b1", "content")
	require.NoError(t, f.cache.Insert(ctx, b))
	st := Stores{Cache: f.cache, Metadata: f.remote, Blobs: f.blobs}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = PushBook(ctx, st, owner, b)
		}()
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, 1, f.remote.count(owner))

	all := f.list(t)
	require.Len(t, all, 1)
	assert.True(t, all[0].Synced)
}

func TestPushBook_AlreadySyncedIsNoop(t *testing.T) {
	f := newFixture(t, true)
	b := models.Book{ID: "b1", Location: locatorFor(owner, "b1"), Synced: true}

	got, err := PushBook(context.Background(), Stores{Cache: f.cache, Metadata: f.remote, Blobs: f.blobs}, owner, b)
	require.NoError(t, err)
	assert.Equal(t, b, got)
	assert.Zero(t, f.blobs.uploads)
}

func TestPushBook_FailuresLeaveUnsynced(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(f *fixture)
		wantErr error
		puts    int
	}{
		{
			name:    "blob upload fails",
			prepare: func(f *fixture) { f.blobs.failFor["b1"] = true },
			wantErr: ErrRemote,
			puts:    0,
		},
		{
			name:    "metadata write fails",
			prepare: func(f *fixture) { f.remote.putErr = errNetwork },
			wantErr: ErrRemote,
			puts:    1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, true)
			ctx := context.Background()
			b := writeBook(t, f.dir, "b1", "content")
			require.NoError(t, f.cache.Insert(ctx, b))
			tt.prepare(f)

			_, err := PushBook(ctx, Stores{Cache: f.cache, Metadata: f.remote, Blobs: f.blobs}, owner, b)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.puts, f.remote.puts)

			cached, err := f.cache.Get(ctx, "b1")
			require.NoError(t, err)
			assert.False(t, cached.Synced)
			assert.Equal(t, b.Location, cached.Location)
		})
	}
}

func TestPushBook_MissingFile(t *testing.T) {
	f := newFixture(t, true)
	b := models.Book{ID: "b1", Location: f.dir + "/books/absent.pdf"}

	_, err := PushBook(context.Background(), Stores{Cache: f.cache, Metadata: f.remote, Blobs: f.blobs}, owner, b)
	require.ErrorIs(t, err, ErrLocalCopy)
	assert.Zero(t, f.blobs.uploads)
}

func TestPushBook_RefusesLocalOwners(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	b := writeBook(t, f.dir, "b1", "content")
	require.NoError(t, f.cache.Insert(ctx, b))

	for _, o := range []string{"", models.GuestOwnerID} {
		_, err := PushBook(ctx, Stores{Cache: f.cache, Metadata: f.remote, Blobs: f.blobs}, o, b)
		require.ErrorIs(t, err, ErrNoOwner)
	}
	assert.Zero(t, f.blobs.uploads)
	assert.Zero(t, f.remote.puts)
}

func TestPushBook_DeletedDuringUploadDropsRemoteRecord(t *testing.T) {
	f := newFixture(t, true)
	b := writeBook(t, f.dir, "b1", "content")
	// not in the cache: the user deleted it while the upload ran

	_, err := PushBook(context.Background(), Stores{Cache: f.cache, Metadata: f.remote, Blobs: f.blobs}, owner, b)
	require.ErrorIs(t, err, common.ErrorNotFound)
	assert.Equal(t, 0, f.remote.count(owner))
	assert.Equal(t, []string{"b1"}, f.remote.deleted)
}

func TestUploader_Push(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	b := writeBook(t, f.dir, "b1", "content")
	require.NoError(t, f.cache.Insert(ctx, b))

	u := NewUploader(Stores{Cache: f.cache, Metadata: f.remote, Blobs: f.blobs}, logging.Nop())

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := u.Push(ctx, owner, b)
			assert.NoError(t, err)
			assert.True(t, got.Synced)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, f.remote.count(owner))
	assert.LessOrEqual(t, f.blobs.uploads, 4)
}
