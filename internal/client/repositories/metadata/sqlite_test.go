package metadata

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/myshelf/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE metadata (
  key   TEXT PRIMARY KEY,
  value TEXT NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func TestSetAndGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "access_token", "jwt"))

	v, err := r.Get(ctx, "access_token")
	require.NoError(t, err)
	assert.Equal(t, "jwt", v)
}

func TestGet_MissingIsNotFound(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	_, err := r.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSet_Overwrites(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "offline_mode", "false"))
	require.NoError(t, r.Set(ctx, "offline_mode", "true"))

	v, err := r.Get(ctx, "offline_mode")
	require.NoError(t, err)
	assert.Equal(t, "true", v)
}

func TestDeleteAndClear(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "a", "1"))
	require.NoError(t, r.Set(ctx, "b", "2"))

	require.NoError(t, r.Delete(ctx, "a"))
	_, err := r.Get(ctx, "a")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, r.Clear(ctx))
	_, err = r.Get(ctx, "b")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestErrorsAreWrapped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT value FROM metadata`).WillReturnError(errors.New("boom"))
	_, err = r.Get(ctx, "k")
	assert.EqualError(t, err, "failed to get metadata[k]: boom")

	mock.ExpectExec(`INSERT INTO metadata`).WillReturnError(errors.New("boom"))
	assert.EqualError(t, r.Set(ctx, "k", "v"), "failed to set metadata[k]: boom")

	mock.ExpectExec(`DELETE FROM metadata WHERE key`).WillReturnError(errors.New("boom"))
	assert.EqualError(t, r.Delete(ctx, "k"), "failed to delete metadata[k]: boom")

	mock.ExpectExec(`DELETE FROM metadata`).WillReturnError(errors.New("boom"))
	assert.EqualError(t, r.Clear(ctx), "failed to clear metadata: boom")
}
