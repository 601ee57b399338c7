package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_parseEnv(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	t.Chdir(t.TempDir())

	t.Run("variables override, unset keep", func(t *testing.T) {
		os.Args = []string{"testbin"}
		t.Setenv("MYSHELF_SERVER_ENDPOINT_ADDR", "env:50051")
		t.Setenv("MYSHELF_UNDO_WINDOW", "1500ms")
		t.Setenv("MYSHELF_SYNC_BATCH_SIZE", "8")

		cfg := defaults()
		parseEnv(cfg)

		want := defaults()
		want.ServerEndpointAddr = "env:50051"
		want.UndoWindow = 1500 * time.Millisecond
		want.SyncBatchSize = 8
		assert.Empty(t, cmp.Diff(want, cfg))
	})

	t.Run("dotenv file from -env", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "client.env")
		require.NoError(t, os.WriteFile(path, []byte("MYSHELF_DATABASE_PATH=/tmp/shelf.db\n"), 0o600))
		t.Cleanup(func() { _ = os.Unsetenv("MYSHELF_DATABASE_PATH") })
		os.Args = []string{"testbin", "-env", path}

		cfg := defaults()
		parseEnv(cfg)

		assert.Equal(t, "/tmp/shelf.db", cfg.DatabasePath)
	})

	t.Run("malformed value panics", func(t *testing.T) {
		os.Args = []string{"testbin"}
		t.Setenv("MYSHELF_SYNC_BATCH_SIZE", "many")

		require.Panics(t, func() { parseEnv(defaults()) })
	})

	t.Run("missing dotenv file panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-env", "/does/not/exist.env"}

		require.Panics(t, func() { parseEnv(defaults()) })
	})
}
