package filestore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalStoreLifecycle(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx := context.Background()

	name := "category/events-00001.log"
	data := []byte("hello scribe, this is a shipped log line\n")

	// 1. Create: parent directories appear implicitly.
	w, existed, err := store.OpenWrite(ctx, name)
	require.NoError(t, err)
	require.False(t, existed)

	n, err := w.Write(data)
	require.NoError(t, err)
	require.Equal(t, len(data), n)
	require.NoError(t, w.Sync())
	require.NoError(t, w.Close())

	// 2. Stat / Exists.
	size, err := store.Size(ctx, name)
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), size)

	ok, err := store.Exists(ctx, name)
	require.NoError(t, err)
	require.True(t, ok)

	// 3. Reopen: append semantics are reported.
	w, existed, err = store.OpenWrite(ctx, name)
	require.NoError(t, err)
	require.True(t, existed)
	_, err = w.Write([]byte("appended\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := store.OpenRead(ctx, name)
	require.NoError(t, err)
	content, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	require.Equal(t, string(data)+"appended\n", string(content))
	require.Equal(t, int64(len(content)), r.Size())

	// 4. List.
	names, err := store.List(ctx, "category")
	require.NoError(t, err)
	require.Equal(t, []string{"events-00001.log"}, names)

	// 5. Delete, twice: the second is a no-op.
	require.NoError(t, store.Delete(ctx, name))
	require.NoError(t, store.Delete(ctx, name))

	ok, err = store.Exists(ctx, name)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = store.OpenRead(ctx, name)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStoreListMissingDir(t *testing.T) {
	store := NewLocalStore(t.TempDir())

	names, err := store.List(context.Background(), "nope")
	require.NoError(t, err)
	require.Empty(t, names)
}

func TestLocalStoreSizeMissing(t *testing.T) {
	store := NewLocalStore(t.TempDir())

	_, err := store.Size(context.Background(), "absent.log")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStoreFreeSpace(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir)

	free, err := store.FreeSpace()
	require.NoError(t, err)
	require.Positive(t, free)

	// Sanity: the root actually exists as a directory.
	st, err := os.Stat(filepath.Clean(dir))
	require.NoError(t, err)
	require.True(t, st.IsDir())
}
