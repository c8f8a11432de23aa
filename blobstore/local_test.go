package blobstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStoreLifecycle(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, "runs/b.snap", []byte("second")))
	require.NoError(t, store.Put(ctx, "runs/a.snap", []byte("first")))
	require.NoError(t, store.Put(ctx, "other.snap", []byte("x")))

	data, err := store.Get(ctx, "runs/a.snap")
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))

	require.NoError(t, store.Put(ctx, "runs/a.snap", []byte("replaced")))
	data, err = store.Get(ctx, "runs/a.snap")
	require.NoError(t, err)
	assert.Equal(t, "replaced", string(data))

	names, err := store.List(ctx, "runs/")
	require.NoError(t, err)
	assert.Equal(t, []string{"runs/a.snap", "runs/b.snap"}, names)

	names, err = store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"other.snap", "runs/a.snap", "runs/b.snap"}, names)

	require.NoError(t, store.Delete(ctx, "runs/a.snap"))
	require.NoError(t, store.Delete(ctx, "runs/a.snap"))
	_, err = store.Get(ctx, "runs/a.snap")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStore_Lifecycle(t *testing.T) {
	dir := t.TempDir()
	testStoreLifecycle(t, NewLocalStore(dir))

	// Verify file exists on disk and no temporary files are left behind.
	_, err := os.Stat(filepath.Join(dir, "runs", "b.snap"))
	require.NoError(t, err)
	entries, err := os.ReadDir(filepath.Join(dir, "runs"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLocalStore_ListMissingRoot(t *testing.T) {
	store := NewLocalStore(filepath.Join(t.TempDir(), "absent"))

	names, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestLocalStore_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := NewLocalStore(t.TempDir())
	require.ErrorIs(t, store.Put(ctx, "x", nil), context.Canceled)
	_, err := store.Get(ctx, "x")
	require.ErrorIs(t, err, context.Canceled)
}

func TestMemoryStore_Lifecycle(t *testing.T) {
	testStoreLifecycle(t, NewMemoryStore())
}

func TestMemoryStore_CopiesData(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	data := []byte("abc")
	require.NoError(t, store.Put(ctx, "k", data))
	data[0] = 'x'

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	got[1] = 'y'

	again, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}
