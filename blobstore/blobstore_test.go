package blobstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Both implementations must satisfy the same contract, so the suite runs
// against each.
func stores(t *testing.T) map[string]BlobStore {
	t.Helper()

	local, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	return map[string]BlobStore{
		"memory": NewMemoryStore(),
		"local":  local,
	}
}

func TestBlobStorePutGet(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, store.Put(ctx, "runs/a.snap", []byte("alpha")))

			got, err := store.Get(ctx, "runs/a.snap")
			require.NoError(t, err)
			assert.Equal(t, []byte("alpha"), got)
		})
	}
}

func TestBlobStorePutReplaces(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, store.Put(ctx, "a", []byte("old")))
			require.NoError(t, store.Put(ctx, "a", []byte("new")))

			got, err := store.Get(ctx, "a")
			require.NoError(t, err)
			assert.Equal(t, []byte("new"), got)
		})
	}
}

func TestBlobStoreGetMissing(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get(context.Background(), "absent")
			require.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestBlobStoreDelete(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, store.Put(ctx, "a", []byte("x")))
			require.NoError(t, store.Delete(ctx, "a"))

			_, err := store.Get(ctx, "a")
			require.ErrorIs(t, err, ErrNotFound)

			// Deleting a missing blob is not an error.
			require.NoError(t, store.Delete(ctx, "a"))
		})
	}
}

func TestBlobStoreList(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, store.Put(ctx, "runs/b.snap", []byte("b")))
			require.NoError(t, store.Put(ctx, "runs/a.snap", []byte("a")))
			require.NoError(t, store.Put(ctx, "other/c.snap", []byte("c")))

			names, err := store.List(ctx, "runs/")
			require.NoError(t, err)
			assert.Equal(t, []string{"runs/a.snap", "runs/b.snap"}, names)

			all, err := store.List(ctx, "")
			require.NoError(t, err)
			assert.Len(t, all, 3)
		})
	}
}

func TestMemoryStoreCopiesData(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	buf := []byte("original")
	require.NoError(t, store.Put(ctx, "a", buf))
	buf[0] = 'X'

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), got)

	// Mutating the returned slice must not affect the stored blob either.
	got[0] = 'Y'
	again, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), again)
}
