package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), "http://localhost:8080/static")
	require.NoError(t, err)

	ctx := context.Background()
	key, err := store.Write(ctx, "story/cover/seoul.png", []byte("png-data"))
	require.NoError(t, err)
	assert.Equal(t, "story/cover/seoul.png", key)

	exists, err := store.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	data, err := store.Read(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-data"), data)

	assert.Equal(t, "http://localhost:8080/static/story/cover/seoul.png", store.PublicURL(key))
}

func TestFileStoreOverwrite(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), "")
	require.NoError(t, err)

	ctx := context.Background()
	_, err = store.Write(ctx, "k.png", []byte("one"))
	require.NoError(t, err)
	_, err = store.Write(ctx, "k.png", []byte("two"))
	require.NoError(t, err)

	data, err := store.Read(ctx, "k.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), data)
}

func TestFileStoreMissingBlob(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), "")
	require.NoError(t, err)

	exists, err := store.Exists(context.Background(), "absent.png")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = store.Read(context.Background(), "absent.png")
	require.Error(t, err)
}

func TestFileStoreRejectsTraversal(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), "")
	require.NoError(t, err)

	_, err = store.Write(context.Background(), "../escape.png", []byte("x"))
	require.Error(t, err)

	_, err = store.Write(context.Background(), "", []byte("x"))
	require.Error(t, err)
}

func TestFileStoreRequiresBasePath(t *testing.T) {
	_, err := NewFileStore("  ", "")
	require.Error(t, err)
}
