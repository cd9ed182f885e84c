package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	err := store.Put(ctx, "1/images/pic.png", "image/png", []byte("pixels"))
	require.NoError(t, err)

	data, err := store.Get(ctx, "1/images/pic.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("pixels"), data)
	assert.Equal(t, "image/png", store.ContentType("1/images/pic.png"))

	_, err = store.Get(ctx, "nope")
	assert.Error(t, err)

	// Stored data is a copy, not an alias of the caller's slice.
	original := []byte("mutate me")
	require.NoError(t, store.Put(ctx, "k", "text/plain", original))
	original[0] = 'X'
	data, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("mutate me"), data)

	// Delete is idempotent.
	require.NoError(t, store.Delete(ctx, "k"))
	require.NoError(t, store.Delete(ctx, "k"))
	_, err = store.Get(ctx, "k")
	assert.Error(t, err)

	assert.Equal(t, "memory://a/b", store.PublicURL("a/b"))
	signed, err := store.SignedURL(ctx, "a/b", 0)
	require.NoError(t, err)
	assert.Contains(t, signed, "memory://a/b?expires=")
}
