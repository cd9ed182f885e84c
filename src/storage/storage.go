package storage

import (
	"context"
	"time"
)

// A Store holds uploaded objects and all the derivatives we generate from
// them. Keys are opaque slash-separated paths.
type Store interface {
	// Put uploads an object, overwriting any existing object at that key.
	Put(ctx context.Context, key string, contentType string, data []byte) error

	// Get fetches the full contents of an object.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes an object. Deleting a key that does not exist is not an
	// error.
	Delete(ctx context.Context, key string) error

	// PublicURL returns a URL at which the object is publicly reachable,
	// assuming the object itself is public.
	PublicURL(key string) string

	// SignedURL returns a time-limited URL granting access to a private
	// object.
	SignedURL(ctx context.Context, key string, lifetime time.Duration) (string, error)
}
