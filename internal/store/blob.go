package store

import "context"

// BlobStore is the contract the storefront has with its key-value backend.
// Values are opaque byte blobs tagged with a content type. The backend is
// assumed to provide nothing beyond simple get/put/delete; in particular
// there is no compare-and-swap, so concurrent writers against the same key
// are unguarded and last write wins.
type BlobStore interface {
	// Get returns the blob and its content type. ok is false when the key
	// is absent; err is reserved for backend failures.
	Get(ctx context.Context, key string) (data []byte, contentType string, ok bool, err error)
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
