package persistence

import "context"

// Store is the key-value store the State Document is persisted to.
// Get returns nil with no error when the key has never been written.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, blob []byte) error
	Close() error
}
