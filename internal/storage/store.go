// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by BlobStore.Get when no value exists for a key.
var ErrNotFound = errors.New("blob not found")

// BlobStore defines the interface for key-value blob persistence.
// Rollbook keeps its whole state as one serialized document under a fixed
// key, so backends only need whole-value reads and writes.
// This abstraction allows swapping storage backends (SQLite, Redis, memory)
// without changing the store or service layers.
type BlobStore interface {
	// Get returns the value stored under key.
	// Returns ErrNotFound if the key has never been written or was deleted.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the value stored under key.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the store.
	Close() error
}
