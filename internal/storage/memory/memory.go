// Package memory provides an in-process implementation of storage.BlobStore.
// Nothing survives the process; it backs tests and throwaway sessions.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/mmynk/rollbook/internal/storage"
)

var _ storage.BlobStore = (*Store)(nil)

// Store is a map-backed BlobStore safe for concurrent use.
type Store struct {
	mu     sync.Mutex
	blobs  map[string][]byte
	putErr error
	puts   int
}

// New returns an empty Store.
func New() *Store {
	return &Store{blobs: make(map[string][]byte)}
}

// Get returns a copy of the value stored under key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.blobs[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, key)
	}
	return slices.Clone(v), nil
}

// Put stores a copy of value under key, or returns the injected failure.
func (s *Store) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.putErr != nil {
		return s.putErr
	}
	s.blobs[key] = slices.Clone(value)
	s.puts++
	return nil
}

// Delete removes key.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.blobs, key)
	return nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

// FailPuts makes every subsequent Put return err. Pass nil to recover.
func (s *Store) FailPuts(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putErr = err
}

// Puts reports how many Put calls succeeded.
func (s *Store) Puts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puts
}
