// Package store owns Rollbook's in-memory state and its persistence.
//
// The whole state is one models.Data document kept in memory and written
// wholesale to a storage.BlobStore after every mutation. Loading never fails:
// a missing, unreadable or corrupt document yields the default structure.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mmynk/rollbook/internal/models"
	"github.com/mmynk/rollbook/internal/storage"
)

// DefaultKey is the blob key the document is stored under.
const DefaultKey = "sms-data-v1"

// ErrPersistence wraps any failure to write the document to the backend.
var ErrPersistence = errors.New("persistence failure")

// Store holds the five collections and persists them through a BlobStore.
// It is safe for concurrent use; mutations and their persist step are serialized.
type Store struct {
	blobs   storage.BlobStore
	key     string
	metrics *metrics

	mu   sync.RWMutex
	data *models.Data
}

// Option configures a Store.
type Option func(*options)

type options struct {
	key string
	reg prometheus.Registerer
}

// WithKey overrides the blob key (default DefaultKey).
func WithKey(key string) Option {
	return func(o *options) { o.key = key }
}

// WithRegisterer registers the store's metrics on reg instead of a private registry.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) { o.reg = reg }
}

// New creates a Store holding the default empty document. Call Load to read
// persisted state.
func New(blobs storage.BlobStore, opts ...Option) *Store {
	o := options{key: DefaultKey}
	for _, opt := range opts {
		opt(&o)
	}
	if o.reg == nil {
		o.reg = prometheus.NewRegistry()
	}
	return &Store{
		blobs:   blobs,
		key:     o.key,
		metrics: newMetrics(o.reg),
		data:    models.NewData(),
	}
}

// Open creates a Store and loads the persisted document.
func Open(ctx context.Context, blobs storage.BlobStore, opts ...Option) *Store {
	s := New(blobs, opts...)
	s.Load(ctx)
	return s
}

// Load replaces the in-memory state with the persisted document and returns a
// snapshot of it. Absent, unreadable or malformed documents load as defaults;
// collections missing from the document are filled with empty ones.
func (s *Store) Load(ctx context.Context) *models.Data {
	data, size, result := s.read(ctx)
	s.metrics.loads.WithLabelValues(result).Inc()
	s.metrics.observe(data, size)

	s.mu.Lock()
	s.data = data
	s.mu.Unlock()

	return data.Clone()
}

func (s *Store) read(ctx context.Context) (*models.Data, int, string) {
	raw, err := s.blobs.Get(ctx, s.key)
	if errors.Is(err, storage.ErrNotFound) {
		slog.Debug("No stored document, using defaults", "key", s.key)
		return models.NewData(), 0, loadMissing
	}
	if err != nil {
		slog.Error("Failed to read stored document, using defaults", "key", s.key, "error", err)
		return models.NewData(), 0, loadError
	}

	data := &models.Data{}
	if err := json.Unmarshal(raw, data); err != nil {
		slog.Warn("Stored document is corrupt, using defaults", "key", s.key, "bytes", len(raw), "error", err)
		return models.NewData(), len(raw), loadCorrupt
	}
	data.FillDefaults()
	return data, len(raw), loadOK
}

// Save writes the current state to the backend, replacing prior contents.
func (s *Store) Save(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persist(ctx)
}

// persist must be called with mu held.
func (s *Store) persist(ctx context.Context) error {
	raw, err := json.Marshal(s.data)
	if err != nil {
		s.metrics.saves.WithLabelValues("error").Inc()
		return fmt.Errorf("%w: encode document: %v", ErrPersistence, err)
	}
	if err := s.blobs.Put(ctx, s.key, raw); err != nil {
		s.metrics.saves.WithLabelValues("error").Inc()
		slog.Error("Failed to save document", "key", s.key, "bytes", len(raw), "error", err)
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	s.metrics.saves.WithLabelValues("ok").Inc()
	s.metrics.observe(s.data, len(raw))
	return nil
}

// Reset discards all state and persists the default empty document.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.data
	s.data = models.NewData()
	if err := s.persist(ctx); err != nil {
		s.data = previous
		return err
	}
	slog.Info("Store reset", "key", s.key)
	return nil
}

// View runs fn with read access to the live state. fn must not retain or
// modify d.
func (s *Store) View(fn func(d *models.Data)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.data)
}

// Update runs fn against the live state and persists the result.
// If fn returns an error nothing is saved and the state is left as it was.
// If the save fails the state is rolled back and an ErrPersistence error is
// returned, so memory never runs ahead of the backend.
func (s *Store) Update(ctx context.Context, fn func(d *models.Data) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.Clone()
	if err := fn(s.data); err != nil {
		s.data = snapshot
		return err
	}
	if err := s.persist(ctx); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() *models.Data {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Clone()
}
