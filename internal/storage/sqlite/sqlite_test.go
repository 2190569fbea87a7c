package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/mmynk/rollbook/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("Get missing key returns ErrNotFound", func(t *testing.T) {
		_, err := store.Get(ctx, "missing")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Put then Get round-trips", func(t *testing.T) {
		if err := store.Put(ctx, "doc", []byte(`{"students":[]}`)); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		got, err := store.Get(ctx, "doc")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if string(got) != `{"students":[]}` {
			t.Errorf("Get = %q", got)
		}
	})

	t.Run("Put overwrites wholesale", func(t *testing.T) {
		store.Put(ctx, "doc", []byte("first version, quite long"))
		store.Put(ctx, "doc", []byte("second"))

		got, err := store.Get(ctx, "doc")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if string(got) != "second" {
			t.Errorf("Get = %q, want %q", got, "second")
		}
	})

	t.Run("Delete removes key and tolerates missing", func(t *testing.T) {
		store.Put(ctx, "gone", []byte("x"))
		if err := store.Delete(ctx, "gone"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := store.Get(ctx, "gone"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
		if err := store.Delete(ctx, "gone"); err != nil {
			t.Errorf("Delete of missing key failed: %v", err)
		}
	})
}

func TestReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	first, err := New(dbPath)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := first.Put(ctx, "doc", []byte("persisted")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	first.Close()

	second, err := New(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer second.Close()

	got, err := second.Get(ctx, "doc")
	if err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}
	if string(got) != "persisted" {
		t.Errorf("Get after reopen = %q", got)
	}
}
