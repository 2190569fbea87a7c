package service

import (
	"context"
	"slices"
	"testing"

	"github.com/mmynk/rollbook/internal/models"
	"github.com/mmynk/rollbook/internal/storage/memory"
	"github.com/mmynk/rollbook/internal/store"
)

// setupTestStore creates a store over a fresh in-memory backend.
func setupTestStore(t *testing.T) (*store.Store, *memory.Store) {
	t.Helper()
	blobs := memory.New()
	return store.Open(context.Background(), blobs), blobs
}

// mustAddStudent adds a student or fails the test.
func mustAddStudent(t *testing.T, svc *StudentService, st models.Student) models.Student {
	t.Helper()
	added, err := svc.Add(context.Background(), st)
	if err != nil {
		t.Fatalf("Add(%s) failed: %v", st.Roll, err)
	}
	return added
}

func collect(svc *StudentService, f StudentFilter) []models.Student {
	return slices.Collect(svc.List(f))
}
