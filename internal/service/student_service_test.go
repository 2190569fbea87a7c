package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/mmynk/rollbook/internal/models"
	"github.com/mmynk/rollbook/internal/store"
)

func TestAddStudent(t *testing.T) {
	st, blobs := setupTestStore(t)
	svc := NewStudentService(st)

	added := mustAddStudent(t, svc, models.Student{Roll: "CS-01", Name: "Asha Rao", Course: "BCA"})

	if added.ID == "" {
		t.Error("expected generated ID")
	}
	if blobs.Puts() != 1 {
		t.Errorf("expected 1 save, got %d", blobs.Puts())
	}

	// A freshly opened store sees the persisted student
	reopened := NewStudentService(store.Open(context.Background(), blobs))
	got, err := reopened.GetByRoll("CS-01")
	if err != nil {
		t.Fatalf("GetByRoll after reopen failed: %v", err)
	}
	if got.ID != added.ID || got.Name != "Asha Rao" {
		t.Errorf("reopened student = %+v", got)
	}
}

func TestAddStudent_DuplicateRoll(t *testing.T) {
	st, blobs := setupTestStore(t)
	svc := NewStudentService(st)
	ctx := context.Background()

	mustAddStudent(t, svc, models.Student{Roll: "CS-01", Name: "Asha"})
	before := collect(svc, StudentFilter{})
	savesBefore := blobs.Puts()

	_, err := svc.Add(ctx, models.Student{Roll: "CS-01", Name: "Ravi"})
	if !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}

	after := collect(svc, StudentFilter{})
	if !reflect.DeepEqual(before, after) {
		t.Errorf("students changed after failed add:\nbefore %+v\nafter  %+v", before, after)
	}
	if blobs.Puts() != savesBefore {
		t.Error("failed add should not save")
	}

	// Roll comparison is case-sensitive
	if _, err := svc.Add(ctx, models.Student{Roll: "cs-01", Name: "Ravi"}); err != nil {
		t.Errorf("expected different-case roll to be accepted, got %v", err)
	}
}

func TestAddStudent_DuplicateID(t *testing.T) {
	st, _ := setupTestStore(t)
	svc := NewStudentService(st)

	first := mustAddStudent(t, svc, models.Student{Roll: "R1"})
	_, err := svc.Add(context.Background(), models.Student{ID: first.ID, Roll: "R2"})
	if !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey for reused id, got %v", err)
	}
}

func TestAddStudent_PersistenceFailure(t *testing.T) {
	st, blobs := setupTestStore(t)
	svc := NewStudentService(st)

	blobs.FailPuts(errors.New("quota exceeded"))
	_, err := svc.Add(context.Background(), models.Student{Roll: "R1"})
	if !errors.Is(err, store.ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
	if svc.Count() != 0 {
		t.Errorf("student kept in memory after failed save")
	}
}

func TestUpdateStudent(t *testing.T) {
	st, _ := setupTestStore(t)
	svc := NewStudentService(st)
	ctx := context.Background()

	asha := mustAddStudent(t, svc, models.Student{Roll: "R1", Name: "Asha", Phone: "111", Blood: "O+"})
	ravi := mustAddStudent(t, svc, models.Student{Roll: "R2", Name: "Ravi"})

	t.Run("unknown id is NotFound", func(t *testing.T) {
		_, err := svc.Update(ctx, "nonexistent-id", models.Student{Roll: "R9"})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("roll held by another student is DuplicateKey", func(t *testing.T) {
		_, err := svc.Update(ctx, asha.ID, models.Student{Roll: ravi.Roll, Name: "Asha"})
		if !errors.Is(err, ErrDuplicateKey) {
			t.Errorf("expected ErrDuplicateKey, got %v", err)
		}
		got, _ := svc.Get(asha.ID)
		if got.Roll != "R1" {
			t.Errorf("roll changed after failed update: %q", got.Roll)
		}
	})

	t.Run("own unchanged roll succeeds", func(t *testing.T) {
		_, err := svc.Update(ctx, asha.ID, models.Student{Roll: "R1", Name: "Asha K"})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
	})

	t.Run("replaces wholesale and keeps id", func(t *testing.T) {
		updated, err := svc.Update(ctx, asha.ID, models.Student{ID: "ignored", Roll: "R1", Name: "Asha K"})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if updated.ID != asha.ID {
			t.Errorf("id changed: %q", updated.ID)
		}
		got, _ := svc.Get(asha.ID)
		if got.Phone != "" || got.Blood != "" {
			t.Errorf("expected omitted fields to be cleared, got %+v", got)
		}
		if got.Name != "Asha K" {
			t.Errorf("name = %q", got.Name)
		}
	})
}

func TestPatchStudent(t *testing.T) {
	st, _ := setupTestStore(t)
	svc := NewStudentService(st)
	ctx := context.Background()

	asha := mustAddStudent(t, svc, models.Student{Roll: "R1", Name: "Asha", Phone: "111"})
	mustAddStudent(t, svc, models.Student{Roll: "R2", Name: "Ravi"})

	name := "Asha Rao"
	patched, err := svc.Patch(ctx, asha.ID, StudentPatch{Name: &name})
	if err != nil {
		t.Fatalf("Patch failed: %v", err)
	}
	if patched.Name != "Asha Rao" || patched.Phone != "111" || patched.Roll != "R1" {
		t.Errorf("patched = %+v", patched)
	}

	taken := "R2"
	if _, err := svc.Patch(ctx, asha.ID, StudentPatch{Roll: &taken}); !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}
	if _, err := svc.Patch(ctx, "missing", StudentPatch{Name: &name}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRemoveStudent(t *testing.T) {
	st, blobs := setupTestStore(t)
	svc := NewStudentService(st)
	fees := NewFeeService(st)
	ctx := context.Background()

	asha := mustAddStudent(t, svc, models.Student{Roll: "R1", Name: "Asha"})
	if err := fees.SetTotal(ctx, "R1", 500); err != nil {
		t.Fatalf("SetTotal failed: %v", err)
	}

	if err := svc.Remove(ctx, asha.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if svc.Count() != 0 {
		t.Errorf("expected 0 students, got %d", svc.Count())
	}

	// Fee record survives the student
	info, err := fees.Info(ctx, "R1")
	if err != nil {
		t.Fatalf("Info failed: %v", err)
	}
	if info.Total != 500 {
		t.Errorf("orphaned fee total = %v, want 500", info.Total)
	}

	// Removing an absent id is a no-op that still saves
	saves := blobs.Puts()
	if err := svc.Remove(ctx, "missing"); err != nil {
		t.Errorf("Remove of missing id failed: %v", err)
	}
	if blobs.Puts() != saves+1 {
		t.Errorf("expected a save for no-op remove")
	}
}

func TestClearStudents(t *testing.T) {
	st, _ := setupTestStore(t)
	svc := NewStudentService(st)
	att := NewAttendanceService(st)
	ctx := context.Background()

	mustAddStudent(t, svc, models.Student{Roll: "R1"})
	mustAddStudent(t, svc, models.Student{Roll: "R2"})
	att.MarkForDate(ctx, "2024-03-01", []AttendanceEntry{{Roll: "R1", Status: models.StatusPresent}})

	if err := svc.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if svc.Count() != 0 {
		t.Errorf("expected no students, got %d", svc.Count())
	}
	if len(att.RecordsFor("R1")) != 1 {
		t.Error("Clear should not touch attendance")
	}
}

func TestListStudents(t *testing.T) {
	st, _ := setupTestStore(t)
	svc := NewStudentService(st)

	mustAddStudent(t, svc, models.Student{Roll: "BCA-01", Name: "Asha Rao", Course: "BCA", Semester: "Sem 1"})
	mustAddStudent(t, svc, models.Student{Roll: "BCA-02", Name: "Ravi Kumar", Course: "BCA", Semester: "Sem 3"})
	mustAddStudent(t, svc, models.Student{Roll: "MBA-01", Name: "Meera", Course: "MBA", Semester: "Sem 1"})

	tests := []struct {
		name   string
		filter StudentFilter
		want   []string
	}{
		{"no filters", StudentFilter{}, []string{"BCA-01", "BCA-02", "MBA-01"}},
		{"search by name ignores case", StudentFilter{Search: "ravi"}, []string{"BCA-02"}},
		{"search by roll", StudentFilter{Search: "mba-0"}, []string{"MBA-01"}},
		{"course substring", StudentFilter{Course: "bc"}, []string{"BCA-01", "BCA-02"}},
		{"semester", StudentFilter{Semester: "SEM 1"}, []string{"BCA-01", "MBA-01"}},
		{"combined", StudentFilter{Search: "a", Course: "BCA", Semester: "3"}, []string{"BCA-02"}},
		{"no match", StudentFilter{Course: "PhD"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for s := range svc.List(tt.filter) {
				got = append(got, s.Roll)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("List(%+v) = %v, want %v", tt.filter, got, tt.want)
			}
		})
	}
}

func TestListStudents_Snapshot(t *testing.T) {
	st, _ := setupTestStore(t)
	svc := NewStudentService(st)
	ctx := context.Background()

	mustAddStudent(t, svc, models.Student{Roll: "R1"})
	seq := svc.List(StudentFilter{})
	mustAddStudent(t, svc, models.Student{Roll: "R2"})

	var n int
	for range seq {
		n++
	}
	if n != 1 {
		t.Errorf("sequence saw %d students, want the 1 present at List time", n)
	}

	// Early stop
	n = 0
	for range svc.List(StudentFilter{}) {
		n++
		break
	}
	if n != 1 {
		t.Errorf("expected iteration to stop after 1, got %d", n)
	}

	if err := svc.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if got := collect(svc, StudentFilter{}); len(got) != 0 {
		t.Errorf("re-list after clear returned %d", len(got))
	}
}

func TestGetByRoll_NotFound(t *testing.T) {
	st, _ := setupTestStore(t)
	svc := NewStudentService(st)

	if _, err := svc.GetByRoll("nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Get("nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
