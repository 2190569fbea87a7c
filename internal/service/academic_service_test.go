package service

import (
	"context"
	"reflect"
	"sort"
	"testing"

	"github.com/mmynk/rollbook/internal/models"
	"github.com/mmynk/rollbook/internal/store"
)

func TestAddSubject(t *testing.T) {
	st, _ := setupTestStore(t)
	svc := NewAcademicService(st)
	ctx := context.Background()

	a, err := svc.AddSubject(ctx, models.Subject{ID: "caller-id", Course: "BCA", Semester: "1", Name: "Maths", MaxMarks: 100})
	if err != nil {
		t.Fatalf("AddSubject failed: %v", err)
	}
	if a.ID == "" || a.ID == "caller-id" {
		t.Errorf("expected a fresh id, got %q", a.ID)
	}

	// Identical subjects are allowed
	b, err := svc.AddSubject(ctx, models.Subject{Course: "BCA", Semester: "1", Name: "Maths", MaxMarks: 100})
	if err != nil {
		t.Fatalf("AddSubject duplicate failed: %v", err)
	}
	if a.ID == b.ID {
		t.Error("expected distinct ids")
	}
	if n := len(svc.ListSubjects("", "")); n != 2 {
		t.Errorf("expected 2 subjects, got %d", n)
	}
}

func TestListSubjects(t *testing.T) {
	st, _ := setupTestStore(t)
	svc := NewAcademicService(st)
	ctx := context.Background()

	svc.AddSubject(ctx, models.Subject{Course: "BCA", Semester: "Sem 1", Name: "Maths", MaxMarks: 100})
	svc.AddSubject(ctx, models.Subject{Course: "BCA", Semester: "Sem 2", Name: "Networks", MaxMarks: 50})
	svc.AddSubject(ctx, models.Subject{Course: "MBA", Semester: "Sem 1", Name: "Finance", MaxMarks: 100})

	tests := []struct {
		course, semester string
		want             []string
	}{
		{"", "", []string{"Maths", "Networks", "Finance"}},
		{"bca", "", []string{"Maths", "Networks"}},
		{"", "sem 1", []string{"Maths", "Finance"}},
		{"BCA", "2", []string{"Networks"}},
		{"PhD", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.course+"/"+tt.semester, func(t *testing.T) {
			var got []string
			for _, s := range svc.ListSubjects(tt.course, tt.semester) {
				got = append(got, s.Name)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ListSubjects(%q, %q) = %v, want %v", tt.course, tt.semester, got, tt.want)
			}
		})
	}
}

// marksOf returns roll's marks as currently held by the store.
func marksOf(st *store.Store, roll string) []models.Mark {
	var out []models.Mark
	for _, m := range st.Snapshot().Marks {
		if m.Roll == roll {
			out = append(out, m)
		}
	}
	return out
}

func markSet(marks []models.Mark) []models.Mark {
	out := append([]models.Mark(nil), marks...)
	sort.Slice(out, func(i, j int) bool { return out[i].SubjectID < out[j].SubjectID })
	return out
}

func TestSaveMarks(t *testing.T) {
	st, _ := setupTestStore(t)
	svc := NewAcademicService(st)
	ctx := context.Background()

	entries := []MarkEntry{{SubjectID: "maths", Obtained: 50}, {SubjectID: "physics", Obtained: 80}}

	t.Run("idempotent", func(t *testing.T) {
		if err := svc.SaveMarks(ctx, "R1", entries); err != nil {
			t.Fatalf("SaveMarks failed: %v", err)
		}
		once := markSet(marksOf(st, "R1"))

		if err := svc.SaveMarks(ctx, "R1", entries); err != nil {
			t.Fatalf("SaveMarks failed: %v", err)
		}
		twice := markSet(marksOf(st, "R1"))

		if !reflect.DeepEqual(once, twice) {
			t.Errorf("marks differ after second save:\nonce  %+v\ntwice %+v", once, twice)
		}
		if len(twice) != 2 {
			t.Errorf("expected 2 marks, got %d", len(twice))
		}
	})

	t.Run("partial update leaves other subjects", func(t *testing.T) {
		if err := svc.SaveMarks(ctx, "R1", []MarkEntry{{SubjectID: "maths", Obtained: 70}}); err != nil {
			t.Fatalf("SaveMarks failed: %v", err)
		}
		m, ok := svc.Mark("R1", "maths")
		if !ok || m.Obtained != 70 {
			t.Errorf("maths mark = (%+v, %v), want 70", m, ok)
		}
		p, ok := svc.Mark("R1", "physics")
		if !ok || p.Obtained != 80 {
			t.Errorf("physics mark = (%+v, %v), want untouched 80", p, ok)
		}
	})

	t.Run("other students untouched", func(t *testing.T) {
		svc.SaveMarks(ctx, "R2", []MarkEntry{{SubjectID: "maths", Obtained: 10}})
		svc.SaveMarks(ctx, "R1", []MarkEntry{{SubjectID: "maths", Obtained: 90}})

		m, _ := svc.Mark("R2", "maths")
		if m.Obtained != 10 {
			t.Errorf("R2 maths = %v, want 10", m.Obtained)
		}
	})

	t.Run("duplicate subject in batch keeps last", func(t *testing.T) {
		svc.SaveMarks(ctx, "R3", []MarkEntry{{SubjectID: "maths", Obtained: 1}, {SubjectID: "maths", Obtained: 2}})

		marks := marksOf(st, "R3")
		if len(marks) != 1 || marks[0].Obtained != 2 {
			t.Errorf("R3 marks = %+v, want one mark of 2", marks)
		}
	})
}

func TestMarkSheet(t *testing.T) {
	st, _ := setupTestStore(t)
	students := NewStudentService(st)
	svc := NewAcademicService(st)
	ctx := context.Background()

	mustAddStudent(t, students, models.Student{Roll: "R1", Name: "Asha", Course: "BCA", Semester: "Sem 1"})
	maths, _ := svc.AddSubject(ctx, models.Subject{Course: "BCA", Semester: "Sem 1", Name: "Maths", MaxMarks: 100})
	svc.AddSubject(ctx, models.Subject{Course: "BCA", Semester: "Sem 1", Name: "English", MaxMarks: 100})
	svc.AddSubject(ctx, models.Subject{Course: "MBA", Semester: "Sem 1", Name: "Finance", MaxMarks: 100})
	svc.SaveMarks(ctx, "R1", []MarkEntry{{SubjectID: maths.ID, Obtained: 64}})

	rows, err := svc.MarkSheet("R1", "", "")
	if err != nil {
		t.Fatalf("MarkSheet failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows from student's own course, got %d", len(rows))
	}
	if !rows[0].HasMark || rows[0].Obtained != 64 {
		t.Errorf("maths row = %+v", rows[0])
	}
	if rows[1].HasMark {
		t.Errorf("english row should have no mark: %+v", rows[1])
	}

	rows, err = svc.MarkSheet("R1", "MBA", "")
	if err != nil {
		t.Fatalf("MarkSheet failed: %v", err)
	}
	if len(rows) != 1 || rows[0].Subject.Name != "Finance" {
		t.Errorf("explicit course rows = %+v", rows)
	}

	if _, err := svc.MarkSheet("nobody", "", ""); err == nil {
		t.Error("expected error for unknown roll")
	}
}
