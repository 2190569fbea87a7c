package service

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/mmynk/rollbook/internal/models"
)

// StudentService is the student directory.
type StudentService struct {
	store DataStore
}

// NewStudentService creates a new StudentService over the given store.
func NewStudentService(store DataStore) *StudentService {
	return &StudentService{store: store}
}

// StudentPatch carries a partial update. Nil fields are left unchanged.
type StudentPatch struct {
	Roll        *string
	Name        *string
	Course      *string
	Semester    *string
	DOB         *string
	Gender      *string
	Phone       *string
	Email       *string
	ParentPhone *string
	Address     *string
	Blood       *string
}

func (p StudentPatch) apply(s *models.Student) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&s.Roll, p.Roll)
	set(&s.Name, p.Name)
	set(&s.Course, p.Course)
	set(&s.Semester, p.Semester)
	set(&s.DOB, p.DOB)
	set(&s.Gender, p.Gender)
	set(&s.Phone, p.Phone)
	set(&s.Email, p.Email)
	set(&s.ParentPhone, p.ParentPhone)
	set(&s.Address, p.Address)
	set(&s.Blood, p.Blood)
}

// Add inserts a student. The roll must not be held by any existing student.
// An ID is generated when the student has none.
func (s *StudentService) Add(ctx context.Context, student models.Student) (models.Student, error) {
	slog.Info("AddStudent request received", "roll", student.Roll, "name", student.Name)

	err := s.store.Update(ctx, func(d *models.Data) error {
		if d.RollTaken(student.Roll, "") {
			return fmt.Errorf("%w: a student with roll %q already exists", ErrDuplicateKey, student.Roll)
		}
		if student.ID == "" {
			student.ID = uuid.New().String()
		} else if d.StudentIndex(student.ID) >= 0 {
			return fmt.Errorf("%w: a student with id %q already exists", ErrDuplicateKey, student.ID)
		}
		d.Students = append(d.Students, student)
		return nil
	})
	if err != nil {
		slog.Error("AddStudent failed", "roll", student.Roll, "error", err)
		return models.Student{}, err
	}

	slog.Info("Student added", "student_id", student.ID, "roll", student.Roll)
	return student, nil
}

// Update replaces the student with the given id wholesale. Every field comes
// from data; the id itself never changes. Use Patch to change single fields.
func (s *StudentService) Update(ctx context.Context, id string, data models.Student) (models.Student, error) {
	slog.Info("UpdateStudent request received", "student_id", id, "roll", data.Roll)

	data.ID = id
	err := s.store.Update(ctx, func(d *models.Data) error {
		idx := d.StudentIndex(id)
		if idx < 0 {
			return fmt.Errorf("%w: student %s", ErrNotFound, id)
		}
		if d.RollTaken(data.Roll, id) {
			return fmt.Errorf("%w: roll %q is already assigned to another student", ErrDuplicateKey, data.Roll)
		}
		d.Students[idx] = data
		return nil
	})
	if err != nil {
		slog.Error("UpdateStudent failed", "student_id", id, "error", err)
		return models.Student{}, err
	}

	slog.Info("Student updated", "student_id", id)
	return data, nil
}

// Patch changes only the fields set in p.
func (s *StudentService) Patch(ctx context.Context, id string, p StudentPatch) (models.Student, error) {
	var updated models.Student
	err := s.store.Update(ctx, func(d *models.Data) error {
		idx := d.StudentIndex(id)
		if idx < 0 {
			return fmt.Errorf("%w: student %s", ErrNotFound, id)
		}
		updated = d.Students[idx]
		p.apply(&updated)
		if d.RollTaken(updated.Roll, id) {
			return fmt.Errorf("%w: roll %q is already assigned to another student", ErrDuplicateKey, updated.Roll)
		}
		d.Students[idx] = updated
		return nil
	})
	if err != nil {
		slog.Error("PatchStudent failed", "student_id", id, "error", err)
		return models.Student{}, err
	}

	slog.Info("Student patched", "student_id", id)
	return updated, nil
}

// Remove deletes the student with the given id, if any. Attendance, marks and
// fees recorded against the student's roll are kept. The store is saved even
// when nothing was removed.
func (s *StudentService) Remove(ctx context.Context, id string) error {
	err := s.store.Update(ctx, func(d *models.Data) error {
		d.Students = slices.DeleteFunc(d.Students, func(st models.Student) bool { return st.ID == id })
		return nil
	})
	if err != nil {
		slog.Error("RemoveStudent failed", "student_id", id, "error", err)
		return err
	}
	slog.Info("Student removed", "student_id", id)
	return nil
}

// Clear removes every student. Other collections are untouched.
func (s *StudentService) Clear(ctx context.Context) error {
	var removed int
	err := s.store.Update(ctx, func(d *models.Data) error {
		removed = len(d.Students)
		d.Students = []models.Student{}
		return nil
	})
	if err != nil {
		slog.Error("ClearStudents failed", "error", err)
		return err
	}
	slog.Info("Students cleared", "count", removed)
	return nil
}

// List yields the students matching f, in insertion order.
// The sequence reads a snapshot taken when List is called; call List again
// after any write to see the change.
func (s *StudentService) List(f StudentFilter) iter.Seq[models.Student] {
	var students []models.Student
	s.store.View(func(d *models.Data) {
		students = slices.Clone(d.Students)
	})

	return func(yield func(models.Student) bool) {
		for _, st := range students {
			if !f.Match(st) {
				continue
			}
			if !yield(st) {
				return
			}
		}
	}
}

// Get returns the student with the given id.
func (s *StudentService) Get(id string) (models.Student, error) {
	var (
		st    models.Student
		found bool
	)
	s.store.View(func(d *models.Data) {
		if idx := d.StudentIndex(id); idx >= 0 {
			st, found = d.Students[idx], true
		}
	})
	if !found {
		return models.Student{}, fmt.Errorf("%w: student %s", ErrNotFound, id)
	}
	return st, nil
}

// GetByRoll returns the student holding roll.
func (s *StudentService) GetByRoll(roll string) (models.Student, error) {
	var (
		st    models.Student
		found bool
	)
	s.store.View(func(d *models.Data) {
		st, found = d.StudentByRoll(roll)
	})
	if !found {
		return models.Student{}, fmt.Errorf("%w: no student with roll %q", ErrNotFound, roll)
	}
	return st, nil
}

// Count returns the number of students.
func (s *StudentService) Count() int {
	var n int
	s.store.View(func(d *models.Data) { n = len(d.Students) })
	return n
}
