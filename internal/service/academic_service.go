package service

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/mmynk/rollbook/internal/models"
)

// AcademicService manages the subject catalog and student marks.
type AcademicService struct {
	store DataStore
}

// NewAcademicService creates a new AcademicService over the given store.
func NewAcademicService(store DataStore) *AcademicService {
	return &AcademicService{store: store}
}

// MarkEntry is one subject's score in a SaveMarks batch.
type MarkEntry struct {
	SubjectID string
	Obtained  float64
}

// MarkSheetRow pairs a subject with the student's current mark, if any.
type MarkSheetRow struct {
	Subject  models.Subject
	Obtained float64
	HasMark  bool
}

// AddSubject appends a subject under a freshly generated id. Any id on the
// input is ignored. Duplicate course/semester/name combinations are allowed.
func (s *AcademicService) AddSubject(ctx context.Context, subject models.Subject) (models.Subject, error) {
	subject.ID = uuid.New().String()

	err := s.store.Update(ctx, func(d *models.Data) error {
		d.Subjects = append(d.Subjects, subject)
		return nil
	})
	if err != nil {
		slog.Error("AddSubject failed", "name", subject.Name, "error", err)
		return models.Subject{}, err
	}

	slog.Info("Subject added",
		"subject_id", subject.ID,
		"course", subject.Course,
		"semester", subject.Semester,
		"name", subject.Name,
	)
	return subject, nil
}

// ListSubjects returns subjects whose course and semester contain the given
// filters (case-insensitive). Empty filters match everything.
func (s *AcademicService) ListSubjects(course, semester string) []models.Subject {
	var out []models.Subject
	s.store.View(func(d *models.Data) {
		for _, sub := range d.Subjects {
			if matchCourseSemester(sub.Course, sub.Semester, course, semester) {
				out = append(out, sub)
			}
		}
	})
	return out
}

// SaveMarks records marks for roll. Existing marks for the subjects named in
// entries are replaced; marks for other subjects are left alone. If a subject
// appears twice in entries the later entry wins. Calling SaveMarks again with
// the same entries leaves the same marks.
func (s *AcademicService) SaveMarks(ctx context.Context, roll string, entries []MarkEntry) error {
	slog.Info("SaveMarks request received", "roll", roll, "entries_count", len(entries))

	latest := make(map[string]int, len(entries))
	for i, e := range entries {
		latest[e.SubjectID] = i
	}

	err := s.store.Update(ctx, func(d *models.Data) error {
		d.Marks = slices.DeleteFunc(d.Marks, func(m models.Mark) bool {
			_, replaced := latest[m.SubjectID]
			return m.Roll == roll && replaced
		})
		for i, e := range entries {
			if latest[e.SubjectID] != i {
				continue
			}
			d.Marks = append(d.Marks, models.Mark{Roll: roll, SubjectID: e.SubjectID, Obtained: e.Obtained})
		}
		return nil
	})
	if err != nil {
		slog.Error("SaveMarks failed", "roll", roll, "error", err)
		return err
	}
	return nil
}

// Mark returns roll's mark in one subject.
func (s *AcademicService) Mark(roll, subjectID string) (models.Mark, bool) {
	var (
		mark  models.Mark
		found bool
	)
	s.store.View(func(d *models.Data) {
		i := slices.IndexFunc(d.Marks, func(m models.Mark) bool {
			return m.Roll == roll && m.SubjectID == subjectID
		})
		if i >= 0 {
			mark, found = d.Marks[i], true
		}
	})
	return mark, found
}

// MarkSheet lists the subjects a student should be marked in, with any marks
// already recorded. Empty course or semester fall back to the student's own.
func (s *AcademicService) MarkSheet(roll, course, semester string) ([]MarkSheetRow, error) {
	var (
		rows  []MarkSheetRow
		found bool
	)
	s.store.View(func(d *models.Data) {
		var st models.Student
		st, found = d.StudentByRoll(roll)
		if !found {
			return
		}
		course = cmp.Or(course, st.Course)
		semester = cmp.Or(semester, st.Semester)

		obtained := make(map[string]float64)
		for _, m := range d.Marks {
			if m.Roll == roll {
				obtained[m.SubjectID] = m.Obtained
			}
		}
		for _, sub := range d.Subjects {
			if !matchCourseSemester(sub.Course, sub.Semester, course, semester) {
				continue
			}
			v, ok := obtained[sub.ID]
			rows = append(rows, MarkSheetRow{Subject: sub, Obtained: v, HasMark: ok})
		}
	})
	if !found {
		return nil, fmt.Errorf("%w: no student with roll %q", ErrNotFound, roll)
	}
	return rows, nil
}
