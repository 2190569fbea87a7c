package service

import (
	"context"
	"log/slog"
	"slices"

	"github.com/mmynk/rollbook/internal/calculator"
	"github.com/mmynk/rollbook/internal/models"
)

// AttendanceService records daily attendance and summarizes it.
type AttendanceService struct {
	store DataStore
}

// NewAttendanceService creates a new AttendanceService over the given store.
func NewAttendanceService(store DataStore) *AttendanceService {
	return &AttendanceService{store: store}
}

// AttendanceEntry is one student's status in a MarkForDate batch.
type AttendanceEntry struct {
	Roll   string
	Status models.AttendanceStatus
}

// MarkForDate records each entry for date, replacing any record already held
// for the same (date, roll). The batch is saved once.
func (s *AttendanceService) MarkForDate(ctx context.Context, date string, entries []AttendanceEntry) error {
	slog.Info("MarkAttendance request received", "date", date, "entries_count", len(entries))

	err := s.store.Update(ctx, func(d *models.Data) error {
		for _, e := range entries {
			d.Attendance = slices.DeleteFunc(d.Attendance, func(a models.AttendanceRecord) bool {
				return a.Date == date && a.Roll == e.Roll
			})
			d.Attendance = append(d.Attendance, models.AttendanceRecord{Date: date, Roll: e.Roll, Status: e.Status})
		}
		return nil
	})
	if err != nil {
		slog.Error("MarkAttendance failed", "date", date, "error", err)
		return err
	}
	return nil
}

// Roster returns the students matching course and semester: the people to
// mark in an attendance session. It does not read past attendance.
func (s *AttendanceService) Roster(course, semester string) []models.Student {
	var out []models.Student
	s.store.View(func(d *models.Data) {
		for _, st := range d.Students {
			if matchCourseSemester(st.Course, st.Semester, course, semester) {
				out = append(out, st)
			}
		}
	})
	return out
}

// Summary returns roll's attendance across every recorded date.
// Unknown rolls summarize as zeros.
func (s *AttendanceService) Summary(roll string) calculator.AttendanceSummary {
	var sum calculator.AttendanceSummary
	s.store.View(func(d *models.Data) { sum = attendanceFor(d, roll) })
	return sum
}

// RecordsFor returns every attendance record for roll.
func (s *AttendanceService) RecordsFor(roll string) []models.AttendanceRecord {
	return s.records(func(a models.AttendanceRecord) bool { return a.Roll == roll })
}

// RecordsOn returns every attendance record for date.
func (s *AttendanceService) RecordsOn(date string) []models.AttendanceRecord {
	return s.records(func(a models.AttendanceRecord) bool { return a.Date == date })
}

func (s *AttendanceService) records(keep func(models.AttendanceRecord) bool) []models.AttendanceRecord {
	var out []models.AttendanceRecord
	s.store.View(func(d *models.Data) {
		for _, a := range d.Attendance {
			if keep(a) {
				out = append(out, a)
			}
		}
	})
	return out
}

func attendanceFor(d *models.Data, roll string) calculator.AttendanceSummary {
	var statuses []models.AttendanceStatus
	for _, a := range d.Attendance {
		if a.Roll == roll {
			statuses = append(statuses, a.Status)
		}
	}
	return calculator.Attendance(statuses)
}
