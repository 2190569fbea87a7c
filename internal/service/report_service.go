package service

import (
	"github.com/mmynk/rollbook/internal/calculator"
	"github.com/mmynk/rollbook/internal/models"
)

// ReportService derives GPA, attendance and fee figures across all collections.
// It only reads; in particular it never creates fee records.
type ReportService struct {
	store DataStore
}

// NewReportService creates a new ReportService over the given store.
func NewReportService(store DataStore) *ReportService {
	return &ReportService{store: store}
}

// Dashboard holds the headline figures.
type Dashboard struct {
	TotalStudents     int
	AverageGPA        float64
	AverageAttendance float64 // percent
	TotalOutstanding  float64
}

// RosterRow is one student's line in a roster report.
type RosterRow struct {
	Student    models.Student
	GPA        float64
	Attendance calculator.AttendanceSummary
	Fee        calculator.FeeInfo
}

// GPAForStudent returns roll's GPA on a 0-10 scale. Marks against missing
// subjects or subjects with no maximum are ignored; no countable marks is 0.
func (s *ReportService) GPAForStudent(roll string) float64 {
	var gpa float64
	s.store.View(func(d *models.Data) { gpa = gpaFor(d, roll) })
	return gpa
}

// AverageGPA averages GPA over students whose GPA is above zero. Students
// without marks are excluded, and so is anyone who genuinely scored zero.
func (s *ReportService) AverageGPA() float64 {
	var avg float64
	s.store.View(func(d *models.Data) { avg = averageGPA(d) })
	return avg
}

// AverageAttendance averages attendance percent over students with at least
// one attendance record.
func (s *ReportService) AverageAttendance() float64 {
	var avg float64
	s.store.View(func(d *models.Data) { avg = averageAttendance(d) })
	return avg
}

// TotalOutstandingFees sums max(0, total - paid) over every fee record,
// including records whose roll no longer belongs to a student.
func (s *ReportService) TotalOutstandingFees() float64 {
	var total float64
	s.store.View(func(d *models.Data) { total = calculator.Outstanding(d.Fees) })
	return total
}

// Dashboard computes all headline figures from one consistent view.
func (s *ReportService) Dashboard() Dashboard {
	var db Dashboard
	s.store.View(func(d *models.Data) {
		db = Dashboard{
			TotalStudents:     len(d.Students),
			AverageGPA:        averageGPA(d),
			AverageAttendance: averageAttendance(d),
			TotalOutstanding:  calculator.Outstanding(d.Fees),
		}
	})
	return db
}

// Roster returns a report row for each student matching f.
func (s *ReportService) Roster(f StudentFilter) []RosterRow {
	var rows []RosterRow
	s.store.View(func(d *models.Data) {
		for _, st := range d.Students {
			if !f.Match(st) {
				continue
			}
			fee := models.FeeRecord{Roll: st.Roll}
			if idx := d.FeeRecordIndex(st.Roll); idx >= 0 {
				fee = d.Fees[idx]
			}
			rows = append(rows, RosterRow{
				Student:    st,
				GPA:        gpaFor(d, st.Roll),
				Attendance: attendanceFor(d, st.Roll),
				Fee:        calculator.Fee(fee),
			})
		}
	})
	return rows
}

func gpaFor(d *models.Data, roll string) float64 {
	var scores []calculator.MarkScore
	for _, m := range d.Marks {
		if m.Roll != roll {
			continue
		}
		sub, ok := d.SubjectByID(m.SubjectID)
		scores = append(scores, calculator.MarkScore{
			Obtained: m.Obtained,
			MaxMarks: sub.MaxMarks,
			Found:    ok,
		})
	}
	return calculator.GPA(scores)
}

func averageGPA(d *models.Data) float64 {
	values := make([]float64, len(d.Students))
	for i, st := range d.Students {
		values[i] = gpaFor(d, st.Roll)
	}
	return calculator.AverageNonZero(values)
}

// averageAttendance counts students with records even when their percent is 0,
// unlike averageGPA.
func averageAttendance(d *models.Data) float64 {
	var sum float64
	var counted int
	for _, st := range d.Students {
		summary := attendanceFor(d, st.Roll)
		if summary.Total > 0 {
			sum += summary.Percent
			counted++
		}
	}
	if counted == 0 {
		return 0
	}
	return sum / float64(counted)
}
