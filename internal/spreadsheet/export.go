// Package spreadsheet reads and writes Rollbook data as xlsx workbooks.
package spreadsheet

import (
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/mmynk/rollbook/internal/service"
)

const (
	RosterSheet  = "Roster"
	SummarySheet = "Summary"
)

var rosterHeader = []any{
	"Roll", "Name", "Course", "Semester", "Phone",
	"GPA", "Attendance %", "Present", "Days",
	"Fee Total", "Paid", "Due",
}

// ExportRoster writes a workbook with one Roster row per student and a
// Summary sheet holding the dashboard figures.
func ExportRoster(w io.Writer, db service.Dashboard, rows []service.RosterRow) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("Failed to close workbook", "error", err)
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), RosterSheet); err != nil {
		return fmt.Errorf("failed to name roster sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetSheetRow(RosterSheet, "A1", &rosterHeader); err != nil {
		return fmt.Errorf("failed to write roster header: %w", err)
	}
	if err := f.SetRowStyle(RosterSheet, 1, 1, bold); err != nil {
		return fmt.Errorf("failed to style roster header: %w", err)
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []any{
			r.Student.Roll, r.Student.Name, r.Student.Course, r.Student.Semester, r.Student.Phone,
			round2(r.GPA), round2(r.Attendance.Percent), r.Attendance.Present, r.Attendance.Total,
			r.Fee.Total, r.Fee.Paid, r.Fee.Due,
		}
		if err := f.SetSheetRow(RosterSheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write roster row %d: %w", i+2, err)
		}
	}
	if err := f.SetColWidth(RosterSheet, "B", "B", 24); err != nil {
		return err
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("failed to add summary sheet: %w", err)
	}
	summary := [][]any{
		{"Total Students", db.TotalStudents},
		{"Average GPA", round2(db.AverageGPA)},
		{"Average Attendance %", round2(db.AverageAttendance)},
		{"Total Outstanding", db.TotalOutstanding},
	}
	for i, line := range summary {
		if err := f.SetSheetRow(SummarySheet, fmt.Sprintf("A%d", i+1), &line); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}
	if err := f.SetColWidth(SummarySheet, "A", "A", 24); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	slog.Info("Roster exported", "rows", len(rows))
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
