package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/mmynk/rollbook/internal/models"
)

var (
	// ErrNoSheet is returned for a workbook without sheets.
	ErrNoSheet = errors.New("workbook contains no sheets")
	// ErrMissingColumn is returned when the header lacks a roll or name column.
	ErrMissingColumn = errors.New("missing required column")
	// ErrMissingField is returned for a row without a roll or name.
	ErrMissingField = errors.New("missing roll or name")
)

// studentFields maps normalized header names to setters.
var studentFields = map[string]func(*models.Student, string){
	"roll":         func(s *models.Student, v string) { s.Roll = v },
	"name":         func(s *models.Student, v string) { s.Name = v },
	"course":       func(s *models.Student, v string) { s.Course = v },
	"semester":     func(s *models.Student, v string) { s.Semester = v },
	"dob":          func(s *models.Student, v string) { s.DOB = v },
	"gender":       func(s *models.Student, v string) { s.Gender = v },
	"phone":        func(s *models.Student, v string) { s.Phone = v },
	"email":        func(s *models.Student, v string) { s.Email = v },
	"parent phone": func(s *models.Student, v string) { s.ParentPhone = v },
	"address":      func(s *models.Student, v string) { s.Address = v },
	"blood":        func(s *models.Student, v string) { s.Blood = v },
}

// ReadStudents parses students from the first sheet of an xlsx workbook. The
// first row is a header naming the columns; unknown columns are ignored and
// blank rows skipped. Rows without a roll or name are reported by row number
// and no students are returned.
func ReadStudents(r io.Reader) ([]models.Student, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("Failed to close workbook", "error", err)
		}
	}()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, ErrNoSheet
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	setters := make([]func(*models.Student, string), len(rows[0]))
	seen := make(map[string]bool)
	for i, h := range rows[0] {
		key := normalizeHeader(h)
		if set, ok := studentFields[key]; ok {
			setters[i] = set
			seen[key] = true
		}
	}
	for _, required := range []string{"roll", "name"} {
		if !seen[required] {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}

	var (
		students []models.Student
		errs     []error
	)
	for i, row := range rows[1:] {
		rowNum := i + 2
		if blank(row) {
			continue
		}
		var st models.Student
		for col, v := range row {
			if col < len(setters) && setters[col] != nil {
				setters[col](&st, strings.TrimSpace(v))
			}
		}
		if st.Roll == "" || st.Name == "" {
			errs = append(errs, fmt.Errorf("row %d: %w", rowNum, ErrMissingField))
			continue
		}
		students = append(students, st)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return students, nil
}

// normalizeHeader lower-cases h and collapses separators, so "Parent_Phone"
// and " parent  phone" both read as "parent phone".
func normalizeHeader(h string) string {
	h = strings.NewReplacer("_", " ", "-", " ").Replace(strings.ToLower(h))
	return strings.Join(strings.Fields(h), " ")
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
