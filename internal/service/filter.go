package service

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/mmynk/rollbook/internal/models"
)

// StudentFilter narrows a student listing. Empty fields match everything.
type StudentFilter struct {
	// Search matches against name or roll.
	Search   string
	Course   string
	Semester string
}

// Match reports whether s passes every non-empty filter.
func (f StudentFilter) Match(s models.Student) bool {
	if f.Search != "" && !containsFold(s.Name, f.Search) && !containsFold(s.Roll, f.Search) {
		return false
	}
	return matchCourseSemester(s.Course, s.Semester, f.Course, f.Semester)
}

func matchCourseSemester(course, semester, wantCourse, wantSemester string) bool {
	if wantCourse != "" && !containsFold(course, wantCourse) {
		return false
	}
	if wantSemester != "" && !containsFold(semester, wantSemester) {
		return false
	}
	return true
}

// containsFold reports whether substr is within s, ignoring case.
// A new Caser per call since Casers are stateful.
func containsFold(s, substr string) bool {
	fold := cases.Fold()
	return strings.Contains(fold.String(s), fold.String(substr))
}
