package calculator

import "github.com/mmynk/rollbook/internal/models"

// AttendanceSummary is a student's attendance over all recorded dates.
type AttendanceSummary struct {
	Total   int
	Present int
	Percent float64 // 0-100
}

// Attendance summarizes a student's attendance statuses.
// With no records the result is all zeros rather than a division by zero.
func Attendance(statuses []models.AttendanceStatus) AttendanceSummary {
	if len(statuses) == 0 {
		return AttendanceSummary{}
	}
	present := 0
	for _, s := range statuses {
		if s == models.StatusPresent {
			present++
		}
	}
	return AttendanceSummary{
		Total:   len(statuses),
		Present: present,
		Percent: float64(present) / float64(len(statuses)) * 100,
	}
}
