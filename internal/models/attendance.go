package models

// AttendanceStatus is the presence state recorded for a student on a date.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
)

// Valid reports whether s is one of the known statuses.
func (s AttendanceStatus) Valid() bool {
	return s == StatusPresent || s == StatusAbsent
}

// AttendanceRecord is the presence of one student on one calendar date.
// (Date, Roll) identifies a record; saving again replaces it.
type AttendanceRecord struct {
	// Date is a calendar date string in YYYY-MM-DD form.
	Date   string           `json:"date"`
	Roll   string           `json:"roll"`
	Status AttendanceStatus `json:"status"`
}
