package models

// Student represents a person on the register.
type Student struct {
	// ID is the internal identifier (UUID format).
	// Assigned once on insert and never changed or reused.
	ID string `json:"id"`

	// Roll is the human-facing identifier.
	// Unique across students using case-sensitive exact comparison.
	Roll string `json:"roll"`

	Name     string `json:"name"`
	Course   string `json:"course"`
	Semester string `json:"semester"`

	// DOB is the date of birth as entered (usually YYYY-MM-DD).
	DOB string `json:"dob"`

	Gender      string `json:"gender"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	ParentPhone string `json:"parentPhone"`
	Address     string `json:"address"`

	// Blood is the blood group (e.g., "O+").
	Blood string `json:"blood"`
}
