package models

// Subject is one entry in the subject catalog.
// Subjects are only ever appended; identical course/semester/name entries may coexist.
type Subject struct {
	// ID is the unique identifier for the subject (UUID format).
	ID string `json:"id"`

	Course   string `json:"course"`
	Semester string `json:"semester"`
	Name     string `json:"name"`

	// MaxMarks is the full score for the subject.
	// Marks against a subject with MaxMarks <= 0 are ignored by GPA calculation.
	MaxMarks float64 `json:"maxMarks"`
}

// Mark is the score one student obtained in one subject.
// (Roll, SubjectID) identifies a mark; there is at most one per pair.
type Mark struct {
	Roll      string  `json:"roll"`
	SubjectID string  `json:"subjectId"`
	Obtained  float64 `json:"obtained"`
}
