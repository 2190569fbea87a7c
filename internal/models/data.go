package models

import "slices"

// Data is the whole persisted document: five named collections.
type Data struct {
	Students   []Student          `json:"students"`
	Attendance []AttendanceRecord `json:"attendance"`
	Subjects   []Subject          `json:"subjects"`
	Marks      []Mark             `json:"marks"`
	Fees       []FeeRecord        `json:"fees"`
}

// NewData returns the default document with every collection empty (not nil),
// so it serializes as empty arrays.
func NewData() *Data {
	return &Data{
		Students:   []Student{},
		Attendance: []AttendanceRecord{},
		Subjects:   []Subject{},
		Marks:      []Mark{},
		Fees:       []FeeRecord{},
	}
}

// FillDefaults replaces any nil collection with an empty one.
// Used after decoding documents that predate a collection.
func (d *Data) FillDefaults() {
	if d.Students == nil {
		d.Students = []Student{}
	}
	if d.Attendance == nil {
		d.Attendance = []AttendanceRecord{}
	}
	if d.Subjects == nil {
		d.Subjects = []Subject{}
	}
	if d.Marks == nil {
		d.Marks = []Mark{}
	}
	if d.Fees == nil {
		d.Fees = []FeeRecord{}
	}
	for i := range d.Fees {
		if d.Fees[i].Payments == nil {
			d.Fees[i].Payments = []Payment{}
		}
	}
}

// Clone returns a deep copy of d.
func (d *Data) Clone() *Data {
	c := &Data{
		Students:   slices.Clone(d.Students),
		Attendance: slices.Clone(d.Attendance),
		Subjects:   slices.Clone(d.Subjects),
		Marks:      slices.Clone(d.Marks),
		Fees:       make([]FeeRecord, len(d.Fees)),
	}
	for i, f := range d.Fees {
		f.Payments = slices.Clone(f.Payments)
		c.Fees[i] = f
	}
	c.FillDefaults()
	return c
}

// Counts returns the number of entries in each collection, keyed by the
// collection's document name.
func (d *Data) Counts() map[string]int {
	return map[string]int{
		"students":   len(d.Students),
		"attendance": len(d.Attendance),
		"subjects":   len(d.Subjects),
		"marks":      len(d.Marks),
		"fees":       len(d.Fees),
	}
}

// StudentIndex returns the position of the student with the given ID, or -1.
func (d *Data) StudentIndex(id string) int {
	return slices.IndexFunc(d.Students, func(s Student) bool { return s.ID == id })
}

// StudentByRoll resolves a roll to a student. Missing rolls report false.
func (d *Data) StudentByRoll(roll string) (Student, bool) {
	i := slices.IndexFunc(d.Students, func(s Student) bool { return s.Roll == roll })
	if i < 0 {
		return Student{}, false
	}
	return d.Students[i], true
}

// RollTaken reports whether a student other than exceptID holds roll.
// Pass an empty exceptID to check against every student.
func (d *Data) RollTaken(roll, exceptID string) bool {
	return slices.ContainsFunc(d.Students, func(s Student) bool {
		return s.Roll == roll && (exceptID == "" || s.ID != exceptID)
	})
}

// SubjectByID resolves a mark's subject reference. Dangling IDs report false.
func (d *Data) SubjectByID(id string) (Subject, bool) {
	i := slices.IndexFunc(d.Subjects, func(s Subject) bool { return s.ID == id })
	if i < 0 {
		return Subject{}, false
	}
	return d.Subjects[i], true
}

// FeeRecordIndex returns the position of the fee record for roll, or -1.
func (d *Data) FeeRecordIndex(roll string) int {
	return slices.IndexFunc(d.Fees, func(f FeeRecord) bool { return f.Roll == roll })
}

// EnsureFeeRecord returns the index of the fee record for roll, appending an
// empty one (Total 0, no payments) when none exists.
func (d *Data) EnsureFeeRecord(roll string) (idx int, created bool) {
	if i := d.FeeRecordIndex(roll); i >= 0 {
		return i, false
	}
	d.Fees = append(d.Fees, FeeRecord{Roll: roll, Payments: []Payment{}})
	return len(d.Fees) - 1, true
}
