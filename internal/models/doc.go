// Package models defines the core domain models for Rollbook.
//
// # Collections
//
// Everything Rollbook knows lives in one Data document with five collections:
//   - Student: a person on the register, keyed by ID and by Roll
//   - Subject: a course/semester subject with its maximum marks
//   - Mark: marks obtained by one student in one subject
//   - AttendanceRecord: presence of one student on one date
//   - FeeRecord: assessed total and payment history for one student
//
// # Relationships
//
// Ledger rows reference students by Roll and marks reference subjects by ID.
// These are soft references: nothing enforces them, deleting a student leaves
// its attendance, marks and fees in place, and readers must treat a dangling
// reference as "no data". The lookup helpers on Data (SubjectByID,
// StudentByRoll, FeeRecordIndex) return a found flag or -1 instead of failing.
//
// # Serialization
//
// JSON field names match the persisted document ("students", "parentPhone",
// "subjectId", "maxMarks"...), so existing documents keep loading.
package models
