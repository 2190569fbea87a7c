package service

import "errors"

var (
	// ErrDuplicateKey is returned when a write would give two students the same roll
	// (or the same id).
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrNotFound is returned when an operation names a student that does not exist.
	ErrNotFound = errors.New("not found")
)
