package repositories

import "errors"

// Repository error types
var (
	// ErrNotFound is returned when no row matches the requested key.
	ErrNotFound = errors.New("record not found")
	// ErrStudentNotFound is returned when a student is not found.
	ErrStudentNotFound = ErrNotFound
	// ErrDuplicateEmail is returned when the email unique constraint rejects a write.
	ErrDuplicateEmail = errors.New("student with this email already exists")
	// ErrStudentReferenced is returned when dependent records block a delete.
	ErrStudentReferenced = errors.New("student is referenced by other records and cannot be deleted")
	// ErrNothingToUpdate is returned for an update that names no columns.
	ErrNothingToUpdate = errors.New("no columns to update")
)
