package domain

import "errors"

var (
	// ErrNotFound is returned when no task exists with the requested ID.
	ErrNotFound = errors.New("task not found")

	// ErrConstraintViolation is returned when a write would break a column
	// constraint: a duplicate title or a value longer than its column.
	ErrConstraintViolation = errors.New("constraint violation")
)
