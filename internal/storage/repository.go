// Package storage holds the error contract shared by storage backends.
//
// Backends translate engine-specific failures into these sentinels so domain services can
// tell an atomic uniqueness rejection apart from an opaque infrastructure failure.
package storage

import "errors"

var (
	// ErrNotFound is returned when a lookup or update matches no row.
	ErrNotFound = errors.New("storage: not found")

	// ErrConflict is returned when an insert violates a uniqueness constraint.
	ErrConflict = errors.New("storage: unique constraint violated")

	// ErrForeignKey is returned when a row references a parent that does not exist.
	ErrForeignKey = errors.New("storage: referenced row does not exist")
)
