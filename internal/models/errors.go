package models

import "errors"

var (
	// ErrNotFound is returned when an entity id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidReference is returned when a foreign key does not resolve
	// to an existing entity.
	ErrInvalidReference = errors.New("invalid reference")
	// ErrConflict is returned when a referential guard is violated or a
	// concurrent writer won a race on the same order.
	ErrConflict = errors.New("conflict")
)
