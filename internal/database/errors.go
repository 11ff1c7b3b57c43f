package database

import "errors"

var (
	// ErrNotFound is returned when a resource, reservation or account does
	// not exist.
	ErrNotFound = errors.New("not found")

	// ErrNotAvailable is returned when a resource already has an active
	// reservation conflicting with the requested interval.
	ErrNotAvailable = errors.New("resource not available")
)
