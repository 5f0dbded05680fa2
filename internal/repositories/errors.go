package repositories

import "errors"

var (
	// ErrNotFound is returned (wrapped) when a lookup matches no record.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned (wrapped) when a write violates a unique key.
	ErrConflict = errors.New("record conflicts with an existing one")
)
