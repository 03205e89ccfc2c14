package domain

import "errors"

var (
	// ErrNotFound is returned by repositories when no row matches
	ErrNotFound = errors.New("record not found")
	// ErrStatusConflict is returned when a conditional status update matched no row
	// because the row moved to another status in the meantime.
	ErrStatusConflict = errors.New("status changed concurrently")
	// ErrAlreadyExists is returned when a unique constraint rejects an insert
	ErrAlreadyExists = errors.New("record already exists")
)
