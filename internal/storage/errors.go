package storage

import "errors"

var (
	// ErrNoSnapshot is returned when no graph was saved yet.
	ErrNoSnapshot = errors.New("no snapshot saved")

	// ErrNotFound is returned for names absent from the snapshot.
	ErrNotFound = errors.New("not found in snapshot")
)
