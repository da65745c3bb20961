package ir

import "errors"

var (
	// ErrUnknownKind is returned for entries whose kind is not in the closed set.
	ErrUnknownKind = errors.New("unknown entry kind")

	// ErrInvalidEntry wraps structural validation failures.
	ErrInvalidEntry = errors.New("invalid entry")
)
