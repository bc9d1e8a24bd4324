package engine

import "errors"

var (
	// ErrValidation indicates a validation failure.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates a session or layer was not found.
	ErrNotFound = errors.New("not found")

	// ErrExists indicates a session already exists.
	ErrExists = errors.New("already exists")

	// ErrAmbiguous indicates a layer reference matched more than one layer.
	ErrAmbiguous = errors.New("ambiguous layer reference")
)
