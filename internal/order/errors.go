package order

import "errors"

var (
	// ErrInvalidIndex indicates an index outside [0, len).
	ErrInvalidIndex = errors.New("invalid index")

	// ErrDesync indicates the two layer orderings disagree in length.
	ErrDesync = errors.New("layer orderings out of sync")
)
