package todo

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an operation references an id that is not stored.
	ErrNotFound = errors.New("todo not found")

	// ErrInvalidInput is the parent of every input validation error.
	ErrInvalidInput = errors.New("invalid input")

	ErrInvalidPriority = fmt.Errorf("%w: priority must be 1 (high), 2 (medium) or 3 (low)", ErrInvalidInput)
	ErrInvalidDeadline = fmt.Errorf("%w: deadline must be a date formatted as YYYY-MM-DD", ErrInvalidInput)
)
