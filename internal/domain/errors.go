package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig reports chunking parameters that would never terminate.
	ErrInvalidConfig = errors.New("invalid chunking config")

	// ErrDimensionMismatch reports heterogeneous vector sizes within one build.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrProvider reports a failed call to the external embedding or
	// generation provider.
	ErrProvider = errors.New("provider error")

	// ErrEmptyIndex reports a search against a zero-size index.
	ErrEmptyIndex = errors.New("search on empty index")
)

// BuildError wraps whatever made a store build fail. A failed build leaves the
// previously built snapshot untouched.
type BuildError struct {
	Store string
	Err   error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("building %s store: %v", e.Store, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}
