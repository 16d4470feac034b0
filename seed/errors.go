package seed

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrDimensionMismatch is returned when embeddings in one run, or an
	// incremental run and the existing collection, disagree on vector size.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrInvalidConfig is returned when a seed configuration fails validation.
	ErrInvalidConfig = errors.New("invalid seed configuration")
)
