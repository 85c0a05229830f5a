package service

import "errors"

// Sentinel errors the controllers translate to HTTP status codes.
var (
	// ErrInvalidInput maps to 400.
	ErrInvalidInput = errors.New("invalid input")
	// ErrJobNotFound maps to 404.
	ErrJobNotFound = errors.New("job not found")
	// ErrNotCancellable maps to 409: the job already reached a terminal state.
	ErrNotCancellable = errors.New("job is not cancellable")
	// ErrJobNotCompleted maps to 409: results exist only for completed jobs.
	ErrJobNotCompleted = errors.New("job has not completed")
)
