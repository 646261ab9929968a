package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// Refresh Errors.

	// ErrNoSourceURL indicates a source has no endpoint to fetch from.
	ErrNoSourceURL = errors.New("source has no url")

	// ErrFetchFailed indicates a repository document could not be fetched or parsed.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrSweepInProgress indicates a full refresh collided with a sweep
	// that is already running. Sweep itself reports this as a skip.
	ErrSweepInProgress = errors.New("sweep in progress")
)
