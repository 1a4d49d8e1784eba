package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrEmptyKeyword    = errors.New("empty keyword")
	ErrSubmitFailed    = errors.New("job submission failed")
	ErrPollFailed      = errors.New("job poll failed")
	ErrCancelFailed    = errors.New("job cancellation failed")
	ErrSyncFailed      = errors.New("task list synchronization failed")
	ErrInvalidArgument = errors.New("invalid argument")
)
