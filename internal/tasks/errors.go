package tasks

import "errors"

var (
	// ErrEmptyInput is returned when add or edit receives blank text.
	ErrEmptyInput = errors.New("task text is empty")

	// ErrCancelled is returned when the user declines an edit or a removal.
	ErrCancelled = errors.New("cancelled by user")

	// ErrMissingID is returned when no task has the requested id.
	ErrMissingID = errors.New("task not found")

	// ErrCorruptData is returned when the persisted list cannot be decoded.
	ErrCorruptData = errors.New("persisted tasks are malformed")

	// ErrIDsExhausted is returned by Add once the largest id has been handed out.
	ErrIDsExhausted = errors.New("no task ids left")

	// ErrUnknownStatus is returned by ParseStatus.
	ErrUnknownStatus = errors.New("unknown status filter")
)
