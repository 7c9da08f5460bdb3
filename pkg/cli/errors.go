package cli

import "errors"

var (
	// ErrValidationFailed is returned when the input document does not
	// satisfy its schema. The details have already been written to the
	// error stream.
	ErrValidationFailed = errors.New("validation failed")

	ErrUnknownSchema  = errors.New("unknown schema")
	ErrUnknownFormat  = errors.New("unknown output format")
	ErrInvalidInput   = errors.New("invalid input document")
	ErrReadingInput   = errors.New("failed to read input")
	ErrWatchingFiles  = errors.New("failed to watch files")
	ErrStdinWithWatch = errors.New("cannot watch standard input")
)
