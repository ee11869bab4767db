package export

import "errors"

var (
	// ErrOutDirNotFound is returned when the output directory does not exist.
	ErrOutDirNotFound = errors.New("output directory not found")

	// ErrInvalidJob is returned for jobs missing an input, mass or output directory.
	ErrInvalidJob = errors.New("invalid export job")

	// ErrInvalidDelimiter is returned for delimiters csv cannot use.
	ErrInvalidDelimiter = errors.New("invalid delimiter")

	// ErrBatchFailed is returned when at least one job of a batch failed.
	ErrBatchFailed = errors.New("batch had failed jobs")
)
