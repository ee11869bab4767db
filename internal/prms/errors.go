package prms

import "errors"

var (
	// ErrConfigNotFound is returned when an explicitly requested parameter
	// file does not exist.
	ErrConfigNotFound = errors.New("parameter file not found")

	// ErrConfigInvalid is returned when an explicitly requested parameter
	// file cannot be parsed.
	ErrConfigInvalid = errors.New("parameter file is not valid")

	// ErrUnknownSearchLocation is returned for search order entries other
	// than curdir, filedir and userdir.
	ErrUnknownSearchLocation = errors.New("unknown search location")
)
