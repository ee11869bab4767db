package arbin

import "errors"

var (
	// ErrResultNotFound is returned by Open when the result file does not exist.
	ErrResultNotFound = errors.New("result file not found")

	// ErrMissingTable is returned by Open when a required table is absent.
	ErrMissingTable = errors.New("required table missing")

	// ErrNoData is returned by Load when the file holds no test or no data points.
	ErrNoData = errors.New("no data in result file")

	// ErrNotLoaded is returned when data is requested before Load.
	ErrNotLoaded = errors.New("result file not loaded")

	// ErrMassNotSet is returned when a mass-normalized value is requested
	// without a positive mass.
	ErrMassNotSet = errors.New("mass not set")

	// ErrCycleNotFound is returned for cycle numbers absent from the data.
	ErrCycleNotFound = errors.New("cycle not found")

	// ErrEmptyCycle is returned for cycles without charge or discharge points.
	ErrEmptyCycle = errors.New("cycle has no charge or discharge data")
)
