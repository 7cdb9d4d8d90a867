package services

import (
	"errors"
	"fmt"
)

// Error taxonomy of the calculation engine. Every failure is fatal to the
// current operation; handlers translate these into HTTP responses and no
// partial result is ever persisted.
var (
	// ErrPrecondition marks invalid input detected before any computation.
	ErrPrecondition = errors.New("precondition violation")

	// ErrNotReady marks a missing upstream dependency (unsaved year 1,
	// missing ratios, incomplete financing terms, empty annual series).
	ErrNotReady = errors.New("dependency not ready")

	// ErrMissingConfig marks a selected option whose required parameter is
	// absent, e.g. cap-rate valuation without a cap rate.
	ErrMissingConfig = errors.New("missing configuration")
)

// ErrRatiosNotFound is returned when no benchmark row matches the project's
// segment, category and size bucket.
var ErrRatiosNotFound = fmt.Errorf("%w: no ratio row for segment/category/size bucket", ErrNotReady)

// ErrYearOneNotSaved is returned when a projection is requested before the
// Year-1 income statement has been calculated and saved.
var ErrYearOneNotSaved = fmt.Errorf("%w: year 1 income statement has not been saved", ErrNotReady)

func preconditionf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrPrecondition, fmt.Sprintf(format, args...))
}

func notReadyf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotReady, fmt.Sprintf(format, args...))
}

func missingConfigf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMissingConfig, fmt.Sprintf(format, args...))
}
