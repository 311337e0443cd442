package series

import "errors"

var (
	// ErrEmptyState is returned for a state-scoped record without a state.
	ErrEmptyState = errors.New("series: empty state")
	// ErrInvalidPeriod is returned when the record period is zero.
	ErrInvalidPeriod = errors.New("series: invalid period")
	// ErrInvalidScope is returned when the scope is not a zone or National.
	ErrInvalidScope = errors.New("series: invalid scope")
	// ErrNoRecords is returned by range queries over an empty series.
	ErrNoRecords = errors.New("series: no records")
)
