package analytics

import "errors"

var (
	// ErrNoRegions is returned for a query without any requested scope.
	ErrNoRegions = errors.New("analytics: no regions requested")
	// ErrInvalidRegion is returned for a scope that is neither a zone nor National.
	ErrInvalidRegion = errors.New("analytics: invalid region")
)
