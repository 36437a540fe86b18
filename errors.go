package dedupcache

import "errors"

// Sentinel errors returned by New. Steady-state operations never fail.
var (
	// ErrInvalidLimits is returned when the entry limits are not 0 < min < max.
	ErrInvalidLimits = errors.New("dedupcache: min limit must be positive and below max limit")

	// ErrInvalidPeriods is returned when time-based recycling is configured
	// with a ramp-up boundary that would fall after the recycle boundary,
	// or with a negative duration.
	ErrInvalidPeriods = errors.New("dedupcache: ramp-up threshold must not exceed recycle period")
)
