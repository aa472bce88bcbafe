package models

import "errors"

// ErrNotFound reports that a referenced record (hardware profile, benchmark,
// service level, pricing) has no row. It is a configuration-completeness
// signal the caller must surface, not a transient failure to retry.
var ErrNotFound = errors.New("not found")

// ErrInvalidConfiguration reports reference data that would make the
// derivation meaningless: non-positive token counts, response times, or
// concurrency figures, or ratios outside (0,1]. Rejected before computation.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidConfiguration reports whether err wraps ErrInvalidConfiguration.
func IsInvalidConfiguration(err error) bool {
	return errors.Is(err, ErrInvalidConfiguration)
}
