package domain

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist or is not
	// visible to the caller.
	ErrNotFound = errors.New("record not found")
	// ErrQuotaExceeded indicates the tier limit for a resource was reached.
	ErrQuotaExceeded = errors.New("quota exceeded")
	// ErrForbidden indicates the tier lacks the requested feature.
	ErrForbidden = errors.New("feature not available on current tier")
)
