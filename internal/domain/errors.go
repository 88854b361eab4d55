package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrMissingFields     = errors.New("missing required fields")
	ErrProviderFailure   = errors.New("provider failure")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrStaleWrite        = errors.New("job is no longer processing")
)
