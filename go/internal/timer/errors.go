package timer

import "errors"

var (
	// ErrInvalidPreset is returned when a preset is not a positive number of seconds
	ErrInvalidPreset = errors.New("preset must be a positive number of seconds")

	// ErrNoRecord is returned by a Store that holds no timer record
	ErrNoRecord = errors.New("no stored timer record")

	// ErrMalformedRecord is returned when a stored record cannot be decoded or violates the timer invariants
	ErrMalformedRecord = errors.New("malformed timer record")
)
