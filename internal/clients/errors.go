package clients

import "errors"

var (
	// ErrClientNotFound is returned when no client matches the lookup.
	ErrClientNotFound = errors.New("client not found")

	// ErrMissingPhone is returned when a capture has no phone number.
	ErrMissingPhone = errors.New("phone is required")
)
