package booking

import "errors"

var (
	// ErrMissingClient is returned when a booking request names no client.
	ErrMissingClient = errors.New("booking: client id required")
	// ErrMissingSlotStart is returned when a booking request has no start time.
	ErrMissingSlotStart = errors.New("booking: slot start required")
	// ErrSlotTaken is returned when the requested slot collides with a
	// committed meeting or busy calendar time.
	ErrSlotTaken = errors.New("booking: slot no longer available")
	// ErrContended is returned when another request holds the lock for
	// the same meeting or day.
	ErrContended = errors.New("booking: resource busy, retry")
	// ErrUnauthorized is returned before any mutation when the acting
	// role may not run a bulk cancellation.
	ErrUnauthorized = errors.New("booking: role not permitted")
	// ErrUnknownScope is returned for an unrecognized batch scope.
	ErrUnknownScope = errors.New("booking: unknown cancellation scope")
)
