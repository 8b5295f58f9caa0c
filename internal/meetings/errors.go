package meetings

import "errors"

var (
	// ErrMeetingNotFound is returned when no meeting matches the lookup.
	ErrMeetingNotFound = errors.New("meeting not found")

	// ErrNotSchedulable is returned when a transition is attempted from
	// a terminal state.
	ErrNotSchedulable = errors.New("meeting is not schedulable")
)
