// Package calendar abstracts the external calendar the booking
// lifecycle and availability resolver talk to. Every implementation is
// treated as unreliable remote I/O: callers bound each call with a
// timeout and degrade on failure instead of aborting local state.
package calendar

import (
	"context"
	"time"

	"github.com/trivern/leadflow/internal/availability"
)

// EventInput describes the calendar event created for a booking.
type EventInput struct {
	Summary       string
	Description   string
	Start         time.Time
	End           time.Time
	AttendeeEmail string
}

// Event is the created calendar event.
type Event struct {
	ID       string
	JoinLink string
}

// Service is the external calendar collaborator.
type Service interface {
	// BusyIntervals returns busy ranges inside [from, to).
	BusyIntervals(ctx context.Context, from, to time.Time) ([]availability.BusyInterval, error)
	// CreateEvent creates an event with a video-conference link when
	// the provider supports one.
	CreateEvent(ctx context.Context, in EventInput) (*Event, error)
	// DeleteEvent removes a previously created event.
	DeleteEvent(ctx context.Context, eventID string) error
}
