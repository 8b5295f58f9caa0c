package meetings

import (
	"strings"
	"time"
)

// Status is the lifecycle state of a meeting. SCHEDULED is the only
// entry state; the other four are terminal for the record (a
// reschedule continues the funnel through a brand-new booking).
type Status string

const (
	StatusScheduled   Status = "SCHEDULED"
	StatusCompleted   Status = "COMPLETED"
	StatusCancelled   Status = "CANCELLED"
	StatusNoShow      Status = "NO_SHOW"
	StatusRescheduled Status = "RESCHEDULED"
)

// Terminal reports whether no further transition may leave this state.
func (s Status) Terminal() bool {
	return s != StatusScheduled && s != ""
}

// Action is a requested lifecycle transition.
type Action string

const (
	ActionComplete   Action = "complete"
	ActionNoShow     Action = "no_show"
	ActionCancel     Action = "cancel"
	ActionReschedule Action = "reschedule"
)

// ParseAction normalizes a user-supplied action name.
func ParseAction(s string) (Action, bool) {
	switch Action(strings.ToLower(strings.TrimSpace(s))) {
	case ActionComplete:
		return ActionComplete, true
	case ActionNoShow:
		return ActionNoShow, true
	case ActionCancel:
		return ActionCancel, true
	case ActionReschedule:
		return ActionReschedule, true
	}
	return "", false
}

// Meeting is a booked appointment between the team and a client.
type Meeting struct {
	ID              string    `json:"id"`
	ClientID        string    `json:"client_id"`
	Date            time.Time `json:"date"`
	Duration        int       `json:"duration"` // minutes
	CalendarEventID string    `json:"calendar_event_id,omitempty"`
	JoinLink        string    `json:"join_link,omitempty"`
	Status          Status    `json:"status"`
	Remarks         string    `json:"remarks,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// End returns the exclusive end of the meeting interval.
func (m *Meeting) End() time.Time {
	return m.Date.Add(time.Duration(m.Duration) * time.Minute)
}
