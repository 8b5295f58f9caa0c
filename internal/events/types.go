package events

import "time"

// Event names dispatched through the outbox. Downstream automation
// (the WhatsApp workflow engine) keys its message templates on these.
const (
	TypeLeadEscalated      = "lead_escalated"
	TypeBookingConfirmed   = "booking_confirmed"
	TypeMeetingCancelled   = "meeting_cancelled"
	TypeMeetingNoShow      = "meeting_no_show"
	TypeMeetingRescheduled = "meeting_rescheduled"
)

type LeadEscalatedV1 struct {
	EventID  string    `json:"event_id"`
	ClientID string    `json:"client_id"`
	Name     string    `json:"name"`
	Phone    string    `json:"phone"`
	Tier     string    `json:"tier"`
	Score    int       `json:"score"`
	Reasons  []string  `json:"reasons"`
	RaisedAt time.Time `json:"raised_at"`
}

type BookingConfirmedV1 struct {
	EventID   string    `json:"event_id"`
	ClientID  string    `json:"client_id"`
	MeetingID string    `json:"meeting_id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Company   string    `json:"company,omitempty"`
	Date      time.Time `json:"date"`
	Duration  int       `json:"duration"`
	JoinLink  string    `json:"join_link,omitempty"`
}

type MeetingCancelledV1 struct {
	EventID   string    `json:"event_id"`
	ClientID  string    `json:"client_id"`
	MeetingID string    `json:"meeting_id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Date      time.Time `json:"date"`
	Reason    string    `json:"reason"`
	Message   string    `json:"message"`
}

type MeetingNoShowV1 struct {
	EventID   string    `json:"event_id"`
	ClientID  string    `json:"client_id"`
	MeetingID string    `json:"meeting_id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Date      time.Time `json:"date"`
	Message   string    `json:"message"`
}

type MeetingRescheduledV1 struct {
	EventID   string `json:"event_id"`
	ClientID  string `json:"client_id"`
	MeetingID string `json:"meeting_id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Message   string `json:"message"`
}
