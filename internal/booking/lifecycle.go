// Package booking owns the meeting lifecycle: booking a slot, moving a
// meeting through its terminal transitions, and bulk emergency
// cancellation. All writes happen here; availability stays read-only.
package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/trivern/leadflow/internal/availability"
	"github.com/trivern/leadflow/internal/calendar"
	"github.com/trivern/leadflow/internal/clients"
	"github.com/trivern/leadflow/internal/events"
	"github.com/trivern/leadflow/internal/meetings"
	"github.com/trivern/leadflow/internal/notify"
	"github.com/trivern/leadflow/pkg/logging"
)

var bookingTracer = otel.Tracer("leadflow.internal.booking")

const (
	// DefaultDuration is the meeting length when a request omits one.
	DefaultDuration = 30 // minutes

	// DefaultCancelReason fills in when a cancellation gives none.
	DefaultCancelReason = "a schedule conflict"

	// calendarTimeout bounds every external calendar call so a slow
	// provider cannot stall a booking.
	calendarTimeout = 10 * time.Second
)

// Roles allowed to run bulk emergency cancellations.
const (
	RoleAdmin    = "ADMIN"
	RoleEmployee = "EMPLOYEE"
)

// Batch cancellation scopes.
const (
	ScopeToday     = "today"
	ScopeNextOne   = "next-one"
	ScopeNext7Days = "next-7-days"
)

// BookRequest asks for a meeting at a specific slot.
type BookRequest struct {
	ClientID  string    `json:"client_id"`
	SlotStart time.Time `json:"slot_start"`
	Duration  int       `json:"duration,omitempty"` // minutes
	Notes     string    `json:"notes,omitempty"`
}

// BookResult is a confirmed booking plus the client-facing confirmation.
type BookResult struct {
	Meeting      *meetings.Meeting `json:"meeting"`
	Confirmation string            `json:"confirmation"`
}

// BatchSummary reports a bulk cancellation.
type BatchSummary struct {
	Cancelled      int      `json:"cancelled"`
	ClientMessages []string `json:"client_messages"`
	OwnerMessage   string   `json:"owner_message"`
}

// Lifecycle coordinates repositories, the external calendar and the
// notification outbox for every meeting state change.
type Lifecycle struct {
	clients  clients.Repository
	meetings meetings.Repository
	settings SettingsRepository
	calendar calendar.Service // nil when no calendar is configured
	sink     notify.Sink
	locker   Locker
	logger   *logging.Logger
	now      func() time.Time
}

// NewLifecycle builds the service. Calendar is attached separately via
// WithCalendar because deployments without credentials run without one.
func NewLifecycle(clientRepo clients.Repository, meetingRepo meetings.Repository, settings SettingsRepository, sink notify.Sink, locker Locker, logger *logging.Logger) *Lifecycle {
	if clientRepo == nil || meetingRepo == nil || settings == nil {
		panic("booking: repositories required")
	}
	if sink == nil {
		panic("booking: notification sink required")
	}
	if locker == nil {
		locker = NewInMemoryLocker()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Lifecycle{
		clients:  clientRepo,
		meetings: meetingRepo,
		settings: settings,
		sink:     sink,
		locker:   locker,
		logger:   logger,
		now:      time.Now,
	}
}

// WithCalendar attaches the external calendar.
func (l *Lifecycle) WithCalendar(svc calendar.Service) *Lifecycle {
	l.calendar = svc
	return l
}

// WithClock overrides the time source.
func (l *Lifecycle) WithClock(now func() time.Time) *Lifecycle {
	if now != nil {
		l.now = now
	}
	return l
}

// Book reserves the requested slot, re-checking conflicts under a
// per-day lock so two racing requests cannot both take it. The
// calendar event is best-effort; a provider failure books the meeting
// without a link.
func (l *Lifecycle) Book(ctx context.Context, req BookRequest) (*BookResult, error) {
	ctx, span := bookingTracer.Start(ctx, "booking.book")
	defer span.End()

	if req.ClientID == "" {
		return nil, ErrMissingClient
	}
	if req.SlotStart.IsZero() {
		return nil, ErrMissingSlotStart
	}
	if req.Duration <= 0 {
		req.Duration = DefaultDuration
	}
	span.SetAttributes(
		attribute.String("leadflow.client_id", req.ClientID),
		attribute.String("leadflow.slot_start", req.SlotStart.Format(time.RFC3339)),
	)

	client, err := l.clients.GetByID(ctx, req.ClientID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	settings, err := l.settings.Get(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	loc := settings.Location()
	start := req.SlotStart.In(loc)
	isoDate := start.Format("2006-01-02")

	token, err := l.locker.Acquire(ctx, "day:"+isoDate)
	if err != nil {
		// Lock store down: the conflict re-check below still runs, so we
		// degrade to optimistic booking rather than refusing service.
		l.logger.Warn("day lock unavailable, booking optimistically", "error", err, "date", isoDate)
	} else if token == "" {
		return nil, ErrContended
	} else {
		defer l.locker.Release(ctx, "day:"+isoDate, token)
	}

	if err := l.checkSlotFree(ctx, settings, start, req.Duration, isoDate, loc); err != nil {
		span.RecordError(err)
		return nil, err
	}

	eventID, joinLink := l.createCalendarEvent(ctx, client, start, req.Duration, req.Notes)

	created, err := l.meetings.Create(ctx, &meetings.Meeting{
		ClientID:        client.ID,
		Date:            start,
		Duration:        req.Duration,
		CalendarEventID: eventID,
		JoinLink:        joinLink,
		Status:          meetings.StatusScheduled,
		Remarks:         req.Notes,
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if err := l.clients.SetStatus(ctx, client.ID, clients.StatusBooked); err != nil {
		l.logger.Error("client status update failed after booking", "error", err, "client_id", client.ID, "meeting_id", created.ID)
	}

	l.dispatch(ctx, events.TypeBookingConfirmed, events.BookingConfirmedV1{
		EventID:   uuid.NewString(),
		ClientID:  client.ID,
		MeetingID: created.ID,
		Name:      client.Name,
		Phone:     client.Phone,
		Company:   client.Company,
		Date:      created.Date,
		Duration:  created.Duration,
		JoinLink:  created.JoinLink,
	})

	l.logger.Info("meeting booked",
		"meeting_id", created.ID,
		"client_id", client.ID,
		"date", created.Date.Format(time.RFC3339),
	)

	return &BookResult{
		Meeting:      created,
		Confirmation: notify.BookingConfirmationMessage(client.Name, created.Date, created.Duration, created.JoinLink, loc),
	}, nil
}

// checkSlotFree re-validates the slot at commit time: blocked date,
// day capacity, and buffered overlap against busy time. Availability
// results go stale the moment they are rendered; this is the authority.
func (l *Lifecycle) checkSlotFree(ctx context.Context, settings availability.Settings, start time.Time, duration int, isoDate string, loc *time.Location) error {
	if settings.IsBlocked(isoDate) {
		return ErrSlotTaken
	}

	y, m, d := start.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	count, err := l.meetings.CountCommittedOn(ctx, dayStart, dayEnd)
	if err != nil {
		return fmt.Errorf("booking: capacity check: %w", err)
	}
	if settings.MaxPerDay > 0 && count >= settings.MaxPerDay {
		return ErrSlotTaken
	}

	end := start.Add(time.Duration(duration) * time.Minute)
	busy, err := l.busyFor(ctx, dayStart, dayEnd, isoDate)
	if err != nil {
		return err
	}
	for _, b := range busy {
		if availability.Overlaps(start, end, b, settings.Buffer()) {
			return ErrSlotTaken
		}
	}
	return nil
}

func (l *Lifecycle) busyFor(ctx context.Context, dayStart, dayEnd time.Time, isoDate string) ([]availability.BusyInterval, error) {
	if l.calendar != nil {
		cctx, cancel := context.WithTimeout(ctx, calendarTimeout)
		busy, err := l.calendar.BusyIntervals(cctx, dayStart, dayEnd)
		cancel()
		if err == nil {
			return busy, nil
		}
		l.logger.Warn("calendar unavailable during booking, using stored meetings", "error", err, "date", isoDate)
	}
	busy, err := l.meetings.ScheduledIntervalsOn(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("booking: busy check for %s: %w", isoDate, err)
	}
	return busy, nil
}

func (l *Lifecycle) createCalendarEvent(ctx context.Context, client *clients.Client, start time.Time, duration int, notes string) (eventID, joinLink string) {
	if l.calendar == nil {
		return "", ""
	}
	cctx, cancel := context.WithTimeout(ctx, calendarTimeout)
	defer cancel()

	description := "Phone: " + client.Phone
	if notes != "" {
		description += "\n" + notes
	}
	ev, err := l.calendar.CreateEvent(cctx, calendar.EventInput{
		Summary:       "Consultation: " + displayName(client),
		Description:   description,
		Start:         start,
		End:           start.Add(time.Duration(duration) * time.Minute),
		AttendeeEmail: client.Email,
	})
	if err != nil {
		l.logger.Warn("calendar event creation failed, booking without link", "error", err, "client_id", client.ID)
		return "", ""
	}
	return ev.ID, ev.JoinLink
}

// Transition moves a SCHEDULED meeting into a terminal state and runs
// the state's side effects. The per-meeting lock keeps racing callers
// from both paying the side-effect cost; the repository's status guard
// keeps the state machine correct even without the lock.
func (l *Lifecycle) Transition(ctx context.Context, meetingID string, action meetings.Action, reason string) (*meetings.Meeting, error) {
	ctx, span := bookingTracer.Start(ctx, "booking.transition")
	defer span.End()
	span.SetAttributes(
		attribute.String("leadflow.meeting_id", meetingID),
		attribute.String("leadflow.action", string(action)),
	)

	token, err := l.locker.Acquire(ctx, "meeting:"+meetingID)
	if err != nil {
		l.logger.Warn("meeting lock unavailable, relying on status guard", "error", err, "meeting_id", meetingID)
	} else if token == "" {
		return nil, ErrContended
	} else {
		defer l.locker.Release(ctx, "meeting:"+meetingID, token)
	}

	target, ok := targetStatus(action)
	if !ok {
		return nil, fmt.Errorf("booking: unknown action %q", action)
	}

	m, err := l.meetings.UpdateStatus(ctx, meetingID, target, reason)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	client, cerr := l.clients.GetByID(ctx, m.ClientID)
	if cerr != nil {
		l.logger.Error("client lookup failed during transition", "error", cerr, "client_id", m.ClientID)
		client = &clients.Client{ID: m.ClientID}
	}

	settings, serr := l.settings.Get(ctx)
	if serr != nil {
		settings = availability.DefaultSettings()
	}
	loc := settings.Location()

	switch action {
	case meetings.ActionComplete:
		l.setClientStatus(ctx, client.ID, clients.StatusCompleted, m.ID)

	case meetings.ActionCancel:
		if reason == "" {
			reason = DefaultCancelReason
		}
		l.deleteCalendarEvent(ctx, m)
		l.setClientStatus(ctx, client.ID, clients.StatusContacted, m.ID)
		l.dispatch(ctx, events.TypeMeetingCancelled, events.MeetingCancelledV1{
			EventID:   uuid.NewString(),
			ClientID:  client.ID,
			MeetingID: m.ID,
			Name:      client.Name,
			Phone:     client.Phone,
			Date:      m.Date,
			Reason:    reason,
			Message:   notify.CancellationMessage(client.Name, reason),
		})

	case meetings.ActionNoShow:
		// The client keeps their funnel status: a no-show is an open
		// thread, not a lost lead.
		l.dispatch(ctx, events.TypeMeetingNoShow, events.MeetingNoShowV1{
			EventID:   uuid.NewString(),
			ClientID:  client.ID,
			MeetingID: m.ID,
			Name:      client.Name,
			Phone:     client.Phone,
			Date:      m.Date,
			Message:   notify.RescheduleOfferMessage(client.Name),
		})

	case meetings.ActionReschedule:
		l.deleteCalendarEvent(ctx, m)
		l.setClientStatus(ctx, client.ID, clients.StatusContacted, m.ID)
		l.dispatch(ctx, events.TypeMeetingRescheduled, events.MeetingRescheduledV1{
			EventID:   uuid.NewString(),
			ClientID:  client.ID,
			MeetingID: m.ID,
			Name:      client.Name,
			Phone:     client.Phone,
			Message:   notify.RescheduleMessage(client.Name),
		})
	}

	l.logger.Info("meeting transitioned",
		"meeting_id", m.ID,
		"action", string(action),
		"status", string(m.Status),
		"date", m.Date.In(loc).Format(time.RFC3339),
	)
	return m, nil
}

// EmergencyCancelBatch cancels every SCHEDULED meeting in scope and
// queues a personal apology per client. The role check runs before any
// read or write; an unauthorized caller changes nothing.
func (l *Lifecycle) EmergencyCancelBatch(ctx context.Context, actorRole, scope, reason string) (*BatchSummary, error) {
	ctx, span := bookingTracer.Start(ctx, "booking.emergency_cancel")
	defer span.End()
	span.SetAttributes(attribute.String("leadflow.scope", scope))

	switch strings.ToUpper(strings.TrimSpace(actorRole)) {
	case RoleAdmin, RoleEmployee:
	default:
		return nil, ErrUnauthorized
	}
	if reason == "" {
		reason = "an urgent situation"
	}

	settings, err := l.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	loc := settings.Location()
	now := l.now().In(loc)

	from, to, limit, err := batchWindow(scope, now, loc)
	if err != nil {
		return nil, err
	}

	scheduled, err := l.meetings.ListScheduledBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("booking: list scope %s: %w", scope, err)
	}
	if limit > 0 && len(scheduled) > limit {
		scheduled = scheduled[:limit]
	}

	summary := &BatchSummary{}
	var cancelled []string
	for _, m := range scheduled {
		// The status guard makes each cancellation race-safe; a meeting
		// transitioned concurrently is simply skipped.
		updated, err := l.meetings.UpdateStatus(ctx, m.ID, meetings.StatusCancelled, reason)
		if err != nil {
			l.logger.Warn("emergency cancel skipped meeting", "error", err, "meeting_id", m.ID)
			continue
		}

		client, cerr := l.clients.GetByID(ctx, updated.ClientID)
		if cerr != nil {
			l.logger.Error("client lookup failed during emergency cancel", "error", cerr, "client_id", updated.ClientID)
			client = &clients.Client{ID: updated.ClientID}
		}

		l.deleteCalendarEvent(ctx, updated)
		l.setClientStatus(ctx, client.ID, clients.StatusContacted, updated.ID)

		msg := notify.EmergencyCancelClientMessage(client.Name, updated.Date, loc)
		l.dispatch(ctx, events.TypeMeetingCancelled, events.MeetingCancelledV1{
			EventID:   uuid.NewString(),
			ClientID:  client.ID,
			MeetingID: updated.ID,
			Name:      client.Name,
			Phone:     client.Phone,
			Date:      updated.Date,
			Reason:    reason,
			Message:   msg,
		})

		summary.Cancelled++
		summary.ClientMessages = append(summary.ClientMessages, msg)
		cancelled = append(cancelled, fmt.Sprintf("%s at %s", displayName(client), notify.FormatMeetingTime(updated.Date, loc)))
	}

	summary.OwnerMessage = notify.EmergencyCancelOwnerSummary(cancelled)
	l.logger.Info("emergency cancellation finished", "scope", scope, "cancelled", summary.Cancelled)
	return summary, nil
}

// batchWindow maps a scope name to a search window and an optional
// result limit.
func batchWindow(scope string, now time.Time, loc *time.Location) (from, to time.Time, limit int, err error) {
	switch strings.ToLower(strings.TrimSpace(scope)) {
	case ScopeToday:
		y, m, d := now.Date()
		return now, time.Date(y, m, d+1, 0, 0, 0, 0, loc), 0, nil
	case ScopeNextOne:
		return now, now.AddDate(0, 0, 30), 1, nil
	case ScopeNext7Days:
		return now, now.AddDate(0, 0, 7), 0, nil
	default:
		return time.Time{}, time.Time{}, 0, ErrUnknownScope
	}
}

func targetStatus(action meetings.Action) (meetings.Status, bool) {
	switch action {
	case meetings.ActionComplete:
		return meetings.StatusCompleted, true
	case meetings.ActionNoShow:
		return meetings.StatusNoShow, true
	case meetings.ActionCancel:
		return meetings.StatusCancelled, true
	case meetings.ActionReschedule:
		return meetings.StatusRescheduled, true
	}
	return "", false
}

func (l *Lifecycle) setClientStatus(ctx context.Context, clientID string, status clients.Status, meetingID string) {
	if err := l.clients.SetStatus(ctx, clientID, status); err != nil {
		l.logger.Error("client status update failed", "error", err, "client_id", clientID, "meeting_id", meetingID)
	}
}

func (l *Lifecycle) deleteCalendarEvent(ctx context.Context, m *meetings.Meeting) {
	if l.calendar == nil || m.CalendarEventID == "" {
		return
	}
	cctx, cancel := context.WithTimeout(ctx, calendarTimeout)
	defer cancel()
	if err := l.calendar.DeleteEvent(cctx, m.CalendarEventID); err != nil {
		l.logger.Warn("calendar event deletion failed", "error", err, "meeting_id", m.ID, "event_id", m.CalendarEventID)
	}
}

func (l *Lifecycle) dispatch(ctx context.Context, eventType string, payload any) {
	if err := l.sink.Dispatch(ctx, eventType, payload); err != nil {
		l.logger.Error("notification enqueue failed", "error", err, "type", eventType)
	}
}

func displayName(c *clients.Client) string {
	if c.Name != "" {
		return c.Name
	}
	if c.Phone != "" {
		return c.Phone
	}
	return c.ID
}
