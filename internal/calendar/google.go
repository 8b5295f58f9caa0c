package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/trivern/leadflow/internal/availability"
	"github.com/trivern/leadflow/pkg/logging"
)

// callTimeout bounds every remote calendar call so a hung upstream can
// never stall a booking or slot search.
const callTimeout = 10 * time.Second

// GoogleService implements Service on top of the Google Calendar API.
type GoogleService struct {
	svc        *gcal.Service
	calendarID string
	timezone   string
	logger     *logging.Logger
}

// GoogleConfig holds the service-account credentials and target calendar.
type GoogleConfig struct {
	CredentialsJSON []byte
	CalendarID      string
	Timezone        string
}

// NewGoogleService builds a calendar client from service-account
// credentials. Returns an error when credentials are malformed.
func NewGoogleService(ctx context.Context, cfg GoogleConfig, logger *logging.Logger) (*GoogleService, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.CalendarID == "" {
		cfg.CalendarID = "primary"
	}

	svc, err := gcal.NewService(ctx,
		option.WithCredentialsJSON(cfg.CredentialsJSON),
		option.WithScopes(gcal.CalendarScope, gcal.CalendarEventsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("calendar: init google client: %w", err)
	}

	return &GoogleService{
		svc:        svc,
		calendarID: cfg.CalendarID,
		timezone:   cfg.Timezone,
		logger:     logger,
	}, nil
}

// BusyIntervals queries the free/busy endpoint for the target calendar.
func (g *GoogleService) BusyIntervals(ctx context.Context, from, to time.Time) ([]availability.BusyInterval, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	req := &gcal.FreeBusyRequest{
		TimeMin:  from.Format(time.RFC3339),
		TimeMax:  to.Format(time.RFC3339),
		TimeZone: g.timezone,
		Items:    []*gcal.FreeBusyRequestItem{{Id: g.calendarID}},
	}

	resp, err := g.svc.Freebusy.Query(req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("calendar: freebusy query: %w", err)
	}

	cal, ok := resp.Calendars[g.calendarID]
	if !ok {
		return nil, nil
	}

	var out []availability.BusyInterval
	for _, period := range cal.Busy {
		start, err := time.Parse(time.RFC3339, period.Start)
		if err != nil {
			return nil, fmt.Errorf("calendar: parse busy start: %w", err)
		}
		end, err := time.Parse(time.RFC3339, period.End)
		if err != nil {
			return nil, fmt.Errorf("calendar: parse busy end: %w", err)
		}
		out = append(out, availability.BusyInterval{Start: start, End: end})
	}
	return out, nil
}

// CreateEvent inserts an event with a Meet conference and reminder
// overrides mirroring the manual booking flow.
func (g *GoogleService) CreateEvent(ctx context.Context, in EventInput) (*Event, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	event := &gcal.Event{
		Summary:     in.Summary,
		Description: in.Description,
		Start:       &gcal.EventDateTime{DateTime: in.Start.Format(time.RFC3339), TimeZone: g.timezone},
		End:         &gcal.EventDateTime{DateTime: in.End.Format(time.RFC3339), TimeZone: g.timezone},
		ConferenceData: &gcal.ConferenceData{
			CreateRequest: &gcal.CreateConferenceRequest{
				RequestId:             uuid.NewString(),
				ConferenceSolutionKey: &gcal.ConferenceSolutionKey{Type: "hangoutsMeet"},
			},
		},
		Reminders: &gcal.EventReminders{
			UseDefault: false,
			Overrides: []*gcal.EventReminder{
				{Method: "popup", Minutes: 30},
				{Method: "email", Minutes: 60},
			},
			ForceSendFields: []string{"UseDefault"},
		},
	}
	if in.AttendeeEmail != "" {
		event.Attendees = []*gcal.EventAttendee{{Email: in.AttendeeEmail}}
	}

	created, err := g.svc.Events.Insert(g.calendarID, event).
		ConferenceDataVersion(1).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("calendar: insert event: %w", err)
	}

	join := created.HangoutLink
	if join == "" && created.ConferenceData != nil {
		for _, ep := range created.ConferenceData.EntryPoints {
			if ep.Uri != "" {
				join = ep.Uri
				break
			}
		}
	}

	g.logger.Info("calendar event created", "event_id", created.Id, "start", in.Start)
	return &Event{ID: created.Id, JoinLink: join}, nil
}

// DeleteEvent removes the event; a missing event is not an error worth
// surfacing to the lifecycle.
func (g *GoogleService) DeleteEvent(ctx context.Context, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	if err := g.svc.Events.Delete(g.calendarID, eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("calendar: delete event %s: %w", eventID, err)
	}
	return nil
}

// Ensure interface compliance
var _ Service = (*GoogleService)(nil)
