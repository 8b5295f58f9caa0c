package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/trivern/leadflow/internal/scoring"
	"github.com/trivern/leadflow/pkg/logging"
)

// MaxResults caps how many slots a single search returns.
const MaxResults = 6

// minLeadTime is how far into the future the earliest offered slot must
// start, so a client is never offered "in five minutes".
const minLeadTime = time.Hour

// BusyQuerier reads busy intervals from the external calendar.
type BusyQuerier interface {
	BusyIntervals(ctx context.Context, from, to time.Time) ([]BusyInterval, error)
}

// MeetingSource exposes the internal meeting store as a busy-time
// fallback and capacity counter. Day boundaries follow the settings
// timezone; the capacity count receives the full civil day, the busy
// read receives the working window.
type MeetingSource interface {
	// CountCommittedOn counts SCHEDULED and COMPLETED meetings inside the day.
	CountCommittedOn(ctx context.Context, dayStart, dayEnd time.Time) (int, error)
	// ScheduledIntervalsOn returns busy intervals built from SCHEDULED
	// meetings inside the day.
	ScheduledIntervalsOn(ctx context.Context, dayStart, dayEnd time.Time) ([]BusyInterval, error)
}

// Resolver walks calendar days inside a tier's search horizon and
// accumulates conflict-free slots.
type Resolver struct {
	calendar BusyQuerier
	meetings MeetingSource
	logger   *logging.Logger
}

// NewResolver builds a resolver. The calendar may be nil, in which case
// every day degrades to the meeting-store fallback.
func NewResolver(calendar BusyQuerier, meetings MeetingSource, logger *logging.Logger) *Resolver {
	if meetings == nil {
		panic("availability: meeting source required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Resolver{calendar: calendar, meetings: meetings, logger: logger}
}

// FindSlots returns up to MaxResults chronologically ordered free slots
// between now and now + the tier's horizon. Calendar failures degrade
// to internally stored meetings; only a meeting-store failure errors.
func (r *Resolver) FindSlots(ctx context.Context, tier scoring.Tier, settings Settings, now time.Time) ([]Slot, error) {
	loc := settings.Location()
	now = now.In(loc)
	searchEnd := now.Add(tier.Horizon())

	slots := make([]Slot, 0, MaxResults)

	for day := now; day.Before(searchEnd) && len(slots) < MaxResults; day = nextDay(day, loc) {
		daySlots, err := r.findDaySlots(ctx, settings, now, day, loc, MaxResults-len(slots))
		if err != nil {
			return nil, err
		}
		slots = append(slots, daySlots...)
	}

	return slots, nil
}

func (r *Resolver) findDaySlots(ctx context.Context, settings Settings, now, day time.Time, loc *time.Location, limit int) ([]Slot, error) {
	isoDate := day.Format("2006-01-02")
	if settings.IsBlocked(isoDate) {
		return nil, nil
	}

	// A zero-width working window yields no slots.
	if settings.StartHour >= settings.EndHour || settings.SlotDuration <= 0 {
		return nil, nil
	}

	y, m, d := day.Date()
	dayStart := time.Date(y, m, d, settings.StartHour, 0, 0, 0, loc)
	dayEnd := time.Date(y, m, d, settings.EndHour, 0, 0, 0, loc)

	// Capacity counts the whole civil day, the same bounds the booking
	// check uses; a committed meeting outside the working window still
	// consumes part of the day's budget.
	midnight := time.Date(y, m, d, 0, 0, 0, 0, loc)
	count, err := r.meetings.CountCommittedOn(ctx, midnight, midnight.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("availability: count meetings for %s: %w", isoDate, err)
	}
	if settings.MaxPerDay > 0 && count >= settings.MaxPerDay {
		return nil, nil
	}

	busy, err := r.busyForDay(ctx, dayStart, dayEnd, isoDate)
	if err != nil {
		return nil, err
	}

	// The first candidate starts no earlier than one hour from now,
	// rounded up to the next slot boundary of the day grid.
	first := dayStart
	if earliest := now.Add(minLeadTime); earliest.After(first) {
		first = roundUpToGrid(earliest, dayStart, settings.SlotLength())
	}

	var slots []Slot
	step := settings.SlotLength()
	buffer := settings.Buffer()

	for start := first; !start.Add(step).After(dayEnd) && len(slots) < limit; start = start.Add(step) {
		end := start.Add(step)
		if conflicts(start, end, busy, buffer) {
			continue
		}
		slots = append(slots, Slot{Start: start, End: end})
	}
	return slots, nil
}

// busyForDay queries the external calendar and falls back to scheduled
// meetings when it is unreachable. Degrading beats silently returning a
// fully free day that double-books the operator.
func (r *Resolver) busyForDay(ctx context.Context, dayStart, dayEnd time.Time, isoDate string) ([]BusyInterval, error) {
	if r.calendar != nil {
		busy, err := r.calendar.BusyIntervals(ctx, dayStart, dayEnd)
		if err == nil {
			return busy, nil
		}
		r.logger.Warn("calendar unavailable, using stored meetings for busy check",
			"error", err,
			"date", isoDate,
		)
	}

	busy, err := r.meetings.ScheduledIntervalsOn(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("availability: busy fallback for %s: %w", isoDate, err)
	}
	return busy, nil
}

func conflicts(start, end time.Time, busy []BusyInterval, buffer time.Duration) bool {
	for _, b := range busy {
		if Overlaps(start, end, b, buffer) {
			return true
		}
	}
	return false
}

// roundUpToGrid snaps t up to the next multiple of step measured from
// the grid origin. t at an exact boundary stays put.
func roundUpToGrid(t, origin time.Time, step time.Duration) time.Time {
	if !t.After(origin) {
		return origin
	}
	delta := t.Sub(origin)
	steps := delta / step
	if delta%step != 0 {
		steps++
	}
	return origin.Add(steps * step)
}

// nextDay advances to the same clock-independent next calendar date at
// midnight in loc.
func nextDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, loc)
}

// FirstTwo returns the presentation pair offered in conversation flows.
func FirstTwo(slots []Slot) []Slot {
	if len(slots) > 2 {
		return slots[:2]
	}
	return slots
}

// FormatSlot renders a slot start for client-facing messages, in the
// settings timezone.
func FormatSlot(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format("Monday, 2 Jan, 3:04 PM")
}
