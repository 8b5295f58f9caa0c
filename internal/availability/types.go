// Package availability computes conflict-free, bookable time slots
// across calendar days, honoring per-tier search horizons, per-day
// capacity and buffer rules. The resolver never mutates state; two
// calls with the same inputs and store contents return the same slots.
package availability

import "time"

// Slot is a candidate bookable time range.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// BusyInterval is a time range during which no meeting may be booked,
// sourced from the external calendar or reconstructed from scheduled
// meetings when the calendar is unreachable.
type BusyInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Settings is the immutable booking configuration snapshot a single
// resolver or lifecycle call operates on. Callers load it once per
// request and pass it down; nothing in this package reads it from
// shared state.
type Settings struct {
	StartHour     int      `json:"start_hour"`
	EndHour       int      `json:"end_hour"`
	SlotDuration  int      `json:"slot_duration"` // minutes
	BufferMinutes int      `json:"buffer_minutes"`
	MaxPerDay     int      `json:"max_per_day"`
	BlockedDates  []string `json:"blocked_dates"` // ISO dates (2006-01-02)
	Timezone      string   `json:"timezone"`
}

// DefaultSettings mirrors the administrative defaults used when no row
// exists yet.
func DefaultSettings() Settings {
	return Settings{
		StartHour:     9,
		EndHour:       21,
		SlotDuration:  30,
		BufferMinutes: 30,
		MaxPerDay:     6,
		Timezone:      "Asia/Kolkata",
	}
}

// Location resolves the configured timezone, falling back to UTC on a
// bad or empty name.
func (s Settings) Location() *time.Location {
	if s.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// IsBlocked reports whether the given ISO date is administratively
// blocked for booking.
func (s Settings) IsBlocked(isoDate string) bool {
	for _, d := range s.BlockedDates {
		if d == isoDate {
			return true
		}
	}
	return false
}

// SlotLength returns the slot duration as a time.Duration.
func (s Settings) SlotLength() time.Duration {
	return time.Duration(s.SlotDuration) * time.Minute
}

// Buffer returns the buffer as a time.Duration.
func (s Settings) Buffer() time.Duration {
	return time.Duration(s.BufferMinutes) * time.Minute
}

// Overlaps reports whether the half-open slot [slotStart, slotEnd)
// collides with the busy interval expanded by buffer on both sides.
// A zero buffer degrades to the plain overlap test.
func Overlaps(slotStart, slotEnd time.Time, busy BusyInterval, buffer time.Duration) bool {
	expandedStart := busy.Start.Add(-buffer)
	expandedEnd := busy.End.Add(buffer)
	return slotStart.Before(expandedEnd) && slotEnd.After(expandedStart)
}
