package meetings

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/trivern/leadflow/internal/availability"
)

// Repository defines the interface for meeting storage. It doubles as
// the availability resolver's busy-time fallback and capacity counter.
type Repository interface {
	Create(ctx context.Context, m *Meeting) (*Meeting, error)
	GetByID(ctx context.Context, id string) (*Meeting, error)
	// UpdateStatus moves a SCHEDULED meeting to a terminal state. The
	// guard on the current status makes concurrent transitions safe:
	// exactly one caller wins, the rest get ErrNotSchedulable.
	UpdateStatus(ctx context.Context, id string, status Status, remarks string) (*Meeting, error)
	// ListScheduledBetween returns SCHEDULED meetings with a start date
	// inside [from, to), ordered by date ascending.
	ListScheduledBetween(ctx context.Context, from, to time.Time) ([]*Meeting, error)

	CountCommittedOn(ctx context.Context, dayStart, dayEnd time.Time) (int, error)
	ScheduledIntervalsOn(ctx context.Context, dayStart, dayEnd time.Time) ([]availability.BusyInterval, error)
}

// InMemoryRepository backs tests and local development.
type InMemoryRepository struct {
	mu       sync.RWMutex
	meetings map[string]*Meeting
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{meetings: make(map[string]*Meeting)}
}

func (r *InMemoryRepository) Create(_ context.Context, m *Meeting) (*Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *m
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.Status == "" {
		stored.Status = StatusScheduled
	}
	now := time.Now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.meetings[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (r *InMemoryRepository) GetByID(_ context.Context, id string) (*Meeting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.meetings[id]
	if !ok {
		return nil, ErrMeetingNotFound
	}
	out := *m
	return &out, nil
}

func (r *InMemoryRepository) UpdateStatus(_ context.Context, id string, status Status, remarks string) (*Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.meetings[id]
	if !ok {
		return nil, ErrMeetingNotFound
	}
	if m.Status != StatusScheduled {
		return nil, ErrNotSchedulable
	}
	m.Status = status
	if remarks != "" {
		m.Remarks = remarks
	}
	m.UpdatedAt = time.Now().UTC()

	out := *m
	return &out, nil
}

func (r *InMemoryRepository) ListScheduledBetween(_ context.Context, from, to time.Time) ([]*Meeting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Meeting
	for _, m := range r.meetings {
		if m.Status != StatusScheduled {
			continue
		}
		if !m.Date.Before(from) && m.Date.Before(to) {
			copied := *m
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *InMemoryRepository) CountCommittedOn(_ context.Context, dayStart, dayEnd time.Time) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, m := range r.meetings {
		if m.Status != StatusScheduled && m.Status != StatusCompleted {
			continue
		}
		if !m.Date.Before(dayStart) && m.Date.Before(dayEnd) {
			count++
		}
	}
	return count, nil
}

func (r *InMemoryRepository) ScheduledIntervalsOn(_ context.Context, dayStart, dayEnd time.Time) ([]availability.BusyInterval, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []availability.BusyInterval
	for _, m := range r.meetings {
		if m.Status != StatusScheduled {
			continue
		}
		if m.Date.Before(dayEnd) && m.End().After(dayStart) {
			out = append(out, availability.BusyInterval{Start: m.Date, End: m.End()})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}
