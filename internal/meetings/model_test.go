package meetings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		in   string
		want Action
		ok   bool
	}{
		{"complete", ActionComplete, true},
		{" Cancel ", ActionCancel, true},
		{"NO_SHOW", ActionNoShow, true},
		{"reschedule", ActionReschedule, true},
		{"snooze", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseAction(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusScheduled.Terminal())
	for _, s := range []Status{StatusCompleted, StatusCancelled, StatusNoShow, StatusRescheduled} {
		assert.True(t, s.Terminal(), string(s))
	}
}

func TestUpdateStatusGuard(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	m, err := repo.Create(ctx, &Meeting{ClientID: "c1", Date: time.Now(), Duration: 30})
	require.NoError(t, err)
	assert.Equal(t, StatusScheduled, m.Status)

	done, err := repo.UpdateStatus(ctx, m.ID, StatusCancelled, "client asked")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, done.Status)
	assert.Equal(t, "client asked", done.Remarks)

	// Losing side of the race sees the guard, not a double transition.
	_, err = repo.UpdateStatus(ctx, m.ID, StatusCompleted, "")
	assert.ErrorIs(t, err, ErrNotSchedulable)

	_, err = repo.UpdateStatus(ctx, "missing", StatusCancelled, "")
	assert.ErrorIs(t, err, ErrMeetingNotFound)
}

func TestListScheduledBetween(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	early, err := repo.Create(ctx, &Meeting{ClientID: "c1", Date: day.Add(9 * time.Hour), Duration: 30})
	require.NoError(t, err)
	late, err := repo.Create(ctx, &Meeting{ClientID: "c2", Date: day.Add(15 * time.Hour), Duration: 30})
	require.NoError(t, err)
	cancelled, err := repo.Create(ctx, &Meeting{ClientID: "c3", Date: day.Add(11 * time.Hour), Duration: 30})
	require.NoError(t, err)
	_, err = repo.UpdateStatus(ctx, cancelled.ID, StatusCancelled, "")
	require.NoError(t, err)

	listed, err := repo.ListScheduledBetween(ctx, day, day.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, early.ID, listed[0].ID, "ordered by date")
	assert.Equal(t, late.ID, listed[1].ID)
}

func TestCountCommittedCountsCompleted(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	_, err := repo.Create(ctx, &Meeting{ClientID: "c1", Date: day.Add(9 * time.Hour), Duration: 30})
	require.NoError(t, err)
	done, err := repo.Create(ctx, &Meeting{ClientID: "c2", Date: day.Add(10 * time.Hour), Duration: 30})
	require.NoError(t, err)
	_, err = repo.UpdateStatus(ctx, done.ID, StatusCompleted, "")
	require.NoError(t, err)
	noShow, err := repo.Create(ctx, &Meeting{ClientID: "c3", Date: day.Add(11 * time.Hour), Duration: 30})
	require.NoError(t, err)
	_, err = repo.UpdateStatus(ctx, noShow.ID, StatusNoShow, "")
	require.NoError(t, err)

	count, err := repo.CountCommittedOn(ctx, day, day.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, count, "SCHEDULED and COMPLETED hold capacity, NO_SHOW frees it")
}

func TestScheduledIntervalsClipToScheduled(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	m, err := repo.Create(ctx, &Meeting{ClientID: "c1", Date: day.Add(14 * time.Hour), Duration: 45})
	require.NoError(t, err)

	intervals, err := repo.ScheduledIntervalsOn(ctx, day, day.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, intervals, 1)
	assert.Equal(t, m.Date, intervals[0].Start)
	assert.Equal(t, m.Date.Add(45*time.Minute), intervals[0].End)

	_, err = repo.UpdateStatus(ctx, m.ID, StatusCancelled, "")
	require.NoError(t, err)
	intervals, err = repo.ScheduledIntervalsOn(ctx, day, day.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, intervals)
}
