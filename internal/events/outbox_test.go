package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trivern/leadflow/pkg/logging"
)

type recordingHandler struct {
	failures int
	handled  []OutboxEntry
}

func (h *recordingHandler) Handle(_ context.Context, entry OutboxEntry) error {
	if h.failures > 0 {
		h.failures--
		return errors.New("downstream unavailable")
	}
	h.handled = append(h.handled, entry)
	return nil
}

func TestInMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	id, err := store.Insert(ctx, TypeBookingConfirmed, BookingConfirmedV1{MeetingID: "m1", Phone: "919876543210"})
	require.NoError(t, err)

	pending, err := store.FetchPending(ctx, 10, 5)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, id, pending[0].ID)
	assert.Equal(t, TypeBookingConfirmed, pending[0].Type)

	var payload BookingConfirmedV1
	require.NoError(t, json.Unmarshal(pending[0].Payload, &payload))
	assert.Equal(t, "m1", payload.MeetingID)

	ok, err := store.MarkDelivered(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)

	pending, err = store.FetchPending(ctx, 10, 5)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestMarkFailedBacksOffAndCapsAttempts(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	id, err := store.Insert(ctx, TypeMeetingCancelled, MeetingCancelledV1{MeetingID: "m2"})
	require.NoError(t, err)

	// A failure with a future retry window hides the entry.
	require.NoError(t, store.MarkFailed(ctx, id, time.Minute))
	pending, err := store.FetchPending(ctx, 10, 5)
	require.NoError(t, err)
	assert.Empty(t, pending)

	// A failure with no delay re-exposes it until attempts hit the cap.
	require.NoError(t, store.MarkFailed(ctx, id, 0))
	pending, err = store.FetchPending(ctx, 10, 2)
	require.NoError(t, err)
	assert.Empty(t, pending, "two attempts used, cap of two reached")

	pending, err = store.FetchPending(ctx, 10, 5)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
	assert.Equal(t, 2, pending[0].Attempts)
}

func TestDelivererDrainRetriesThenDelivers(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	handler := &recordingHandler{failures: 1}
	d := NewDeliverer(store, handler, logging.Default())
	d.baseDelay = 0

	_, err := store.Insert(ctx, TypeMeetingNoShow, MeetingNoShowV1{MeetingID: "m3"})
	require.NoError(t, err)

	d.drain(ctx) // first pass fails
	assert.Equal(t, 1, store.Pending())
	assert.Empty(t, handler.handled)

	d.drain(ctx) // retry succeeds
	assert.Equal(t, 0, store.Pending())
	require.Len(t, handler.handled, 1)
	assert.Equal(t, TypeMeetingNoShow, handler.handled[0].Type)
}

func TestDelivererGivesUpAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	handler := &recordingHandler{failures: 100}
	d := NewDeliverer(store, handler, logging.Default()).WithMaxAttempts(3)
	d.baseDelay = 0

	_, err := store.Insert(ctx, TypeLeadEscalated, LeadEscalatedV1{ClientID: "c1"})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		d.drain(ctx)
	}

	// Entry is still undelivered but no longer fetched.
	assert.Equal(t, 1, store.Pending())
	pending, err := store.FetchPending(ctx, 10, 3)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
