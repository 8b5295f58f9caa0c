package booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trivern/leadflow/internal/availability"
	"github.com/trivern/leadflow/internal/clients"
	"github.com/trivern/leadflow/internal/meetings"
	"github.com/trivern/leadflow/internal/scoring"
	"github.com/trivern/leadflow/pkg/logging"
)

func newHandlerFixture(t *testing.T) (*fixture, *Handler, *chi.Mux) {
	t.Helper()
	f := newFixture(t)

	resolver := availability.NewResolver(nil, f.meetings, logging.Default())
	h := NewHandler(resolver, f.life, f.settings, f.clients, logging.Default())
	h.now = func() time.Time { return time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC) }
	f.life.WithClock(h.now)

	r := chi.NewRouter()
	r.Get("/api/slots", h.GetSlots)
	r.Post("/api/meetings", h.Book)
	r.Post("/api/meetings/emergency-cancel", h.EmergencyCancel)
	r.Post("/api/meetings/{id}/transition", h.Transition)
	r.Get("/api/booking-settings", h.GetSettings)
	r.Put("/api/booking-settings", h.PutSettings)
	return f, h, r
}

func TestGetSlotsByTier(t *testing.T) {
	_, _, r := newHandlerFixture(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/slots?tier=hot", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var res SlotsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, scoring.TierHot, res.Tier)
	require.Len(t, res.Slots, availability.MaxResults)
	assert.Len(t, res.Presented, 2)
	assert.Len(t, res.Formatted, availability.MaxResults)
	assert.Equal(t,
		time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		res.Slots[0].Start.UTC(),
		"first candidate is the window start, an hour past now")
}

func TestGetSlotsByPhone(t *testing.T) {
	f, _, r := newHandlerFixture(t)

	c, err := f.clients.Create(context.Background(), &clients.Client{Phone: "919876543210", Score: 55})
	require.NoError(t, err)
	_ = c

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/slots?phone=919876543210", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var res SlotsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, scoring.TierWarm, res.Tier)
}

func TestGetSlotsUnknownCallerDefaultsWarm(t *testing.T) {
	_, _, r := newHandlerFixture(t)

	for _, target := range []string{"/api/slots?phone=000", "/api/slots?tier=scorching", "/api/slots"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

		require.Equal(t, http.StatusOK, rec.Code, target)
		var res SlotsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, scoring.TierWarm, res.Tier, target)
	}
}

func TestBookEndpoint(t *testing.T) {
	f, _, r := newHandlerFixture(t)
	c, err := f.clients.Create(context.Background(), &clients.Client{Name: "Priya", Phone: "919876543210"})
	require.NoError(t, err)

	body := `{"client_id":"` + c.ID + `","slot_start":"2026-03-10T10:00:00Z"}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/meetings", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code)
	var res BookResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, meetings.StatusScheduled, res.Meeting.Status)
	assert.Contains(t, res.Confirmation, "confirmed")

	// Same slot again: conflict.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/meetings", strings.NewReader(body)))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestBookEndpointErrors(t *testing.T) {
	_, _, r := newHandlerFixture(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/meetings",
		strings.NewReader(`{"slot_start":"2026-03-10T10:00:00Z"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/meetings",
		strings.NewReader(`{"client_id":"missing","slot_start":"2026-03-10T10:00:00Z"}`)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTransitionEndpoint(t *testing.T) {
	f, _, r := newHandlerFixture(t)
	c, err := f.clients.Create(context.Background(), &clients.Client{Name: "Priya", Phone: "919876543210"})
	require.NoError(t, err)
	res, err := f.life.Book(context.Background(), BookRequest{
		ClientID:  c.ID,
		SlotStart: time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost,
		"/api/meetings/"+res.Meeting.ID+"/transition",
		strings.NewReader(`{"action":"complete"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	var m meetings.Meeting
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	assert.Equal(t, meetings.StatusCompleted, m.Status)

	// Terminal now: conflict.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost,
		"/api/meetings/"+res.Meeting.ID+"/transition",
		strings.NewReader(`{"action":"cancel"}`)))
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Unknown action.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost,
		"/api/meetings/"+res.Meeting.ID+"/transition",
		strings.NewReader(`{"action":"vanish"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown meeting.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost,
		"/api/meetings/nope/transition",
		strings.NewReader(`{"action":"cancel"}`)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEmergencyCancelEndpoint(t *testing.T) {
	_, _, r := newHandlerFixture(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/meetings/emergency-cancel",
		strings.NewReader(`{"actor_role":"CLIENT","scope":"today"}`)))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/meetings/emergency-cancel",
		strings.NewReader(`{"actor_role":"ADMIN","scope":"today"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	var summary BatchSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 0, summary.Cancelled)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/meetings/emergency-cancel",
		strings.NewReader(`{"actor_role":"ADMIN","scope":"whenever"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSettingsEndpoints(t *testing.T) {
	_, _, r := newHandlerFixture(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/booking-settings", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var s availability.Settings
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	assert.Equal(t, 9, s.StartHour)

	s.StartHour = 10
	s.BlockedDates = []string{"2026-03-15"}
	body, err := json.Marshal(s)
	require.NoError(t, err)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/booking-settings", strings.NewReader(string(body))))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/booking-settings", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	assert.Equal(t, 10, s.StartHour)
	assert.Equal(t, []string{"2026-03-15"}, s.BlockedDates)

	s.EndHour = 5
	body, err = json.Marshal(s)
	require.NoError(t, err)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/booking-settings", strings.NewReader(string(body))))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
