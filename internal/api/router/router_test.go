package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trivern/leadflow/internal/availability"
	"github.com/trivern/leadflow/internal/booking"
	"github.com/trivern/leadflow/internal/clients"
	"github.com/trivern/leadflow/internal/events"
	"github.com/trivern/leadflow/internal/leads"
	"github.com/trivern/leadflow/internal/meetings"
	"github.com/trivern/leadflow/internal/notify"
	"github.com/trivern/leadflow/pkg/logging"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := logging.Default()
	clientRepo := clients.NewInMemoryRepository()
	meetingRepo := meetings.NewInMemoryRepository()
	settingsRepo := booking.NewInMemorySettingsRepository()
	sink := notify.NewOutboxSink(events.NewInMemoryStore())

	life := booking.NewLifecycle(clientRepo, meetingRepo, settingsRepo, sink, booking.NewInMemoryLocker(), logger)
	resolver := availability.NewResolver(nil, meetingRepo, logger)

	return New(&Config{
		Logger:             logger,
		LeadsHandler:       leads.NewHandler(leads.NewService(clientRepo, sink, logger), logger),
		SchedulingHandler:  booking.NewHandler(resolver, life, settingsRepo, clientRepo, logger),
		CORSAllowedOrigins: []string{"*"},
	})
}

func TestRouterWiring(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/api/slots?tier=hot", "", http.StatusOK},
		{http.MethodGet, "/api/booking-settings", "", http.StatusOK},
		{http.MethodPost, "/api/score", `{"context":"need automation now"}`, http.StatusOK},
		{http.MethodPost, "/api/leads", `{"phone":"919876543210"}`, http.StatusCreated},
		{http.MethodPost, "/api/meetings", `{}`, http.StatusBadRequest},
		{http.MethodPost, "/api/meetings/emergency-cancel", `{"actor_role":"VISITOR","scope":"today"}`, http.StatusForbidden},
		{http.MethodPost, "/api/meetings/m1/transition", `{"action":"cancel"}`, http.StatusNotFound},
		{http.MethodGet, "/nope", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			} else {
				req = httptest.NewRequest(tt.method, tt.path, nil)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRouterHealthBody(t *testing.T) {
	r := newTestRouter(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
