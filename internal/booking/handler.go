package booking

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/trivern/leadflow/internal/availability"
	"github.com/trivern/leadflow/internal/clients"
	"github.com/trivern/leadflow/internal/meetings"
	observemetrics "github.com/trivern/leadflow/internal/observability/metrics"
	"github.com/trivern/leadflow/internal/scoring"
	"github.com/trivern/leadflow/pkg/logging"
)

// Handler exposes the scheduling surface: slot search, booking,
// lifecycle transitions, bulk cancellation and the admin settings.
type Handler struct {
	resolver *availability.Resolver
	life     *Lifecycle
	settings SettingsRepository
	clients  clients.Repository
	metrics  *observemetrics.SchedulingMetrics
	logger   *logging.Logger
	now      func() time.Time
}

func NewHandler(resolver *availability.Resolver, life *Lifecycle, settings SettingsRepository, clientRepo clients.Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		resolver: resolver,
		life:     life,
		settings: settings,
		clients:  clientRepo,
		logger:   logger,
		now:      time.Now,
	}
}

// WithMetrics attaches prometheus instruments. Safe to skip in tests.
func (h *Handler) WithMetrics(m *observemetrics.SchedulingMetrics) *Handler {
	h.metrics = m
	return h
}

// SlotsResponse lists bookable slots plus the pair presented in
// conversation flows.
type SlotsResponse struct {
	Tier      scoring.Tier        `json:"tier"`
	Slots     []availability.Slot `json:"slots"`
	Presented []availability.Slot `json:"presented"`
	Formatted []string            `json:"formatted"`
}

// GetSlots handles GET /api/slots?tier=|phone= requests. An explicit
// tier wins; otherwise the tier comes from the client's score, and an
// unknown caller is treated as WARM.
func (h *Handler) GetSlots(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	tier := h.resolveTier(r)

	settings, err := h.settings.Get(r.Context())
	if err != nil {
		h.logger.Error("settings load failed", "error", err)
		http.Error(w, "failed to load booking settings", http.StatusInternalServerError)
		return
	}

	slots, err := h.resolver.FindSlots(r.Context(), tier, settings, h.now())
	if err != nil {
		h.metrics.ObserveSlotSearch(string(tier), "error", time.Since(started).Seconds())
		h.logger.Error("slot search failed", "error", err, "tier", string(tier))
		http.Error(w, "failed to find slots", http.StatusInternalServerError)
		return
	}
	h.metrics.ObserveSlotSearch(string(tier), "ok", time.Since(started).Seconds())

	loc := settings.Location()
	formatted := make([]string, 0, len(slots))
	for _, s := range slots {
		formatted = append(formatted, availability.FormatSlot(s.Start, loc))
	}

	writeJSON(w, http.StatusOK, SlotsResponse{
		Tier:      tier,
		Slots:     slots,
		Presented: availability.FirstTwo(slots),
		Formatted: formatted,
	})
}

func (h *Handler) resolveTier(r *http.Request) scoring.Tier {
	if tier, ok := scoring.ParseTier(r.URL.Query().Get("tier")); ok {
		return tier
	}
	if phone := r.URL.Query().Get("phone"); phone != "" {
		client, err := h.clients.GetByPhone(r.Context(), phone)
		if err == nil {
			return scoring.Classify(client.EffectiveScore())
		}
		if !errors.Is(err, clients.ErrClientNotFound) {
			h.logger.Error("client lookup failed for slot search", "error", err)
		}
	}
	return scoring.TierWarm
}

// Book handles POST /api/meetings requests.
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	var req BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	res, err := h.life.Book(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingClient), errors.Is(err, ErrMissingSlotStart):
			h.metrics.ObserveBooking("invalid")
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, clients.ErrClientNotFound):
			h.metrics.ObserveBooking("invalid")
			http.Error(w, "client not found", http.StatusNotFound)
		case errors.Is(err, ErrSlotTaken), errors.Is(err, ErrContended):
			h.metrics.ObserveBooking("conflict")
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			h.metrics.ObserveBooking("error")
			h.logger.Error("booking failed", "error", err, "client_id", req.ClientID)
			http.Error(w, "failed to book meeting", http.StatusInternalServerError)
		}
		return
	}

	h.metrics.ObserveBooking("booked")
	writeJSON(w, http.StatusCreated, res)
}

type transitionRequest struct {
	Action string `json:"action"`
	Reason string `json:"reason"`
}

// Transition handles POST /api/meetings/{id}/transition requests.
func (h *Handler) Transition(w http.ResponseWriter, r *http.Request) {
	meetingID := chi.URLParam(r, "id")
	if meetingID == "" {
		http.Error(w, "missing meeting id", http.StatusBadRequest)
		return
	}

	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	action, ok := meetings.ParseAction(req.Action)
	if !ok {
		http.Error(w, "unknown action", http.StatusBadRequest)
		return
	}

	m, err := h.life.Transition(r.Context(), meetingID, action, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, meetings.ErrMeetingNotFound):
			http.Error(w, "meeting not found", http.StatusNotFound)
		case errors.Is(err, meetings.ErrNotSchedulable), errors.Is(err, ErrContended):
			h.metrics.ObserveTransition(string(action), "conflict")
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			h.metrics.ObserveTransition(string(action), "error")
			h.logger.Error("transition failed", "error", err, "meeting_id", meetingID)
			http.Error(w, "failed to transition meeting", http.StatusInternalServerError)
		}
		return
	}

	h.metrics.ObserveTransition(string(action), "ok")
	writeJSON(w, http.StatusOK, m)
}

type emergencyCancelRequest struct {
	ActorRole string `json:"actor_role"`
	Scope     string `json:"scope"`
	Reason    string `json:"reason"`
}

// EmergencyCancel handles POST /api/meetings/emergency-cancel requests.
func (h *Handler) EmergencyCancel(w http.ResponseWriter, r *http.Request) {
	var req emergencyCancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	summary, err := h.life.EmergencyCancelBatch(r.Context(), req.ActorRole, req.Scope, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnauthorized):
			http.Error(w, "role not permitted", http.StatusForbidden)
		case errors.Is(err, ErrUnknownScope):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			h.logger.Error("emergency cancel failed", "error", err, "scope", req.Scope)
			http.Error(w, "failed to cancel meetings", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// GetSettings handles GET /api/booking-settings requests.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.Get(r.Context())
	if err != nil {
		h.logger.Error("settings load failed", "error", err)
		http.Error(w, "failed to load settings", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// PutSettings handles PUT /api/booking-settings requests.
func (h *Handler) PutSettings(w http.ResponseWriter, r *http.Request) {
	var s availability.Settings
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := ValidateSettings(s); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.settings.Put(r.Context(), s); err != nil {
		h.logger.Error("settings save failed", "error", err)
		http.Error(w, "failed to save settings", http.StatusInternalServerError)
		return
	}

	h.logger.Info("booking settings updated",
		"window", s.StartHour, "end", s.EndHour,
		"slot_duration", s.SlotDuration, "max_per_day", s.MaxPerDay,
	)
	writeJSON(w, http.StatusOK, s)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
