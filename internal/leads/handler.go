package leads

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/trivern/leadflow/internal/clients"
	"github.com/trivern/leadflow/internal/scoring"
	"github.com/trivern/leadflow/pkg/logging"
)

// Handler handles HTTP requests for lead capture and scoring.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a new leads handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Capture handles POST /api/leads requests.
func (h *Handler) Capture(w http.ResponseWriter, r *http.Request) {
	var req CaptureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode capture request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.service.Capture(r.Context(), req)
	if err != nil {
		if errors.Is(err, clients.ErrMissingPhone) {
			http.Error(w, "phone is required", http.StatusBadRequest)
			return
		}
		h.logger.Error("lead capture failed", "error", err)
		http.Error(w, "failed to capture lead", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(result)
}

// Score handles POST /api/score requests: a stateless scoring run over
// the supplied lead data, persisting nothing.
func (h *Handler) Score(w http.ResponseWriter, r *http.Request) {
	var in scoring.SignalInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.logger.Error("failed to decode score request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result := scoring.Score(scoring.ExtractSignals(in))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
