package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/trivern/leadflow/internal/booking"
	httpmiddleware "github.com/trivern/leadflow/internal/http/middleware"
	"github.com/trivern/leadflow/internal/leads"
	"github.com/trivern/leadflow/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	LeadsHandler       *leads.Handler
	SchedulingHandler  *booking.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		if cfg.LeadsHandler != nil {
			api.Post("/score", cfg.LeadsHandler.Score)
			api.Post("/leads", cfg.LeadsHandler.Capture)
		}
		if cfg.SchedulingHandler != nil {
			api.Get("/slots", cfg.SchedulingHandler.GetSlots)
			api.Route("/meetings", func(m chi.Router) {
				m.Post("/", cfg.SchedulingHandler.Book)
				m.Post("/emergency-cancel", cfg.SchedulingHandler.EmergencyCancel)
				m.Post("/{id}/transition", cfg.SchedulingHandler.Transition)
			})
			api.Get("/booking-settings", cfg.SchedulingHandler.GetSettings)
			api.Put("/booking-settings", cfg.SchedulingHandler.PutSettings)
		}
	})

	return r
}
