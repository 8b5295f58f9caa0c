package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/trivern/leadflow/internal/api/router"
	"github.com/trivern/leadflow/internal/app/bootstrap"
	"github.com/trivern/leadflow/internal/availability"
	"github.com/trivern/leadflow/internal/booking"
	"github.com/trivern/leadflow/internal/clients"
	appconfig "github.com/trivern/leadflow/internal/config"
	"github.com/trivern/leadflow/internal/events"
	"github.com/trivern/leadflow/internal/leads"
	"github.com/trivern/leadflow/internal/meetings"
	"github.com/trivern/leadflow/internal/notify"
	observemetrics "github.com/trivern/leadflow/internal/observability/metrics"
	"github.com/trivern/leadflow/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting leadflow API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Persistence: postgres when configured, in-memory otherwise.
	pool := bootstrap.BuildPgxPool(ctx, cfg, logger)

	var (
		clientRepo   clients.Repository
		meetingRepo  meetings.Repository
		settingsRepo booking.SettingsRepository
		outboxStore  events.Store
	)
	if pool != nil {
		defer pool.Close()
		clientRepo = clients.NewPostgresRepository(pool)
		meetingRepo = meetings.NewPostgresRepository(pool)
		settingsRepo = booking.NewPostgresSettingsRepository(pool)
		outboxStore = events.NewOutboxStore(pool)
	} else {
		logger.Warn("postgres not configured, using in-memory stores")
		clientRepo = clients.NewInMemoryRepository()
		meetingRepo = meetings.NewInMemoryRepository()
		settingsRepo = booking.NewInMemorySettingsRepository()
		outboxStore = events.NewInMemoryStore()
	}

	// Redis backs the booking locks; without it locking degrades to a
	// single-process mutex.
	var locker booking.Locker = booking.NewInMemoryLocker()
	if redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true); redisClient != nil {
		defer redisClient.Close()
		locker = booking.NewRedisLocker(redisClient)
	}

	// Escalation email via SES.
	awsCfg, err := bootstrap.BuildAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}
	sender := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
		FromEmail: cfg.EmailFromAddress,
		FromName:  cfg.EmailFromName,
	}, logger)
	escalations := notify.NewEscalationNotifier(sender, cfg.TeamEmail, logger)

	sink := notify.NewOutboxSink(outboxStore)
	schedulingMetrics := observemetrics.NewSchedulingMetrics(prometheus.DefaultRegisterer)

	// Outbox deliverer feeds the automation webhook.
	webhook := notify.NewWebhookHandler(cfg.NotifyWebhookURL, logger).WithMetrics(schedulingMetrics)
	deliverer := events.NewDeliverer(outboxStore, webhook, logger).
		WithInterval(cfg.DelivererInterval).
		WithBatchSize(int32(cfg.DelivererBatchSize)).
		WithMaxAttempts(cfg.DelivererMaxAttempts)
	delivererCtx, stopDeliverer := context.WithCancel(context.Background())
	defer stopDeliverer()
	go deliverer.Start(delivererCtx)

	// Calendar is optional; booking degrades without it.
	var busy availability.BusyQuerier
	life := booking.NewLifecycle(clientRepo, meetingRepo, settingsRepo, sink, locker, logger)
	if gcal := bootstrap.BuildCalendar(ctx, cfg, logger); gcal != nil {
		life = life.WithCalendar(gcal)
		busy = gcal
	}
	resolver := availability.NewResolver(busy, meetingRepo, logger)

	// Initialize handlers
	leadsService := leads.NewService(clientRepo, sink, logger).WithEscalationEmail(escalations)
	leadsHandler := leads.NewHandler(leadsService, logger)
	schedulingHandler := booking.NewHandler(resolver, life, settingsRepo, clientRepo, logger).
		WithMetrics(schedulingMetrics)

	// Setup router
	r := router.New(&router.Config{
		Logger:             logger,
		LeadsHandler:       leadsHandler,
		SchedulingHandler:  schedulingHandler,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: []string{"*"},
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	stopDeliverer()

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}
