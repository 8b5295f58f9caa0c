// Package notify carries lifecycle notifications to the outside world:
// the automation webhook that drives client-facing WhatsApp messages,
// and email to the team for escalations. Everything here is
// best-effort; a dead sink never fails a booking.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/trivern/leadflow/internal/events"
	observemetrics "github.com/trivern/leadflow/internal/observability/metrics"
	"github.com/trivern/leadflow/pkg/logging"
)

// Sink accepts a named event with a payload, fire-and-forget.
type Sink interface {
	Dispatch(ctx context.Context, eventType string, payload any) error
}

// OutboxSink queues events for asynchronous delivery with retries.
// This is the sink production code uses: the local state change and
// the pending notification commit together.
type OutboxSink struct {
	store events.Store
}

func NewOutboxSink(store events.Store) *OutboxSink {
	if store == nil {
		panic("notify: outbox store required")
	}
	return &OutboxSink{store: store}
}

func (s *OutboxSink) Dispatch(ctx context.Context, eventType string, payload any) error {
	if _, err := s.store.Insert(ctx, eventType, payload); err != nil {
		return fmt.Errorf("notify: queue %s: %w", eventType, err)
	}
	return nil
}

// WebhookHandler posts outbox entries to the automation webhook. It is
// the delivery side of the pipeline and plugs into events.Deliverer.
type WebhookHandler struct {
	url     string
	client  *http.Client
	metrics *observemetrics.SchedulingMetrics
	logger  *logging.Logger
}

func NewWebhookHandler(url string, logger *logging.Logger) *WebhookHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &WebhookHandler{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

// WithMetrics attaches prometheus instruments. Safe to skip in tests.
func (h *WebhookHandler) WithMetrics(m *observemetrics.SchedulingMetrics) *WebhookHandler {
	h.metrics = m
	return h
}

type webhookEnvelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

func (h *WebhookHandler) Handle(ctx context.Context, entry events.OutboxEntry) error {
	if h.url == "" {
		// No webhook configured: treat as delivered so the outbox drains.
		h.logger.Debug("webhook not configured, dropping event", "type", entry.Type)
		return nil
	}

	body, err := json.Marshal(webhookEnvelope{Event: entry.Type, Payload: entry.Payload})
	if err != nil {
		return fmt.Errorf("notify: marshal envelope: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		h.metrics.ObserveDelivery(entry.Type, "failed")
		return fmt.Errorf("notify: post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		h.metrics.ObserveDelivery(entry.Type, "failed")
		return fmt.Errorf("notify: webhook returned %d", resp.StatusCode)
	}

	h.metrics.ObserveDelivery(entry.Type, "delivered")
	h.logger.Debug("webhook delivered", "type", entry.Type, "event_id", entry.ID)
	return nil
}

// Ensure interface compliance
var (
	_ Sink                   = (*OutboxSink)(nil)
	_ events.DeliveryHandler = (*WebhookHandler)(nil)
)
