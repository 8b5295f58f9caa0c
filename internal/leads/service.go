// Package leads processes inbound lead captures: upsert by phone,
// signal extraction, scoring, tier classification and escalation
// routing. It is the write path that feeds the scheduling flow.
package leads

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/trivern/leadflow/internal/clients"
	"github.com/trivern/leadflow/internal/events"
	"github.com/trivern/leadflow/internal/notify"
	"github.com/trivern/leadflow/internal/scoring"
	"github.com/trivern/leadflow/pkg/logging"
)

var leadsTracer = otel.Tracer("leadflow.internal.leads")

// escalationEmailer is the slice of the escalation notifier Capture
// needs; nil means email is not configured.
type escalationEmailer interface {
	Notify(ctx context.Context, ev events.LeadEscalatedV1) error
}

// Service runs the capture pipeline.
type Service struct {
	clients     clients.Repository
	sink        notify.Sink
	escalations escalationEmailer
	logger      *logging.Logger
}

func NewService(clientRepo clients.Repository, sink notify.Sink, logger *logging.Logger) *Service {
	if clientRepo == nil {
		panic("leads: client repository required")
	}
	if sink == nil {
		panic("leads: notification sink required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{clients: clientRepo, sink: sink, logger: logger}
}

// WithEscalationEmail attaches the team email notifier.
func (s *Service) WithEscalationEmail(n *notify.EscalationNotifier) *Service {
	if n != nil {
		s.escalations = n
	}
	return s
}

// Capture upserts the client, rescores it from everything known so
// far, and routes an escalation the first time one fires. Re-capturing
// the same lead is safe: context accumulates and the escalation guard
// in the repository keeps routing single-shot.
func (s *Service) Capture(ctx context.Context, req CaptureRequest) (*CaptureResult, error) {
	ctx, span := leadsTracer.Start(ctx, "leads.capture")
	defer span.End()

	phone := strings.TrimSpace(req.Phone)
	if phone == "" {
		return nil, clients.ErrMissingPhone
	}
	span.SetAttributes(attribute.String("leadflow.source", req.Source))

	client, err := s.upsert(ctx, phone, req)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	signals := scoring.ExtractSignals(scoring.SignalInput{
		Service:      client.Service,
		Context:      client.Context,
		BudgetHint:   req.BudgetHint,
		Urgency:      client.Urgency,
		BusinessType: client.BusinessType,
		DecisionRole: client.DecisionRole,
		Industry:     client.Industry,
	})
	result := scoring.Score(signals)

	client.Score = result.Total
	client.FitScore = result.FitScore
	client.PainScore = result.PainScore
	client.IntentScore = result.IntentScore
	client.AuthorityScore = result.AuthorityScore
	client.EngagementScore = result.EngagementScore

	tier := scoring.Classify(client.EffectiveScore())

	if err := s.clients.Update(ctx, client); err != nil {
		span.RecordError(err)
		return nil, err
	}

	escalation := scoring.DetectEscalation(tier, client.Urgency, client.Context)
	escalated := client.Escalated
	if escalation.Escalate {
		escalated = true
		s.routeEscalation(ctx, client, tier, escalation.Reasons)
	}

	s.logger.Info("lead captured",
		"client_id", client.ID,
		"score", client.EffectiveScore(),
		"tier", string(tier),
		"escalated", escalated,
	)

	return &CaptureResult{
		ClientID:  client.ID,
		Score:     client.EffectiveScore(),
		Tier:      tier,
		Escalated: escalated,
	}, nil
}

func (s *Service) upsert(ctx context.Context, phone string, req CaptureRequest) (*clients.Client, error) {
	incoming := &clients.Client{
		Name:         strings.TrimSpace(req.Name),
		Phone:        phone,
		Email:        strings.TrimSpace(req.Email),
		Company:      strings.TrimSpace(req.Company),
		Industry:     req.Industry,
		Service:      req.Service,
		Context:      strings.TrimSpace(req.Context),
		Source:       req.Source,
		Urgency:      strings.ToUpper(strings.TrimSpace(req.Urgency)),
		BusinessType: req.BusinessType,
		DecisionRole: req.DecisionRole,
	}

	existing, err := s.clients.GetByPhone(ctx, phone)
	if err == nil {
		existing.MergeCapture(incoming)
		return existing, nil
	}
	if err != clients.ErrClientNotFound {
		return nil, err
	}

	created, err := s.clients.Create(ctx, &clients.Client{Phone: phone, Status: clients.StatusNew})
	if err != nil {
		return nil, err
	}
	created.MergeCapture(incoming)
	return created, nil
}

// routeEscalation records the escalation once and, only on the call
// that recorded it, queues the event and emails the team. Both
// notification legs are best-effort.
func (s *Service) routeEscalation(ctx context.Context, client *clients.Client, tier scoring.Tier, reasons []string) {
	first, err := s.clients.MarkEscalated(ctx, client.ID, strings.Join(reasons, "; "))
	if err != nil {
		s.logger.Error("escalation mark failed", "error", err, "client_id", client.ID)
		return
	}
	if !first {
		return
	}

	ev := events.LeadEscalatedV1{
		EventID:  uuid.NewString(),
		ClientID: client.ID,
		Name:     client.Name,
		Phone:    client.Phone,
		Tier:     string(tier),
		Score:    client.EffectiveScore(),
		Reasons:  reasons,
		RaisedAt: time.Now().UTC(),
	}
	if err := s.sink.Dispatch(ctx, events.TypeLeadEscalated, ev); err != nil {
		s.logger.Error("escalation event enqueue failed", "error", err, "client_id", client.ID)
	}
	if s.escalations != nil {
		if err := s.escalations.Notify(ctx, ev); err != nil {
			s.logger.Error("escalation email failed", "error", err, "client_id", client.ID)
		}
	}

	s.logger.Warn("lead escalated", "client_id", client.ID, "reasons", strings.Join(reasons, "; "))
}
