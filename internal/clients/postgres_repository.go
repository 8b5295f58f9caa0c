package clients

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const clientColumns = `
	id, name, phone, email, company, industry, service, context, source,
	urgency, business_type, decision_role, status, score, fit_score,
	pain_score, intent_score, authority_score, engagement_score,
	score_override, escalated, escalation_reason, created_at, updated_at`

// PostgresRepository stores clients in the relational database.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("clients: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Create(ctx context.Context, c *Client) (*Client, error) {
	if c.Phone == "" {
		return nil, ErrMissingPhone
	}

	stored := *c
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.Status == "" {
		stored.Status = StatusNew
	}

	query := `
		INSERT INTO clients (
			id, name, phone, email, company, industry, service, context, source,
			urgency, business_type, decision_role, status, score, fit_score,
			pain_score, intent_score, authority_score, engagement_score,
			score_override, escalated, escalation_reason
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)
		RETURNING created_at, updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		stored.ID, stored.Name, stored.Phone, stored.Email, stored.Company,
		stored.Industry, stored.Service, stored.Context, stored.Source,
		stored.Urgency, stored.BusinessType, stored.DecisionRole, stored.Status,
		stored.Score, stored.FitScore, stored.PainScore, stored.IntentScore,
		stored.AuthorityScore, stored.EngagementScore, stored.ScoreOverride,
		stored.Escalated, stored.EscalationReason,
	).Scan(&stored.CreatedAt, &stored.UpdatedAt); err != nil {
		return nil, fmt.Errorf("clients: insert failed: %w", err)
	}
	return &stored, nil
}

func (r *PostgresRepository) Update(ctx context.Context, c *Client) error {
	query := `
		UPDATE clients SET
			name = $2, phone = $3, email = $4, company = $5, industry = $6,
			service = $7, context = $8, source = $9, urgency = $10,
			business_type = $11, decision_role = $12, status = $13, score = $14,
			fit_score = $15, pain_score = $16, intent_score = $17,
			authority_score = $18, engagement_score = $19, score_override = $20,
			updated_at = now()
		WHERE id = $1
	`
	ct, err := r.pool.Exec(ctx, query,
		c.ID, c.Name, c.Phone, c.Email, c.Company, c.Industry, c.Service,
		c.Context, c.Source, c.Urgency, c.BusinessType, c.DecisionRole,
		c.Status, c.Score, c.FitScore, c.PainScore, c.IntentScore,
		c.AuthorityScore, c.EngagementScore, c.ScoreOverride,
	)
	if err != nil {
		return fmt.Errorf("clients: update failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrClientNotFound
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *PostgresRepository) GetByPhone(ctx context.Context, phone string) (*Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE phone = $1 ORDER BY created_at LIMIT 1`
	return r.scanOne(r.pool.QueryRow(ctx, query, phone))
}

func (r *PostgresRepository) SetStatus(ctx context.Context, id string, status Status) error {
	ct, err := r.pool.Exec(ctx,
		`UPDATE clients SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("clients: set status: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrClientNotFound
	}
	return nil
}

// MarkEscalated flips the escalated flag exactly once. The conditional
// WHERE makes concurrent captures race-safe: only one caller observes
// rows affected = 1 and gets to dispatch the escalation side effects.
func (r *PostgresRepository) MarkEscalated(ctx context.Context, id string, reason string) (bool, error) {
	query := `
		UPDATE clients
		SET escalated = true, escalation_reason = $2, updated_at = now()
		WHERE id = $1 AND escalated = false
	`
	ct, err := r.pool.Exec(ctx, query, id, reason)
	if err != nil {
		return false, fmt.Errorf("clients: mark escalated: %w", err)
	}
	if ct.RowsAffected() == 1 {
		return true, nil
	}

	// Distinguish "already escalated" from "no such client".
	var exists int
	if err := r.pool.QueryRow(ctx, `SELECT 1 FROM clients WHERE id = $1`, id).Scan(&exists); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, ErrClientNotFound
		}
		return false, fmt.Errorf("clients: check exists: %w", err)
	}
	return false, nil
}

func (r *PostgresRepository) scanOne(row pgx.Row) (*Client, error) {
	var c Client
	var createdAt, updatedAt time.Time
	if err := row.Scan(
		&c.ID, &c.Name, &c.Phone, &c.Email, &c.Company, &c.Industry,
		&c.Service, &c.Context, &c.Source, &c.Urgency, &c.BusinessType,
		&c.DecisionRole, &c.Status, &c.Score, &c.FitScore, &c.PainScore,
		&c.IntentScore, &c.AuthorityScore, &c.EngagementScore,
		&c.ScoreOverride, &c.Escalated, &c.EscalationReason,
		&createdAt, &updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("clients: select failed: %w", err)
	}
	c.CreatedAt = createdAt
	c.UpdatedAt = updatedAt
	return &c, nil
}
