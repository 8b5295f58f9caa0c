package meetings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trivern/leadflow/internal/availability"
)

const meetingColumns = `
	id, client_id, date, duration, calendar_event_id, join_link, status,
	remarks, created_at, updated_at`

// PostgresRepository stores meetings in the relational database.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("meetings: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Create(ctx context.Context, m *Meeting) (*Meeting, error) {
	stored := *m
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.Status == "" {
		stored.Status = StatusScheduled
	}

	query := `
		INSERT INTO meetings (id, client_id, date, duration, calendar_event_id, join_link, status, remarks)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		stored.ID, stored.ClientID, stored.Date, stored.Duration,
		stored.CalendarEventID, stored.JoinLink, stored.Status, stored.Remarks,
	).Scan(&stored.CreatedAt, &stored.UpdatedAt); err != nil {
		return nil, fmt.Errorf("meetings: insert failed: %w", err)
	}
	return &stored, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Meeting, error) {
	query := `SELECT ` + meetingColumns + ` FROM meetings WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

// UpdateStatus performs the guarded terminal transition. The
// `status = 'SCHEDULED'` predicate is the optimistic check that
// serializes racing transitions on the same row.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status Status, remarks string) (*Meeting, error) {
	query := `
		UPDATE meetings
		SET status = $2,
		    remarks = CASE WHEN $3 <> '' THEN $3 ELSE remarks END,
		    updated_at = now()
		WHERE id = $1 AND status = 'SCHEDULED'
		RETURNING ` + meetingColumns
	m, err := r.scanOne(r.pool.QueryRow(ctx, query, id, status, remarks))
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, ErrMeetingNotFound) {
		return nil, err
	}

	// Row missing, or present but already terminal.
	if _, lookupErr := r.GetByID(ctx, id); lookupErr != nil {
		return nil, lookupErr
	}
	return nil, ErrNotSchedulable
}

func (r *PostgresRepository) ListScheduledBetween(ctx context.Context, from, to time.Time) ([]*Meeting, error) {
	query := `
		SELECT ` + meetingColumns + `
		FROM meetings
		WHERE status = 'SCHEDULED' AND date >= $1 AND date < $2
		ORDER BY date
	`
	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("meetings: list scheduled: %w", err)
	}
	defer rows.Close()

	var out []*Meeting
	for rows.Next() {
		m, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) CountCommittedOn(ctx context.Context, dayStart, dayEnd time.Time) (int, error) {
	query := `
		SELECT count(*)
		FROM meetings
		WHERE date >= $1 AND date < $2 AND status IN ('SCHEDULED', 'COMPLETED')
	`
	var count int
	if err := r.pool.QueryRow(ctx, query, dayStart, dayEnd).Scan(&count); err != nil {
		return 0, fmt.Errorf("meetings: count committed: %w", err)
	}
	return count, nil
}

func (r *PostgresRepository) ScheduledIntervalsOn(ctx context.Context, dayStart, dayEnd time.Time) ([]availability.BusyInterval, error) {
	query := `
		SELECT date, duration
		FROM meetings
		WHERE status = 'SCHEDULED'
		  AND date < $2
		  AND date + (duration * interval '1 minute') > $1
		ORDER BY date
	`
	rows, err := r.pool.Query(ctx, query, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("meetings: scheduled intervals: %w", err)
	}
	defer rows.Close()

	var out []availability.BusyInterval
	for rows.Next() {
		var start time.Time
		var duration int
		if err := rows.Scan(&start, &duration); err != nil {
			return nil, fmt.Errorf("meetings: scan interval: %w", err)
		}
		out = append(out, availability.BusyInterval{
			Start: start,
			End:   start.Add(time.Duration(duration) * time.Minute),
		})
	}
	return out, rows.Err()
}

func (r *PostgresRepository) scanOne(row pgx.Row) (*Meeting, error) {
	var m Meeting
	if err := row.Scan(
		&m.ID, &m.ClientID, &m.Date, &m.Duration, &m.CalendarEventID,
		&m.JoinLink, &m.Status, &m.Remarks, &m.CreatedAt, &m.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMeetingNotFound
		}
		return nil, fmt.Errorf("meetings: select failed: %w", err)
	}
	return &m, nil
}

func (r *PostgresRepository) scanRow(rows pgx.Rows) (*Meeting, error) {
	var m Meeting
	if err := rows.Scan(
		&m.ID, &m.ClientID, &m.Date, &m.Duration, &m.CalendarEventID,
		&m.JoinLink, &m.Status, &m.Remarks, &m.CreatedAt, &m.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("meetings: scan row: %w", err)
	}
	return &m, nil
}
