package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trivern/leadflow/internal/availability"
)

// SettingsRepository persists the single administrative booking
// configuration. Get on an empty store returns the defaults rather
// than an error so a fresh deployment is immediately bookable.
type SettingsRepository interface {
	Get(ctx context.Context) (availability.Settings, error)
	Put(ctx context.Context, s availability.Settings) error
}

// ValidateSettings rejects configurations the resolver cannot act on.
func ValidateSettings(s availability.Settings) error {
	if s.StartHour < 0 || s.StartHour > 23 || s.EndHour < 1 || s.EndHour > 24 {
		return fmt.Errorf("booking: hours out of range: %d-%d", s.StartHour, s.EndHour)
	}
	if s.StartHour >= s.EndHour {
		return fmt.Errorf("booking: start hour %d not before end hour %d", s.StartHour, s.EndHour)
	}
	if s.SlotDuration <= 0 {
		return fmt.Errorf("booking: slot duration must be positive, got %d", s.SlotDuration)
	}
	if s.BufferMinutes < 0 {
		return fmt.Errorf("booking: buffer must not be negative, got %d", s.BufferMinutes)
	}
	if s.MaxPerDay < 0 {
		return fmt.Errorf("booking: max per day must not be negative, got %d", s.MaxPerDay)
	}
	if s.Timezone != "" {
		if _, err := time.LoadLocation(s.Timezone); err != nil {
			return fmt.Errorf("booking: unknown timezone %q", s.Timezone)
		}
	}
	for _, d := range s.BlockedDates {
		if !validISODate(d) {
			return fmt.Errorf("booking: blocked date %q is not an ISO date", d)
		}
	}
	return nil
}

func validISODate(s string) bool {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return false
	}
	for i, c := range s {
		if i == 4 || i == 7 {
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// PostgresSettingsRepository stores the configuration as a single row.
type PostgresSettingsRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresSettingsRepository(pool *pgxpool.Pool) *PostgresSettingsRepository {
	if pool == nil {
		panic("booking: pgx pool required")
	}
	return &PostgresSettingsRepository{pool: pool}
}

func (r *PostgresSettingsRepository) Get(ctx context.Context) (availability.Settings, error) {
	query := `
		SELECT start_hour, end_hour, slot_duration, buffer_minutes,
		       max_per_day, blocked_dates, timezone
		FROM booking_settings
		WHERE id = 1
	`
	var s availability.Settings
	err := r.pool.QueryRow(ctx, query).Scan(
		&s.StartHour, &s.EndHour, &s.SlotDuration, &s.BufferMinutes,
		&s.MaxPerDay, &s.BlockedDates, &s.Timezone,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return availability.DefaultSettings(), nil
	}
	if err != nil {
		return availability.Settings{}, fmt.Errorf("booking: load settings: %w", err)
	}
	return s, nil
}

func (r *PostgresSettingsRepository) Put(ctx context.Context, s availability.Settings) error {
	query := `
		INSERT INTO booking_settings
			(id, start_hour, end_hour, slot_duration, buffer_minutes, max_per_day, blocked_dates, timezone)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			start_hour = EXCLUDED.start_hour,
			end_hour = EXCLUDED.end_hour,
			slot_duration = EXCLUDED.slot_duration,
			buffer_minutes = EXCLUDED.buffer_minutes,
			max_per_day = EXCLUDED.max_per_day,
			blocked_dates = EXCLUDED.blocked_dates,
			timezone = EXCLUDED.timezone,
			updated_at = now()
	`
	if _, err := r.pool.Exec(ctx, query,
		s.StartHour, s.EndHour, s.SlotDuration, s.BufferMinutes,
		s.MaxPerDay, s.BlockedDates, s.Timezone,
	); err != nil {
		return fmt.Errorf("booking: save settings: %w", err)
	}
	return nil
}

// InMemorySettingsRepository backs tests and local development.
type InMemorySettingsRepository struct {
	mu  sync.RWMutex
	s   availability.Settings
	set bool
}

func NewInMemorySettingsRepository() *InMemorySettingsRepository {
	return &InMemorySettingsRepository{}
}

func (r *InMemorySettingsRepository) Get(_ context.Context) (availability.Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.set {
		return availability.DefaultSettings(), nil
	}
	return r.s, nil
}

func (r *InMemorySettingsRepository) Put(_ context.Context, s availability.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s = s
	r.set = true
	return nil
}

var (
	_ SettingsRepository = (*PostgresSettingsRepository)(nil)
	_ SettingsRepository = (*InMemorySettingsRepository)(nil)
)
