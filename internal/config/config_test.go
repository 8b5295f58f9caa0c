package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("BOOKING_TIMEZONE", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.Timezone != "Asia/Kolkata" {
		t.Fatalf("expected default timezone, got %s", cfg.Timezone)
	}
	if cfg.GoogleCalendarID != "primary" {
		t.Fatalf("expected default calendar id, got %s", cfg.GoogleCalendarID)
	}
	if cfg.DelivererInterval != 2*time.Second {
		t.Fatalf("expected default deliverer interval, got %s", cfg.DelivererInterval)
	}
	if cfg.DelivererMaxAttempts != 5 {
		t.Fatalf("expected default deliverer attempts, got %d", cfg.DelivererMaxAttempts)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DATABASE_URL", "postgres://user@host/db")
	t.Setenv("BOOKING_TIMEZONE", "UTC")
	t.Setenv("NOTIFY_WEBHOOK_URL", "https://automation.example/hook")
	t.Setenv("DELIVERER_INTERVAL", "5s")
	t.Setenv("DELIVERER_BATCH_SIZE", "50")
	t.Setenv("REDIS_TLS", "true")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.Env != "production" {
		t.Fatalf("expected env override, got %s", cfg.Env)
	}
	if cfg.DatabaseURL != "postgres://user@host/db" {
		t.Fatalf("expected db override, got %s", cfg.DatabaseURL)
	}
	if cfg.Timezone != "UTC" {
		t.Fatalf("expected timezone override, got %s", cfg.Timezone)
	}
	if cfg.NotifyWebhookURL != "https://automation.example/hook" {
		t.Fatalf("expected webhook override, got %s", cfg.NotifyWebhookURL)
	}
	if cfg.DelivererInterval != 5*time.Second {
		t.Fatalf("expected deliverer interval override, got %s", cfg.DelivererInterval)
	}
	if cfg.DelivererBatchSize != 50 {
		t.Fatalf("expected deliverer batch override, got %d", cfg.DelivererBatchSize)
	}
	if !cfg.RedisTLS {
		t.Fatalf("expected redis tls enabled")
	}
}
