package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	PublicBaseURL string
	LogLevel      string
	DatabaseURL   string

	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// Booking defaults applied when no settings row exists yet.
	Timezone string

	// Google Calendar integration. Empty credentials disable the
	// calendar; busy checks then fall back to stored meetings.
	GoogleCalendarID      string
	GoogleCredentialsJSON string

	// Automation webhook that turns outbox events into client messages.
	NotifyWebhookURL string

	// Escalation email (AWS SES).
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string
	EmailFromAddress    string
	EmailFromName       string
	TeamEmail           string

	// Outbox deliverer knobs.
	DelivererInterval    time.Duration
	DelivererBatchSize   int
	DelivererMaxAttempts int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),

		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		Timezone: getEnv("BOOKING_TIMEZONE", "Asia/Kolkata"),

		GoogleCalendarID:      getEnv("GOOGLE_CALENDAR_ID", "primary"),
		GoogleCredentialsJSON: getEnv("GOOGLE_CREDENTIALS_JSON", ""),

		NotifyWebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),
		EmailFromAddress:    getEnv("EMAIL_FROM_ADDRESS", ""),
		EmailFromName:       getEnv("EMAIL_FROM_NAME", "Trivern CRM"),
		TeamEmail:           getEnv("TEAM_EMAIL", ""),

		DelivererInterval:    getEnvAsDuration("DELIVERER_INTERVAL", 2*time.Second),
		DelivererBatchSize:   getEnvAsInt("DELIVERER_BATCH_SIZE", 25),
		DelivererMaxAttempts: getEnvAsInt("DELIVERER_MAX_ATTEMPTS", 5),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
