package app

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Issuer       string // Issuer claim for access tokens (default: backoffice)
	DatabaseFile string // Path to SQLite database file (default: ./backoffice.db)
	KeyFile      string // Path to Ed25519 signing key; empty means ephemeral

	AccessTTL  time.Duration // Access token lifetime (default: 15m)
	RefreshTTL time.Duration // Refresh token lifetime (default: 168h)
	InviteTTL  time.Duration // Invitation validity window (default: 72h)

	AcceptBaseURL string // Public URL prefix for invitation accept links

	// SMTP delivery for invitation mail. Unset host falls back to logging
	// the mail instead of sending it.
	SMTPAddr     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	// Bootstrap credentials for the first admin account. Both must be set
	// for the bootstrap to run.
	AdminUsername string
	AdminPassword string

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

// LoadConfig reads configuration from the environment. A .env file in the
// working directory is merged in first, which keeps local development out of
// the shell profile.
func LoadConfig() Config {
	_ = godotenv.Load()

	return Config{
		Issuer:       getEnvOrDefault("BACKOFFICE_ISSUER", "backoffice"),
		DatabaseFile: getEnvOrDefault("BACKOFFICE_DATABASE_FILE", "backoffice.db"),
		KeyFile:      os.Getenv("BACKOFFICE_KEY_FILE"),

		AccessTTL:  getEnvDurationOrDefault("BACKOFFICE_ACCESS_TTL", 15*time.Minute),
		RefreshTTL: getEnvDurationOrDefault("BACKOFFICE_REFRESH_TTL", 7*24*time.Hour),
		InviteTTL:  getEnvDurationOrDefault("BACKOFFICE_INVITE_TTL", 72*time.Hour),

		AcceptBaseURL: getEnvOrDefault("BACKOFFICE_ACCEPT_BASE_URL", "http://localhost:8080"),

		SMTPAddr:     os.Getenv("BACKOFFICE_SMTP_ADDR"),
		SMTPFrom:     os.Getenv("BACKOFFICE_SMTP_FROM"),
		SMTPUsername: os.Getenv("BACKOFFICE_SMTP_USERNAME"),
		SMTPPassword: os.Getenv("BACKOFFICE_SMTP_PASSWORD"),

		AdminUsername: os.Getenv("BACKOFFICE_ADMIN_USERNAME"),
		AdminPassword: os.Getenv("BACKOFFICE_ADMIN_PASSWORD"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	return defaultValue
}
