package app

import (
	"os"
	"strconv"
	"time"

	"github.com/quickmarket/storeauth/internal/auth/service"
)

type Config struct {
	Issuer         string // Required: issuer claim for tokens
	BootstrapToken string // Optional: token required to perform bootstrap

	SigningKeyFile string // Optional: path to an Ed25519 PKCS8 PEM; empty means an ephemeral key per boot
	DatabaseFile   string // Optional: path to SQLite database file (default: ./auth.db)
	PepperFile     string // Optional: path to file containing pepper for password hashing (default: ./pepper)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired challenge sweep interval (default: 15m)

	// Challenge tunes the email second factor. Zero values fall back to the
	// service defaults (6 digits, 10m code, 60s cooldown, 5 attempts, 10m session).
	Challenge service.ChallengeOptions

	// SMTP settings. An empty host keeps mail in log-only mode, which is
	// what you want for local development.
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPFromName string
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:         os.Getenv("AUTH_ISSUER"),
		BootstrapToken: os.Getenv("BOOTSTRAP_TOKEN"),

		SigningKeyFile: os.Getenv("AUTH_SIGNING_KEY_FILE"),
		DatabaseFile:   getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		PepperFile:     getEnvOrDefault("AUTH_PEPPER_FILE", "pepper"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 15*time.Minute),

		Challenge: service.ChallengeOptions{
			CodeLength:          getEnvIntOrDefault("TWOFA_CODE_LENGTH", 0),
			CodeLifetime:        getEnvDurationOrDefault("TWOFA_CODE_LIFETIME", 0),
			ResendCooldown:      getEnvDurationOrDefault("TWOFA_RESEND_COOLDOWN", 0),
			MaxAttempts:         getEnvIntOrDefault("TWOFA_MAX_ATTEMPTS", 0),
			SessionLifetime:     getEnvDurationOrDefault("TWOFA_SESSION_LIFETIME", 0),
			DestinationOverride: os.Getenv("TWOFA_DESTINATION_OVERRIDE"),
		},

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvIntOrDefault("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     os.Getenv("SMTP_FROM"),
		SMTPFromName: getEnvOrDefault("SMTP_FROM_NAME", "QuickMarket"),
	}

	if cfg.Issuer == "" {
		cfg.Issuer = "storeauth"
	}

	return cfg
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

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
