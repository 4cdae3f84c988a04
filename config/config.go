package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/term"
)

// Config holds all configuration for the application
type Config struct {
	Environment string
	LogLevel    string

	HTTPEnabled    bool
	Port           string
	AllowedOrigins []string

	// ConsoleEnabled defaults to true when stdin is a terminal.
	ConsoleEnabled bool

	ReminderPollInterval time.Duration
	ExportDir            string

	JWTSecret       string
	JWTExpiry       time.Duration
	APIPasswordHash string

	Email EmailConfig
}

// EmailConfig selects the reminder mail transport. An empty ReminderTo
// disables email reminders.
type EmailConfig struct {
	Provider              string
	FromAddress           string
	FromName              string
	ReminderTo            string
	AWSRegion             string
	AWSAccessKeyID        string
	AWSSecretAccessKey    string
	SESInsecureSkipVerify bool
}

// AuthEnabled reports whether the HTTP API requires bearer tokens.
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

// Load loads configuration from environment variables
// It attempts to load from .env file if not in production
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Production relies on the real environment; .env is a development aid.
	if env != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found or couldn't be loaded: %v", err)
		}
	}

	return fromEnv(os.Getenv, term.IsTerminal(int(os.Stdin.Fd())))
}

// fromEnv builds a Config from getenv. stdinIsTerminal decides the
// CONSOLE_ENABLED default.
func fromEnv(getenv func(string) string, stdinIsTerminal bool) (*Config, error) {
	var errs []error

	cfg := &Config{
		Environment:     getenv("GO_ENV"),
		LogLevel:        getenv("LOG_LEVEL"),
		Port:            getenv("PORT"),
		ExportDir:       getenv("EXPORT_DIR"),
		JWTSecret:       getenv("JWT_SECRET"),
		APIPasswordHash: getenv("API_PASSWORD_HASH"),
		AllowedOrigins:  splitList(getenv("CORS_ALLOWED_ORIGINS")),
		Email: EmailConfig{
			Provider:           strings.ToLower(getenv("EMAIL_PROVIDER")),
			FromAddress:        getenv("EMAIL_FROM_ADDRESS"),
			FromName:           getenv("EMAIL_FROM_NAME"),
			ReminderTo:         getenv("REMINDER_EMAIL_TO"),
			AWSRegion:          getenv("AWS_REGION"),
			AWSAccessKeyID:     getenv("AWS_ACCESS_KEY_ID"),
			AWSSecretAccessKey: getenv("AWS_SECRET_ACCESS_KEY"),
		},
	}

	// Set defaults
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = "."
	}
	if cfg.Email.Provider == "" {
		cfg.Email.Provider = "noop"
	}

	var err error
	if cfg.HTTPEnabled, err = parseBool(getenv, "HTTP_ENABLED", true); err != nil {
		errs = append(errs, err)
	}
	if cfg.ConsoleEnabled, err = parseBool(getenv, "CONSOLE_ENABLED", stdinIsTerminal); err != nil {
		errs = append(errs, err)
	}
	if cfg.Email.SESInsecureSkipVerify, err = parseBool(getenv, "SES_INSECURE_SKIP_VERIFY", false); err != nil {
		errs = append(errs, err)
	}
	if cfg.ReminderPollInterval, err = parseDuration(getenv, "REMINDER_POLL_INTERVAL", 30*time.Second); err != nil {
		errs = append(errs, err)
	}
	if cfg.JWTExpiry, err = parseDuration(getenv, "JWT_EXPIRY", 24*time.Hour); err != nil {
		errs = append(errs, err)
	}

	if cfg.JWTSecret != "" && cfg.APIPasswordHash == "" {
		errs = append(errs, errors.New("API_PASSWORD_HASH is required when JWT_SECRET is set"))
	}
	if !cfg.HTTPEnabled && !cfg.ConsoleEnabled {
		errs = append(errs, errors.New("both HTTP_ENABLED and CONSOLE_ENABLED are off; nothing to serve"))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func parseBool(getenv func(string) string, key string, def bool) (bool, error) {
	s := strings.TrimSpace(getenv(key))
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return def, fmt.Errorf("%s: %q is not a boolean", key, s)
	}
	return v, nil
}

func parseDuration(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	s := strings.TrimSpace(getenv(key))
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def, fmt.Errorf("%s: %q is not a positive duration", key, s)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
