// Package config provides configuration loading from environment variables.
package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds all configuration for the application. Provider credentials
// are optional: a missing key disables that provider rather than failing
// startup, since the demo provider always works.
type Config struct {
	// Server settings
	Port int `env:"PORT, default=8080" json:"port"`

	// Provider credentials. Masked in JSON and never logged.
	LumaAPIKey   string `env:"LUMA_API_KEY" json:"-"`
	GeminiAPIKey string `env:"GEMINI_API_KEY" json:"-"`
	HeyGenAPIKey string `env:"HEYGEN_API_KEY" json:"-"`

	// ProviderFallback names the provider tried once when a submission
	// against the requested provider fails. Empty disables fallback.
	ProviderFallback string `env:"PROVIDER_FALLBACK" json:"provider_fallback,omitempty"`

	// Polling settings
	PollInitialDelay time.Duration `env:"POLL_INITIAL_DELAY, default=2s" json:"poll_initial_delay"`
	PollInterval     time.Duration `env:"POLL_INTERVAL, default=5s" json:"poll_interval"`
	PollMaxAttempts  int           `env:"POLL_MAX_ATTEMPTS, default=60" json:"poll_max_attempts"`

	// Optional archive settings
	ArchiveDir         string `env:"ARCHIVE_DIR" json:"archive_dir,omitempty"`
	S3Bucket           string `env:"S3_BUCKET" json:"s3_bucket,omitempty"`
	S3Region           string `env:"S3_REGION" json:"s3_region,omitempty"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID" json:"-"`     // Masked in JSON
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" json:"-"` // Masked in JSON

	// Logging settings
	LogFormat string `env:"LOG_FORMAT, default=text" json:"log_format"` // "json" or "text"
	LogLevel  string `env:"LOG_LEVEL, default=info" json:"log_level"`   // "debug", "info", "warn", "error"
}

// S3Enabled returns true if S3 archive configuration is provided.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != "" && c.S3Region != ""
}

// ArchiveEnabled returns true if any archive backend is configured.
func (c *Config) ArchiveEnabled() bool {
	return c.S3Enabled() || c.ArchiveDir != ""
}

// Load reads configuration from environment variables using go-envconfig.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := envconfig.Process(context.Background(), cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// NewLogger creates a structured logger based on the configuration.
// When LogFormat is "json", it outputs JSON logs suitable for production.
// Otherwise, it outputs human-readable text logs.
func (c *Config) NewLogger() *slog.Logger {
	level := parseLogLevel(c.LogLevel)

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}

	return slog.New(handler)
}

// String returns a string representation of the config with sensitive values
// masked.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Port: %d, ProviderFallback: %s, PollInitialDelay: %s, PollInterval: %s, PollMaxAttempts: %d, ArchiveDir: %s, S3Bucket: %s, S3Region: %s, LogFormat: %s, LogLevel: %s}",
		c.Port,
		c.ProviderFallback,
		c.PollInitialDelay,
		c.PollInterval,
		c.PollMaxAttempts,
		c.ArchiveDir,
		c.S3Bucket,
		c.S3Region,
		c.LogFormat,
		c.LogLevel,
	)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
