package config

import (
	"fmt"
	"strings"
)

const (
	// DefaultUploadMaxBytes is the largest document accepted for upload (10 MiB).
	DefaultUploadMaxBytes = 10 << 20
	maxUploadMaxBytes     = 50 << 20
)

// AppConfig holds settings shared by the API server, the worker and the CLI.
type AppConfig struct {
	Port        string
	DatabaseURL string
	Version     string
	LogLevel    string

	// UploadMaxBytes bounds the size of an uploaded document.
	UploadMaxBytes int64

	// InlineSummarize summarizes a document during upload instead of leaving it
	// pending for the worker.
	InlineSummarize bool

	TracingEnabled bool
}

// LoadAppConfig reads AppConfig from the environment and validates it.
func LoadAppConfig() (*AppConfig, error) {
	cfg := &AppConfig{
		Port:            GetEnvString("PORT", "8080"),
		DatabaseURL:     GetEnvString("DATABASE_URL", ""),
		Version:         GetEnvString("VERSION", "dev"),
		LogLevel:        strings.ToLower(GetEnvString("LOG_LEVEL", "info")),
		UploadMaxBytes:  int64(GetEnvInt("UPLOAD_MAX_BYTES", DefaultUploadMaxBytes)),
		InlineSummarize: GetEnvBool("SUMMARIZE_ON_UPLOAD", true),
		TracingEnabled:  GetEnvBool("OTEL_TRACING_ENABLED", false),
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid application configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks configuration correctness.
func (c *AppConfig) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must be set")
	}
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.UploadMaxBytes <= 0 || c.UploadMaxBytes > maxUploadMaxBytes {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be between 1 and %d, got %d", maxUploadMaxBytes, c.UploadMaxBytes)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error, got %q", c.LogLevel)
	}
	return nil
}
