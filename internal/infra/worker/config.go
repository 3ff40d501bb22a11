// Package worker holds the pieces of the background summarization worker: its
// configuration, the scheduled job, metrics and the side-port health server.
package worker

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"docsumm/internal/pkg/config"
)

// WorkerConfig controls the summarization schedule and its limits.
type WorkerConfig struct {
	// CronSchedule is a five-field cron expression or a descriptor like "@every 1m".
	CronSchedule string
	// Timezone is the IANA location the schedule is evaluated in.
	Timezone string
	// Parallelism bounds concurrent summaries within one run.
	Parallelism int
	// BatchSize is the number of pending or failed documents picked per run.
	BatchSize int
	// DocumentTimeout bounds one document summarization.
	DocumentTimeout time.Duration
	// JobTimeout bounds one whole run.
	JobTimeout time.Duration
	// HealthPort serves /health, /health/ready and /metrics.
	HealthPort int
}

// DefaultConfig runs every five minutes in UTC.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		CronSchedule:    "*/5 * * * *",
		Timezone:        "UTC",
		Parallelism:     4,
		BatchSize:       50,
		DocumentTimeout: 2 * time.Minute,
		JobTimeout:      30 * time.Minute,
		HealthPort:      9091,
	}
}

const (
	maxParallelism = 32
	maxBatchSize   = 500
)

// Validate reports every invalid field at once.
func (c *WorkerConfig) Validate() error {
	var errs []error
	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidateIntRange(c.Parallelism, 1, maxParallelism); err != nil {
		errs = append(errs, fmt.Errorf("parallelism: %w", err))
	}
	if err := config.ValidateIntRange(c.BatchSize, 1, maxBatchSize); err != nil {
		errs = append(errs, fmt.Errorf("batch size: %w", err))
	}
	if err := config.ValidateDuration(c.DocumentTimeout, time.Second, time.Hour); err != nil {
		errs = append(errs, fmt.Errorf("document timeout: %w", err))
	}
	if err := config.ValidateDuration(c.JobTimeout, time.Minute, 4*time.Hour); err != nil {
		errs = append(errs, fmt.Errorf("job timeout: %w", err))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %w", errors.Join(errs...))
	}
	return nil
}

// LoadConfigFromEnv reads the WORKER_* variables. It never fails: an invalid value
// is logged, counted in metrics and replaced by its default.
//
//	WORKER_CRON_SCHEDULE  WORKER_TIMEZONE     WORKER_PARALLELISM
//	WORKER_BATCH_SIZE     WORKER_TIMEOUT      WORKER_JOB_TIMEOUT
//	WORKER_HEALTH_PORT
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) WorkerConfig {
	cfg := DefaultConfig()
	fallback := false

	note := func(field, warning string, applied bool) {
		if !applied {
			return
		}
		fallback = true
		metrics.RecordFallback(field)
		logger.Warn("configuration fallback applied",
			slog.String("field", field),
			slog.String("warning", warning))
	}

	s := config.LoadEnvString("WORKER_CRON_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule)
	cfg.CronSchedule = s.Value
	note("cron_schedule", s.Warning, s.FallbackApplied)

	s = config.LoadEnvString("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = s.Value
	note("timezone", s.Warning, s.FallbackApplied)

	i := config.LoadEnvInt("WORKER_PARALLELISM", cfg.Parallelism, config.IntRange(1, maxParallelism))
	cfg.Parallelism = i.Value
	note("parallelism", i.Warning, i.FallbackApplied)

	i = config.LoadEnvInt("WORKER_BATCH_SIZE", cfg.BatchSize, config.IntRange(1, maxBatchSize))
	cfg.BatchSize = i.Value
	note("batch_size", i.Warning, i.FallbackApplied)

	d := config.LoadEnvDuration("WORKER_TIMEOUT", cfg.DocumentTimeout, config.DurationRange(time.Second, time.Hour))
	cfg.DocumentTimeout = d.Value
	note("document_timeout", d.Warning, d.FallbackApplied)

	d = config.LoadEnvDuration("WORKER_JOB_TIMEOUT", cfg.JobTimeout, config.DurationRange(time.Minute, 4*time.Hour))
	cfg.JobTimeout = d.Value
	note("job_timeout", d.Warning, d.FallbackApplied)

	i = config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, config.IntRange(1024, 65535))
	cfg.HealthPort = i.Value
	note("health_port", i.Warning, i.FallbackApplied)

	metrics.SetFallbackActive(fallback)
	metrics.RecordLoadTimestamp()
	return cfg
}
