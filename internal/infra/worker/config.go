package worker

import (
	"fmt"
	"log/slog"
	"time"

	"offersync/internal/pkg/config"
)

// WorkerConfig holds the configuration for the worker component.
// It controls the sync and cleanup schedules, the timezone the cron
// expressions are evaluated in, per-job timeouts, and the health port.
//
// All fields have defaults and validation rules so the worker can start
// safely even with missing or invalid environment configuration.
type WorkerConfig struct {
	// SyncSchedule is the cron expression for the offer sync job.
	// Format: "minute hour day month weekday"
	// Default: "*/30 * * * *" (every 30 minutes)
	SyncSchedule string

	// CleanupSchedule is the cron expression for the expiry cleanup job.
	// Default: "0 0 * * *" (daily at midnight)
	CleanupSchedule string

	// Timezone is the IANA timezone name for cron scheduling.
	// Default: "Asia/Ho_Chi_Minh"
	Timezone string

	// SyncTimeout is the maximum duration for a single sync run.
	// Default: 10 minutes
	SyncTimeout time.Duration

	// CleanupTimeout is the maximum duration for a single cleanup run.
	// Default: 5 minutes
	CleanupTimeout time.Duration

	// HealthPort is the port number for the health check HTTP server.
	// Range: 1024-65535
	// Default: 9091
	HealthPort int
}

// DefaultConfig returns a WorkerConfig with production defaults:
// half-hourly sync, midnight cleanup, Vietnam time.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		SyncSchedule:    "*/30 * * * *",
		CleanupSchedule: "0 0 * * *",
		Timezone:        "Asia/Ho_Chi_Minh",
		SyncTimeout:     10 * time.Minute,
		CleanupTimeout:  5 * time.Minute,
		HealthPort:      9091,
	}
}

// Validate checks if the configuration values are valid.
// If multiple fields are invalid, all errors are collected and returned
// together.
func (c *WorkerConfig) Validate() error {
	var errors []error

	if err := config.ValidateCronSchedule(c.SyncSchedule); err != nil {
		errors = append(errors, fmt.Errorf("sync schedule: %w", err))
	}

	if err := config.ValidateCronSchedule(c.CleanupSchedule); err != nil {
		errors = append(errors, fmt.Errorf("cleanup schedule: %w", err))
	}

	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errors = append(errors, fmt.Errorf("timezone: %w", err))
	}

	if err := config.ValidatePositiveDuration(c.SyncTimeout); err != nil {
		errors = append(errors, fmt.Errorf("sync timeout: %w", err))
	}

	if err := config.ValidatePositiveDuration(c.CleanupTimeout); err != nil {
		errors = append(errors, fmt.Errorf("cleanup timeout: %w", err))
	}

	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errors = append(errors, fmt.Errorf("health port: %w", err))
	}

	if len(errors) > 0 {
		return fmt.Errorf("validation failed: %v", errors)
	}

	return nil
}

// LoadConfigFromEnv loads worker configuration from environment variables
// with validation and automatic fallback to default values on failure.
//
// This function implements the fail-open strategy: an invalid value never
// stops the worker, it falls back to the default, logs a warning and
// increments the fallback metrics.
//
// Environment variables:
//   - SYNC_SCHEDULE: Cron expression (default: "*/30 * * * *")
//   - CLEANUP_SCHEDULE: Cron expression (default: "0 0 * * *")
//   - WORKER_TIMEZONE: IANA timezone name (default: "Asia/Ho_Chi_Minh")
//   - SYNC_TIMEOUT: Duration string, e.g. "10m" (default: 10 minutes)
//   - CLEANUP_TIMEOUT: Duration string, e.g. "5m" (default: 5 minutes)
//   - WORKER_HEALTH_PORT: Integer 1024-65535 (default: 9091)
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) (*WorkerConfig, error) {
	cfg := DefaultConfig()
	fallbackApplied := false

	load := func(field string, result config.LoadResult) config.LoadResult {
		if result.FallbackApplied {
			fallbackApplied = true
			metrics.RecordValidationError(field)
			metrics.RecordFallback(field)
			for _, warning := range result.Warnings {
				logger.Warn("configuration fallback applied",
					slog.String("field", field),
					slog.String("warning", warning))
			}
		}
		return result
	}

	result := load("sync_schedule", config.LoadEnvWithFallback("SYNC_SCHEDULE", cfg.SyncSchedule, config.ValidateCronSchedule))
	cfg.SyncSchedule = result.Value.(string)

	result = load("cleanup_schedule", config.LoadEnvWithFallback("CLEANUP_SCHEDULE", cfg.CleanupSchedule, config.ValidateCronSchedule))
	cfg.CleanupSchedule = result.Value.(string)

	result = load("timezone", config.LoadEnvWithFallback("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone))
	cfg.Timezone = result.Value.(string)

	result = load("sync_timeout", config.LoadEnvDuration("SYNC_TIMEOUT", cfg.SyncTimeout, func(d time.Duration) error {
		return config.ValidateDuration(d, 30*time.Second, 2*time.Hour)
	}))
	cfg.SyncTimeout = result.Value.(time.Duration)

	result = load("cleanup_timeout", config.LoadEnvDuration("CLEANUP_TIMEOUT", cfg.CleanupTimeout, func(d time.Duration) error {
		return config.ValidateDuration(d, 30*time.Second, 2*time.Hour)
	}))
	cfg.CleanupTimeout = result.Value.(time.Duration)

	result = load("health_port", config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, func(v int) error {
		return config.ValidateIntRange(v, 1024, 65535)
	}))
	cfg.HealthPort = result.Value.(int)

	metrics.SetFallbackActive(fallbackApplied)
	metrics.RecordLoadTimestamp()

	// Always return valid config (fail-open strategy)
	return &cfg, nil
}
