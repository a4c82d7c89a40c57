package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"offersync/internal/usecase/cleanup"
	syncUC "offersync/internal/usecase/sync"
)

// SyncRunner executes one offer reconciliation run.
type SyncRunner interface {
	RunSync(ctx context.Context) (*syncUC.SyncStats, error)
}

// CleanupRunner executes one expired-offer cleanup run.
type CleanupRunner interface {
	RunCleanup(ctx context.Context) (*cleanup.CleanupStats, error)
}

// Scheduler owns the worker's cron loop. It registers the sync and
// cleanup jobs on their configured schedules and runs one sync
// immediately at startup so a fresh deployment serves data before the
// first tick.
//
// Every entry is wrapped with SkipIfStillRunning and Recover: a run
// that outlives its interval suppresses the next tick instead of
// overlapping it, and a panicking job never takes the scheduler down.
type Scheduler struct {
	cfg     *WorkerConfig
	logger  *slog.Logger
	metrics *WorkerMetrics
	syncer  SyncRunner
	cleaner CleanupRunner
	cron    *cron.Cron
}

// NewScheduler builds a Scheduler from the given configuration and job
// implementations. It fails only on an unloadable timezone or an
// invalid cron expression; LoadConfigFromEnv guarantees neither happens
// with fail-open loading.
func NewScheduler(cfg *WorkerConfig, logger *slog.Logger, metrics *WorkerMetrics, syncer SyncRunner, cleaner CleanupRunner) (*Scheduler, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	cronLogger := &slogCronLogger{logger: logger}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(
			cron.SkipIfStillRunning(cronLogger),
			cron.Recover(cronLogger),
		),
	)

	s := &Scheduler{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		syncer:  syncer,
		cleaner: cleaner,
		cron:    c,
	}

	if _, err := c.AddFunc(cfg.SyncSchedule, s.RunSyncJob); err != nil {
		return nil, fmt.Errorf("add sync job: %w", err)
	}
	if _, err := c.AddFunc(cfg.CleanupSchedule, s.RunCleanupJob); err != nil {
		return nil, fmt.Errorf("add cleanup job: %w", err)
	}

	return s, nil
}

// Start runs one sync immediately, then arms the cron timers.
func (s *Scheduler) Start() {
	s.logger.Info("running startup sync")
	s.RunSyncJob()

	s.cron.Start()
	s.logger.Info("scheduler started",
		slog.String("sync_schedule", s.cfg.SyncSchedule),
		slog.String("cleanup_schedule", s.cfg.CleanupSchedule),
		slog.String("timezone", s.cfg.Timezone))
}

// Stop stops the cron timers and waits for any running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// RunSyncJob executes one sync run with the configured timeout and
// records its outcome. A failed run is logged and counted; the next
// scheduled run is the retry.
func (s *Scheduler) RunSyncJob() {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.SyncTimeout)
	defer cancel()

	stats, err := s.syncer.RunSync(ctx)
	s.metrics.RecordJobDuration(JobSync, time.Since(start).Seconds())
	if err != nil {
		s.metrics.RecordJobRun(JobSync, "failure")
		s.logger.Error("sync failed", slog.Any("error", err))
		return
	}

	s.metrics.RecordJobRun(JobSync, "success")
	s.metrics.RecordLastSuccess(JobSync)
	s.metrics.RecordOffersSynced(stats.Added, stats.Updated)

	s.logger.Info("sync completed",
		slog.Int("fetched", stats.Fetched),
		slog.Int("added", stats.Added),
		slog.Int("updated", stats.Updated),
		slog.Int("unchanged", stats.Unchanged),
		slog.Duration("duration", stats.Duration))
}

// RunCleanupJob executes one cleanup run with the configured timeout
// and records its outcome.
func (s *Scheduler) RunCleanupJob() {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.CleanupTimeout)
	defer cancel()

	stats, err := s.cleaner.RunCleanup(ctx)
	s.metrics.RecordJobDuration(JobCleanup, time.Since(start).Seconds())
	if err != nil {
		s.metrics.RecordJobRun(JobCleanup, "failure")
		s.logger.Error("cleanup failed", slog.Any("error", err))
		return
	}

	s.metrics.RecordJobRun(JobCleanup, "success")
	s.metrics.RecordLastSuccess(JobCleanup)
	s.metrics.RecordOffersRemoved(stats.Removed)

	s.logger.Info("cleanup completed",
		slog.Int("scanned", stats.Scanned),
		slog.Int("removed", stats.Removed),
		slog.Int("skipped", stats.Skipped),
		slog.Duration("duration", stats.Duration))
}

// slogCronLogger adapts slog to the cron.Logger interface so skip and
// recover events land in the structured log.
type slogCronLogger struct {
	logger *slog.Logger
}

func (l *slogCronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, slog.Any("details", keysAndValues))
}

func (l *slogCronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, slog.Any("error", err), slog.Any("details", keysAndValues))
}
