// The worker runs the scheduled offer pipeline: a reconciliation sync
// against the AccessTrade feed every 30 minutes and an expired-offer
// cleanup at midnight, both in the feed's local timezone.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	pgRepo "offersync/internal/infra/adapter/persistence/postgres"
	"offersync/internal/infra/db"
	"offersync/internal/infra/fetcher"
	workerPkg "offersync/internal/infra/worker"
	"offersync/internal/observability/logging"
	"offersync/internal/usecase/cleanup"
	syncUC "offersync/internal/usecase/sync"
)

func main() {
	// Missing .env is fine; containers inject the environment directly.
	_ = godotenv.Load()

	logger := logging.NewLogger()

	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	workerMetrics := workerPkg.NewWorkerMetrics()
	workerMetrics.MustRegister(prometheus.DefaultRegisterer)

	workerConfig, err := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	if err != nil {
		logger.Error("failed to load worker configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker configuration loaded",
		slog.String("sync_schedule", workerConfig.SyncSchedule),
		slog.String("cleanup_schedule", workerConfig.CleanupSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Int("health_port", workerConfig.HealthPort))

	// The feed token is the one setting without a usable fallback.
	feedConfig, err := fetcher.LoadConfigFromEnv()
	if err != nil {
		logger.Error("failed to load feed configuration", slog.Any("error", err))
		os.Exit(1)
	}

	offerRepo := pgRepo.NewOfferRepo(database)
	offerFetcher := fetcher.NewAccessTradeFetcher(feedConfig)
	syncService := syncUC.NewService(offerRepo, offerFetcher)
	cleanupService := cleanup.NewService(offerRepo)

	startMetricsServer(ctx, logger)

	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()
	logger.Info("health check server started", slog.String("addr", healthAddr))

	scheduler, err := workerPkg.NewScheduler(workerConfig, logger, workerMetrics, &syncService, &cleanupService)
	if err != nil {
		logger.Error("failed to build scheduler", slog.Any("error", err))
		os.Exit(1)
	}

	// Start blocks until the startup sync finishes, so readiness flips
	// only once the store reflects the current feed.
	scheduler.Start()
	healthServer.SetReady(true)

	<-ctx.Done()
	logger.Info("shutdown signal received")

	healthServer.SetReady(false)
	scheduler.Stop()
	logger.Info("worker stopped")
}

// initDatabase opens the connection pool and applies pending migrations.
func initDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}
