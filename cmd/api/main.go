// The API serves the stored offer set over REST. It is read only:
// writes happen exclusively through the worker's sync and cleanup jobs.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	hhttp "offersync/internal/handler/http"
	hoffer "offersync/internal/handler/http/offer"
	"offersync/internal/handler/http/requestid"
	pgRepo "offersync/internal/infra/adapter/persistence/postgres"
	"offersync/internal/infra/db"
	"offersync/internal/observability/logging"
	offerUC "offersync/internal/usecase/offer"
)

// @title           Offer Sync API
// @version         1.0
// @description     Read API over the synchronized AccessTrade offer set.

// @host      localhost:8080
// @BasePath  /

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

	handler := setupServer(logger, database, version())
	runServer(logger, handler)
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

func version() string {
	if v := os.Getenv("VERSION"); v != "" {
		return v
	}
	return "dev"
}

// setupServer registers all routes and wraps them in the middleware chain.
func setupServer(logger *slog.Logger, database *sql.DB, version string) http.Handler {
	corsConfig, err := hhttp.LoadCORSConfig()
	if err != nil {
		logger.Error("failed to load CORS configuration", slog.Any("error", err))
		os.Exit(1)
	}
	if corsConfig.Enabled() {
		logger.Info("CORS enabled", slog.Any("allowed_origins", corsConfig.AllowedOrigins))
	}

	offerService := offerUC.NewService(pgRepo.NewOfferRepo(database))

	mux := http.NewServeMux()
	hoffer.Register(mux, offerService, logger)

	mux.Handle("GET /health", &hhttp.HealthHandler{DB: database, Version: version})
	mux.Handle("GET /ready", &hhttp.ReadyHandler{DB: database})
	mux.Handle("GET /live", &hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	return hhttp.Chain(mux,
		hhttp.CORS(corsConfig, logger),
		requestid.Middleware,
		hhttp.Recover(logger),
		hhttp.Logging(logger),
		hhttp.LimitRequestBody(1<<20),
		hhttp.Metrics,
	)
}

// runServer starts the HTTP server and blocks until a shutdown signal
// arrives, then drains in-flight requests.
func runServer(logger *slog.Logger, handler http.Handler) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := os.Getenv("API_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server starting", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
