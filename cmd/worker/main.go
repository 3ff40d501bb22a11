// Command worker summarizes pending and failed documents on a cron schedule.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"

	"docsumm/internal/config"
	"docsumm/internal/domain/entity"
	"docsumm/internal/infra/adapter/persistence"
	"docsumm/internal/infra/db"
	"docsumm/internal/infra/extractor"
	"docsumm/internal/infra/summarizer"
	workerPkg "docsumm/internal/infra/worker"
	"docsumm/internal/observability/logging"
	"docsumm/internal/observability/metrics"
	"docsumm/internal/observability/tracing"
	"docsumm/internal/resilience/circuitbreaker"
	docUC "docsumm/internal/usecase/document"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		slog.Error("failed to load .env file", slog.Any("error", err))
		os.Exit(1)
	}
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	workerMetrics := workerPkg.NewWorkerMetrics(nil)
	workerConfig := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Int("parallelism", workerConfig.Parallelism),
		slog.Int("batch_size", workerConfig.BatchSize),
		slog.Duration("document_timeout", workerConfig.DocumentTimeout),
		slog.Duration("job_timeout", workerConfig.JobTimeout),
		slog.Int("health_port", workerConfig.HealthPort))

	if config.GetEnvBool("OTEL_TRACING_ENABLED", false) {
		shutdown := tracing.Init(tracing.Config{ServiceName: "docsumm-worker", Version: config.GetEnvString("VERSION", "dev"), SampleRatio: 1})
		defer func() { _ = shutdown(context.Background()) }()
	}

	database, dialect, err := db.Open(ctx, config.GetEnvString("DATABASE_URL", ""))
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()
	if err := db.MigrateUp(database, dialect); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}

	svc, err := setupDocumentService(database, dialect, workerConfig)
	if err != nil {
		logger.Error("failed to set up document service", slog.Any("error", err))
		os.Exit(1)
	}

	healthServer := workerPkg.NewHealthServer(
		fmt.Sprintf(":%d", workerConfig.HealthPort),
		logger,
		promhttp.Handler(),
		func(ctx context.Context) error {
			metrics.UpdateDBPoolStats(database.Stats())
			return database.PingContext(ctx)
		},
	)
	go func() {
		if err := healthServer.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()

	job := workerPkg.Job{Svc: svc, Config: workerConfig, Metrics: workerMetrics, Logger: logger}
	runCron(ctx, logger, job, healthServer)
}

// setupDocumentService builds the use case the job drives. Uploads never reach the
// worker, so the extractor only satisfies the service contract.
func setupDocumentService(database *sql.DB, dialect db.Dialect, cfg workerPkg.WorkerConfig) (*docUC.Service, error) {
	sumCfg, err := config.LoadSummarizerConfig()
	if err != nil {
		return nil, err
	}
	chain, err := summarizer.NewFromConfig(sumCfg)
	if err != nil {
		return nil, err
	}
	repo, err := persistence.NewDocumentRepo(dialect, circuitbreaker.NewDBCircuitBreaker(database))
	if err != nil {
		return nil, err
	}
	return &docUC.Service{
		Repo:        repo,
		Extractor:   extractor.New(0),
		Summarizer:  chain,
		Options:     entity.SummaryOptions{MaxLength: sumCfg.MaxLength, MaxSentences: sumCfg.MaxSentences},
		Parallelism: cfg.Parallelism,
		Timeout:     cfg.DocumentTimeout,
	}, nil
}

// runCron schedules the job and blocks until ctx is cancelled, then waits for a
// running job to finish.
func runCron(ctx context.Context, logger *slog.Logger, job workerPkg.Job, healthServer *workerPkg.HealthServer) {
	loc, err := time.LoadLocation(job.Config.Timezone)
	if err != nil {
		logger.Error("invalid timezone, using UTC", slog.String("timezone", job.Config.Timezone), slog.Any("error", err))
		loc = time.UTC
	}

	cronLogger := workerPkg.CronLogger(logger)
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)
	if _, err := c.AddFunc(job.Config.CronSchedule, func() { job.Run(ctx) }); err != nil {
		logger.Error("failed to add cron job", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()

	healthServer.SetReady(true)
	logger.Info("worker started",
		slog.String("schedule", job.Config.CronSchedule),
		slog.String("timezone", loc.String()))

	<-ctx.Done()
	logger.Info("worker shutting down")
	healthServer.SetReady(false)
	<-c.Stop().Done()
	logger.Info("worker stopped")
}
