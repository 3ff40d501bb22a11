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

	"docsumm/internal/common/pagination"
	"docsumm/internal/config"
	"docsumm/internal/domain/entity"
	hhttp "docsumm/internal/handler/http"
	hauth "docsumm/internal/handler/http/auth"
	hdocument "docsumm/internal/handler/http/document"
	"docsumm/internal/handler/http/requestid"
	htext "docsumm/internal/handler/http/text"
	"docsumm/internal/infra/adapter/persistence"
	"docsumm/internal/infra/db"
	"docsumm/internal/infra/extractor"
	"docsumm/internal/infra/summarizer"
	"docsumm/internal/observability/logging"
	"docsumm/internal/observability/metrics"
	"docsumm/internal/observability/tracing"
	"docsumm/internal/resilience/circuitbreaker"
	authservice "docsumm/internal/service/auth"
	docUC "docsumm/internal/usecase/document"
)

// multipartOverhead is allowed on top of the upload limit for form boundaries and headers.
const multipartOverhead = 1 << 20

func main() {
	if err := config.LoadDotEnv(); err != nil {
		slog.Error("failed to load .env file", slog.Any("error", err))
		os.Exit(1)
	}
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	appCfg, err := config.LoadAppConfig()
	exitOnError(logger, "failed to load application configuration", err)
	authCfg, err := config.LoadAuthConfig()
	exitOnError(logger, "failed to load auth configuration", err)
	sumCfg, err := config.LoadSummarizerConfig()
	exitOnError(logger, "failed to load summarizer configuration", err)

	// A weak or duplicate account stops the server before it listens.
	exitOnError(logger, "credentials validation failed", hauth.ValidateAccounts(authCfg.Accounts()))

	shutdownTracing := initTracing(appCfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, dialect := initDatabase(ctx, logger, appCfg.DatabaseURL)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()
	go reportPoolStats(ctx, database, 15*time.Second)

	chain, err := summarizer.NewFromConfig(sumCfg)
	exitOnError(logger, "failed to build summarizer chain", err)

	repo, err := persistence.NewDocumentRepo(dialect, circuitbreaker.NewDBCircuitBreaker(database))
	exitOnError(logger, "failed to create document repository", err)

	svc := &docUC.Service{
		Repo:            repo,
		Extractor:       extractor.New(appCfg.UploadMaxBytes),
		Summarizer:      chain,
		Options:         entity.SummaryOptions{MaxLength: sumCfg.MaxLength, MaxSentences: sumCfg.MaxSentences},
		InlineSummarize: appCfg.InlineSummarize,
		Timeout:         sumCfg.Timeout,
		Paging:          pagination.LoadFromEnv(),
	}

	handler := setupHandler(logger, database, chain, svc, appCfg, authCfg)
	runServer(ctx, logger, handler, appCfg)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("tracer shutdown failed", slog.Any("error", err))
	}
}

func exitOnError(logger *slog.Logger, msg string, err error) {
	if err == nil {
		return
	}
	logger.Error(msg, slog.Any("error", err))
	os.Exit(1)
}

func initTracing(cfg *config.AppConfig) func(context.Context) error {
	if !cfg.TracingEnabled {
		return func(context.Context) error { return nil }
	}
	return tracing.Init(tracing.Config{
		ServiceName: "docsumm-api",
		Version:     cfg.Version,
		SampleRatio: 1,
	})
}

// initDatabase opens the database named by DATABASE_URL and migrates it.
func initDatabase(ctx context.Context, logger *slog.Logger, dsn string) (*sql.DB, db.Dialect) {
	database, dialect, err := db.Open(ctx, dsn)
	exitOnError(logger, "failed to open database", err)
	if err := db.MigrateUp(database, dialect); err != nil {
		_ = database.Close()
		exitOnError(logger, "failed to migrate database", err)
	}
	return database, dialect
}

func reportPoolStats(ctx context.Context, database *sql.DB, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		metrics.UpdateDBPoolStats(database.Stats())
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// setupHandler registers every route on one mux. Authz lets the public endpoints
// through and requires a bearer token everywhere else.
func setupHandler(
	logger *slog.Logger,
	database *sql.DB,
	chain *summarizer.Chain,
	svc *docUC.Service,
	appCfg *config.AppConfig,
	authCfg *config.AuthConfig,
) http.Handler {
	secret := []byte(authCfg.JWTSecret)
	authService := authservice.NewAuthService(hauth.NewAccountProvider(authCfg.Accounts()))

	// 5 token requests per minute per client IP.
	tokenLimiter := hhttp.NewRateLimiter(5, time.Minute)

	mux := http.NewServeMux()
	mux.Handle("POST /auth/token", tokenLimiter.Limit(hauth.TokenHandler(authService, secret, authCfg.TokenTTL)))
	mux.Handle("GET /health", &hhttp.HealthHandler{DB: database, Summarizer: chain, Version: appCfg.Version})
	mux.Handle("GET /ready", &hhttp.ReadyHandler{DB: database})
	mux.Handle("GET /live", &hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	hdocument.Register(mux, svc, svc.Paging, logger)
	htext.Register(mux)

	corsCfg, err := hhttp.LoadCORSConfig()
	exitOnError(logger, "invalid CORS configuration", err)

	requestTimeout := config.GetEnvDuration("REQUEST_TIMEOUT", 2*time.Minute)
	logger.Info("http handler configured",
		slog.Any("summarizer_providers", chain.Providers()),
		slog.Int64("upload_max_bytes", appCfg.UploadMaxBytes),
		slog.Bool("inline_summarize", appCfg.InlineSummarize),
		slog.Bool("cors_enabled", corsCfg != nil),
		slog.Duration("request_timeout", requestTimeout))

	return hhttp.Chain(mux,
		requestid.Middleware,
		tracing.Middleware,
		hhttp.Recover(logger),
		hhttp.Logging(logger),
		hhttp.CORS(corsCfg, logger),
		hhttp.InputValidation,
		hhttp.LimitRequestBody(appCfg.UploadMaxBytes+multipartOverhead),
		hhttp.MetricsMiddleware,
		hhttp.Timeout(requestTimeout),
		hauth.Authz(secret),
	)
}

// runServer serves until ctx is cancelled, then drains in-flight requests.
func runServer(ctx context.Context, logger *slog.Logger, handler http.Handler, cfg *config.AppConfig) {
	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return context.WithoutCancel(ctx)
		},
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", slog.String("addr", addr), slog.String("version", cfg.Version))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
		return
	case <-ctx.Done():
	}

	logger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
