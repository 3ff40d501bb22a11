package logging

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"docsumm/internal/handler/http/requestid"
	"docsumm/internal/observability/tracing"
)

// ParseLevel maps debug, info, warn and error to slog levels.
// Anything else is info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func handlerOptions() *slog.HandlerOptions {
	level := ParseLevel(os.Getenv("LOG_LEVEL"))
	return &slog.HandlerOptions{Level: level, AddSource: level <= slog.LevelWarn}
}

// NewLogger returns the JSON logger of the API server and the worker, writing to stdout
// at the LOG_LEVEL level.
func NewLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, handlerOptions()))
}

// NewTextLogger returns a text logger on stderr. The CLI prints summaries on stdout.
func NewTextLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, handlerOptions()))
}

// ForRequest adds the request id and the trace id found in ctx to logger.
// A nil logger stands for slog.Default(); the logger is returned as is when ctx
// carries neither id.
func ForRequest(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	var attrs []any
	if id := requestid.FromContext(ctx); id != "" {
		attrs = append(attrs, slog.String("request_id", id))
	}
	if id := tracing.TraceID(ctx); id != "" {
		attrs = append(attrs, slog.String("trace_id", id))
	}
	if len(attrs) == 0 {
		return logger
	}
	return logger.With(attrs...)
}
