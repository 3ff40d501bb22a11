package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"docsumm/internal/handler/http/requestid"
)

/* ───────── Logger construction ───────── */

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"info", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"invalid", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNewLogger_RespectsLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	logger := NewLogger()
	require.NotNil(t, logger)

	ctx := context.Background()
	assert.False(t, logger.Enabled(ctx, slog.LevelInfo))
	assert.True(t, logger.Enabled(ctx, slog.LevelWarn))
}

func TestNewTextLogger_DebugLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	logger := NewTextLogger()
	require.NotNil(t, logger)
	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
}

/* ───────── Context enrichment ───────── */

func newBufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})), &buf
}

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "output should be valid JSON")
	return entry
}

func TestForRequest(t *testing.T) {
	base, buf := newBufferLogger()
	tp := sdktrace.NewTracerProvider()
	ctx, span := tp.Tracer("test").Start(context.Background(), "upload")
	defer span.End()
	ctx = requestid.WithRequestID(ctx, "550e8400-e29b-41d4-a716-446655440000")

	ForRequest(ctx, base).Info("document uploaded")

	entry := decodeEntry(t, buf)
	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", entry["request_id"])
	assert.Equal(t, span.SpanContext().TraceID().String(), entry["trace_id"])
	assert.Equal(t, "document uploaded", entry["msg"])
}

func TestForRequest_RequestIDOnly(t *testing.T) {
	base, buf := newBufferLogger()
	ctx := requestid.WithRequestID(context.Background(), "req-1")

	ForRequest(ctx, base).Info("listed")

	entry := decodeEntry(t, buf)
	assert.Equal(t, "req-1", entry["request_id"])
	assert.NotContains(t, entry, "trace_id")
}

func TestForRequest_NoIDs(t *testing.T) {
	base, buf := newBufferLogger()

	logger := ForRequest(context.Background(), base)
	logger.Info("test message")

	assert.Same(t, base, logger)
	assert.NotContains(t, buf.String(), "request_id")
}

func TestForRequest_NilLogger(t *testing.T) {
	assert.Same(t, slog.Default(), ForRequest(context.Background(), nil))
}
