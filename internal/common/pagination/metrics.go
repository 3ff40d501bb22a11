package pagination

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Error kinds recorded by ObserveError.
const (
	ErrorValidation = "validation"
	ErrorDatabase   = "database"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "document_list_requests_total",
			Help: "Paginated document listings by HTTP status and requested page range",
		},
		[]string{"status", "page_range"},
	)

	listDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "document_list_duration_seconds",
			Help:    "Time to serve a paginated document listing",
			Buckets: []float64{0.01, 0.05, 0.1, 0.2, 0.5, 1, 2},
		},
	)

	lastTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "document_list_total_count",
			Help: "Documents matched by the most recent listing",
		},
	)

	errorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "document_list_errors_total",
			Help: "Failed document listings by kind",
		},
		[]string{"kind"},
	)
)

// ObserveList records and logs a served page.
func ObserveList(ctx context.Context, logger *slog.Logger, p Params, returned int, total int64, elapsed time.Duration) {
	requestsTotal.WithLabelValues("200", pageRange(p.Page)).Inc()
	listDuration.Observe(elapsed.Seconds())
	lastTotal.Set(float64(total))

	logger.InfoContext(ctx, "documents listed",
		slog.Int("page", p.Page),
		slog.Int("limit", p.Limit),
		slog.Int("returned", returned),
		slog.Int64("total", total),
		slog.Int64("duration_ms", elapsed.Milliseconds()))
}

// ObserveError records and logs a failed listing. Validation failures are logged at warn level.
func ObserveError(ctx context.Context, logger *slog.Logger, p Params, status int, kind string, err error) {
	requestsTotal.WithLabelValues(strconv.Itoa(status), pageRange(p.Page)).Inc()
	errorsTotal.WithLabelValues(kind).Inc()

	level := slog.LevelError
	if kind == ErrorValidation {
		level = slog.LevelWarn
	}
	logger.Log(ctx, level, "document listing failed",
		slog.Int("page", p.Page),
		slog.Int("limit", p.Limit),
		slog.String("kind", kind),
		slog.Any("error", err))
}

func pageRange(page int) string {
	switch {
	case page <= 10:
		return "1-10"
	case page <= 50:
		return "11-50"
	case page <= 100:
		return "51-100"
	default:
		return "100+"
	}
}
