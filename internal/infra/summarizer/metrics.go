package summarizer

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Attempt results reported by RecordAttempt.
const (
	resultSuccess = "success"
	resultFailure = "failure"
)

// SummaryMetricsRecorder records summarizer metrics per provider.
// Tests inject a fake to assert on what was recorded.
type SummaryMetricsRecorder interface {
	// RecordLength records the length of a generated summary in characters.
	RecordLength(provider string, length int)

	// RecordLimitExceeded counts summaries longer than the requested budget.
	RecordLimitExceeded(provider string)

	// RecordDuration records the time taken by one provider call.
	RecordDuration(provider string, duration time.Duration)

	// RecordAttempt counts provider calls by result (success | failure).
	RecordAttempt(provider, result string)

	// RecordFallback counts chain hand-offs away from a failed provider.
	RecordFallback(provider string)
}

// PrometheusSummaryMetrics implements SummaryMetricsRecorder using Prometheus metrics.
type PrometheusSummaryMetrics struct {
	lengthHistogram   *prometheus.HistogramVec
	exceededCounter   *prometheus.CounterVec
	durationHistogram *prometheus.HistogramVec
	attemptsCounter   *prometheus.CounterVec
	fallbackCounter   *prometheus.CounterVec
}

var (
	prometheusMetricsInstance *PrometheusSummaryMetrics
	prometheusMetricsOnce     sync.Once
)

// getOrCreateHistogramVec returns the registered collector when one with the same
// descriptor already exists.
func getOrCreateHistogramVec(opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	h := prometheus.NewHistogramVec(opts, labels)
	if err := prometheus.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.HistogramVec)
		}
		return promauto.NewHistogramVec(opts, labels)
	}
	return h
}

func getOrCreateCounterVec(opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(opts, labels)
	if err := prometheus.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.CounterVec)
		}
		return promauto.NewCounterVec(opts, labels)
	}
	return c
}

// NewPrometheusSummaryMetrics returns the process-wide recorder, registering the
// collectors on first use.
func NewPrometheusSummaryMetrics() *PrometheusSummaryMetrics {
	prometheusMetricsOnce.Do(func() {
		prometheusMetricsInstance = &PrometheusSummaryMetrics{
			lengthHistogram: getOrCreateHistogramVec(prometheus.HistogramOpts{
				Name:    "summarizer_summary_length_characters",
				Help:    "Distribution of summary lengths in characters (Unicode runes)",
				Buckets: []float64{50, 100, 200, 300, 500, 800, 1200, 2000},
			}, []string{"provider"}),
			exceededCounter: getOrCreateCounterVec(prometheus.CounterOpts{
				Name: "summarizer_limit_exceeded_total",
				Help: "Total number of summaries exceeding the requested character budget",
			}, []string{"provider"}),
			durationHistogram: getOrCreateHistogramVec(prometheus.HistogramOpts{
				Name:    "summarizer_call_duration_seconds",
				Help:    "Time taken by a single summarizer provider call",
				Buckets: prometheus.ExponentialBuckets(0.005, 3, 10),
			}, []string{"provider"}),
			attemptsCounter: getOrCreateCounterVec(prometheus.CounterOpts{
				Name: "summarizer_attempts_total",
				Help: "Summarizer provider calls by result",
			}, []string{"provider", "result"}),
			fallbackCounter: getOrCreateCounterVec(prometheus.CounterOpts{
				Name: "summarizer_fallbacks_total",
				Help: "Times the provider chain moved past a failed provider",
			}, []string{"provider"}),
		}
	})
	return prometheusMetricsInstance
}

func (p *PrometheusSummaryMetrics) RecordLength(provider string, length int) {
	p.lengthHistogram.WithLabelValues(provider).Observe(float64(length))
}

func (p *PrometheusSummaryMetrics) RecordLimitExceeded(provider string) {
	p.exceededCounter.WithLabelValues(provider).Inc()
}

func (p *PrometheusSummaryMetrics) RecordDuration(provider string, duration time.Duration) {
	p.durationHistogram.WithLabelValues(provider).Observe(duration.Seconds())
}

func (p *PrometheusSummaryMetrics) RecordAttempt(provider, result string) {
	p.attemptsCounter.WithLabelValues(provider, result).Inc()
}

func (p *PrometheusSummaryMetrics) RecordFallback(provider string) {
	p.fallbackCounter.WithLabelValues(provider).Inc()
}
