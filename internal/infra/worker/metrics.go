package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"docsumm/internal/pkg/config"
)

// WorkerMetrics are the worker's Prometheus metrics. It embeds the configuration
// metrics (worker_config_*).
type WorkerMetrics struct {
	*config.ConfigMetrics

	// CronJobRunsTotal counts runs by status: started, success or failure.
	CronJobRunsTotal            *prometheus.CounterVec
	CronJobDurationSeconds      prometheus.Histogram
	DocumentsProcessedTotal     *prometheus.CounterVec
	CronJobLastSuccessTimestamp prometheus.Gauge
}

// NewWorkerMetrics registers the worker metrics with reg, or with the default
// registerer when reg is nil.
func NewWorkerMetrics(reg prometheus.Registerer) *WorkerMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics("worker", reg),

		CronJobRunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_cron_job_runs_total",
			Help: "Total number of summarization job runs by status",
		}, []string{"status"}),

		CronJobDurationSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_cron_job_duration_seconds",
			Help:    "Duration of summarization job runs in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 30, 60, 300, 900, 1800},
		}),

		DocumentsProcessedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_documents_processed_total",
			Help: "Total number of documents processed by the worker, by result",
		}, []string{"result"}),

		CronJobLastSuccessTimestamp: f.NewGauge(prometheus.GaugeOpts{
			Name: "worker_cron_job_last_success_timestamp",
			Help: "Unix timestamp of the last successful job run",
		}),
	}
}

func (m *WorkerMetrics) RecordJobRun(status string) {
	m.CronJobRunsTotal.WithLabelValues(status).Inc()
}

func (m *WorkerMetrics) RecordJobDuration(seconds float64) {
	m.CronJobDurationSeconds.Observe(seconds)
}

// RecordDocuments adds the outcome of one run.
func (m *WorkerMetrics) RecordDocuments(completed, failed int64) {
	m.DocumentsProcessedTotal.WithLabelValues("completed").Add(float64(completed))
	m.DocumentsProcessedTotal.WithLabelValues("failed").Add(float64(failed))
}

func (m *WorkerMetrics) RecordLastSuccess() {
	m.CronJobLastSuccessTimestamp.SetToCurrentTime()
}
