package worker

import (
	"context"
	"log/slog"
	"time"

	"docsumm/internal/handler/http/respond"
	docUC "docsumm/internal/usecase/document"
)

// PendingSummarizer summarizes a batch of pending or failed documents.
type PendingSummarizer interface {
	SummarizePending(ctx context.Context, limit int) (*docUC.BatchStats, error)
}

// Job is one scheduled summarization run.
type Job struct {
	Svc     PendingSummarizer
	Config  WorkerConfig
	Metrics *WorkerMetrics
	Logger  *slog.Logger
}

// Run summarizes one batch within Config.JobTimeout. A failing run is logged and
// counted; Run itself never fails so the schedule keeps going.
func (j Job) Run(ctx context.Context) {
	logger := j.Logger
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()
	j.Metrics.RecordJobRun("started")
	logger.Info("summarization job started", slog.Int("batch_size", j.Config.BatchSize))

	if j.Config.JobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.Config.JobTimeout)
		defer cancel()
	}

	stats, err := j.Svc.SummarizePending(ctx, j.Config.BatchSize)
	j.Metrics.RecordJobDuration(time.Since(start).Seconds())
	if stats != nil {
		j.Metrics.RecordDocuments(stats.Completed, stats.Failed)
	}
	if err != nil {
		logger.Error("summarization job failed", slog.String("error", respond.SanitizeError(err)))
		j.Metrics.RecordJobRun("failure")
		return
	}

	j.Metrics.RecordJobRun("success")
	j.Metrics.RecordLastSuccess()
	logger.Info("summarization job completed",
		slog.Int("picked", stats.Picked),
		slog.Int64("completed", stats.Completed),
		slog.Int64("failed", stats.Failed),
		slog.Duration("duration", stats.Duration))
}
