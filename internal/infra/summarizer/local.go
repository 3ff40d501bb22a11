package summarizer

import (
	"context"

	"docsumm/internal/domain/entity"
	"docsumm/internal/extractive"
)

// LocalModel is the Summary.Model reported by Local.
const LocalModel = "local-extractive"

// Local summarizes with the in-process extractive engine.
type Local struct {
	metrics SummaryMetricsRecorder
}

// NewLocal creates a Local summarizer recording Prometheus metrics.
func NewLocal() *Local {
	return &Local{metrics: NewPrometheusSummaryMetrics()}
}

func (l *Local) Name() string { return "local" }

// Summarize never calls out of process. It fails only for empty input or a done context.
func (l *Local) Summarize(ctx context.Context, input string, opts entity.SummaryOptions) (*entity.Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, err := extractive.Summarize(input, extractive.Options{
		MaxLength:    opts.MaxLength,
		MaxSentences: opts.MaxSentences,
	})
	if err != nil {
		l.metrics.RecordAttempt(l.Name(), resultFailure)
		return nil, err
	}

	l.metrics.RecordAttempt(l.Name(), resultSuccess)
	l.metrics.RecordLength(l.Name(), res.SummaryLength)
	l.metrics.RecordDuration(l.Name(), res.ProcessingTime)

	return &entity.Summary{
		Text:             res.Summary,
		Method:           string(res.Method),
		Model:            LocalModel,
		OriginalLength:   res.OriginalLength,
		SummaryLength:    res.SummaryLength,
		CompressionRatio: res.CompressionRatio,
		ProcessingTime:   res.ProcessingTime,
	}, nil
}
