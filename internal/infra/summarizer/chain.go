package summarizer

import (
	"context"
	"log/slog"
	"strings"

	"docsumm/internal/domain/entity"
	"docsumm/internal/extractive"
	"docsumm/internal/utils/text"
)

// Chain tries remote providers in order and falls back to the local engine.
type Chain struct {
	providers []Summarizer
	local     Summarizer
	metrics   SummaryMetricsRecorder
}

// NewChain creates a chain ending in local. With no providers it is equivalent to local.
func NewChain(local Summarizer, providers ...Summarizer) *Chain {
	return &Chain{
		providers: providers,
		local:     local,
		metrics:   NewPrometheusSummaryMetrics(),
	}
}

func (c *Chain) Name() string { return "chain" }

// Providers returns the names of the providers in the order they are tried.
func (c *Chain) Providers() []string {
	names := make([]string, 0, len(c.providers)+1)
	for _, p := range c.providers {
		names = append(names, p.Name())
	}
	return append(names, c.local.Name())
}

// Summarize returns the first successful provider summary. Text shorter than the
// extractive threshold never leaves the process. Errors are returned only for invalid
// input or a done context.
func (c *Chain) Summarize(ctx context.Context, input string, opts entity.SummaryOptions) (*entity.Summary, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" || text.CountRunes(trimmed) < extractive.ExtractiveThreshold {
		return c.local.Summarize(ctx, input, opts)
	}

	for _, p := range c.providers {
		summary, err := p.Summarize(ctx, input, opts)
		if err == nil {
			return summary, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		slog.WarnContext(ctx, "summarizer provider failed, falling back",
			slog.String("provider", p.Name()),
			slog.String("error", err.Error()))
		c.metrics.RecordFallback(p.Name())
	}

	return c.local.Summarize(ctx, input, opts)
}
