package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"docsumm/internal/resilience/circuitbreaker"
	"docsumm/internal/resilience/retry"
)

// ErrProviderUnavailable is returned while a provider's circuit breaker is open.
var ErrProviderUnavailable = errors.New("summarizer provider unavailable")

// guard runs remote calls through a rate limiter, a circuit breaker and retry with backoff.
type guard struct {
	provider string
	breaker  *circuitbreaker.CircuitBreaker
	retry    retry.Config
	limiter  *rate.Limiter
	metrics  SummaryMetricsRecorder
}

// newGuard creates a guard. requestsPerMinute <= 0 disables throttling.
func newGuard(provider string, cb circuitbreaker.Config, rc retry.Config, requestsPerMinute int, metrics SummaryMetricsRecorder) *guard {
	limit := rate.Inf
	if requestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(requestsPerMinute))
	}
	return &guard{
		provider: provider,
		breaker:  circuitbreaker.New(cb),
		retry:    rc,
		limiter:  rate.NewLimiter(limit, 1),
		metrics:  metrics,
	}
}

// call invokes fn until it succeeds, fails permanently or runs out of attempts.
func (g *guard) call(ctx context.Context, fn func(context.Context) (string, error)) (string, error) {
	var result string

	err := retry.WithBackoff(ctx, g.retry, func() error {
		if err := g.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%s rate limit wait: %w", g.provider, err)
		}

		start := time.Now()
		out, err := circuitbreaker.Run(g.breaker, func() (string, error) {
			return fn(ctx)
		})
		g.metrics.RecordDuration(g.provider, time.Since(start))

		if err != nil {
			g.metrics.RecordAttempt(g.provider, resultFailure)
			if circuitbreaker.IsRejected(err) {
				slog.WarnContext(ctx, "summarizer circuit breaker open, request rejected",
					slog.String("service", g.breaker.Name()),
					slog.String("state", g.breaker.State().String()))
				return fmt.Errorf("%s: %w", g.provider, ErrProviderUnavailable)
			}
			return err
		}

		g.metrics.RecordAttempt(g.provider, resultSuccess)
		result = out
		return nil
	})
	if err != nil {
		return "", err
	}
	return result, nil
}
