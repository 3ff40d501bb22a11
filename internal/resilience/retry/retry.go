// Package retry retries remote summarizer calls with capped exponential backoff.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"net"
	"net/http"
	"syscall"
	"time"
)

// Config is a backoff policy. Attempt n (n >= 2) waits
// min(InitialDelay * Multiplier^(n-2), MaxDelay) plus up to JitterFraction of that.
type Config struct {
	MaxAttempts    int
	InitialDelay   time.Duration
	MaxDelay       time.Duration
	Multiplier     float64
	JitterFraction float64
}

// ProviderConfig is used for the Claude and OpenAI APIs: three attempts, since
// every retried call is billed.
func ProviderConfig() Config {
	return Config{
		MaxAttempts:    3,
		InitialDelay:   2 * time.Second,
		MaxDelay:       10 * time.Second,
		Multiplier:     2,
		JitterFraction: 0.1,
	}
}

// ColdStartConfig waits longer between attempts for inference endpoints that
// answer 503 while a model loads.
func ColdStartConfig() Config {
	return Config{
		MaxAttempts:    4,
		InitialDelay:   3 * time.Second,
		MaxDelay:       20 * time.Second,
		Multiplier:     2,
		JitterFraction: 0.1,
	}
}

// Delay is the wait before attempt, without jitter. The first attempt does not wait.
func (c Config) Delay(attempt int) time.Duration {
	if attempt < 2 {
		return 0
	}
	mult := c.Multiplier
	if mult < 1 {
		mult = 1
	}
	d := float64(c.InitialDelay) * math.Pow(mult, float64(attempt-2))
	if c.MaxDelay > 0 && d > float64(c.MaxDelay) {
		return c.MaxDelay
	}
	return time.Duration(d)
}

func (c Config) jittered(attempt int) time.Duration {
	d := c.Delay(attempt)
	frac := min(max(c.JitterFraction, 0), 1)
	if frac == 0 || d == 0 {
		return d
	}
	// #nosec G404 -- jitter does not need a cryptographic source.
	return d + time.Duration(rand.Float64()*frac*float64(d))
}

// WithBackoff calls fn until it succeeds, returns an error IsRetryable rejects, or
// MaxAttempts calls were made. A Retry-After hint longer than the backoff is honoured
// up to MaxDelay. Cancelling ctx stops the wait between attempts.
func WithBackoff(ctx context.Context, cfg Config, fn func() error) error {
	attempts := max(cfg.MaxAttempts, 1)

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			wait := cfg.jittered(attempt)
			var httpErr *HTTPError
			if errors.As(err, &httpErr) && httpErr.RetryAfter > wait {
				wait = httpErr.RetryAfter
				if cfg.MaxDelay > 0 {
					wait = min(wait, cfg.MaxDelay)
				}
			}
			slog.WarnContext(ctx, "retrying after error",
				slog.Int("attempt", attempt),
				slog.Int("max_attempts", attempts),
				slog.Duration("wait", wait),
				slog.Any("error", err))
			if werr := sleep(ctx, wait); werr != nil {
				return fmt.Errorf("retry aborted: %w", werr)
			}
		}

		if err = fn(); err == nil {
			if attempt > 1 {
				slog.InfoContext(ctx, "succeeded after retry", slog.Int("attempt", attempt))
			}
			return nil
		}
		if !IsRetryable(err) {
			return err
		}
	}
	return fmt.Errorf("max retry attempts (%d) exceeded: %w", attempts, err)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsRetryable reports whether err is transient: a network timeout, a refused or
// reset connection, or an HTTPError with status 408, 429 or 5xx. Context errors
// are never retried.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusRequestTimeout ||
			httpErr.StatusCode == http.StatusTooManyRequests ||
			(httpErr.StatusCode >= 500 && httpErr.StatusCode <= 599)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	for _, errno := range []syscall.Errno{syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.ETIMEDOUT, syscall.ENETUNREACH} {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}

// HTTPError is a non-2xx answer from a summarizer API.
type HTTPError struct {
	StatusCode int
	Message    string
	// RetryAfter is the server's hint for the next attempt, zero when absent.
	RetryAfter time.Duration
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}
