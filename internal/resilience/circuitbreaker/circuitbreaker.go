// Package circuitbreaker wraps github.com/sony/gobreaker for the summarizer
// providers and the database handle, and exports breaker state to Prometheus.
package circuitbreaker

import (
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker"
)

var (
	stateGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "circuit_breaker_state",
		Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
	}, []string{"circuit"})

	rejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "circuit_breaker_rejected_total",
		Help: "Calls rejected without running because the breaker was open or probing",
	}, []string{"circuit"})
)

// Config tunes one breaker. The breaker opens once at least MinRequests calls were
// made in the current Interval and the failure ratio reaches FailureThreshold.
type Config struct {
	Name string
	// MaxRequests are let through while half-open.
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration // open -> half-open
	FailureThreshold float64
	MinRequests      uint32

	// IsSuccessful decides which errors count as failures. Nil counts every error.
	IsSuccessful func(err error) bool
}

// DefaultConfig opens at 60% failures over 5+ calls and probes again after a minute.
func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          time.Minute,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

// ProviderConfig returns the breaker settings of a remote summarizer. The
// huggingface free tier fails more often, so its breaker trips later and
// recovers sooner.
func ProviderConfig(provider string) Config {
	cfg := DefaultConfig(provider + "-api")
	if provider == "huggingface" {
		cfg.MaxRequests = 2
		cfg.Interval = time.Minute
		cfg.Timeout = 45 * time.Second
		cfg.FailureThreshold = 0.7
	}
	return cfg
}

// CircuitBreaker is a named gobreaker.CircuitBreaker.
type CircuitBreaker struct {
	breaker *gobreaker.CircuitBreaker
	name    string
}

func New(cfg Config) *CircuitBreaker {
	settings := gobreaker.Settings{
		Name:         cfg.Name,
		MaxRequests:  cfg.MaxRequests,
		Interval:     cfg.Interval,
		Timeout:      cfg.Timeout,
		IsSuccessful: cfg.IsSuccessful,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.Requests >= cfg.MinRequests &&
				float64(c.TotalFailures)/float64(c.Requests) >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			stateGauge.WithLabelValues(name).Set(stateValue(to))
			slog.Warn("circuit breaker state changed",
				slog.String("circuit", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	}
	stateGauge.WithLabelValues(cfg.Name).Set(stateValue(gobreaker.StateClosed))
	return &CircuitBreaker{breaker: gobreaker.NewCircuitBreaker(settings), name: cfg.Name}
}

// Execute runs fn unless the breaker is open. Rejected calls return
// gobreaker.ErrOpenState or gobreaker.ErrTooManyRequests.
func (cb *CircuitBreaker) Execute(fn func() (interface{}, error)) (interface{}, error) {
	out, err := cb.breaker.Execute(fn)
	if IsRejected(err) {
		rejectedTotal.WithLabelValues(cb.name).Inc()
	}
	return out, err
}

// Run is Execute with a typed result.
func Run[T any](cb *CircuitBreaker, fn func() (T, error)) (T, error) {
	out, err := cb.Execute(func() (interface{}, error) { return fn() })
	v, _ := out.(T)
	return v, err
}

// IsRejected reports whether err means the breaker refused to run the call.
func IsRejected(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

func (cb *CircuitBreaker) State() gobreaker.State { return cb.breaker.State() }

func (cb *CircuitBreaker) Name() string { return cb.name }

func (cb *CircuitBreaker) IsOpen() bool { return cb.breaker.State() == gobreaker.StateOpen }

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
