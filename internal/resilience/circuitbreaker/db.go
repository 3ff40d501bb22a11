package circuitbreaker

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sony/gobreaker"

	"docsumm/internal/observability/metrics"
	"docsumm/internal/repository"
)

var _ repository.DBTX = (*DBCircuitBreaker)(nil)

// DBCircuitBreaker guards the document repositories' connection pool and times
// each guarded call. Once the database keeps failing, queries fail fast with
// gobreaker.ErrOpenState until the open timeout elapses.
type DBCircuitBreaker struct {
	cb *CircuitBreaker
	db *sql.DB
}

// DBConfig opens after 5 requests that all failed and probes again after 30 seconds.
// A cancelled caller or a missing row is not a database failure.
func DBConfig() Config {
	return Config{
		Name:             "database",
		MaxRequests:      3,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 1.0,
		MinRequests:      5,
		IsSuccessful:     isHealthyDBError,
	}
}

func isHealthyDBError(err error) bool {
	return err == nil ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, sql.ErrNoRows)
}

func NewDBCircuitBreaker(db *sql.DB) *DBCircuitBreaker {
	return NewDBCircuitBreakerWithConfig(db, DBConfig())
}

func NewDBCircuitBreakerWithConfig(db *sql.DB, cfg Config) *DBCircuitBreaker {
	return &DBCircuitBreaker{cb: New(cfg), db: db}
}

func (dcb *DBCircuitBreaker) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := Run(dcb.cb, func() (*sql.Rows, error) {
		return dcb.db.QueryContext(ctx, query, args...)
	})
	metrics.ObserveQuery("query", start, err)
	return rows, err
}

func (dcb *DBCircuitBreaker) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := Run(dcb.cb, func() (sql.Result, error) {
		return dcb.db.ExecContext(ctx, query, args...)
	})
	metrics.ObserveQuery("exec", start, err)
	return res, err
}

// QueryRowContext is not guarded: *sql.Row defers its error to Scan.
func (dcb *DBCircuitBreaker) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return dcb.db.QueryRowContext(ctx, query, args...)
}

func (dcb *DBCircuitBreaker) State() gobreaker.State { return dcb.cb.State() }

func (dcb *DBCircuitBreaker) IsOpen() bool { return dcb.cb.IsOpen() }

// DB returns the unguarded pool, for health checks and migrations.
func (dcb *DBCircuitBreaker) DB() *sql.DB { return dcb.db }
