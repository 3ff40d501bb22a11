package metrics

import (
	"database/sql"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DBQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Database call latency by operation (query, exec) and outcome",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
	}, []string{"operation", "outcome"})

	DBConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "db_connections_active",
		Help: "Connections in use",
	})

	DBConnectionsIdle = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "db_connections_idle",
		Help: "Idle connections in the pool",
	})

	DBConnectionWaits = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "db_connection_waits",
		Help: "Total times a caller waited for a free connection since startup",
	})
)

// ObserveQuery records a database call started at start. err selects the outcome label.
func ObserveQuery(operation string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	DBQueryDuration.WithLabelValues(operation, outcome).Observe(time.Since(start).Seconds())
}

// UpdateDBPoolStats copies the pool gauges from stats.
func UpdateDBPoolStats(stats sql.DBStats) {
	DBConnectionsActive.Set(float64(stats.InUse))
	DBConnectionsIdle.Set(float64(stats.Idle))
	DBConnectionWaits.Set(float64(stats.WaitCount))
}
