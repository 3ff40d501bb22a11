package auth

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Authorization decisions recorded by Authz.
const (
	decisionAllowed      = "allowed"
	decisionForbidden    = "forbidden"
	decisionUnauthorized = "unauthorized"
)

var (
	tokenRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_token_requests_total",
		Help: "POST /auth/token requests by role and outcome reason",
	}, []string{"role", "reason"})

	tokenDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "auth_token_duration_seconds",
		Help:    "Time to authenticate a client and sign its token",
		Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1},
	})

	authzDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "authz_decisions_total",
		Help: "Authorization decisions on protected endpoints by role, method and decision",
	}, []string{"role", "method", "decision"})

	authzDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "authz_check_duration_seconds",
		Help:    "Time to validate a bearer token and check its role",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01},
	})
)

// recordToken counts a token request. reason is "issued" on success.
func recordToken(role, reason string, start time.Time) {
	tokenRequests.WithLabelValues(role, reason).Inc()
	tokenDuration.Observe(time.Since(start).Seconds())
}

func recordAuthz(role, method, decision string, start time.Time) {
	if role == "" {
		role = "none"
	}
	authzDecisions.WithLabelValues(role, method, decision).Inc()
	authzDuration.Observe(time.Since(start).Seconds())
}
