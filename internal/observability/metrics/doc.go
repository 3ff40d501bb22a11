// Package metrics defines the Prometheus collectors of the HTTP layer, the
// document pipeline and the database pool. Everything registers with the default
// registry and is served on /metrics.
package metrics
