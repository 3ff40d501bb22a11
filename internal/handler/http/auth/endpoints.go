package auth

import "strings"

// PublicEndpoints are served without a token.
//
// - /health, /ready, /live: orchestration probes
// - /metrics: Prometheus scraping
// - /auth/token: token issuance
var PublicEndpoints = []string{
	"/health",
	"/ready",
	"/live",
	"/metrics",
	"/auth/token",
}

// IsPublicEndpoint reports whether path is one of PublicEndpoints.
//
// Endpoints ending with '/' use prefix matching. Others match exactly, with an optional
// trailing slash or query string, so /health does not match /health/detail or /healthcheck.
func IsPublicEndpoint(path string) bool {
	for _, endpoint := range PublicEndpoints {
		if strings.HasSuffix(endpoint, "/") {
			if strings.HasPrefix(path, endpoint) {
				return true
			}
			continue
		}

		if path == endpoint || path == endpoint+"/" {
			return true
		}
		if strings.HasPrefix(path, endpoint+"?") {
			return true
		}
	}
	return false
}
