package pathutil

import (
	"regexp"
	"strings"
)

// PathPattern maps paths matching Pattern to Template.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

var pathPatterns = []*PathPattern{
	{Pattern: regexp.MustCompile(`^/documents/\d+$`), Template: "/documents/:id"},
	{Pattern: regexp.MustCompile(`^/documents/\d+/summary$`), Template: "/documents/:id/summary"},
}

// NormalizePath replaces numeric identifiers with ":id" and strips the query string and
// a trailing slash, so /documents/42/summary?x=1 becomes /documents/:id/summary.
// Paths that match no pattern are returned unchanged.
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}
	return path
}

// GetExpectedCardinality estimates the number of distinct path labels: one per template
// plus the static routes.
func GetExpectedCardinality() int {
	const staticCount = 10 // /health, /metrics, /auth/token, /documents, /text/*, ...
	return len(pathPatterns) + staticCount
}
