package http

import (
	"net/http"

	"docsumm/internal/handler/http/respond"
)

const (
	maxAuthorizationHeader = 8192
	maxPathLength          = 2048
)

// InputValidation rejects oversized Authorization headers and paths before any other
// work is done.
func InputValidation(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(r.Header.Get("Authorization")) > maxAuthorizationHeader {
			respond.JSON(w, http.StatusBadRequest, map[string]string{"error": "authorization header too large"})
			return
		}
		if len(r.URL.Path) > maxPathLength {
			respond.JSON(w, http.StatusRequestURITooLong, map[string]string{"error": "URI too long"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
