// Package pathutil parses identifiers from request paths and maps concrete paths to
// low-cardinality templates for metric labels.
package pathutil

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
)

// ErrInvalidID is returned when a path segment is not a positive integer.
var ErrInvalidID = errors.New("invalid id")

// ParseID parses a positive int64 identifier.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// PathID parses the wildcard name of a ServeMux pattern such as "GET /documents/{id}".
func PathID(r *http.Request, name string) (int64, error) {
	return ParseID(r.PathValue(name))
}

// ExtractID parses the identifier following prefix, e.g. ExtractID("/documents/42", "/documents/").
func ExtractID(path, prefix string) (int64, error) {
	if !strings.HasPrefix(path, prefix) {
		return 0, ErrInvalidID
	}
	return ParseID(strings.TrimPrefix(path, prefix))
}
