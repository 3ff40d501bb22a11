// Package pagination implements page/limit pagination for list endpoints.
package pagination

import (
	"fmt"
	"net/http"
	"strconv"

	"docsumm/internal/config"
)

// Config bounds the page and limit a client may request.
type Config struct {
	DefaultPage  int
	DefaultLimit int
	MaxLimit     int
}

// DefaultConfig is page 1, 10 items per page, at most 100.
func DefaultConfig() Config {
	return Config{DefaultPage: 1, DefaultLimit: 10, MaxLimit: 100}
}

// LoadFromEnv reads PAGINATION_DEFAULT_PAGE, PAGINATION_DEFAULT_LIMIT and
// PAGINATION_MAX_LIMIT. Unset, unparsable or non-positive values keep the default.
func LoadFromEnv() Config {
	def := DefaultConfig()
	cfg := Config{
		DefaultPage:  config.GetEnvInt("PAGINATION_DEFAULT_PAGE", def.DefaultPage),
		DefaultLimit: config.GetEnvInt("PAGINATION_DEFAULT_LIMIT", def.DefaultLimit),
		MaxLimit:     config.GetEnvInt("PAGINATION_MAX_LIMIT", def.MaxLimit),
	}
	if cfg.DefaultPage < 1 {
		cfg.DefaultPage = def.DefaultPage
	}
	if cfg.MaxLimit < 1 {
		cfg.MaxLimit = def.MaxLimit
	}
	if cfg.DefaultLimit < 1 || cfg.DefaultLimit > cfg.MaxLimit {
		cfg.DefaultLimit = min(def.DefaultLimit, cfg.MaxLimit)
	}
	return cfg
}

// Params is a requested page. Page is 1-based.
type Params struct {
	Page  int
	Limit int
}

// ParseQueryParams reads the page and limit query parameters. Missing parameters
// take the configured defaults; malformed or out-of-range ones are an error.
func ParseQueryParams(r *http.Request, cfg Config) (Params, error) {
	p := Params{Page: cfg.DefaultPage, Limit: cfg.DefaultLimit}
	q := r.URL.Query()

	if s := q.Get("page"); s != "" {
		page, err := strconv.Atoi(s)
		if err != nil || page < 1 {
			return p, fmt.Errorf("invalid query parameter: page must be a positive integer")
		}
		p.Page = page
	}
	if s := q.Get("limit"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil || limit < 1 || limit > cfg.MaxLimit {
			return p, fmt.Errorf("invalid query parameter: limit must be between 1 and %d", cfg.MaxLimit)
		}
		p.Limit = limit
	}
	return p, nil
}

// Normalize fills zero values from cfg and caps Limit at cfg.MaxLimit.
func (p Params) Normalize(cfg Config) Params {
	if p.Page < 1 {
		p.Page = cfg.DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = cfg.DefaultLimit
	}
	p.Limit = min(p.Limit, cfg.MaxLimit)
	return p
}

// Offset is the number of rows skipped before the page.
func (p Params) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Metadata describes a page of a result set in API responses.
type Metadata struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// NewMetadata describes page p of a result set of total items.
func NewMetadata(p Params, total int64) Metadata {
	return Metadata{Total: total, Page: p.Page, Limit: p.Limit, TotalPages: TotalPages(total, p.Limit)}
}

// TotalPages is ceil(total/limit), and at least 1 so that an empty listing still has a first page.
func TotalPages(total int64, limit int) int {
	if total <= 0 || limit < 1 {
		return 1
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// Response is the JSON body of a paginated listing.
type Response[T any] struct {
	Data       []T      `json:"data"`
	Pagination Metadata `json:"pagination"`
}

// NewResponse wraps a page of items. A nil slice is encoded as [].
func NewResponse[T any](data []T, meta Metadata) Response[T] {
	if data == nil {
		data = []T{}
	}
	return Response[T]{Data: data, Pagination: meta}
}
