// Package observability holds the logging, metrics and tracing setup shared by
// cmd/api, cmd/worker and cmd/summarize. The API and worker log JSON to stdout;
// the CLI logs text to stderr so that stdout carries only its output.
package observability
