// Package tracing provides OpenTelemetry tracing integration.
//
// Init installs an SDK tracer provider; Middleware opens a server span per HTTP
// request and returns its trace id in the X-Trace-Id header; GetTracer is used by
// the use cases to open spans around document summarization.
//
// Example usage:
//
//	shutdown := tracing.Init(tracing.Config{ServiceName: "docsumm-api", SampleRatio: 1})
//	defer shutdown(context.Background())
//
//	ctx, span := tracing.GetTracer().Start(ctx, "document.summarize")
//	defer span.End()
package tracing
