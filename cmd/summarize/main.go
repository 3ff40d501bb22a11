// Command summarize prints an extractive summary of a document or of standard input.
//
//	summarize report.pdf --max-sentences 5
//	cat notes.md | summarize --format json --keywords 5
//	summarize stats article.html
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"docsumm/internal/config"
	"docsumm/internal/observability/logging"
)

func main() {
	_ = config.LoadDotEnv()
	logger := logging.NewTextLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(logger).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
