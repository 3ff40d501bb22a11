// Package logging builds the slog loggers used by the binaries.
//
// LOG_LEVEL selects debug, info, warn or error (default info). Request handlers
// enrich their logger with the request and trace ids of the context:
//
//	logger := logging.ForRequest(ctx, base)
//	logger.Info("document uploaded", slog.Int64("document_id", doc.ID))
package logging
