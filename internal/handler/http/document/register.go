package document

import (
	"log/slog"
	"net/http"

	"docsumm/internal/common/pagination"
	docUC "docsumm/internal/usecase/document"
)

// Register registers the document routes. Authentication is applied by the caller
// around the whole mux.
func Register(mux *http.ServeMux, svc *docUC.Service, paginationCfg pagination.Config, logger *slog.Logger) {
	mux.Handle("POST   /documents", UploadHandler{Svc: svc, Logger: logger})
	mux.Handle("GET    /documents", ListHandler{
		Svc:           svc,
		PaginationCfg: paginationCfg,
		Logger:        logger,
	})
	mux.Handle("GET    /documents/stats", StatsHandler{svc})
	mux.Handle("GET    /documents/{id}", GetHandler{svc})
	mux.Handle("DELETE /documents/{id}", DeleteHandler{svc})
	mux.Handle("GET    /documents/{id}/summary", SummaryHandler{svc})
	mux.Handle("POST   /documents/{id}/summary", RegenerateHandler{Svc: svc, Logger: logger})
}
