package document

import (
	"net/http"

	"docsumm/internal/handler/http/respond"
	docUC "docsumm/internal/usecase/document"
)

// StatsHandler handles GET /documents/stats.
type StatsHandler struct{ Svc *docUC.Service }

func (h StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}

	stats, err := h.Svc.Stats(r.Context(), ownerID)
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toStatsDTO(stats))
}
