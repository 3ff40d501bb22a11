package document

import (
	"net/http"
	"strconv"

	"docsumm/internal/handler/http/pathutil"
	"docsumm/internal/handler/http/respond"
	docUC "docsumm/internal/usecase/document"
)

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

// GetHandler handles GET /documents/{id}.
type GetHandler struct{ Svc *docUC.Service }

func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}
	id, err := pathutil.PathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	doc, err := h.Svc.Get(r.Context(), ownerID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTO(doc))
}

// DeleteHandler handles DELETE /documents/{id} and answers 204.
type DeleteHandler struct{ Svc *docUC.Service }

func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}
	id, err := pathutil.PathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.Svc.Delete(r.Context(), ownerID, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
