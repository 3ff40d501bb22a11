package document

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"docsumm/internal/domain/entity"
	"docsumm/internal/handler/http/pathutil"
	"docsumm/internal/handler/http/respond"
	"docsumm/internal/observability/logging"
	docUC "docsumm/internal/usecase/document"
)

const (
	maxRequestedLength    = 10000
	maxRequestedSentences = 50
)

// SummaryHandler handles GET /documents/{id}/summary.
type SummaryHandler struct{ Svc *docUC.Service }

func (h SummaryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}
	id, err := pathutil.PathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	view, err := h.Svc.GetSummary(r.Context(), ownerID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toSummaryDTO(view))
}

// RegenerateHandler handles POST /documents/{id}/summary. The body is optional:
//
//	{"max_length": 400, "max_sentences": 4}
//
// It answers 200 with the updated document, or 502 when the summarizer failed.
type RegenerateHandler struct {
	Svc    *docUC.Service
	Logger *slog.Logger
}

func (h RegenerateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}
	id, err := pathutil.PathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req regenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respond.SafeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	if err := req.validate(); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	doc, err := h.Svc.Regenerate(r.Context(), ownerID, id, entity.SummaryOptions{
		MaxLength:    req.MaxLength,
		MaxSentences: req.MaxSentences,
	})
	if err != nil {
		logging.ForRequest(r.Context(), h.Logger).Warn("summary regeneration failed",
			slog.Int64("document_id", id),
			slog.String("error", respond.SanitizeError(err)))
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTO(doc))
}

func (r regenerateRequest) validate() error {
	if r.MaxLength < 0 || r.MaxLength > maxRequestedLength {
		return &entity.ValidationError{Field: "max_length", Message: "max_length must be between 0 and 10000"}
	}
	if r.MaxSentences < 0 || r.MaxSentences > maxRequestedSentences {
		return &entity.ValidationError{Field: "max_sentences", Message: "max_sentences must be between 0 and 50"}
	}
	return nil
}
