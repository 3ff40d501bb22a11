package document

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"docsumm/internal/common/pagination"
	"docsumm/internal/domain/entity"
	"docsumm/internal/handler/http/respond"
	"docsumm/internal/observability/logging"
	docUC "docsumm/internal/usecase/document"
)

// ListHandler handles GET /documents.
//
// Query parameters: page, limit, search (filename substring), file_type and status.
type ListHandler struct {
	Svc           *docUC.Service
	PaginationCfg pagination.Config
	Logger        *slog.Logger
}

func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	start := time.Now()
	logger := logging.ForRequest(ctx, h.Logger).With(slog.String("owner", ownerID))

	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		pagination.ObserveError(ctx, logger, params, http.StatusBadRequest, pagination.ErrorValidation, err)
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	q := r.URL.Query()
	result, err := h.Svc.List(ctx, docUC.ListInput{
		OwnerID:  ownerID,
		Search:   q.Get("search"),
		FileType: q.Get("file_type"),
		Status:   q.Get("status"),
	}, params)
	if err != nil {
		if errors.Is(err, entity.ErrValidationFailed) {
			pagination.ObserveError(ctx, logger, params, http.StatusBadRequest, pagination.ErrorValidation, err)
			respond.SafeError(w, http.StatusBadRequest, err)
			return
		}
		pagination.ObserveError(ctx, logger, params, http.StatusInternalServerError, pagination.ErrorDatabase, err)
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	dtos := make([]DTO, 0, len(result.Data))
	for _, d := range result.Data {
		dtos = append(dtos, toDTO(d))
	}

	pagination.ObserveList(ctx, logger, params, len(dtos), result.Pagination.Total, time.Since(start))

	respond.JSON(w, http.StatusOK, pagination.NewResponse(dtos, result.Pagination))
}
