package document

import (
	"errors"
	"net/http"

	"docsumm/internal/domain/entity"
	"docsumm/internal/handler/http/auth"
	"docsumm/internal/handler/http/pathutil"
	"docsumm/internal/handler/http/respond"
	"docsumm/internal/infra/extractor"
	docUC "docsumm/internal/usecase/document"
)

var errUnauthenticated = errors.New("unauthorized: no authenticated user")

// statusFor maps use case errors to HTTP status codes.
func statusFor(err error) int {
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, docUC.ErrInvalidDocumentID), errors.Is(err, pathutil.ErrInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, docUC.ErrDocumentNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrValidationFailed), errors.Is(err, entity.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, extractor.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, extractor.ErrTooLarge), errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, extractor.ErrNoText):
		return http.StatusUnprocessableEntity
	case errors.Is(err, docUC.ErrSummarizationFailed):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	code := statusFor(err)
	if code == http.StatusBadGateway {
		err = respond.NewAppError(code, "summarization failed", err)
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		err = extractor.ErrTooLarge
	}
	respond.SafeError(w, code, err)
}

// owner returns the authenticated user's name or writes a 401.
func owner(w http.ResponseWriter, r *http.Request) (string, bool) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		respond.SafeError(w, http.StatusUnauthorized, errUnauthenticated)
		return "", false
	}
	return u.Name, true
}
