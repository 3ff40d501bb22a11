package document

import (
	"errors"
	"log/slog"
	"net/http"

	"docsumm/internal/domain/entity"
	"docsumm/internal/handler/http/respond"
	"docsumm/internal/observability/logging"
	docUC "docsumm/internal/usecase/document"
)

// multipartMemory is the part of a multipart form kept in memory; the rest spills to disk.
const multipartMemory = 8 << 20

// UploadHandler handles POST /documents with a multipart "file" field.
// It answers 201 with the stored document, which is already summarized when the
// service summarizes inline.
type UploadHandler struct {
	Svc    *docUC.Service
	Logger *slog.Logger
}

func (h UploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}
	logger := logging.ForRequest(r.Context(), h.Logger)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, err)
			return
		}
		respond.SafeError(w, http.StatusBadRequest, &entity.ValidationError{Field: "file", Message: "multipart form with a file field is required"})
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, &entity.ValidationError{Field: "file", Message: "file is required"})
		return
	}
	defer func() { _ = file.Close() }()

	doc, err := h.Svc.Upload(r.Context(), docUC.UploadInput{
		OwnerID:     ownerID,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	})
	if err != nil {
		logger.Warn("document upload failed",
			slog.String("filename", header.Filename),
			slog.Int64("size", header.Size),
			slog.String("error", respond.SanitizeError(err)))
		writeError(w, err)
		return
	}

	w.Header().Set("Location", "/documents/"+itoa(doc.ID))
	respond.JSON(w, http.StatusCreated, toDTO(doc))
}
