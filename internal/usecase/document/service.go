package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"docsumm/internal/common/pagination"
	"docsumm/internal/domain/entity"
	"docsumm/internal/extractive"
	"docsumm/internal/infra/extractor"
	"docsumm/internal/observability/metrics"
	"docsumm/internal/observability/tracing"
	"docsumm/internal/repository"
)

const (
	// DefaultParallelism bounds concurrent summaries in SummarizePending.
	DefaultParallelism = 4
	// DefaultBatchSize is used when SummarizePending is called with limit <= 0.
	DefaultBatchSize = 50
)

// TextExtractor turns an uploaded file into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, filename, contentType string, r io.Reader) (*extractor.Result, error)
}

// Summarizer produces a summary of a document text.
type Summarizer interface {
	Summarize(ctx context.Context, text string, opts entity.SummaryOptions) (*entity.Summary, error)
}

// UploadInput represents an uploaded file.
type UploadInput struct {
	OwnerID     string
	Filename    string
	ContentType string
	Body        io.Reader
}

// ListInput narrows a document listing. Empty fields are ignored.
type ListInput struct {
	OwnerID  string
	Search   string
	FileType string
	Status   string
}

// PaginatedResult represents the result of a paginated query.
type PaginatedResult struct {
	Data       []*entity.Document
	Pagination pagination.Metadata
}

// SummaryView is the summary part of a document.
type SummaryView struct {
	ID               int64
	Filename         string
	Summary          string
	Keywords         []string
	ReadingTime      int
	CompressionRatio float64
	WordCount        int
	Method           string
	Model            string
	Status           entity.SummaryStatus
	Error            string
}

// BatchStats reports one SummarizePending run.
type BatchStats struct {
	Picked    int
	Completed int64
	Failed    int64
	Duration  time.Duration
}

// Service provides document management use cases.
// Repo, Extractor and Summarizer are required; the other fields have defaults.
type Service struct {
	Repo       repository.DocumentRepository
	Extractor  TextExtractor
	Summarizer Summarizer

	// Options is the budget used for stored summaries.
	Options entity.SummaryOptions
	// KeywordCount is the number of keywords stored with a summary.
	KeywordCount int
	// InlineSummarize summarizes during Upload instead of leaving the document pending.
	InlineSummarize bool
	// Parallelism bounds concurrent summaries in SummarizePending.
	Parallelism int
	// Timeout bounds one document summarization. Zero means no limit.
	Timeout time.Duration
	// Paging bounds List parameters. The zero value selects pagination.DefaultConfig.
	Paging pagination.Config
}

// Upload extracts the text of a file, stores a pending document and, when
// InlineSummarize is set, summarizes it before returning.
// A summarization failure does not fail the upload; the document is returned
// in the failed state.
func (s *Service) Upload(ctx context.Context, in UploadInput) (*entity.Document, error) {
	if strings.TrimSpace(in.OwnerID) == "" {
		return nil, &entity.ValidationError{Field: "owner", Message: "is required"}
	}
	if strings.TrimSpace(in.Filename) == "" {
		return nil, &entity.ValidationError{Field: "file", Message: "filename is required"}
	}
	if in.Body == nil {
		return nil, &entity.ValidationError{Field: "file", Message: "is required"}
	}

	format, _ := extractor.DetectFormat(in.Filename, in.ContentType)
	res, err := s.Extractor.Extract(ctx, in.Filename, in.ContentType, in.Body)
	if err != nil {
		result := "failure"
		if isRejection(err) {
			result = "rejected"
		}
		metrics.RecordDocumentUploaded(string(format), result)
		return nil, fmt.Errorf("extract document: %w", err)
	}
	metrics.RecordExtractedText(len([]rune(res.Text)))

	doc := &entity.Document{
		OwnerID:       in.OwnerID,
		Filename:      in.Filename,
		FileType:      string(res.Format),
		FileSize:      res.Size,
		ExtractedText: res.Text,
		WordCount:     res.WordCount,
		SummaryStatus: entity.SummaryStatusPending,
	}
	if err := doc.Validate(); err != nil {
		metrics.RecordDocumentUploaded(doc.FileType, "rejected")
		return nil, err
	}
	if err := s.Repo.Create(ctx, doc); err != nil {
		metrics.RecordDocumentUploaded(doc.FileType, "failure")
		return nil, fmt.Errorf("create document: %w", err)
	}
	metrics.RecordDocumentUploaded(doc.FileType, "success")

	slog.InfoContext(ctx, "document uploaded",
		slog.Int64("document_id", doc.ID),
		slog.String("owner_id", doc.OwnerID),
		slog.String("file_type", doc.FileType),
		slog.Int64("file_size", doc.FileSize),
		slog.Int("word_count", doc.WordCount))

	if s.InlineSummarize {
		if err := s.summarize(ctx, doc, s.Options); err != nil && !errors.Is(err, ErrSummarizationFailed) {
			return nil, err
		}
	}
	return doc, nil
}

func isRejection(err error) bool {
	return errors.Is(err, extractor.ErrUnsupportedFormat) ||
		errors.Is(err, extractor.ErrNoText) ||
		errors.Is(err, extractor.ErrTooLarge)
}

// List retrieves the owner's documents, newest first, with pagination metadata.
// Listed documents do not carry their extracted text. Zero params select the
// default page and limit.
func (s *Service) List(ctx context.Context, in ListInput, params pagination.Params) (*PaginatedResult, error) {
	paging := s.Paging
	if paging.MaxLimit <= 0 {
		paging = pagination.DefaultConfig()
	}
	params = params.Normalize(paging)

	filter := repository.DocumentFilter{
		OwnerID:  in.OwnerID,
		Search:   strings.TrimSpace(in.Search),
		FileType: strings.ToLower(strings.TrimSpace(in.FileType)),
	}
	if in.Status != "" {
		status := entity.SummaryStatus(strings.ToLower(in.Status))
		if !status.Valid() {
			return nil, &entity.ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", in.Status)}
		}
		filter.Status = status
	}

	total, err := s.Repo.CountByOwner(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}

	filter.Offset = params.Offset()
	filter.Limit = params.Limit
	docs, err := s.Repo.ListByOwner(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	return &PaginatedResult{
		Data:       docs,
		Pagination: pagination.NewMetadata(params, total),
	}, nil
}

// Get retrieves a single document of the owner.
// Returns ErrInvalidDocumentID if the ID is not positive.
// Returns ErrDocumentNotFound if the document does not exist or belongs to someone else.
func (s *Service) Get(ctx context.Context, ownerID string, id int64) (*entity.Document, error) {
	if id <= 0 {
		return nil, ErrInvalidDocumentID
	}

	doc, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	if doc == nil || doc.OwnerID != ownerID {
		return nil, ErrDocumentNotFound
	}
	return doc, nil
}

// GetSummary returns the summary fields of a document of the owner.
func (s *Service) GetSummary(ctx context.Context, ownerID string, id int64) (*SummaryView, error) {
	doc, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	return &SummaryView{
		ID:               doc.ID,
		Filename:         doc.Filename,
		Summary:          doc.Summary,
		Keywords:         doc.Keywords,
		ReadingTime:      doc.ReadingTime,
		CompressionRatio: doc.CompressionRatio,
		WordCount:        doc.WordCount,
		Method:           doc.SummaryMethod,
		Model:            doc.SummaryModel,
		Status:           doc.SummaryStatus,
		Error:            doc.SummaryError,
	}, nil
}

// Delete removes a document of the owner.
func (s *Service) Delete(ctx context.Context, ownerID string, id int64) error {
	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return ErrDocumentNotFound
		}
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// Regenerate resets the summary of a document to pending and summarizes it again.
// Zero fields of opts fall back to the service budget.
// On a summarizer failure the failed document is returned together with an error
// wrapping ErrSummarizationFailed.
func (s *Service) Regenerate(ctx context.Context, ownerID string, id int64, opts entity.SummaryOptions) (*entity.Document, error) {
	doc, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if opts.MaxLength <= 0 {
		opts.MaxLength = s.Options.MaxLength
	}
	if opts.MaxSentences <= 0 {
		opts.MaxSentences = s.Options.MaxSentences
	}

	if err := s.Repo.UpdateStatus(ctx, doc.ID, entity.SummaryStatusPending, ""); err != nil {
		return nil, fmt.Errorf("reset summary status: %w", err)
	}
	doc.SummaryStatus = entity.SummaryStatusPending
	doc.SummaryError = ""

	if err := s.summarize(ctx, doc, opts); err != nil {
		if errors.Is(err, ErrSummarizationFailed) {
			return doc, err
		}
		return nil, err
	}
	return doc, nil
}

// Stats aggregates the owner's documents.
func (s *Service) Stats(ctx context.Context, ownerID string) (*repository.DocumentStats, error) {
	stats, err := s.Repo.StatsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("document stats: %w", err)
	}
	return stats, nil
}

// SummarizePending summarizes up to limit pending or failed documents, oldest first,
// with at most Parallelism summaries in flight.
// Individual failures are counted, not returned; only a cancelled context or a
// failing listing aborts the batch.
func (s *Service) SummarizePending(ctx context.Context, limit int) (*BatchStats, error) {
	start := time.Now()
	if limit <= 0 {
		limit = DefaultBatchSize
	}

	docs, err := s.Repo.ListByStatus(ctx,
		[]entity.SummaryStatus{entity.SummaryStatusPending, entity.SummaryStatusFailed}, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending documents: %w", err)
	}
	metrics.UpdatePendingBatchSize(len(docs))

	var completed, failed atomic.Int64
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.parallelism())
	for _, doc := range docs {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			if err := s.summarize(egCtx, doc, s.Options); err != nil {
				if ctxErr := egCtx.Err(); ctxErr != nil {
					return ctxErr
				}
				failed.Add(1)
				slog.WarnContext(egCtx, "document summarization failed",
					slog.Int64("document_id", doc.ID),
					slog.Any("error", err))
				return nil
			}
			completed.Add(1)
			return nil
		})
	}
	err = eg.Wait()

	stats := &BatchStats{
		Picked:    len(docs),
		Completed: completed.Load(),
		Failed:    failed.Load(),
		Duration:  time.Since(start),
	}
	slog.InfoContext(ctx, "summarization batch finished",
		slog.Int("picked", stats.Picked),
		slog.Int64("completed", stats.Completed),
		slog.Int64("failed", stats.Failed),
		slog.Duration("duration", stats.Duration))
	if err != nil {
		return stats, fmt.Errorf("summarize pending: %w", err)
	}
	return stats, nil
}

func (s *Service) parallelism() int {
	if s.Parallelism > 0 {
		return s.Parallelism
	}
	return DefaultParallelism
}

func (s *Service) keywordCount() int {
	if s.KeywordCount > 0 {
		return s.KeywordCount
	}
	return extractive.DefaultKeywordCount
}

// summarize moves doc through processing to completed or failed and stores the result.
// Summarizer failures wrap ErrSummarizationFailed; other errors come from the repository.
func (s *Service) summarize(ctx context.Context, doc *entity.Document, opts entity.SummaryOptions) error {
	ctx, span := tracing.GetTracer().Start(ctx, "document.summarize")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("document.id", doc.ID),
		attribute.Int("document.words", doc.WordCount),
	)

	start := time.Now()
	if err := s.Repo.UpdateStatus(ctx, doc.ID, entity.SummaryStatusProcessing, ""); err != nil {
		span.RecordError(err)
		return fmt.Errorf("mark processing: %w", err)
	}
	doc.SummaryStatus = entity.SummaryStatusProcessing

	sumCtx := ctx
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		sumCtx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	sum, err := s.Summarizer.Summarize(sumCtx, doc.ExtractedText, opts)
	if err != nil {
		metrics.RecordDocumentSummarized("", false, time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, "summarization failed")

		doc.SummaryStatus = entity.SummaryStatusFailed
		doc.SummaryError = err.Error()
		// The caller's deadline may be what failed; the failed state is still recorded.
		if uerr := s.Repo.UpdateStatus(context.WithoutCancel(ctx), doc.ID, entity.SummaryStatusFailed, doc.SummaryError); uerr != nil {
			return fmt.Errorf("mark failed: %w", uerr)
		}
		return fmt.Errorf("%w: document %d: %w", ErrSummarizationFailed, doc.ID, err)
	}

	stats := extractive.TextStats(doc.ExtractedText)
	doc.Summary = sum.Text
	doc.SummaryMethod = sum.Method
	doc.SummaryModel = sum.Model
	doc.CompressionRatio = sum.CompressionRatio
	doc.WordCount = stats.WordCount
	doc.ReadingTime = stats.ReadingTime
	doc.Keywords = extractive.Keywords(doc.ExtractedText, s.keywordCount())

	if err := s.Repo.UpdateSummary(ctx, doc); err != nil {
		span.RecordError(err)
		return fmt.Errorf("store summary: %w", err)
	}
	doc.SummaryStatus = entity.SummaryStatusCompleted
	doc.SummaryError = ""

	metrics.RecordDocumentSummarized(sum.Method, true, time.Since(start))
	metrics.RecordCompressionRatio(sum.CompressionRatio)
	span.SetAttributes(
		attribute.String("summary.method", sum.Method),
		attribute.String("summary.model", sum.Model),
		attribute.Float64("summary.compression_ratio", sum.CompressionRatio),
	)
	slog.InfoContext(ctx, "document summarized",
		slog.Int64("document_id", doc.ID),
		slog.String("method", sum.Method),
		slog.String("model", sum.Model),
		slog.Float64("compression_ratio", sum.CompressionRatio),
		slog.Duration("duration", time.Since(start)))
	return nil
}
