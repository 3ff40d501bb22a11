// Package document provides the HTTP handlers for uploading documents and reading
// their summaries. Every handler acts on behalf of the authenticated user and only
// sees that user's documents.
package document

import (
	"time"

	"docsumm/internal/domain/entity"
	"docsumm/internal/repository"
	docUC "docsumm/internal/usecase/document"
)

// DTO is the JSON form of a document. The extracted text is never returned.
type DTO struct {
	ID               int64     `json:"id"`
	Filename         string    `json:"filename"`
	FileType         string    `json:"file_type"`
	FileSize         int64     `json:"file_size"`
	WordCount        int       `json:"word_count"`
	Summary          string    `json:"summary,omitempty"`
	SummaryMethod    string    `json:"summary_method,omitempty"`
	SummaryModel     string    `json:"summary_model,omitempty"`
	CompressionRatio float64   `json:"compression_ratio"`
	ReadingTime      int       `json:"reading_time"`
	Keywords         []string  `json:"keywords"`
	SummaryStatus    string    `json:"summary_status"`
	SummaryError     string    `json:"summary_error,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func toDTO(d *entity.Document) DTO {
	keywords := d.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	return DTO{
		ID:               d.ID,
		Filename:         d.Filename,
		FileType:         d.FileType,
		FileSize:         d.FileSize,
		WordCount:        d.WordCount,
		Summary:          d.Summary,
		SummaryMethod:    d.SummaryMethod,
		SummaryModel:     d.SummaryModel,
		CompressionRatio: d.CompressionRatio,
		ReadingTime:      d.ReadingTime,
		Keywords:         keywords,
		SummaryStatus:    string(d.SummaryStatus),
		SummaryError:     d.SummaryError,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

// SummaryDTO is the body of GET /documents/{id}/summary.
type SummaryDTO struct {
	ID               int64    `json:"id"`
	Filename         string   `json:"filename"`
	Summary          string   `json:"summary"`
	Keywords         []string `json:"keywords"`
	ReadingTime      int      `json:"reading_time"`
	CompressionRatio float64  `json:"compression_ratio"`
	WordCount        int      `json:"word_count"`
	Method           string   `json:"method,omitempty"`
	Model            string   `json:"model,omitempty"`
	Status           string   `json:"status"`
	Error            string   `json:"error,omitempty"`
}

func toSummaryDTO(v *docUC.SummaryView) SummaryDTO {
	keywords := v.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	return SummaryDTO{
		ID:               v.ID,
		Filename:         v.Filename,
		Summary:          v.Summary,
		Keywords:         keywords,
		ReadingTime:      v.ReadingTime,
		CompressionRatio: v.CompressionRatio,
		WordCount:        v.WordCount,
		Method:           v.Method,
		Model:            v.Model,
		Status:           string(v.Status),
		Error:            v.Error,
	}
}

// StatsDTO is the body of GET /documents/stats.
type StatsDTO struct {
	Total                   int64   `json:"total"`
	Pending                 int64   `json:"pending"`
	Processing              int64   `json:"processing"`
	Completed               int64   `json:"completed"`
	Failed                  int64   `json:"failed"`
	TotalWords              int64   `json:"total_words"`
	TotalReadingTime        int64   `json:"total_reading_time"`
	AverageCompressionRatio float64 `json:"average_compression_ratio"`
}

func toStatsDTO(s *repository.DocumentStats) StatsDTO {
	return StatsDTO{
		Total:                   s.Total,
		Pending:                 s.Pending,
		Processing:              s.Processing,
		Completed:               s.Completed,
		Failed:                  s.Failed,
		TotalWords:              s.TotalWords,
		TotalReadingTime:        s.TotalReadingTime,
		AverageCompressionRatio: s.AverageCompressionRatio,
	}
}

// regenerateRequest is the optional body of POST /documents/{id}/summary.
type regenerateRequest struct {
	MaxLength    int `json:"max_length"`
	MaxSentences int `json:"max_sentences"`
}
