// Package entity defines the core domain entities and validation logic for the application.
// It contains the uploaded Document, the Summary value produced by every summarizer,
// and the domain-specific errors shared across layers.
package entity

import "time"

// SummaryStatus describes where a document is in the summarization lifecycle.
type SummaryStatus string

const (
	SummaryStatusPending    SummaryStatus = "pending"
	SummaryStatusProcessing SummaryStatus = "processing"
	SummaryStatusCompleted  SummaryStatus = "completed"
	SummaryStatusFailed     SummaryStatus = "failed"
)

// Valid reports whether s is one of the known statuses.
func (s SummaryStatus) Valid() bool {
	switch s {
	case SummaryStatusPending, SummaryStatusProcessing, SummaryStatusCompleted, SummaryStatusFailed:
		return true
	}
	return false
}

// Document represents an uploaded file whose text has been extracted.
// Summary fields are empty until the document has been summarized.
type Document struct {
	ID            int64
	OwnerID       string
	Filename      string
	FileType      string
	FileSize      int64
	ExtractedText string
	WordCount     int

	Summary          string
	SummaryMethod    string
	SummaryModel     string
	CompressionRatio float64
	ReadingTime      int
	Keywords         []string
	SummaryStatus    SummaryStatus
	SummaryError     string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SummaryOptions carries the length budget requested by a caller.
// Zero values mean "use the summarizer default".
type SummaryOptions struct {
	MaxLength    int
	MaxSentences int
}

// Summary is the provider-independent result of summarizing a text.
type Summary struct {
	Text             string
	Method           string
	Model            string
	OriginalLength   int
	SummaryLength    int
	CompressionRatio float64
	ProcessingTime   time.Duration
}
