package repository

import (
	"context"
	"database/sql"

	"docsumm/internal/domain/entity"
)

// DBTX is the part of *sql.DB the SQL repositories use. A circuit-breaker wrapper
// around the pool satisfies it as well.
type DBTX interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// DocumentFilter narrows ListByOwner and CountByOwner.
type DocumentFilter struct {
	OwnerID  string               // required
	Search   string               // Optional: case-insensitive substring of the filename
	FileType string               // Optional: exact file type (pdf, docx, txt, ...)
	Status   entity.SummaryStatus // Optional: exact summary status
	Offset   int
	Limit    int // 0 means no limit
}

// DocumentStats aggregates an owner's documents.
type DocumentStats struct {
	Total                   int64
	Pending                 int64
	Processing              int64
	Completed               int64
	Failed                  int64
	TotalWords              int64
	TotalReadingTime        int64
	AverageCompressionRatio float64 // over completed documents
}

type DocumentRepository interface {
	// Create inserts doc and sets its ID, CreatedAt and UpdatedAt.
	Create(ctx context.Context, doc *entity.Document) error
	// Get returns (nil, nil) if the document does not exist.
	Get(ctx context.Context, id int64) (*entity.Document, error)
	// ListByOwner returns the owner's documents, newest first, without ExtractedText.
	ListByOwner(ctx context.Context, filter DocumentFilter) ([]*entity.Document, error)
	// CountByOwner counts the documents ListByOwner would return without paging.
	CountByOwner(ctx context.Context, filter DocumentFilter) (int64, error)
	// StatsByOwner aggregates all of the owner's documents.
	StatsByOwner(ctx context.Context, ownerID string) (*DocumentStats, error)
	// ListByStatus returns up to limit documents in any of statuses, oldest first,
	// including ExtractedText.
	ListByStatus(ctx context.Context, statuses []entity.SummaryStatus, limit int) ([]*entity.Document, error)
	// UpdateSummary stores the summary fields of doc and marks it completed.
	UpdateSummary(ctx context.Context, doc *entity.Document) error
	// UpdateStatus sets the summary status and error message.
	UpdateStatus(ctx context.Context, id int64, status entity.SummaryStatus, summaryErr string) error
	Delete(ctx context.Context, id int64) error
}
