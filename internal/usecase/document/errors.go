// Package document provides use cases for uploaded documents.
// It implements text extraction on upload, summarization (inline or in batches for the
// worker), ownership-checked queries and per-owner summarization statistics.
package document

import "errors"

// Sentinel errors for document use case operations.
var (
	// ErrDocumentNotFound indicates that the requested document does not exist
	// or belongs to another owner.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrInvalidDocumentID indicates that the provided document ID is invalid.
	// Document IDs must be positive integers.
	ErrInvalidDocumentID = errors.New("invalid document ID")

	// ErrSummarizationFailed wraps the error of a summarizer that could not
	// produce a summary. The document is left in the failed state.
	ErrSummarizationFailed = errors.New("summarization failed")
)
