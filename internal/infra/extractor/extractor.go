// Package extractor turns uploaded files into plain text for summarization.
//
// Paragraphs are separated by blank lines in every format so that the hybrid
// summarization strategy can see the document structure.
package extractor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"
	"time"
)

// Format is a supported document format.
type Format string

const (
	FormatPDF      Format = "pdf"
	FormatDOCX     Format = "docx"
	FormatText     Format = "txt"
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
)

// DefaultMaxBytes is the upload size limit.
const DefaultMaxBytes int64 = 10 << 20

var (
	// ErrUnsupportedFormat is returned for files that are not pdf, docx, txt, md or html.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrNoText is returned when a file contains no extractable text.
	ErrNoText = errors.New("no text could be extracted")

	// ErrTooLarge is returned when a file exceeds the size limit.
	ErrTooLarge = errors.New("file too large")
)

var extensionFormats = map[string]Format{
	".pdf":      FormatPDF,
	".docx":     FormatDOCX,
	".txt":      FormatText,
	".text":     FormatText,
	".md":       FormatMarkdown,
	".markdown": FormatMarkdown,
	".html":     FormatHTML,
	".htm":      FormatHTML,
}

var mediaTypeFormats = map[string]Format{
	"application/pdf": FormatPDF,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": FormatDOCX,
	"text/plain":    FormatText,
	"text/markdown": FormatMarkdown,
	"text/html":     FormatHTML,
}

// DetectFormat picks the format from the file extension, then from the content type.
func DetectFormat(filename, contentType string) (Format, error) {
	if f, ok := extensionFormats[strings.ToLower(filepath.Ext(filename))]; ok {
		return f, nil
	}
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		if f, ok := mediaTypeFormats[mediaType]; ok {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filename)
}

// Result is the text extracted from one file.
type Result struct {
	Format    Format
	Text      string
	Size      int64
	WordCount int
}

// Extractor reads files up to a size limit and extracts their text.
type Extractor struct {
	maxBytes int64
}

// New creates an Extractor. maxBytes <= 0 selects DefaultMaxBytes.
func New(maxBytes int64) *Extractor {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Extractor{maxBytes: maxBytes}
}

// MaxBytes returns the size limit.
func (e *Extractor) MaxBytes() int64 { return e.maxBytes }

// Extract reads r and extracts its text. filename and contentType select the format.
func (e *Extractor) Extract(ctx context.Context, filename, contentType string, r io.Reader) (*Result, error) {
	format, err := DetectFormat(filename, contentType)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(r, e.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	if int64(len(data)) > e.maxBytes {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, e.maxBytes)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	text, err := extract(format, data)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", format, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrNoText
	}

	res := &Result{
		Format:    format,
		Text:      text,
		Size:      int64(len(data)),
		WordCount: len(strings.Fields(text)),
	}

	slog.DebugContext(ctx, "text extracted",
		slog.String("format", string(format)),
		slog.Int64("size", res.Size),
		slog.Int("words", res.WordCount),
		slog.Duration("duration", time.Since(start)))
	return res, nil
}

func extract(format Format, data []byte) (string, error) {
	switch format {
	case FormatPDF:
		return extractPDF(bytes.NewReader(data))
	case FormatDOCX:
		return extractDOCX(data)
	case FormatHTML:
		return extractHTML(data)
	case FormatText, FormatMarkdown:
		return normalizeText(string(data)), nil
	default:
		return "", ErrUnsupportedFormat
	}
}

// joinParagraphs trims each paragraph, drops empty ones and separates the rest by blank lines.
func joinParagraphs(paragraphs []string) string {
	kept := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n\n")
}
