package entity

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxFilenameLength bounds stored filenames.
const maxFilenameLength = 255

// ValidateFilename checks an uploaded filename before it is stored.
// Directory components and control characters are rejected.
func ValidateFilename(name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "filename", Message: "filename is required"}
	}
	if utf8.RuneCountInString(name) > maxFilenameLength {
		return &ValidationError{
			Field:   "filename",
			Message: fmt.Sprintf("filename must not exceed %d characters", maxFilenameLength),
		}
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return &ValidationError{Field: "filename", Message: "filename must not contain a path"}
	}
	if strings.IndexFunc(name, unicode.IsControl) >= 0 {
		return &ValidationError{Field: "filename", Message: "filename must not contain control characters"}
	}
	return nil
}

// Validate checks the fields required to store a document.
func (d *Document) Validate() error {
	if strings.TrimSpace(d.OwnerID) == "" {
		return &ValidationError{Field: "owner", Message: "owner is required"}
	}
	if err := ValidateFilename(d.Filename); err != nil {
		return err
	}
	if d.FileType == "" {
		return &ValidationError{Field: "file_type", Message: "file type is required"}
	}
	if d.FileSize < 0 {
		return &ValidationError{Field: "file_size", Message: "file size must not be negative"}
	}
	if strings.TrimSpace(d.ExtractedText) == "" {
		return &ValidationError{Field: "text", Message: "document has no text"}
	}
	if !d.SummaryStatus.Valid() {
		return &ValidationError{Field: "summary_status", Message: fmt.Sprintf("unknown status %q", d.SummaryStatus)}
	}
	return nil
}
