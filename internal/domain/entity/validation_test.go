package entity

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFilename(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "plain", input: "report.pdf"},
		{name: "spaces and unicode", input: "résumé final.docx"},
		{name: "empty", input: "", wantErr: true},
		{name: "blank", input: "   ", wantErr: true},
		{name: "unix path", input: "../etc/passwd", wantErr: true},
		{name: "windows path", input: `C:\tmp\a.txt`, wantErr: true},
		{name: "dot dot", input: "..", wantErr: true},
		{name: "control char", input: "a\x00.txt", wantErr: true},
		{name: "max length", input: strings.Repeat("a", 251) + ".txt"},
		{name: "too long", input: strings.Repeat("a", 252) + ".txt", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilename(tt.input)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr), "want ValidationError, got %v", err)
			assert.Equal(t, "filename", vErr.Field)
		})
	}
}

func TestDocument_Validate(t *testing.T) {
	valid := func() *Document {
		return &Document{
			OwnerID:       "alice",
			Filename:      "notes.txt",
			FileType:      "txt",
			FileSize:      12,
			ExtractedText: "Some text.",
			SummaryStatus: SummaryStatusPending,
		}
	}

	tests := []struct {
		name      string
		mutate    func(d *Document)
		wantField string
	}{
		{name: "valid", mutate: func(d *Document) {}},
		{name: "missing owner", mutate: func(d *Document) { d.OwnerID = "" }, wantField: "owner"},
		{name: "bad filename", mutate: func(d *Document) { d.Filename = "a/b.txt" }, wantField: "filename"},
		{name: "missing file type", mutate: func(d *Document) { d.FileType = "" }, wantField: "file_type"},
		{name: "negative size", mutate: func(d *Document) { d.FileSize = -1 }, wantField: "file_size"},
		{name: "blank text", mutate: func(d *Document) { d.ExtractedText = " \n " }, wantField: "text"},
		{name: "unknown status", mutate: func(d *Document) { d.SummaryStatus = "done" }, wantField: "summary_status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid()
			tt.mutate(d)
			err := d.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr), "want ValidationError, got %v", err)
			assert.Equal(t, tt.wantField, vErr.Field)
			assert.ErrorIs(t, err, ErrValidationFailed)
		})
	}
}
