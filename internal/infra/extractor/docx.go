package extractor

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const docxBody = "word/document.xml"

// extractDOCX reads word/document.xml and returns one paragraph per w:p element.
func extractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open zip: %w", err)
	}

	f, err := zr.Open(docxBody)
	if err != nil {
		return "", fmt.Errorf("%s not found in archive: %w", docxBody, err)
	}
	defer func() { _ = f.Close() }()

	var paragraphs []string
	var current strings.Builder
	inParagraph, inText := false, false

	decoder := xml.NewDecoder(f)
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse %s: %w", docxBody, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inParagraph = true
				current.Reset()
			case "t":
				inText = inParagraph
			case "tab":
				if inParagraph {
					current.WriteByte(' ')
				}
			case "br", "cr":
				if inParagraph {
					current.WriteByte(' ')
				}
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if inParagraph {
					paragraphs = append(paragraphs, collapseSpaces(current.String()))
					inParagraph = false
				}
			}
		}
	}

	return joinParagraphs(paragraphs), nil
}
