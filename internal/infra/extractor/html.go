package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// blockSelector lists the elements whose text becomes a paragraph.
const blockSelector = "p, h1, h2, h3, h4, h5, h6, li, blockquote, pre, td"

// extractHTML keeps the main article content found by readability. When readability
// finds nothing the whole body is used.
func extractHTML(data []byte) (string, error) {
	if article, err := readability.FromReader(bytes.NewReader(data), nil); err == nil {
		if text := htmlParagraphs(article.Content); text != "" {
			return text, nil
		}
		if text := strings.TrimSpace(article.TextContent); text != "" {
			return normalizeText(text), nil
		}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("parse HTML: %w", err)
	}
	return documentParagraphs(doc), nil
}

// htmlParagraphs parses an HTML fragment and returns its block text.
func htmlParagraphs(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return ""
	}
	return documentParagraphs(doc)
}

// documentParagraphs joins the text of innermost block elements, or the body text when
// the document has no blocks.
func documentParagraphs(doc *goquery.Document) string {
	doc.Find("script, style, noscript, template").Remove()

	var paragraphs []string
	doc.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		if s.Find(blockSelector).Length() > 0 {
			return
		}
		paragraphs = append(paragraphs, collapseSpaces(s.Text()))
	})
	if text := joinParagraphs(paragraphs); text != "" {
		return text
	}
	return collapseSpaces(doc.Find("body").Text())
}
