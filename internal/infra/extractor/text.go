package extractor

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var blankLinesRe = regexp.MustCompile(`\n[ \t]*\n\s*`)

// normalizeText unifies line endings, drops a UTF-8 BOM and invalid bytes, and
// collapses runs of blank lines into a single paragraph break.
func normalizeText(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = blankLinesRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// collapseSpaces turns every whitespace run into a single space and drops control characters.
func collapseSpaces(s string) string {
	var sb strings.Builder
	prevSpace := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			if !prevSpace && sb.Len() > 0 {
				sb.WriteByte(' ')
				prevSpace = true
			}
		case unicode.IsPrint(r):
			sb.WriteRune(r)
			prevSpace = false
		}
	}
	return strings.TrimSpace(sb.String())
}
