// Package text provides small helpers for measuring and cutting text by Unicode characters.
// Every length the application reports (summary length, budgets, truncation) goes through
// these helpers so that multi-byte input is never split in the middle of a character.
package text

import (
	"strings"
	"unicode/utf8"
)

// CountRunes counts the number of Unicode characters (runes) in the given text.
//
// Examples:
//
//	CountRunes("hello")     // 5
//	CountRunes("héllo")     // 5
//	CountRunes("日本語")     // 3
//	CountRunes("")          // 0
func CountRunes(text string) int {
	return utf8.RuneCountInString(text)
}

// Truncate returns the first limit runes of text.
// The text is returned unchanged when it is already within the limit,
// and an empty string is returned for a non-positive limit.
func Truncate(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	n := 0
	for i := range text {
		if n == limit {
			return text[:i]
		}
		n++
	}
	return text
}

// TruncateWithSuffix cuts text to limit runes and appends suffix when anything was removed.
func TruncateWithSuffix(text string, limit int, suffix string) string {
	cut := Truncate(text, limit)
	if len(cut) == len(text) {
		return text
	}
	return strings.TrimRightFunc(cut, func(r rune) bool { return r == ' ' }) + suffix
}
