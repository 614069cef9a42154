// Package sample derives search patterns from a text for benchmarking.
package sample

import (
	"strings"
	"unicode"
)

// MissingPattern is a pattern that does not occur in natural-language text.
const MissingPattern = "___THIS_SUBSTRING_SHOULD_NOT_EXIST_123456___"

const (
	// DefaultMinLen is the minimum rune length of a picked word.
	DefaultMinLen = 8
	// DefaultMaxLen is the rune length picked words are truncated to.
	DefaultMaxLen = 20

	// maxWords bounds how much of the text is scanned for candidates.
	maxWords = 200
	// fallbackLen is the rune length of the fallback pattern.
	fallbackLen = 10
)

// PickExisting returns a pattern that is guaranteed to occur in text.
//
// It scans the leading words of text (runs of letters, digits and
// apostrophes) and returns the first one with at least minLen runes,
// truncated to maxLen runes. maxLen is honoured even when it is below minLen.
// If no word is long enough it falls back to the first 10 runes of the
// trimmed text. The result is always a substring of text, and is empty only
// when text is blank or maxLen is not positive.
func PickExisting(text string, minLen, maxLen int) string {
	for _, w := range words(text, maxWords) {
		if runeLen(w) >= minLen {
			return truncateRunes(w, maxLen)
		}
	}

	return truncateRunes(strings.TrimSpace(text), fallbackLen)
}

// Pick is PickExisting with the default length bounds.
func Pick(text string) string {
	return PickExisting(text, DefaultMinLen, DefaultMaxLen)
}

// words splits the head of text into word chunks. Scanning stops as soon as
// more than limit chunks have been collected.
func words(text string, limit int) []string {
	var chunks []string
	start := -1

	for i, r := range text {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			chunks = append(chunks, text[start:i])
			start = -1
		}
		if len(chunks) > limit {
			return chunks
		}
	}
	if start >= 0 {
		chunks = append(chunks, text[start:])
	}

	return chunks
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' || r == '’'
}

func runeLen(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}

// truncateRunes returns the longest prefix of s with at most n runes.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
