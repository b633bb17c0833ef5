package utils

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// IsSingleChar reports whether s is exactly one character (code point) long.
// Punctuation marks and one-letter words both qualify.
func IsSingleChar(s string) bool {
	if s == "" {
		return false
	}
	_, size := utf8.DecodeRuneInString(s)
	return size == len(s)
}

// NormalizeWord returns the case-folded form used for case-insensitive lookups.
// A Caser keeps state, so each call gets its own.
func NormalizeWord(s string) string {
	return cases.Fold().String(s)
}

// IsComment checks if a dictionary line is blank or a '#' comment
func IsComment(line string) bool {
	line = strings.TrimSpace(line)
	return line == "" || strings.HasPrefix(line, "#")
}

// SplitFields splits a raw input line on whitespace.
// It does not separate punctuation from words, callers pass tokens pre-split.
func SplitFields(line string) []string {
	return strings.Fields(line)
}

// FormatWithCommas formats an integer with comma separators
func FormatWithCommas(n int) string {
	if n < 0 {
		return "-" + FormatWithCommas(-n)
	}
	str := strconv.Itoa(n)
	if len(str) <= 3 {
		return str
	}
	var b strings.Builder
	for i, char := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(char)
	}
	return b.String()
}
