package utils

import (
	"strings"
	"unicode"
)

// NormalizeText collapses every run of whitespace (including non-breaking
// spaces) to a single space and trims the ends.
func NormalizeText(s string) string {
	return strings.Join(strings.FieldsFunc(s, isSpace), " ")
}

// StripSpaces removes all whitespace from s. Prices are read this way so
// "$ 25.00\n" becomes "$25.00".
func StripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if isSpace(r) {
			return -1
		}
		return r
	}, s)
}

// LastSegment returns the text after the final sep, or s when sep is absent.
func LastSegment(s, sep string) string {
	if i := strings.LastIndex(s, sep); i >= 0 {
		return s[i+len(sep):]
	}
	return s
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\u200b'
}
