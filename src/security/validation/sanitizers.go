package validation

import (
	"strings"
	"unicode"
)

// StripUnprintable removes non-printable characters, allowing common whitespace
// like space, tab, newline, and carriage return.
func StripUnprintable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || r == '\t' || r == '\n' || r == '\r' {
			return r
		}
		return -1
	}, s)
}

// CleanHeaderLabel normalizes a user-supplied column label for storage:
// control characters dropped, interior whitespace collapsed, ends trimmed.
// The label keeps its punctuation; matching against the canonical vocabulary
// has its own normalization.
func CleanHeaderLabel(s string) string {
	s = StripUnprintable(s)
	return strings.Join(strings.Fields(s), " ")
}
