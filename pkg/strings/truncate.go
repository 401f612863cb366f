package strings

import (
	"strings"
	"unicode/utf8"
)

// MinTruncateLen is the minimum maxBytes value for Truncate, leaving room for
// one byte of content plus the ellipsis.
const MinTruncateLen = 4

const ellipsis = "..."

// SingleLine collapses every run of whitespace, newlines included, into a
// single space and trims the ends.
func SingleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate limits s to maxBytes bytes. A shortened string ends in "..." and is
// cut on a rune boundary so the result stays valid UTF-8.
func Truncate(s string, maxBytes int) string {
	if maxBytes < MinTruncateLen {
		maxBytes = MinTruncateLen
	}
	if len(s) <= maxBytes {
		return s
	}

	cut := maxBytes - len(ellipsis)
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + ellipsis
}
