// Package normalize provides string normalization for fuzzy identity
// matching. Two names that differ only in case, whitespace, or punctuation
// normalize to the same string, so "La Villa!" and "LA-VILLA" compare equal.
package normalize

import (
	"strings"
	"unicode"
)

// ForComparison lowercases the input, trims surrounding whitespace, and
// strips every non-alphanumeric rune. The result is the canonical form used
// by the dedup resolver and the hotel-overlap rule to decide whether two
// names refer to the same place.
func ForComparison(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.TrimSpace(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// Equal reports whether two strings are equal after normalization.
func Equal(a, b string) bool {
	return ForComparison(a) == ForComparison(b)
}
