// Package identity provides employee name normalization for search and
// de-duplication at enrollment time.
package identity

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// RemoveDiacritics removes diacritical marks from a string (e.g., "Renée" -> "Renee").
func RemoveDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// NormalizeName normalizes an employee name for comparison: lowercase, no
// diacritics, dashes and runs of whitespace collapsed to single spaces.
func NormalizeName(name string) string {
	name = RemoveDiacritics(name)
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "-", " ")
	return strings.Join(strings.Fields(name), " ")
}

// NamesEqual reports whether two names refer to the same person after
// normalization.
func NamesEqual(a, b string) bool {
	return NormalizeName(a) == NormalizeName(b)
}
