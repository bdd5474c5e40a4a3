// Package normalize cleans up user-entered palette names.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRun   = regexp.MustCompile(`\s+`)
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
)

// Name returns the canonical display form of a palette name: NFC
// normalized, trimmed, inner whitespace runs collapsed to one space.
// A name that is blank after this is empty.
func Name(s string) string {
	s = norm.NFC.String(s)
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Slug converts a palette name to a URL-safe slug.
// "Ocean Breeze" -> "ocean-breeze", "Crème Brûlée" -> "creme-brulee".
func Slug(s string) string {
	// Decompose so accents become separate marks we can drop.
	s = norm.NFKD.String(s)
	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)
	s = nonAlphanumeric.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(s, "-")
}
