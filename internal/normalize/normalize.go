// Package normalize provides the single normalization function backing
// every tag and genre lookup in the scoring engine.
//
// The lookup tables in internal/mood are keyed by normalized form, and
// membership is exact-match only: "war" must never match inside
// "heartwarming". Normalization is limited to case folding, unicode
// decomposition, and hyphen/space unification so that "Slow-Burn" and
// "slow burn" resolve to the same table entry.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Tag normalizes a free-form tag or genre string for exact-match lookup:
// unicode-decomposed, ASCII-only, lower-cased, with every run of
// non-alphanumeric characters (hyphens, underscores, punctuation,
// whitespace) folded to a single space and trimmed.
func Tag(s string) string {
	// Decompose accented characters, then drop anything non-ASCII.
	s = norm.NFKD.String(s)
	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)

	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}

// Tags normalizes a slice of tags, preserving order. Empty results are
// dropped.
func Tags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if n := Tag(t); n != "" {
			out = append(out, n)
		}
	}
	return out
}
