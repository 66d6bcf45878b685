// Package matching aligns player names coming from uploaded prediction
// sheets with the naming used by the results feed. The two sources abbreviate
// and accent names independently, so comparison always happens on a
// canonical form.
package matching

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize canonicalizes a raw player name for comparison: lower-case,
// periods stripped, hyphens to spaces, diacritics folded to their base
// letters, whitespace collapsed. Idempotent.
func Normalize(name string) string {
	if name == "" {
		return ""
	}

	s := strings.ToLower(name)
	s = foldDiacritics(s)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, "-", " ")
	return strings.Join(strings.Fields(s), " ")
}

func foldDiacritics(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		return s
	}
	return folded
}
