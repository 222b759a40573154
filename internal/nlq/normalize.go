// Package nlq turns French natural-language questions about forest cover
// and carbon stocks into structured, machine-actionable query parses.
// Nothing in this package executes queries: the output is pure data handed
// to the plan builder and the landcover store.
package nlq

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldTransformer = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Fold lowercases a string and strips diacritics so that accented and
// unaccented spellings ("forêt" / "foret", "tené" / "tene") compare equal.
// Used by every matcher in the pipeline.
func Fold(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		// Transform only fails on malformed UTF-8; fall back to the input.
		folded = s
	}
	return strings.ToLower(folded)
}

// Tokenize splits folded text into word tokens, dropping punctuation.
func Tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
