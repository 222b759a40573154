package nlq

import "unicode/utf8"

// FuzzyMatcher resolves misspelled forest names against the canonical
// registry using Levenshtein distance. Short tokens get a tighter bound
// so common French words do not false-positive into forest codes.
type FuzzyMatcher struct {
	lex *Lexicon
}

// NewFuzzyMatcher builds a matcher over the lexicon's canonical names.
func NewFuzzyMatcher(lex *Lexicon) *FuzzyMatcher {
	return &FuzzyMatcher{lex: lex}
}

// Match resolves a single token to a forest code. The token is folded
// first; exact alias hits return immediately, otherwise the closest
// canonical name within tolerance wins. Tolerance is 2 edits for tokens
// longer than 4 characters, 1 edit otherwise.
func (m *FuzzyMatcher) Match(token string) (string, bool) {
	folded := Fold(token)
	if folded == "" {
		return "", false
	}

	if code, ok := m.lex.forestAliases[folded]; ok {
		return code, true
	}
	for _, c := range m.lex.canonicalForests {
		if c.name == folded {
			return c.code, true
		}
	}

	maxDist := 1
	if utf8.RuneCountInString(folded) > 4 {
		maxDist = 2
	}

	best := ""
	bestDist := maxDist + 1
	for _, c := range m.lex.canonicalForests {
		if d := levenshtein(folded, c.name); d < bestDist {
			bestDist = d
			best = c.code
		}
	}
	if best == "" {
		return "", false
	}
	return best, true
}

// levenshtein computes the classic edit distance between two strings,
// operating on runes, with a two-row DP table.
func levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
