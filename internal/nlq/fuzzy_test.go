package nlq

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "tene", 4},
		{"tene", "", 4},
		{"tene", "tene", 0},
		{"tenee", "tene", 1},
		{"doca", "doka", 1},
		{"kitten", "sitting", 3},
		{"zoueke", "zouke", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, levenshtein(tt.a, tt.b), "levenshtein(%q, %q)", tt.a, tt.b)
	}
}

func TestFuzzyMatch(t *testing.T) {
	m := NewFuzzyMatcher(NewLexicon())

	tests := []struct {
		name     string
		token    string
		want     string
		wantHit  bool
	}{
		{"exact canonical", "tene", ForestTene, true},
		{"accented", "tené", ForestTene, true},
		{"one extra letter", "tenee", ForestTene, true},
		{"transposed long name", "sangue", ForestSangoue, true},
		{"short token one edit", "doca", ForestDoka, true},
		{"short token two edits rejected", "dcca", "", false},
		{"unrelated word", "abidjan", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.Match(tt.token)
			assert.Equal(t, tt.wantHit, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFuzzyMatchToleranceScalesWithLength(t *testing.T) {
	m := NewFuzzyMatcher(NewLexicon())

	// 5 runes, distance 2 from "tene": accepted.
	code, ok := m.Match("texxe")
	assert.True(t, ok)
	assert.Equal(t, ForestTene, code)

	// 4 runes, distance 2 from "tene": rejected.
	_, ok = m.Match("texx")
	assert.False(t, ok)
}
