package nlq

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestGenericWhenNothingRecognized(t *testing.T) {
	p := newTestParser()
	parsed := p.Parse("blabla xyzt")

	got := Suggest(parsed)
	assert.Equal(t, genericExamples, got)
}

func TestSuggestMissingCategories(t *testing.T) {
	p := newTestParser()
	parsed := p.Parse("Superficie de forêt dense")

	got := Suggest(parsed)
	require.Len(t, got, 2)
	assert.Contains(t, got[0], "Précisez une forêt")
	assert.Contains(t, got[1], "Précisez une année")
}

func TestSuggestCompareNeedsTwoYears(t *testing.T) {
	p := newTestParser()
	parsed := p.Parse("Compare TENE")

	got := Suggest(parsed)
	require.NotEmpty(t, got)
	assert.Contains(t, got[0], "deux années")
}

func TestSuggestPredictionNeedsTargetYear(t *testing.T) {
	parsed := &ParsedQuery{Intent: IntentPrediction}

	got := Suggest(parsed)
	require.NotEmpty(t, got)
	assert.True(t, strings.Contains(got[0], "année cible"), "got: %s", got[0])
}
