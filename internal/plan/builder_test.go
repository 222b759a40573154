package plan

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apigeo/carbone-cli/internal/nlq"
)

func newTestBuilder() *Builder {
	return NewBuilder(nlq.NewLexicon())
}

func TestBuildShow(t *testing.T) {
	b := newTestBuilder()

	pl, err := b.Build(&nlq.ParsedQuery{
		Intent:     nlq.IntentShow,
		Locations:  []string{"TENE"},
		CoverTypes: []string{"FORET_DENSE"},
		Years:      []int{2023},
	})
	require.NoError(t, err)

	assert.Equal(t, KindShow, pl.Kind)
	assert.Equal(t, []string{"TENE"}, pl.Filter.Locations)
	assert.Equal(t, []string{"FORET_DENSE"}, pl.Filter.CoverTypes)
	assert.Equal(t, []int{2023}, pl.Filter.Years)
	assert.Nil(t, pl.Filter.Threshold)
}

func TestBuildStatsCarbonThresholdField(t *testing.T) {
	b := newTestBuilder()

	pl, err := b.Build(&nlq.ParsedQuery{
		Intent:    nlq.IntentCarbon,
		Threshold: &nlq.Threshold{Value: 1000, Op: nlq.OpGTE},
	})
	require.NoError(t, err)

	assert.Equal(t, KindStats, pl.Kind)
	require.NotNil(t, pl.Filter.Threshold)
	assert.Equal(t, FieldCarbon, pl.Filter.Threshold.Field)
	assert.Equal(t, "gte", pl.Filter.Threshold.Op)
}

func TestBuildStatsAreaThresholdField(t *testing.T) {
	b := newTestBuilder()

	pl, err := b.Build(&nlq.ParsedQuery{
		Intent:    nlq.IntentStats,
		Threshold: &nlq.Threshold{Value: 100, Op: nlq.OpLTE},
	})
	require.NoError(t, err)

	require.NotNil(t, pl.Filter.Threshold)
	assert.Equal(t, FieldArea, pl.Filter.Threshold.Field)
	assert.Equal(t, "lte", pl.Filter.Threshold.Op)
}

func TestBuildCompare(t *testing.T) {
	b := newTestBuilder()

	pl, err := b.Build(&nlq.ParsedQuery{
		Intent: nlq.IntentCompare,
		Years:  []int{1986, 2003, 2023},
	})
	require.NoError(t, err)

	assert.Equal(t, KindCompare, pl.Kind)
	assert.Equal(t, 1986, pl.FirstYear)
	assert.Equal(t, 2023, pl.LastYear)
}

func TestBuildCompareMissingYears(t *testing.T) {
	b := newTestBuilder()

	_, err := b.Build(&nlq.ParsedQuery{Intent: nlq.IntentCompare, Years: []int{2023}})
	var missing *MissingEntityError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, nlq.IntentCompare, missing.Intent)
}

func TestBuildDeforestation(t *testing.T) {
	b := newTestBuilder()

	pl, err := b.Build(&nlq.ParsedQuery{
		Intent:    nlq.IntentDeforestation,
		Locations: []string{"DOKA"},
		Years:     []int{1986, 2023},
	})
	require.NoError(t, err)

	assert.Equal(t, KindDeforestation, pl.Kind)
	assert.Equal(t, nlq.ForestCoverCodes, pl.Filter.CoverTypes)
	assert.Equal(t, 1986, pl.FirstYear)
	assert.Equal(t, 2023, pl.LastYear)
}

func TestBuildRankingDefaults(t *testing.T) {
	b := newTestBuilder()

	pl, err := b.Build(&nlq.ParsedQuery{Intent: nlq.IntentRanking})
	require.NoError(t, err)

	assert.Equal(t, KindRanking, pl.Kind)
	assert.Equal(t, 2023, pl.RankingYear)
	assert.Equal(t, nlq.ForestCoverCodes, pl.Filter.CoverTypes)
	assert.False(t, pl.SortAscending)
}

func TestBuildRankingAscending(t *testing.T) {
	b := newTestBuilder()

	pl, err := b.Build(&nlq.ParsedQuery{
		Intent:     nlq.IntentRanking,
		CoverTypes: []string{"CACAO"},
		Years:      []int{2003},
		SortOrder:  nlq.SortAsc,
	})
	require.NoError(t, err)

	assert.Equal(t, 2003, pl.RankingYear)
	assert.Equal(t, []string{"CACAO"}, pl.Filter.CoverTypes)
	assert.True(t, pl.SortAscending)
}

func TestBuildAreaCalc(t *testing.T) {
	b := newTestBuilder()

	pl, err := b.Build(&nlq.ParsedQuery{Intent: nlq.IntentAreaCalc})
	require.NoError(t, err)

	assert.Equal(t, KindAreaCalc, pl.Kind)
	assert.Equal(t, []int{2023}, pl.Filter.Years)
	assert.True(t, pl.Percentage)
}

func TestBuildExportBundle(t *testing.T) {
	b := newTestBuilder()

	pl, err := b.Build(&nlq.ParsedQuery{
		Intent:    nlq.IntentExport,
		Locations: []string{"TENE"},
	})
	require.NoError(t, err)

	assert.Equal(t, KindExport, pl.Kind)
	require.Len(t, pl.Bundle, 2)
	assert.Equal(t, KindStats, pl.Bundle[0].Kind)
	assert.Equal(t, KindAreaCalc, pl.Bundle[1].Kind)
	assert.Equal(t, []string{"TENE"}, pl.Bundle[0].Filter.Locations)
	assert.Equal(t, []int{2023}, pl.Bundle[1].Filter.Years)
}

func TestBuildPrediction(t *testing.T) {
	b := newTestBuilder()

	pl, err := b.Build(&nlq.ParsedQuery{
		Intent:     nlq.IntentPrediction,
		Years:      []int{2023},
		TargetYear: 2050,
	})
	require.NoError(t, err)

	assert.Equal(t, KindPrediction, pl.Kind)
	assert.Equal(t, 2050, pl.TargetYear)
	assert.Equal(t, nlq.ForestCoverCodes, pl.Filter.CoverTypes)
	// Projections regress over the full history.
	assert.Nil(t, pl.Filter.Years)
}

func TestBuildPredictionDefaultTarget(t *testing.T) {
	b := newTestBuilder()

	pl, err := b.Build(&nlq.ParsedQuery{Intent: nlq.IntentPrediction})
	require.NoError(t, err)
	assert.Equal(t, nlq.DefaultTargetYear, pl.TargetYear)
}

func TestFilterCopiesAreIndependent(t *testing.T) {
	f := Filter{Locations: []string{"TENE"}, Years: []int{1986}}

	pinned := f.WithYear(2023)
	assert.Equal(t, []int{1986}, f.Years)
	assert.Equal(t, []int{2023}, pinned.Years)

	covered := f.WithCoverTypes([]string{"CACAO"})
	assert.Empty(t, f.CoverTypes)
	assert.Equal(t, []string{"CACAO"}, covered.CoverTypes)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "compare 1986/2023", (&Plan{Kind: KindCompare, FirstYear: 1986, LastYear: 2023}).Describe())
	assert.Equal(t, "ranking 2023", (&Plan{Kind: KindRanking, RankingYear: 2023}).Describe())
	assert.Equal(t, "prediction 2030", (&Plan{Kind: KindPrediction, TargetYear: 2030}).Describe())
	assert.Equal(t, "show", (&Plan{Kind: KindShow}).Describe())
}
