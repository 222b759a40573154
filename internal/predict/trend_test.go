package predict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectLinearDecline(t *testing.T) {
	series := []Series{{
		Cover: "FORET_DENSE",
		Points: []Point{
			{Year: 2000, AreaHa: 100, CarbonT: 1000},
			{Year: 2010, AreaHa: 80, CarbonT: 800},
		},
	}}

	res := Project(series, 2020)

	require.Len(t, res.Covers, 1)
	proj := res.Covers[0]
	assert.InDelta(t, 60, proj.PredictedArea, 0.001)
	assert.InDelta(t, 600, proj.PredictedCarbon, 0.001)
	assert.InDelta(t, -2, proj.AnnualChangeRate, 0.001)
	assert.Equal(t, TrendFalling, proj.Direction)
	assert.Equal(t, 2020, res.TargetYear)
	assert.Equal(t, []int{2000, 2010}, res.KnownYears)
	assert.Contains(t, res.Caveat, "2000, 2010")
}

func TestProjectClampsNegativeArea(t *testing.T) {
	series := []Series{{
		Cover: "FORET_CLAIRE",
		Points: []Point{
			{Year: 2000, AreaHa: 10},
			{Year: 2010, AreaHa: 0},
		},
	}}

	res := Project(series, 2030)

	require.Len(t, res.Covers, 1)
	assert.Equal(t, 0.0, res.Covers[0].PredictedArea)
	assert.Equal(t, TrendFalling, res.Covers[0].Direction)
}

func TestProjectRisingAndStable(t *testing.T) {
	series := []Series{
		{Cover: "CACAO", Points: []Point{
			{Year: 1986, AreaHa: 50},
			{Year: 2003, AreaHa: 100},
			{Year: 2023, AreaHa: 160},
		}},
		{Cover: "SOL_NU", Points: []Point{
			{Year: 1986, AreaHa: 40},
			{Year: 2023, AreaHa: 40},
		}},
	}

	res := Project(series, 2030)

	require.Len(t, res.Covers, 2)
	assert.Equal(t, TrendRising, res.Covers[0].Direction)
	assert.Greater(t, res.Covers[0].PredictedArea, 160.0)
	assert.Equal(t, TrendStable, res.Covers[1].Direction)
	assert.InDelta(t, 40, res.Covers[1].PredictedArea, 0.001)
}

func TestProjectSkipsShortSeries(t *testing.T) {
	series := []Series{
		{Cover: "JACHERE", Points: []Point{{Year: 2023, AreaHa: 12}}},
		{Cover: "CAFE", Points: []Point{
			{Year: 2003, AreaHa: 5},
			{Year: 2023, AreaHa: 9},
		}},
	}

	res := Project(series, 2040)

	require.Len(t, res.Covers, 1)
	assert.Equal(t, "CAFE", res.Covers[0].Cover)
	// Excluded series still contribute their years to the known set.
	assert.Equal(t, []int{2003, 2023}, res.KnownYears)
}

func TestProjectSkipsCollinearYears(t *testing.T) {
	series := []Series{{
		Cover: "HEVEA",
		Points: []Point{
			{Year: 2023, AreaHa: 5},
			{Year: 2023, AreaHa: 7},
		},
	}}

	res := Project(series, 2030)
	assert.Empty(t, res.Covers)
}

func TestProjectEmptyInput(t *testing.T) {
	res := Project(nil, 2030)
	assert.Empty(t, res.Covers)
	assert.Empty(t, res.KnownYears)
	assert.Equal(t, 2030, res.TargetYear)
}
