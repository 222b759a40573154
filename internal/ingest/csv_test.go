package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func TestReadOccupations(t *testing.T) {
	in := strings.NewReader(
		"forest_code,cover_code,year,area_ha\n" +
			"TENE,FORET_DENSE,2023,1250.5\n" +
			"doka,cacao,1986,\"300,25\"\n")

	obs, err := ReadOccupations(in)
	require.NoError(t, err)
	require.Len(t, obs, 2)

	assert.Equal(t, "TENE", obs[0].ForestCode)
	assert.Equal(t, "FORET_DENSE", obs[0].CoverCode)
	assert.Equal(t, 2023, obs[0].Year)
	assert.Equal(t, 1250.5, obs[0].AreaHa)
	// carbon derived from the nomenclature factor
	assert.InDelta(t, 1250.5*869.10, obs[0].CarbonT, 0.001)

	// codes are upcased, comma decimals accepted
	assert.Equal(t, "DOKA", obs[1].ForestCode)
	assert.Equal(t, "CACAO", obs[1].CoverCode)
	assert.Equal(t, 300.25, obs[1].AreaHa)
	assert.Equal(t, 0.0, obs[1].CarbonT)
}

func TestReadOccupationsNoHeader(t *testing.T) {
	in := strings.NewReader("SANGOUE,JACHERE,2003,42\n")

	obs, err := ReadOccupations(in)
	require.NoError(t, err)
	require.Len(t, obs, 1)
	assert.Equal(t, 2003, obs[0].Year)
}

func TestReadOccupationsRejectsUnknownCodes(t *testing.T) {
	_, err := ReadOccupations(strings.NewReader("ATLANTIS,FORET_DENSE,2023,10\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown forest code")

	_, err = ReadOccupations(strings.NewReader("TENE,LAVA,2023,10\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown cover code")
}

func TestReadOccupationsRejectsShortRows(t *testing.T) {
	_, err := ReadOccupations(strings.NewReader("forest_code,cover_code,year,area_ha\nTENE,2023\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 4 columns")
}

func TestReadOccupationsBadYearPastHeader(t *testing.T) {
	_, err := ReadOccupations(strings.NewReader(
		"forest_code,cover_code,year,area_ha\nTENE,CACAO,deux mille,10\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad year")
}

func TestReadOccupationsEmpty(t *testing.T) {
	obs, err := ReadOccupations(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, obs)
}
