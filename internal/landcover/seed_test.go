package landcover

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryTotalsMatch(t *testing.T) {
	var sum float64
	for _, f := range Forests {
		sum += f.LegalAreaHa
	}
	assert.Equal(t, TotalLegalAreaHa, sum)
}

func TestNomenclatureDisplayOrderIsDense(t *testing.T) {
	for i, ct := range Nomenclature {
		assert.Equal(t, i+1, ct.DisplayOrder, "cover %s", ct.Code)
		assert.NotEmpty(t, ct.LabelFR)
		assert.NotEmpty(t, ct.ColorHex)
	}
}

func TestCarbonFactor(t *testing.T) {
	assert.Equal(t, 869.10, CarbonFactor("FORET_DENSE"))
	assert.Equal(t, 0.0, CarbonFactor("CACAO"))
	assert.Equal(t, 0.0, CarbonFactor("UNKNOWN"))
}

func TestSeedUpsertsEverything(t *testing.T) {
	store, mock := newMockStore(t)

	for _, ct := range Nomenclature {
		mock.ExpectExec("INSERT INTO cover_types").
			WithArgs(ct.Code, ct.LabelFR, ct.ColorHex, ct.DisplayOrder, ct.BiomassTHa, ct.CarbonTCHa, ct.CarbonRefT).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}
	for _, f := range Forests {
		mock.ExpectExec("INSERT INTO forests").
			WithArgs(f.Code, f.Name, f.LegalAreaHa, f.Geometry).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}

	require.NoError(t, Seed(context.Background(), store))
	assert.NoError(t, mock.ExpectationsWereMet())
}
