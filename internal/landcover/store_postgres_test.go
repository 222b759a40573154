package landcover

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/apigeo/carbone-cli/internal/plan"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func newMockStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresWithPool(mock), mock
}

func TestPostgresMigrate(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS forests").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, store.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAggregateByCover(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT o.cover_code, c.label_fr`).
		WithArgs("TENE", 2023).
		WillReturnRows(pgxmock.NewRows(
			[]string{"cover_code", "label_fr", "color_hex", "display_order", "area", "carbon", "count"}).
			AddRow("FORET_DENSE", "Forêt dense", "#006400", 1, 1200.5, 50000.0, 3).
			AddRow("CACAO", "Cacao", "#FFA500", 5, 800.0, 0.0, 2))

	rows, err := store.AggregateByCover(context.Background(), plan.Filter{
		Locations: []string{"TENE"},
		Years:     []int{2023},
	})
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, "FORET_DENSE", rows[0].CoverCode)
	assert.Equal(t, 1200.5, rows[0].AreaHa)
	assert.Equal(t, 3, rows[0].Count)
	assert.Equal(t, "CACAO", rows[1].CoverCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFeatures(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM occupations`).
		WithArgs("DOKA").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectQuery(`SELECT o.id, o.forest_code`).
		WithArgs("DOKA", 200).
		WillReturnRows(pgxmock.NewRows(
			[]string{"id", "forest_code", "cover_code", "year", "area_ha", "carbon_t", "name", "label_fr", "color_hex"}).
			AddRow(int64(7), "DOKA", "JACHERE", 2003, 42.0, 0.0, "Forêt Classée de DOKA", "Jachère / Reboisement jeune", "#FFFF00"))

	features, total, err := store.Features(context.Background(),
		plan.Filter{Locations: []string{"DOKA"}}, 200)
	require.NoError(t, err)

	assert.Equal(t, 1, total)
	require.Len(t, features, 1)
	assert.Equal(t, int64(7), features[0].ID)
	assert.Equal(t, "Forêt Classée de DOKA", features[0].ForestName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTotalArea(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(o.area_ha\), 0\) FROM occupations`).
		WithArgs("SANGOUE", 2023).
		WillReturnRows(pgxmock.NewRows([]string{"sum"}).AddRow(27360.0))

	total, err := store.TotalArea(context.Background(), plan.Filter{
		Locations: []string{"SANGOUE"},
		Years:     []int{2023},
	})
	require.NoError(t, err)
	assert.Equal(t, 27360.0, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSeriesByCoverGroups(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT o.cover_code, o.year`).
		WillReturnRows(pgxmock.NewRows([]string{"cover_code", "year", "area", "carbon"}).
			AddRow("FORET_CLAIRE", 1986, 900.0, 30000.0).
			AddRow("FORET_CLAIRE", 2023, 400.0, 12000.0).
			AddRow("FORET_DENSE", 1986, 5000.0, 250000.0))

	series, err := store.SeriesByCover(context.Background(), plan.Filter{})
	require.NoError(t, err)

	require.Len(t, series, 2)
	assert.Equal(t, "FORET_CLAIRE", series[0].Cover)
	require.Len(t, series[0].Points, 2)
	assert.Equal(t, 1986, series[0].Points[0].Year)
	assert.Equal(t, "FORET_DENSE", series[1].Cover)
	require.Len(t, series[1].Points, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLogQuery(t *testing.T) {
	store, mock := newMockStore(t)

	now := time.Now().UTC()
	entry := QueryLogEntry{
		ID:          "abc-123",
		RawText:     "Compare TENE entre 1986 et 2023",
		Parsed:      []byte(`{"intent":"compare"}`),
		PlanDesc:    "compare 1986/2023",
		ResultCount: 9,
		ElapsedMs:   12,
		CreatedAt:   now,
	}

	mock.ExpectExec("INSERT INTO nlq_queries").
		WithArgs(entry.ID, entry.RawText, entry.Parsed, entry.PlanDesc,
			entry.ResultCount, entry.ElapsedMs, now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, store.LogQuery(context.Background(), entry))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpsertForest(t *testing.T) {
	store, mock := newMockStore(t)

	f := Forest{Code: "TENE", Name: "Forêt Classée de TENÉ", LegalAreaHa: 29549}
	mock.ExpectExec("INSERT INTO forests").
		WithArgs(f.Code, f.Name, f.LegalAreaHa, f.Geometry).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, store.UpsertForest(context.Background(), f))
	assert.NoError(t, mock.ExpectationsWereMet())
}
