package landcover

import (
	"context"
	"database/sql"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/apigeo/carbone-cli/internal/plan"
	"github.com/apigeo/carbone-cli/internal/predict"
)

// SQLiteStore implements Store using modernc.org/sqlite, for local and
// development use without a Postgres instance.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	sdb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := sdb.Exec(pragma); err != nil {
			sdb.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: sdb}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS forests (
	code          TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	legal_area_ha REAL NOT NULL DEFAULT 0,
	geom          BLOB
);

CREATE TABLE IF NOT EXISTS cover_types (
	code          TEXT PRIMARY KEY,
	label_fr      TEXT NOT NULL,
	color_hex     TEXT NOT NULL,
	display_order INTEGER NOT NULL,
	biomass_t_ha  REAL NOT NULL DEFAULT 0,
	carbon_tc_ha  REAL NOT NULL DEFAULT 0,
	carbon_ref_t  REAL NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS occupations (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	forest_code TEXT NOT NULL REFERENCES forests(code),
	cover_code  TEXT NOT NULL REFERENCES cover_types(code),
	year        INTEGER NOT NULL,
	area_ha     REAL NOT NULL,
	carbon_t    REAL NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS nlq_queries (
	id           TEXT PRIMARY KEY,
	raw_text     TEXT NOT NULL,
	parsed       TEXT,
	plan_desc    TEXT,
	result_count INTEGER NOT NULL DEFAULT 0,
	elapsed_ms   INTEGER NOT NULL DEFAULT 0,
	created_at   DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_occupations_forest ON occupations(forest_code);
CREATE INDEX IF NOT EXISTS idx_occupations_cover ON occupations(cover_code);
CREATE INDEX IF NOT EXISTS idx_occupations_year ON occupations(year);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) UpsertForest(ctx context.Context, f Forest) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO forests (code, name, legal_area_ha, geom)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (code) DO UPDATE SET
			name = excluded.name,
			legal_area_ha = excluded.legal_area_ha,
			geom = COALESCE(excluded.geom, forests.geom)`,
		f.Code, f.Name, f.LegalAreaHa, f.Geometry,
	)
	return eris.Wrapf(err, "sqlite: upsert forest %s", f.Code)
}

func (s *SQLiteStore) UpsertCoverType(ctx context.Context, ct CoverType) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cover_types (code, label_fr, color_hex, display_order, biomass_t_ha, carbon_tc_ha, carbon_ref_t)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (code) DO UPDATE SET
			label_fr = excluded.label_fr,
			color_hex = excluded.color_hex,
			display_order = excluded.display_order,
			biomass_t_ha = excluded.biomass_t_ha,
			carbon_tc_ha = excluded.carbon_tc_ha,
			carbon_ref_t = excluded.carbon_ref_t`,
		ct.Code, ct.LabelFR, ct.ColorHex, ct.DisplayOrder, ct.BiomassTHa, ct.CarbonTCHa, ct.CarbonRefT,
	)
	return eris.Wrapf(err, "sqlite: upsert cover type %s", ct.Code)
}

func (s *SQLiteStore) ListForests(ctx context.Context) ([]Forest, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT code, name, legal_area_ha, geom FROM forests ORDER BY code`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list forests")
	}
	defer rows.Close()

	var out []Forest
	for rows.Next() {
		var f Forest
		if err := rows.Scan(&f.Code, &f.Name, &f.LegalAreaHa, &f.Geometry); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan forest")
		}
		out = append(out, f)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list forests rows")
}

func (s *SQLiteStore) ListCoverTypes(ctx context.Context) ([]CoverType, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT code, label_fr, color_hex, display_order, biomass_t_ha, carbon_tc_ha, carbon_ref_t
		FROM cover_types ORDER BY display_order`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list cover types")
	}
	defer rows.Close()

	var out []CoverType
	for rows.Next() {
		var ct CoverType
		if err := rows.Scan(&ct.Code, &ct.LabelFR, &ct.ColorHex, &ct.DisplayOrder,
			&ct.BiomassTHa, &ct.CarbonTCHa, &ct.CarbonRefT); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan cover type")
		}
		out = append(out, ct)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list cover types rows")
}

func (s *SQLiteStore) InsertObservations(ctx context.Context, obs []Observation) (int64, error) {
	if len(obs) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin insert observations")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO occupations (forest_code, cover_code, year, area_ha, carbon_t)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare insert observations")
	}
	defer stmt.Close()

	var n int64
	for _, o := range obs {
		if _, err := stmt.ExecContext(ctx, o.ForestCode, o.CoverCode, o.Year, o.AreaHa, o.CarbonT); err != nil {
			return 0, eris.Wrap(err, "sqlite: insert observation")
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit observations")
	}
	return n, nil
}

func (s *SQLiteStore) Features(ctx context.Context, f plan.Filter, limit int) ([]Feature, int, error) {
	where, args := buildWhere(f, sqlitePlaceholder)

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM occupations o`+where, args...).Scan(&total); err != nil {
		return nil, 0, eris.Wrap(err, "sqlite: count features")
	}

	query := `
		SELECT o.id, o.forest_code, o.cover_code, o.year, o.area_ha, o.carbon_t,
		       f.name, c.label_fr, c.color_hex
		FROM occupations o
		JOIN forests f ON f.code = o.forest_code
		JOIN cover_types c ON c.code = o.cover_code` + where + `
		ORDER BY o.id`
	if limit > 0 {
		args = append(args, limit)
		query += " LIMIT ?"
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, eris.Wrap(err, "sqlite: query features")
	}
	defer rows.Close()

	var out []Feature
	for rows.Next() {
		var ft Feature
		if err := rows.Scan(&ft.ID, &ft.ForestCode, &ft.CoverCode, &ft.Year,
			&ft.AreaHa, &ft.CarbonT, &ft.ForestName, &ft.CoverLabel, &ft.ColorHex); err != nil {
			return nil, 0, eris.Wrap(err, "sqlite: scan feature")
		}
		out = append(out, ft)
	}
	return out, total, eris.Wrap(rows.Err(), "sqlite: features rows")
}

func (s *SQLiteStore) AggregateByCover(ctx context.Context, f plan.Filter) ([]AggregateRow, error) {
	where, args := buildWhere(f, sqlitePlaceholder)
	rows, err := s.db.QueryContext(ctx, `
		SELECT o.cover_code, c.label_fr, c.color_hex, c.display_order,
		       COALESCE(SUM(o.area_ha), 0), COALESCE(SUM(o.carbon_t), 0), COUNT(*)
		FROM occupations o
		JOIN cover_types c ON c.code = o.cover_code`+where+`
		GROUP BY o.cover_code, c.label_fr, c.color_hex, c.display_order
		ORDER BY c.display_order`, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: aggregate by cover")
	}
	defer rows.Close()

	var out []AggregateRow
	for rows.Next() {
		var r AggregateRow
		if err := rows.Scan(&r.CoverCode, &r.LabelFR, &r.ColorHex, &r.DisplayOrder,
			&r.AreaHa, &r.CarbonT, &r.Count); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan aggregate")
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: aggregate rows")
}

func (s *SQLiteStore) AggregateByForest(ctx context.Context, f plan.Filter, ascending bool) ([]ForestRow, error) {
	where, args := buildWhere(f, sqlitePlaceholder)
	order := "DESC"
	if ascending {
		order = "ASC"
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT o.forest_code, f.name,
		       COALESCE(SUM(o.area_ha), 0), COALESCE(SUM(o.carbon_t), 0), COUNT(*)
		FROM occupations o
		JOIN forests f ON f.code = o.forest_code`+where+`
		GROUP BY o.forest_code, f.name
		ORDER BY SUM(o.area_ha) `+order, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: aggregate by forest")
	}
	defer rows.Close()

	var out []ForestRow
	for rows.Next() {
		var r ForestRow
		if err := rows.Scan(&r.ForestCode, &r.Name, &r.AreaHa, &r.CarbonT, &r.Count); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan forest row")
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: forest rows")
}

func (s *SQLiteStore) TotalArea(ctx context.Context, f plan.Filter) (float64, error) {
	where, args := buildWhere(f, sqlitePlaceholder)
	var total float64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(o.area_ha), 0) FROM occupations o`+where, args...).Scan(&total)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: total area")
	}
	return total, nil
}

func (s *SQLiteStore) SeriesByCover(ctx context.Context, f plan.Filter) ([]predict.Series, error) {
	where, args := buildWhere(f, sqlitePlaceholder)
	rows, err := s.db.QueryContext(ctx, `
		SELECT o.cover_code, o.year,
		       COALESCE(SUM(o.area_ha), 0), COALESCE(SUM(o.carbon_t), 0)
		FROM occupations o`+where+`
		GROUP BY o.cover_code, o.year
		ORDER BY o.cover_code, o.year`, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: series by cover")
	}
	defer rows.Close()

	var out []predict.Series
	for rows.Next() {
		var cover string
		var pt predict.Point
		if err := rows.Scan(&cover, &pt.Year, &pt.AreaHa, &pt.CarbonT); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan series point")
		}
		if n := len(out); n > 0 && out[n-1].Cover == cover {
			out[n-1].Points = append(out[n-1].Points, pt)
		} else {
			out = append(out, predict.Series{Cover: cover, Points: []predict.Point{pt}})
		}
	}
	return out, eris.Wrap(rows.Err(), "sqlite: series rows")
}

func (s *SQLiteStore) LogQuery(ctx context.Context, entry QueryLogEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO nlq_queries (id, raw_text, parsed, plan_desc, result_count, elapsed_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.RawText, string(entry.Parsed), entry.PlanDesc,
		entry.ResultCount, entry.ElapsedMs, entry.CreatedAt,
	)
	return eris.Wrap(err, "sqlite: log query")
}

var _ Store = (*SQLiteStore)(nil)
