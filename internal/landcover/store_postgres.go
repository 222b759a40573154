package landcover

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/apigeo/carbone-cli/internal/db"
	"github.com/apigeo/carbone-cli/internal/plan"
	"github.com/apigeo/carbone-cli/internal/predict"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresWithPool wraps an existing pool; used by tests with pgxmock.
func NewPostgresWithPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, closeFn: func() {}}
}

// Pool returns the underlying database pool for subsystems that need
// direct query access (session store, bulk imports).
func (s *PostgresStore) Pool() db.Pool {
	return s.pool
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS forests (
	code          TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	legal_area_ha DOUBLE PRECISION NOT NULL DEFAULT 0,
	geom          BYTEA
);

CREATE TABLE IF NOT EXISTS cover_types (
	code          TEXT PRIMARY KEY,
	label_fr      TEXT NOT NULL,
	color_hex     TEXT NOT NULL,
	display_order INT NOT NULL,
	biomass_t_ha  DOUBLE PRECISION NOT NULL DEFAULT 0,
	carbon_tc_ha  DOUBLE PRECISION NOT NULL DEFAULT 0,
	carbon_ref_t  DOUBLE PRECISION NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS occupations (
	id          BIGSERIAL PRIMARY KEY,
	forest_code TEXT NOT NULL REFERENCES forests(code),
	cover_code  TEXT NOT NULL REFERENCES cover_types(code),
	year        INT NOT NULL,
	area_ha     DOUBLE PRECISION NOT NULL,
	carbon_t    DOUBLE PRECISION NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS nlq_queries (
	id           TEXT PRIMARY KEY,
	raw_text     TEXT NOT NULL,
	parsed       JSONB,
	plan_desc    TEXT,
	result_count INT NOT NULL DEFAULT 0,
	elapsed_ms   BIGINT NOT NULL DEFAULT 0,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS nlq_sessions (
	session_id TEXT PRIMARY KEY,
	context    JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_occupations_forest ON occupations(forest_code);
CREATE INDEX IF NOT EXISTS idx_occupations_cover ON occupations(cover_code);
CREATE INDEX IF NOT EXISTS idx_occupations_year ON occupations(year);
CREATE INDEX IF NOT EXISTS idx_occupations_fcy ON occupations(forest_code, cover_code, year);
CREATE INDEX IF NOT EXISTS idx_nlq_queries_created ON nlq_queries(created_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresMigration); err != nil {
		return eris.Wrap(err, "postgres: migrate")
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.closeFn()
	return nil
}

func (s *PostgresStore) UpsertForest(ctx context.Context, f Forest) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO forests (code, name, legal_area_ha, geom)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (code) DO UPDATE SET
			name = EXCLUDED.name,
			legal_area_ha = EXCLUDED.legal_area_ha,
			geom = COALESCE(EXCLUDED.geom, forests.geom)`,
		f.Code, f.Name, f.LegalAreaHa, f.Geometry,
	)
	return eris.Wrapf(err, "postgres: upsert forest %s", f.Code)
}

func (s *PostgresStore) UpsertCoverType(ctx context.Context, ct CoverType) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO cover_types (code, label_fr, color_hex, display_order, biomass_t_ha, carbon_tc_ha, carbon_ref_t)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (code) DO UPDATE SET
			label_fr = EXCLUDED.label_fr,
			color_hex = EXCLUDED.color_hex,
			display_order = EXCLUDED.display_order,
			biomass_t_ha = EXCLUDED.biomass_t_ha,
			carbon_tc_ha = EXCLUDED.carbon_tc_ha,
			carbon_ref_t = EXCLUDED.carbon_ref_t`,
		ct.Code, ct.LabelFR, ct.ColorHex, ct.DisplayOrder, ct.BiomassTHa, ct.CarbonTCHa, ct.CarbonRefT,
	)
	return eris.Wrapf(err, "postgres: upsert cover type %s", ct.Code)
}

func (s *PostgresStore) ListForests(ctx context.Context) ([]Forest, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT code, name, legal_area_ha, geom FROM forests ORDER BY code`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list forests")
	}
	defer rows.Close()

	var out []Forest
	for rows.Next() {
		var f Forest
		if err := rows.Scan(&f.Code, &f.Name, &f.LegalAreaHa, &f.Geometry); err != nil {
			return nil, eris.Wrap(err, "postgres: scan forest")
		}
		out = append(out, f)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list forests rows")
}

func (s *PostgresStore) ListCoverTypes(ctx context.Context) ([]CoverType, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT code, label_fr, color_hex, display_order, biomass_t_ha, carbon_tc_ha, carbon_ref_t
		FROM cover_types ORDER BY display_order`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list cover types")
	}
	defer rows.Close()

	var out []CoverType
	for rows.Next() {
		var ct CoverType
		if err := rows.Scan(&ct.Code, &ct.LabelFR, &ct.ColorHex, &ct.DisplayOrder,
			&ct.BiomassTHa, &ct.CarbonTCHa, &ct.CarbonRefT); err != nil {
			return nil, eris.Wrap(err, "postgres: scan cover type")
		}
		out = append(out, ct)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list cover types rows")
}

// InsertObservations bulk-loads rows via the COPY protocol.
func (s *PostgresStore) InsertObservations(ctx context.Context, obs []Observation) (int64, error) {
	if len(obs) == 0 {
		return 0, nil
	}
	rows := make([][]any, len(obs))
	for i, o := range obs {
		rows[i] = []any{o.ForestCode, o.CoverCode, o.Year, o.AreaHa, o.CarbonT}
	}
	n, err := db.CopyFrom(ctx, s.pool, "occupations",
		[]string{"forest_code", "cover_code", "year", "area_ha", "carbon_t"}, rows)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: insert observations")
	}
	return n, nil
}

func (s *PostgresStore) Features(ctx context.Context, f plan.Filter, limit int) ([]Feature, int, error) {
	where, args := buildWhere(f, pgPlaceholder)

	var total int
	if err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM occupations o`+where, args...).Scan(&total); err != nil {
		return nil, 0, eris.Wrap(err, "postgres: count features")
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
		query += " LIMIT " + pgPlaceholder(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, eris.Wrap(err, "postgres: query features")
	}
	defer rows.Close()

	var out []Feature
	for rows.Next() {
		var ft Feature
		if err := rows.Scan(&ft.ID, &ft.ForestCode, &ft.CoverCode, &ft.Year,
			&ft.AreaHa, &ft.CarbonT, &ft.ForestName, &ft.CoverLabel, &ft.ColorHex); err != nil {
			return nil, 0, eris.Wrap(err, "postgres: scan feature")
		}
		out = append(out, ft)
	}
	return out, total, eris.Wrap(rows.Err(), "postgres: features rows")
}

func (s *PostgresStore) AggregateByCover(ctx context.Context, f plan.Filter) ([]AggregateRow, error) {
	where, args := buildWhere(f, pgPlaceholder)
	rows, err := s.pool.Query(ctx, `
		SELECT o.cover_code, c.label_fr, c.color_hex, c.display_order,
		       COALESCE(SUM(o.area_ha), 0), COALESCE(SUM(o.carbon_t), 0), COUNT(*)
		FROM occupations o
		JOIN cover_types c ON c.code = o.cover_code`+where+`
		GROUP BY o.cover_code, c.label_fr, c.color_hex, c.display_order
		ORDER BY c.display_order`, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: aggregate by cover")
	}
	defer rows.Close()

	var out []AggregateRow
	for rows.Next() {
		var r AggregateRow
		if err := rows.Scan(&r.CoverCode, &r.LabelFR, &r.ColorHex, &r.DisplayOrder,
			&r.AreaHa, &r.CarbonT, &r.Count); err != nil {
			return nil, eris.Wrap(err, "postgres: scan aggregate")
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "postgres: aggregate rows")
}

func (s *PostgresStore) AggregateByForest(ctx context.Context, f plan.Filter, ascending bool) ([]ForestRow, error) {
	where, args := buildWhere(f, pgPlaceholder)
	order := "DESC"
	if ascending {
		order = "ASC"
	}
	rows, err := s.pool.Query(ctx, `
		SELECT o.forest_code, f.name,
		       COALESCE(SUM(o.area_ha), 0), COALESCE(SUM(o.carbon_t), 0), COUNT(*)
		FROM occupations o
		JOIN forests f ON f.code = o.forest_code`+where+`
		GROUP BY o.forest_code, f.name
		ORDER BY SUM(o.area_ha) `+order, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: aggregate by forest")
	}
	defer rows.Close()

	var out []ForestRow
	for rows.Next() {
		var r ForestRow
		if err := rows.Scan(&r.ForestCode, &r.Name, &r.AreaHa, &r.CarbonT, &r.Count); err != nil {
			return nil, eris.Wrap(err, "postgres: scan forest row")
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "postgres: forest rows")
}

func (s *PostgresStore) TotalArea(ctx context.Context, f plan.Filter) (float64, error) {
	where, args := buildWhere(f, pgPlaceholder)
	var total float64
	err := s.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(o.area_ha), 0) FROM occupations o`+where, args...).Scan(&total)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: total area")
	}
	return total, nil
}

func (s *PostgresStore) SeriesByCover(ctx context.Context, f plan.Filter) ([]predict.Series, error) {
	where, args := buildWhere(f, pgPlaceholder)
	rows, err := s.pool.Query(ctx, `
		SELECT o.cover_code, o.year,
		       COALESCE(SUM(o.area_ha), 0), COALESCE(SUM(o.carbon_t), 0)
		FROM occupations o`+where+`
		GROUP BY o.cover_code, o.year
		ORDER BY o.cover_code, o.year`, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: series by cover")
	}
	defer rows.Close()

	var out []predict.Series
	for rows.Next() {
		var cover string
		var pt predict.Point
		if err := rows.Scan(&cover, &pt.Year, &pt.AreaHa, &pt.CarbonT); err != nil {
			return nil, eris.Wrap(err, "postgres: scan series point")
		}
		if n := len(out); n > 0 && out[n-1].Cover == cover {
			out[n-1].Points = append(out[n-1].Points, pt)
		} else {
			out = append(out, predict.Series{Cover: cover, Points: []predict.Point{pt}})
		}
	}
	return out, eris.Wrap(rows.Err(), "postgres: series rows")
}

func (s *PostgresStore) LogQuery(ctx context.Context, entry QueryLogEntry) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO nlq_queries (id, raw_text, parsed, plan_desc, result_count, elapsed_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.ID, entry.RawText, entry.Parsed, entry.PlanDesc,
		entry.ResultCount, entry.ElapsedMs, entry.CreatedAt,
	)
	return eris.Wrap(err, "postgres: log query")
}

var _ Store = (*PostgresStore)(nil)
