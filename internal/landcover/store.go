package landcover

import (
	"context"

	"github.com/apigeo/carbone-cli/internal/plan"
	"github.com/apigeo/carbone-cli/internal/predict"
)

// Store is the storage-engine contract the query planner executes
// against. Filters are always equality-in-set on location code, cover
// code and year, plus at most one numeric threshold — never query text.
type Store interface {
	// Features returns observation rows matching a show plan, capped at
	// limit, together with the total match count.
	Features(ctx context.Context, f plan.Filter, limit int) ([]Feature, int, error)

	// AggregateByCover groups matching observations by cover type,
	// ordered by the nomenclature display order.
	AggregateByCover(ctx context.Context, f plan.Filter) ([]AggregateRow, error)

	// AggregateByForest groups matching observations by forest, ordered
	// by total area (descending unless ascending is set).
	AggregateByForest(ctx context.Context, f plan.Filter, ascending bool) ([]ForestRow, error)

	// TotalArea sums the area of matching observations.
	TotalArea(ctx context.Context, f plan.Filter) (float64, error)

	// SeriesByCover returns per-cover (year, area, carbon) histories for
	// the trend predictor.
	SeriesByCover(ctx context.Context, f plan.Filter) ([]predict.Series, error)

	// Reference data.
	UpsertForest(ctx context.Context, forest Forest) error
	UpsertCoverType(ctx context.Context, ct CoverType) error
	ListForests(ctx context.Context) ([]Forest, error)
	ListCoverTypes(ctx context.Context) ([]CoverType, error)

	// InsertObservations bulk-loads measurement rows.
	InsertObservations(ctx context.Context, obs []Observation) (int64, error)

	// LogQuery records one query for audit. Callers treat failures as
	// best-effort; implementations must not panic.
	LogQuery(ctx context.Context, entry QueryLogEntry) error

	// Lifecycle.
	Migrate(ctx context.Context) error
	Close() error
}

// Seed loads the canonical nomenclature and forest registry.
func Seed(ctx context.Context, s Store) error {
	for _, ct := range Nomenclature {
		if err := s.UpsertCoverType(ctx, ct); err != nil {
			return err
		}
	}
	for _, f := range Forests {
		if err := s.UpsertForest(ctx, f); err != nil {
			return err
		}
	}
	return nil
}
