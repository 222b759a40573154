// Package plan maps a parsed query onto declarative, data-only plans for
// the landcover store. Plans carry set-membership filters and numeric
// thresholds exclusively; no plan ever contains query text, which is what
// keeps user input from reaching the storage engine as code.
package plan

import "fmt"

// Kind tags the variant of a query plan.
type Kind string

const (
	KindShow          Kind = "show"
	KindStats         Kind = "stats"
	KindCompare       Kind = "compare"
	KindDeforestation Kind = "deforestation"
	KindRanking       Kind = "ranking"
	KindAreaCalc      Kind = "area_calc"
	KindPrediction    Kind = "prediction"
	KindExport        Kind = "export"
)

// ThresholdField selects the measure a threshold applies to.
type ThresholdField string

const (
	FieldArea   ThresholdField = "area_ha"
	FieldCarbon ThresholdField = "carbon_t"
)

// Threshold is a single numeric filter on one measure.
type Threshold struct {
	Field ThresholdField `json:"field"`
	Op    string         `json:"op"` // "gte" or "lte"
	Value float64        `json:"value"`
}

// Filter is the equality-in-set filter block shared by every plan kind.
// Empty slices mean "no constraint on this dimension".
type Filter struct {
	Locations  []string   `json:"locations,omitempty"`
	CoverTypes []string   `json:"cover_types,omitempty"`
	Years      []int      `json:"years,omitempty"`
	Threshold  *Threshold `json:"threshold,omitempty"`
}

// WithYear returns a copy of the filter pinned to a single year.
func (f Filter) WithYear(year int) Filter {
	c := f
	c.Years = []int{year}
	return c
}

// WithCoverTypes returns a copy of the filter with the cover set replaced.
func (f Filter) WithCoverTypes(codes []string) Filter {
	c := f
	c.CoverTypes = append([]string(nil), codes...)
	return c
}

// Plan is the tagged variant handed to the storage engine.
type Plan struct {
	Kind   Kind   `json:"kind"`
	Filter Filter `json:"filter"`

	// Percentage asks aggregations to include each group's share of the
	// total area.
	Percentage bool `json:"percentage,omitempty"`

	// SortAscending flips the default descending order of rankings.
	SortAscending bool `json:"sort_ascending,omitempty"`

	// FirstYear/LastYear are the two endpoints of compare and
	// deforestation plans.
	FirstYear int `json:"first_year,omitempty"`
	LastYear  int `json:"last_year,omitempty"`

	// RankingYear pins ranking aggregations to one year.
	RankingYear int `json:"ranking_year,omitempty"`

	// TargetYear is the projection horizon of prediction plans.
	TargetYear int `json:"target_year,omitempty"`

	// Bundle carries the sub-plans of an export plan.
	Bundle []*Plan `json:"bundle,omitempty"`
}

// Describe returns a short human-readable plan summary for the query log.
func (p *Plan) Describe() string {
	switch p.Kind {
	case KindCompare, KindDeforestation:
		return fmt.Sprintf("%s %d/%d", p.Kind, p.FirstYear, p.LastYear)
	case KindRanking:
		return fmt.Sprintf("ranking %d", p.RankingYear)
	case KindPrediction:
		return fmt.Sprintf("prediction %d", p.TargetYear)
	default:
		return string(p.Kind)
	}
}
