// Package landcover is the storage engine behind the query planner: it
// persists the forest registry, the cover-type nomenclature, and the
// per-year land-cover observations, and executes declarative query plans
// as set-membership filters and aggregates.
package landcover

import (
	"encoding/json"
	"time"
)

// Forest is a classified forest of the Oumé department.
type Forest struct {
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	LegalAreaHa float64 `json:"legal_area_ha"`
	// Geometry is the EWKB-encoded boundary polygon, nil when the
	// boundary has not been imported yet.
	Geometry []byte `json:"-"`
}

// CoverType is one entry of the land-cover nomenclature, carrying the
// reference factors used to derive carbon stocks from surface areas.
type CoverType struct {
	Code         string  `json:"code"`
	LabelFR      string  `json:"label_fr"`
	ColorHex     string  `json:"color_hex"`
	DisplayOrder int     `json:"display_order"`
	BiomassTHa   float64 `json:"biomass_t_ha"`
	CarbonTCHa   float64 `json:"carbon_tc_ha"`
	CarbonRefT   float64 `json:"carbon_stock_reference"`
}

// Observation is one (forest, cover, year) surface measurement.
type Observation struct {
	ID         int64   `json:"id"`
	ForestCode string  `json:"forest_code"`
	CoverCode  string  `json:"cover_code"`
	Year       int     `json:"year"`
	AreaHa     float64 `json:"area_ha"`
	CarbonT    float64 `json:"carbon_t"`
}

// Feature is an observation row returned by a show plan, geometry included
// when the forest boundary is loaded.
type Feature struct {
	Observation
	ForestName string `json:"forest_name"`
	CoverLabel string `json:"cover_label"`
	ColorHex   string `json:"color_hex"`
}

// AggregateRow is one group of a by-cover-type aggregation.
type AggregateRow struct {
	CoverCode    string  `json:"cover_code"`
	LabelFR      string  `json:"label_fr"`
	ColorHex     string  `json:"color_hex"`
	DisplayOrder int     `json:"-"`
	AreaHa       float64 `json:"area_ha"`
	CarbonT      float64 `json:"carbon_t"`
	Count        int     `json:"count"`
	// PercentArea is this group's share of the total area, filled only
	// when the plan requested percentage mode.
	PercentArea float64 `json:"percent_area,omitempty"`
}

// ForestRow is one group of a by-forest aggregation (rankings).
type ForestRow struct {
	ForestCode string  `json:"forest_code"`
	Name       string  `json:"name"`
	AreaHa     float64 `json:"area_ha"`
	CarbonT    float64 `json:"carbon_t"`
	Count      int     `json:"count"`
}

// QueryLogEntry is the audit record of one natural-language query.
type QueryLogEntry struct {
	ID          string          `json:"id"`
	RawText     string          `json:"raw_text"`
	Parsed      json.RawMessage `json:"parsed"`
	PlanDesc    string          `json:"plan_desc"`
	ResultCount int             `json:"result_count"`
	ElapsedMs   int64           `json:"elapsed_ms"`
	CreatedAt   time.Time       `json:"created_at"`
}
