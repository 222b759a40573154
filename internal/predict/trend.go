// Package predict fits per-cover-type linear trends over the observed
// years and projects area and carbon stock to a target year.
package predict

import (
	"fmt"
	"sort"
	"strings"
)

// Trend classifies the direction of the fitted area slope.
type Trend string

const (
	TrendRising  Trend = "rising"
	TrendFalling Trend = "falling"
	TrendStable  Trend = "stable"
)

// Point is one historical observation of a cover type.
type Point struct {
	Year    int     `json:"year"`
	AreaHa  float64 `json:"area_ha"`
	CarbonT float64 `json:"carbon_t"`
}

// Series is the historical record of one cover type.
type Series struct {
	Cover  string  `json:"cover"`
	Points []Point `json:"points"`
}

// CoverProjection is the fitted and projected outcome for one cover type.
type CoverProjection struct {
	Cover            string  `json:"cover"`
	Historical       []Point `json:"historical"`
	PredictedArea    float64 `json:"predicted_area_ha"`
	PredictedCarbon  float64 `json:"predicted_carbon_t"`
	AnnualChangeRate float64 `json:"annual_change_ha"`
	Direction        Trend   `json:"trend"`
}

// Result is the full projection response.
type Result struct {
	TargetYear int               `json:"target_year"`
	KnownYears []int             `json:"known_years"`
	Covers     []CoverProjection `json:"covers"`
	Caveat     string            `json:"caveat"`
}

// Project fits ordinary least squares per series and extrapolates to
// targetYear. Series with fewer than two points, or with collinear years
// (zero regression denominator), are silently excluded. Negative
// projections are clamped to zero: a surface cannot be negative.
func Project(series []Series, targetYear int) Result {
	yearSet := map[int]bool{}
	var covers []CoverProjection

	for _, s := range series {
		for _, pt := range s.Points {
			yearSet[pt.Year] = true
		}
		if len(s.Points) < 2 {
			continue
		}

		areaSlope, areaIntercept, ok := fitLine(s.Points, func(p Point) float64 { return p.AreaHa })
		if !ok {
			continue
		}
		carbonSlope, carbonIntercept, _ := fitLine(s.Points, func(p Point) float64 { return p.CarbonT })

		projArea := clampZero(areaSlope*float64(targetYear) + areaIntercept)
		projCarbon := clampZero(carbonSlope*float64(targetYear) + carbonIntercept)

		direction := TrendStable
		switch {
		case areaSlope > 0:
			direction = TrendRising
		case areaSlope < 0:
			direction = TrendFalling
		}

		covers = append(covers, CoverProjection{
			Cover:            s.Cover,
			Historical:       s.Points,
			PredictedArea:    projArea,
			PredictedCarbon:  projCarbon,
			AnnualChangeRate: areaSlope,
			Direction:        direction,
		})
	}

	known := make([]int, 0, len(yearSet))
	for y := range yearSet {
		known = append(known, y)
	}
	sort.Ints(known)

	return Result{
		TargetYear: targetYear,
		KnownYears: known,
		Covers:     covers,
		Caveat:     caveat(known),
	}
}

// fitLine computes closed-form OLS slope and intercept of value over year.
// ok is false when the denominator n·Σx²−(Σx)² is zero.
func fitLine(points []Point, value func(Point) float64) (slope, intercept float64, ok bool) {
	n := float64(len(points))
	var sumX, sumY, sumXY, sumXX float64
	for _, p := range points {
		x := float64(p.Year)
		y := value(p)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, 0, false
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept, true
}

func clampZero(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func caveat(knownYears []int) string {
	ys := make([]string, len(knownYears))
	for i, y := range knownYears {
		ys[i] = fmt.Sprintf("%d", y)
	}
	return fmt.Sprintf(
		"Projection par extrapolation linéaire des observations %s. "+
			"Elle ne tient pas compte des politiques de conservation, du climat ni des autres facteurs externes.",
		strings.Join(ys, ", "))
}
