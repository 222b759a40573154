package plan

import (
	"github.com/apigeo/carbone-cli/internal/nlq"
)

// MissingEntityError reports that an intent requires entities the parse
// lacks. It is a guided empty result, not a hard failure: the hint feeds
// the suggestion generator.
type MissingEntityError struct {
	Intent nlq.Intent
	Hint   string
}

func (e *MissingEntityError) Error() string {
	return "plan: missing entities for " + string(e.Intent) + ": " + e.Hint
}

// Builder translates completed parses into query plans. It needs the
// lexicon only for whitelist year defaults.
type Builder struct {
	lex *nlq.Lexicon
}

// NewBuilder creates a plan builder.
func NewBuilder(lex *nlq.Lexicon) *Builder {
	return &Builder{lex: lex}
}

// Build maps (intent, entities) to a plan. Help never reaches here.
func (b *Builder) Build(parsed *nlq.ParsedQuery) (*Plan, error) {
	base := baseFilter(parsed)

	switch parsed.Intent {
	case nlq.IntentShow:
		return &Plan{Kind: KindShow, Filter: base}, nil

	case nlq.IntentStats, nlq.IntentCarbon:
		// Carbon queries threshold on the carbon stock instead of area.
		if parsed.Intent == nlq.IntentCarbon && base.Threshold != nil {
			base.Threshold.Field = FieldCarbon
		}
		return &Plan{Kind: KindStats, Filter: base, Percentage: parsed.PercentageMode}, nil

	case nlq.IntentCompare:
		if len(parsed.Years) < 2 {
			return nil, &MissingEntityError{Intent: parsed.Intent, Hint: "two years required"}
		}
		return &Plan{
			Kind:      KindCompare,
			Filter:    base,
			FirstYear: parsed.Years[0],
			LastYear:  parsed.Years[len(parsed.Years)-1],
		}, nil

	case nlq.IntentDeforestation:
		if len(parsed.Years) < 2 {
			return nil, &MissingEntityError{Intent: parsed.Intent, Hint: "two years required"}
		}
		// Deforestation deltas only consider forest cover.
		return &Plan{
			Kind:      KindDeforestation,
			Filter:    base.WithCoverTypes(nlq.ForestCoverCodes),
			FirstYear: parsed.Years[0],
			LastYear:  parsed.Years[len(parsed.Years)-1],
		}, nil

	case nlq.IntentRanking:
		year := b.lex.LatestYear()
		if len(parsed.Years) > 0 {
			year = parsed.Years[len(parsed.Years)-1]
		}
		f := base
		if len(f.CoverTypes) == 0 {
			f = f.WithCoverTypes(nlq.ForestCoverCodes)
		}
		return &Plan{
			Kind:          KindRanking,
			Filter:        f,
			RankingYear:   year,
			SortAscending: parsed.SortOrder == nlq.SortAsc,
		}, nil

	case nlq.IntentAreaCalc:
		f := base
		if len(f.Years) == 0 {
			f.Years = []int{b.lex.LatestYear()}
		}
		return &Plan{Kind: KindAreaCalc, Filter: f, Percentage: true}, nil

	case nlq.IntentExport:
		stats := &Plan{Kind: KindStats, Filter: base, Percentage: parsed.PercentageMode}
		area := &Plan{Kind: KindAreaCalc, Filter: base, Percentage: true}
		if len(area.Filter.Years) == 0 {
			area.Filter.Years = []int{b.lex.LatestYear()}
		}
		return &Plan{Kind: KindExport, Filter: base, Bundle: []*Plan{stats, area}}, nil

	case nlq.IntentPrediction:
		target := parsed.TargetYear
		if target == 0 {
			target = nlq.DefaultTargetYear
		}
		f := base
		if len(f.CoverTypes) == 0 {
			f = f.WithCoverTypes(nlq.ForestCoverCodes)
		}
		// Projections regress over every observed year; explicit year
		// filters would starve the fit.
		f.Years = nil
		return &Plan{Kind: KindPrediction, Filter: f, TargetYear: target}, nil
	}

	return &Plan{Kind: KindShow, Filter: base}, nil
}

func baseFilter(parsed *nlq.ParsedQuery) Filter {
	f := Filter{
		Locations:  append([]string(nil), parsed.Locations...),
		CoverTypes: append([]string(nil), parsed.CoverTypes...),
		Years:      append([]int(nil), parsed.Years...),
	}
	if parsed.Threshold != nil {
		f.Threshold = &Threshold{
			Field: FieldArea,
			Op:    string(parsed.Threshold.Op),
			Value: parsed.Threshold.Value,
		}
	}
	return f
}
