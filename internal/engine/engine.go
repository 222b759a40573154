// Package engine orchestrates the query pipeline: validation, parsing,
// session context, plan building, execution against the landcover store,
// and suggestion fallback. It is the single entry point shared by the
// HTTP server and the ask command.
package engine

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/apigeo/carbone-cli/internal/landcover"
	"github.com/apigeo/carbone-cli/internal/nlq"
	"github.com/apigeo/carbone-cli/internal/plan"
	"github.com/apigeo/carbone-cli/internal/predict"
	"github.com/apigeo/carbone-cli/internal/session"
)

// Validation errors surfaced as client faults by the HTTP layer.
var (
	ErrEmptyQuery   = eris.New("engine: empty query")
	ErrQueryTooLong = eris.New("engine: query too long")
)

// Defaults applied when Options leaves a field zero.
const (
	DefaultMaxQueryLen  = 500
	DefaultFeatureLimit = 200
)

// Options tunes the engine.
type Options struct {
	// MaxQueryLen rejects pathological inputs before parsing.
	MaxQueryLen int
	// FeatureLimit caps the rows of a show response; the total match
	// count is still reported.
	FeatureLimit int
}

// Engine wires the parser, plan builder, store and session store into one
// request pipeline.
type Engine struct {
	parser   *nlq.Parser
	builder  *plan.Builder
	store    landcover.Store
	sessions session.Store
	opts     Options
}

// New assembles an engine. sessions may be nil, in which case no context
// is inherited between turns.
func New(store landcover.Store, sessions session.Store, opts Options) *Engine {
	if opts.MaxQueryLen <= 0 {
		opts.MaxQueryLen = DefaultMaxQueryLen
	}
	if opts.FeatureLimit <= 0 {
		opts.FeatureLimit = DefaultFeatureLimit
	}
	lex := nlq.NewLexicon()
	return &Engine{
		parser:   nlq.NewParser(lex),
		builder:  plan.NewBuilder(lex),
		store:    store,
		sessions: sessions,
		opts:     opts,
	}
}

// Response is the uniform answer envelope. Data's concrete type depends
// on Type: HelpPayload, []landcover.Feature, []landcover.AggregateRow,
// Comparison, Deforestation, []landcover.ForestRow, AreaResult,
// ExportBundle, predict.Result, or nil for no_results.
type Response struct {
	Type         string           `json:"type"`
	Parsed       *nlq.ParsedQuery `json:"parsed"`
	Count        int              `json:"count,omitempty"`
	Data         any              `json:"data"`
	Suggestions  []string         `json:"suggestions,omitempty"`
	ProcessingMs int64            `json:"processing_ms"`
}

// HelpPayload is the canned capabilities answer for greetings and help
// requests.
type HelpPayload struct {
	Message      string   `json:"message"`
	Examples     []string `json:"examples"`
	Capabilities []string `json:"capabilities"`
}

// CoverDelta is the per-cover change between the two years of a
// comparison.
type CoverDelta struct {
	CoverCode string  `json:"cover_code"`
	LabelFR   string  `json:"label_fr"`
	AreaFirst float64 `json:"area_first_ha"`
	AreaLast  float64 `json:"area_last_ha"`
	DeltaHa   float64 `json:"delta_ha"`
	// DeltaPct is 0 when the first-year area is 0.
	DeltaPct float64 `json:"delta_pct"`
}

// Comparison is the answer to a compare plan.
type Comparison struct {
	FirstYear int                      `json:"first_year"`
	LastYear  int                      `json:"last_year"`
	First     []landcover.AggregateRow `json:"first"`
	Last      []landcover.AggregateRow `json:"last"`
	Deltas    []CoverDelta             `json:"deltas"`
}

// Deforestation is the forest-cover loss between two years.
type Deforestation struct {
	FirstYear       int     `json:"first_year"`
	LastYear        int     `json:"last_year"`
	ForestAreaFirst float64 `json:"forest_area_first_ha"`
	ForestAreaLast  float64 `json:"forest_area_last_ha"`
	LossHa          float64 `json:"loss_ha"`
	// LossPercent is 0 when the first-year forest area is 0.
	LossPercent  float64 `json:"loss_percent"`
	AnnualLossHa float64 `json:"annual_loss_ha"`
	CarbonLossT  float64 `json:"carbon_loss_t"`
}

// AreaResult is the answer to an area calculation.
type AreaResult struct {
	TotalAreaHa float64 `json:"total_area_ha"`
	// LegalAreaHa is the gazetted surface of the forests in scope.
	LegalAreaHa    float64 `json:"legal_area_ha"`
	PercentOfLegal float64 `json:"percent_of_legal"`
	Years          []int   `json:"years"`
}

// ExportBundle groups the datasets an export plan assembles.
type ExportBundle struct {
	Stats []landcover.AggregateRow `json:"stats"`
	Area  AreaResult               `json:"area"`
}

// Process runs one user turn end to end. sessionID may be empty; context
// inheritance is skipped then.
func (e *Engine) Process(ctx context.Context, sessionID, text string) (*Response, error) {
	start := time.Now()

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyQuery
	}
	if len([]rune(text)) > e.opts.MaxQueryLen {
		return nil, ErrQueryTooLong
	}

	parsed := e.parser.Parse(text)

	// Help turns neither inherit nor overwrite context.
	if e.sessions != nil && sessionID != "" && parsed.Intent != nlq.IntentHelp {
		prev, err := e.sessions.Get(ctx, sessionID)
		if err != nil {
			zap.L().Warn("engine: session read failed", zap.Error(err))
			prev = nlq.SessionContext{}
		}
		next := nlq.MergeContext(parsed, prev)
		if err := e.sessions.Put(ctx, sessionID, next); err != nil {
			zap.L().Warn("engine: session write failed", zap.Error(err))
		}
	}

	resp, planDesc, err := e.dispatch(ctx, parsed)
	if err != nil {
		return nil, err
	}
	resp.Parsed = parsed
	resp.ProcessingMs = time.Since(start).Milliseconds()

	e.logQuery(ctx, text, parsed, planDesc, resp)
	return resp, nil
}

func (e *Engine) dispatch(ctx context.Context, parsed *nlq.ParsedQuery) (*Response, string, error) {
	if parsed.Intent == nlq.IntentHelp {
		return &Response{Type: "help", Data: helpPayload()}, "help", nil
	}

	pl, err := e.builder.Build(parsed)
	if err != nil {
		var missing *plan.MissingEntityError
		if eris.As(err, &missing) {
			return e.noResults(parsed), "no_results", nil
		}
		return nil, "", err
	}

	resp, err := e.execute(ctx, parsed, pl)
	if err != nil {
		// Store failures never fail the request; the user gets an empty
		// answer with suggestions instead.
		zap.L().Warn("engine: plan execution failed", zap.Error(err))
		return e.noResults(parsed), "no_results", nil
	}
	return resp, pl.Describe(), nil
}

func (e *Engine) execute(ctx context.Context, parsed *nlq.ParsedQuery, pl *plan.Plan) (*Response, error) {
	switch pl.Kind {
	case plan.KindShow:
		features, total, err := e.store.Features(ctx, pl.Filter, e.opts.FeatureLimit)
		if err != nil {
			return nil, err
		}
		if total == 0 {
			return e.noResults(parsed), nil
		}
		return &Response{Type: "features", Count: total, Data: features}, nil

	case plan.KindStats:
		rows, err := e.store.AggregateByCover(ctx, pl.Filter)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return e.noResults(parsed), nil
		}
		if pl.Percentage {
			fillPercentages(rows)
		}
		return &Response{Type: "stats", Count: len(rows), Data: rows}, nil

	case plan.KindCompare:
		cmp, err := e.compare(ctx, pl)
		if err != nil {
			return nil, err
		}
		return &Response{Type: "comparison", Count: len(cmp.Deltas), Data: cmp}, nil

	case plan.KindDeforestation:
		def, err := e.deforestation(ctx, pl)
		if err != nil {
			return nil, err
		}
		return &Response{Type: "deforestation", Count: 1, Data: def}, nil

	case plan.KindRanking:
		rows, err := e.store.AggregateByForest(ctx, pl.Filter.WithYear(pl.RankingYear), pl.SortAscending)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return e.noResults(parsed), nil
		}
		return &Response{Type: "ranking", Count: len(rows), Data: rows}, nil

	case plan.KindAreaCalc:
		area, err := e.areaCalc(ctx, pl)
		if err != nil {
			return nil, err
		}
		return &Response{Type: "area", Count: 1, Data: area}, nil

	case plan.KindExport:
		bundle, err := e.exportBundle(ctx, pl)
		if err != nil {
			return nil, err
		}
		return &Response{Type: "export", Count: len(bundle.Stats), Data: bundle}, nil

	case plan.KindPrediction:
		series, err := e.store.SeriesByCover(ctx, pl.Filter)
		if err != nil {
			return nil, err
		}
		if len(series) == 0 {
			return e.noResults(parsed), nil
		}
		result := predict.Project(series, pl.TargetYear)
		return &Response{Type: "prediction", Count: len(result.Covers), Data: result}, nil
	}

	return e.noResults(parsed), nil
}

// compare fetches the two year snapshots in parallel and joins them by
// cover code.
func (e *Engine) compare(ctx context.Context, pl *plan.Plan) (*Comparison, error) {
	var first, last []landcover.AggregateRow
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		first, err = e.store.AggregateByCover(gctx, pl.Filter.WithYear(pl.FirstYear))
		return err
	})
	g.Go(func() error {
		var err error
		last, err = e.store.AggregateByCover(gctx, pl.Filter.WithYear(pl.LastYear))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byCode := make(map[string]landcover.AggregateRow, len(last))
	for _, r := range last {
		byCode[r.CoverCode] = r
	}
	seen := make(map[string]bool, len(first))

	var deltas []CoverDelta
	for _, f := range first {
		seen[f.CoverCode] = true
		l := byCode[f.CoverCode]
		deltas = append(deltas, coverDelta(f.CoverCode, f.LabelFR, f.AreaHa, l.AreaHa))
	}
	for _, l := range last {
		if !seen[l.CoverCode] {
			deltas = append(deltas, coverDelta(l.CoverCode, l.LabelFR, 0, l.AreaHa))
		}
	}

	return &Comparison{
		FirstYear: pl.FirstYear,
		LastYear:  pl.LastYear,
		First:     first,
		Last:      last,
		Deltas:    deltas,
	}, nil
}

func coverDelta(code, label string, areaFirst, areaLast float64) CoverDelta {
	d := CoverDelta{
		CoverCode: code,
		LabelFR:   label,
		AreaFirst: areaFirst,
		AreaLast:  areaLast,
		DeltaHa:   areaLast - areaFirst,
	}
	if areaFirst != 0 {
		d.DeltaPct = d.DeltaHa / areaFirst * 100
	}
	return d
}

// deforestation sums forest-cover area and carbon at both endpoints in
// parallel and derives the loss figures.
func (e *Engine) deforestation(ctx context.Context, pl *plan.Plan) (*Deforestation, error) {
	var first, last []landcover.AggregateRow
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		first, err = e.store.AggregateByCover(gctx, pl.Filter.WithYear(pl.FirstYear))
		return err
	})
	g.Go(func() error {
		var err error
		last, err = e.store.AggregateByCover(gctx, pl.Filter.WithYear(pl.LastYear))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	areaFirst, carbonFirst := sumRows(first)
	areaLast, carbonLast := sumRows(last)

	def := &Deforestation{
		FirstYear:       pl.FirstYear,
		LastYear:        pl.LastYear,
		ForestAreaFirst: areaFirst,
		ForestAreaLast:  areaLast,
		LossHa:          areaFirst - areaLast,
		CarbonLossT:     carbonFirst - carbonLast,
	}
	if areaFirst != 0 {
		def.LossPercent = def.LossHa / areaFirst * 100
	}
	if span := pl.LastYear - pl.FirstYear; span > 0 {
		def.AnnualLossHa = def.LossHa / float64(span)
	}
	return def, nil
}

func (e *Engine) areaCalc(ctx context.Context, pl *plan.Plan) (AreaResult, error) {
	total, err := e.store.TotalArea(ctx, pl.Filter)
	if err != nil {
		return AreaResult{}, err
	}
	legal := legalArea(pl.Filter.Locations)
	res := AreaResult{
		TotalAreaHa: total,
		LegalAreaHa: legal,
		Years:       pl.Filter.Years,
	}
	if legal != 0 {
		res.PercentOfLegal = total / legal * 100
	}
	return res, nil
}

func (e *Engine) exportBundle(ctx context.Context, pl *plan.Plan) (*ExportBundle, error) {
	bundle := &ExportBundle{}
	for _, sub := range pl.Bundle {
		switch sub.Kind {
		case plan.KindStats:
			rows, err := e.store.AggregateByCover(ctx, sub.Filter)
			if err != nil {
				return nil, err
			}
			if sub.Percentage {
				fillPercentages(rows)
			}
			bundle.Stats = rows
		case plan.KindAreaCalc:
			area, err := e.areaCalc(ctx, sub)
			if err != nil {
				return nil, err
			}
			bundle.Area = area
		}
	}
	return bundle, nil
}

func (e *Engine) noResults(parsed *nlq.ParsedQuery) *Response {
	return &Response{
		Type:        "no_results",
		Suggestions: nlq.Suggest(parsed),
	}
}

// logQuery records the turn for audit. Failures are swallowed: logging
// must never block an answer.
func (e *Engine) logQuery(ctx context.Context, text string, parsed *nlq.ParsedQuery, planDesc string, resp *Response) {
	raw, err := json.Marshal(parsed)
	if err != nil {
		raw = nil
	}
	entry := landcover.QueryLogEntry{
		ID:          uuid.NewString(),
		RawText:     text,
		Parsed:      raw,
		PlanDesc:    planDesc,
		ResultCount: resp.Count,
		ElapsedMs:   resp.ProcessingMs,
		CreatedAt:   time.Now().UTC(),
	}
	if err := e.store.LogQuery(ctx, entry); err != nil {
		zap.L().Warn("engine: query log failed", zap.Error(err))
	}
}

// fillPercentages computes each row's share of the summed area in place.
func fillPercentages(rows []landcover.AggregateRow) {
	var total float64
	for _, r := range rows {
		total += r.AreaHa
	}
	if total == 0 {
		return
	}
	for i := range rows {
		rows[i].PercentArea = rows[i].AreaHa / total * 100
	}
}

// legalArea sums the gazetted surface of the named forests, or of the
// whole registry when no forest is named.
func legalArea(locations []string) float64 {
	if len(locations) == 0 {
		return landcover.TotalLegalAreaHa
	}
	var sum float64
	for _, code := range locations {
		for _, f := range landcover.Forests {
			if f.Code == code {
				sum += f.LegalAreaHa
			}
		}
	}
	return sum
}

func sumRows(rows []landcover.AggregateRow) (area, carbon float64) {
	for _, r := range rows {
		area += r.AreaHa
		carbon += r.CarbonT
	}
	return area, carbon
}

func helpPayload() HelpPayload {
	return HelpPayload{
		Message: "Je suis l'assistant de la plateforme API.GEO.Carbone. " +
			"Je peux analyser les données forestières du département d'Oumé.",
		Examples: []string{
			"Montre les zones de forêt dense à DOKA en 2003",
			"Quelle est la superficie de forêt claire à SANGOUE ?",
			"Compare TENE entre 1986 et 2023",
			"Déforestation à LAHOUDA",
			"Statistiques de carbone pour 2023",
			"Classement des forêts par superficie",
		},
		Capabilities: []string{
			"Afficher des couches sur la carte",
			"Calculer des statistiques de superficie et carbone",
			"Comparer l'évolution entre deux années",
			"Analyser la déforestation",
			"Classer les forêts par taille ou carbone",
		},
	}
}
