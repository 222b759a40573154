package nlq

import "strings"

// Intent is the single classified purpose of a query.
type Intent string

const (
	IntentHelp          Intent = "help"
	IntentCompare       Intent = "compare"
	IntentDeforestation Intent = "deforestation"
	IntentStats         Intent = "stats"
	IntentCarbon        Intent = "carbon"
	IntentRanking       Intent = "ranking"
	IntentPrediction    Intent = "prediction"
	IntentExport        Intent = "export"
	IntentAreaCalc      Intent = "area_calc"
	IntentShow          Intent = "show"
)

// ThresholdOp is the comparison direction of a numeric threshold.
type ThresholdOp string

const (
	OpGTE ThresholdOp = "gte"
	OpLTE ThresholdOp = "lte"
)

// Threshold is a numeric filter extracted from phrases like
// "supérieure à 100" or "au moins 50 ha".
type Threshold struct {
	Value float64     `json:"value"`
	Op    ThresholdOp `json:"op"`
}

// TemporalKind tags a temporal expression.
type TemporalKind string

const (
	TemporalBefore  TemporalKind = "before"
	TemporalAfter   TemporalKind = "after"
	TemporalBetween TemporalKind = "between"
)

// Temporal records the last temporal expression detected in the text.
// When several expressions match, each still expands the year set; only
// the last-detected one is kept here.
type Temporal struct {
	Kind TemporalKind `json:"kind"`
	From int          `json:"from,omitempty"`
	To   int          `json:"to,omitempty"`
}

// SortOrder is an explicit ranking direction requested by the user.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SessionContext carries the entities of the most recent non-help turn so
// elliptical follow-ups ("et en 2003 ?") keep their subject. It is an
// explicit value passed in and out of the pipeline; persistence is the
// caller's concern.
type SessionContext struct {
	Locations  []string `json:"locations,omitempty"`
	CoverTypes []string `json:"cover_types,omitempty"`
	Years      []int    `json:"years,omitempty"`
}

// ParsedQuery is the full structured reading of one user turn.
type ParsedQuery struct {
	RawText        string     `json:"raw_text"`
	Locations      []string   `json:"locations"`
	CoverTypes     []string   `json:"cover_types"`
	Years          []int      `json:"years"`
	Intent         Intent     `json:"intent"`
	Threshold      *Threshold `json:"threshold,omitempty"`
	Temporal       *Temporal  `json:"temporal,omitempty"`
	TargetYear     int        `json:"target_year,omitempty"`
	SortOrder      SortOrder  `json:"sort_order,omitempty"`
	PercentageMode bool       `json:"percentage_mode"`
	Confidence     float64    `json:"confidence"`
	Inherited      []string   `json:"inherited,omitempty"`
}

// HasLocation reports whether the parse carries any location.
func (p *ParsedQuery) HasLocation() bool { return len(p.Locations) > 0 }

// InheritedField reports whether the named field was filled from session
// context rather than from this turn's text.
func (p *ParsedQuery) InheritedField(name string) bool {
	for _, f := range p.Inherited {
		if f == name {
			return true
		}
	}
	return false
}

// Parser runs the full NLU pipeline over one input string. It holds no
// per-request state: feeding the same text twice yields identical parses.
type Parser struct {
	lex   *Lexicon
	fuzzy *FuzzyMatcher
}

// NewParser builds a Parser over a compiled lexicon.
func NewParser(lex *Lexicon) *Parser {
	return &Parser{lex: lex, fuzzy: NewFuzzyMatcher(lex)}
}

// Lexicon exposes the parser's pattern tables to collaborators that need
// whitelist years or canonical codes.
func (p *Parser) Lexicon() *Lexicon { return p.lex }

// Parse extracts entities, resolves the intent, and scores confidence.
func (p *Parser) Parse(text string) *ParsedQuery {
	lower := strings.ToLower(strings.TrimSpace(text))
	folded := Fold(text)

	parsed := &ParsedQuery{
		RawText:    text,
		Locations:  []string{},
		CoverTypes: []string{},
		Years:      []int{},
		Intent:     IntentShow,
	}

	// Greetings pre-empt the whole pipeline.
	for _, re := range p.lex.greetingPatterns {
		if re.MatchString(lower) || re.MatchString(folded) {
			parsed.Intent = IntentHelp
			parsed.Confidence = 1.0
			return parsed
		}
	}

	matched := p.extractEntities(parsed, lower, folded)
	if p.classifyIntent(parsed, lower, folded) {
		matched++
	}
	parsed.Confidence = scoreConfidence(matched, parsed.Intent)

	return parsed
}
