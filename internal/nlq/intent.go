package nlq

// classifyIntent walks the priority-ordered pattern groups and stops at
// the first group with a hit: prediction > export > area_calc > compare >
// deforestation > stats > carbon > ranking, defaulting to "show".
// Greetings never reach this point (the parser short-circuits them).
// Returns whether an intent-bearing pattern matched, which feeds the
// confidence score.
func (p *Parser) classifyIntent(parsed *ParsedQuery, lower, folded string) bool {
	for _, group := range p.lex.intentGroups {
		for _, re := range group.patterns {
			if re.MatchString(lower) || re.MatchString(folded) {
				parsed.Intent = group.intent
				p.applyIntentDefaults(parsed)
				return true
			}
		}
	}
	parsed.Intent = IntentShow
	return false
}

// applyIntentDefaults fills entity defaults some intents rely on.
func (p *Parser) applyIntentDefaults(parsed *ParsedQuery) {
	switch parsed.Intent {
	case IntentDeforestation:
		// Without explicit years the delta runs over the full observed
		// span so the loss computation always has two endpoints.
		if len(parsed.Years) == 0 {
			parsed.Years = []int{p.lex.EarliestYear(), p.lex.LatestYear()}
		}
	case IntentPrediction:
		if parsed.TargetYear == 0 {
			parsed.TargetYear = DefaultTargetYear
		}
	}
}

// DefaultTargetYear is the projection horizon assumed when a prediction
// query names none.
const DefaultTargetYear = 2030
