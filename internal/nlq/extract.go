package nlq

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// extractEntities fills every entity category of the parse from the
// lowercase and accent-folded forms of the text (a hit in either form
// counts). Returns the number of distinct categories that matched, the
// raw material of the confidence score.
func (p *Parser) extractEntities(parsed *ParsedQuery, lower, folded string) int {
	matched := 0

	if p.extractLocations(parsed, lower, folded) {
		matched++
	}
	if p.extractCoverTypes(parsed, lower, folded) {
		matched++
	}
	if p.extractYears(parsed, lower) {
		matched++
	}
	if p.extractTemporal(parsed, lower, folded) {
		matched++
	}
	p.extractTargetYear(parsed, lower)
	if p.extractPercentage(parsed, lower, folded) {
		matched++
	}
	if p.extractQualifiers(parsed, lower, folded) {
		matched++
	}
	if p.extractThreshold(parsed, lower, folded) {
		matched++
	}

	return matched
}

// extractLocations runs the word-boundary patterns first, then falls back
// to alias substrings, per-token fuzzy correction, and conjunction-pair
// scanning for multi-location phrasings like "tenee et doca".
func (p *Parser) extractLocations(parsed *ParsedQuery, lower, folded string) bool {
	for _, pc := range p.lex.forestPatterns {
		if pc.re.MatchString(lower) || pc.re.MatchString(folded) {
			appendUnique(&parsed.Locations, pc.code)
		}
	}
	for _, pc := range p.lex.forestCatchAll {
		if !pc.re.MatchString(lower) && !pc.re.MatchString(folded) {
			continue
		}
		// Bare "zoueke" yields when a block was already disambiguated.
		if containsString(parsed.Locations, ForestZoueke1) || containsString(parsed.Locations, ForestZoueke2) {
			continue
		}
		appendUnique(&parsed.Locations, pc.code)
	}
	if len(parsed.Locations) > 0 {
		return true
	}

	// Fallback (a): known multi-word aliases as substrings.
	for alias, code := range p.lex.forestAliases {
		if strings.Contains(folded, alias) {
			appendUnique(&parsed.Locations, code)
		}
	}
	if len(parsed.Locations) > 0 {
		sortForestCodes(parsed.Locations)
		return true
	}

	// Fallback (b): per-token fuzzy correction.
	for _, tok := range Tokenize(folded) {
		if utf8.RuneCountInString(tok) < 4 || p.lex.stopWords[tok] || isNumeric(tok) {
			continue
		}
		if code, ok := p.fuzzy.Match(tok); ok {
			appendUnique(&parsed.Locations, code)
		}
	}

	// Fallback (c): adjacent-token pairs around "et" / commas, catching
	// short names the length gate above skipped.
	for _, m := range p.lex.conjunctionRe.FindAllStringSubmatch(folded, -1) {
		for _, tok := range m[1:] {
			if p.lex.stopWords[tok] || isNumeric(tok) {
				continue
			}
			if code, ok := p.fuzzy.Match(tok); ok {
				appendUnique(&parsed.Locations, code)
			}
		}
	}

	return len(parsed.Locations) > 0
}

func (p *Parser) extractCoverTypes(parsed *ParsedQuery, lower, folded string) bool {
	for _, pc := range p.lex.coverPatterns {
		if pc.re.MatchString(lower) || pc.re.MatchString(folded) {
			appendUnique(&parsed.CoverTypes, pc.code)
		}
	}
	return len(parsed.CoverTypes) > 0
}

func (p *Parser) extractYears(parsed *ParsedQuery, lower string) bool {
	hits := p.lex.yearRe.FindAllString(lower, -1)
	for _, h := range hits {
		y, _ := strconv.Atoi(h)
		insertYear(parsed, y)
	}
	return len(hits) > 0
}

// extractTemporal detects before/after/between expressions independently.
// Open bounds (before/after) expand the year set with the whitelist years
// satisfying them. A between range does not: its two endpoints are literal
// year mentions already captured by extractYears, and interior whitelist
// years stay out so a range compares its endpoints only. The temporal
// metadata keeps only the last expression detected.
func (p *Parser) extractTemporal(parsed *ParsedQuery, lower, folded string) bool {
	found := false

	if m := firstSubmatch(p.lex.beforeRe, lower, folded); m != nil {
		bound, _ := strconv.Atoi(m[1])
		for _, y := range p.lex.yearWhitelist {
			if y < bound {
				insertYear(parsed, y)
			}
		}
		parsed.Temporal = &Temporal{Kind: TemporalBefore, To: bound}
		found = true
	}
	if m := firstSubmatch(p.lex.afterRe, lower, folded); m != nil {
		bound, _ := strconv.Atoi(m[1])
		for _, y := range p.lex.yearWhitelist {
			if y > bound {
				insertYear(parsed, y)
			}
		}
		parsed.Temporal = &Temporal{Kind: TemporalAfter, From: bound}
		found = true
	}
	if m := firstSubmatch(p.lex.betweenRe, lower, folded); m != nil {
		from, _ := strconv.Atoi(m[1])
		to, _ := strconv.Atoi(m[2])
		parsed.Temporal = &Temporal{Kind: TemporalBetween, From: from, To: to}
		found = true
	}

	return found
}

// extractTargetYear picks up projection horizons between 2030 and 2100.
func (p *Parser) extractTargetYear(parsed *ParsedQuery, lower string) {
	if m := p.lex.targetYearRe.FindString(lower); m != "" {
		parsed.TargetYear, _ = strconv.Atoi(m)
	}
}

func (p *Parser) extractPercentage(parsed *ParsedQuery, lower, folded string) bool {
	if p.lex.percentRe.MatchString(lower) || p.lex.percentRe.MatchString(folded) {
		parsed.PercentageMode = true
		return true
	}
	return false
}

// extractQualifiers maps superlatives to a sort order; "largest" phrasings
// are checked before "smallest", first match wins.
func (p *Parser) extractQualifiers(parsed *ParsedQuery, lower, folded string) bool {
	if p.lex.largestRe.MatchString(lower) || p.lex.largestRe.MatchString(folded) {
		parsed.SortOrder = SortDesc
		return true
	}
	if p.lex.smallestRe.MatchString(lower) || p.lex.smallestRe.MatchString(folded) {
		parsed.SortOrder = SortAsc
		return true
	}
	return false
}

// extractThreshold tries the generic comparator pattern first, then the
// hectare-specific phrasings only when the first pass found nothing.
// Comma decimal separators are normalized to dots.
func (p *Parser) extractThreshold(parsed *ParsedQuery, lower, folded string) bool {
	m := firstSubmatch(p.lex.thresholdRe, lower, folded)
	if m == nil {
		m = firstSubmatch(p.lex.hectareRe, lower, folded)
	}
	if m == nil {
		return false
	}

	val, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil {
		return false
	}

	op := OpGTE
	if p.lex.inferiorRe.MatchString(lower) || p.lex.inferiorRe.MatchString(folded) {
		op = OpLTE
	}
	parsed.Threshold = &Threshold{Value: val, Op: op}
	return true
}

// insertYear adds a whitelist year keeping the set sorted and unique.
func insertYear(parsed *ParsedQuery, year int) {
	for i, y := range parsed.Years {
		if y == year {
			return
		}
		if y > year {
			parsed.Years = append(parsed.Years[:i], append([]int{year}, parsed.Years[i:]...)...)
			return
		}
	}
	parsed.Years = append(parsed.Years, year)
}

func firstSubmatch(re interface {
	FindStringSubmatch(string) []string
}, lower, folded string) []string {
	if m := re.FindStringSubmatch(lower); m != nil {
		return m
	}
	return re.FindStringSubmatch(folded)
}

func appendUnique(dst *[]string, code string) {
	for _, c := range *dst {
		if c == code {
			return
		}
	}
	*dst = append(*dst, code)
}

func containsString(s []string, v string) bool {
	for _, c := range s {
		if c == v {
			return true
		}
	}
	return false
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// sortForestCodes keeps alias-derived location lists deterministic: map
// iteration order is random, so order by canonical registry position.
func sortForestCodes(codes []string) {
	rank := map[string]int{
		ForestTene: 0, ForestDoka: 1, ForestSangoue: 2,
		ForestLahouda: 3, ForestZoueke1: 4, ForestZoueke2: 5,
	}
	for i := 1; i < len(codes); i++ {
		for j := i; j > 0 && rank[codes[j]] < rank[codes[j-1]]; j-- {
			codes[j], codes[j-1] = codes[j-1], codes[j]
		}
	}
}
