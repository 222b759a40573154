package nlq

import "regexp"

// patternCode couples a compiled pattern with the canonical code it yields.
// Slices keep matching deterministic: first-seen order is the order below.
type patternCode struct {
	re   *regexp.Regexp
	code string
}

// intentGroup is one priority rung of the intent ladder.
type intentGroup struct {
	intent   Intent
	patterns []*regexp.Regexp
}

// Lexicon holds every static table the pipeline matches against. It is
// built once at process start and never mutated afterwards; components
// receive it explicitly rather than reaching for package globals.
type Lexicon struct {
	forestPatterns []patternCode
	// forestCatchAll patterns run after forestPatterns and yield when a
	// more specific pattern already resolved the same place (bare
	// "zoueke" versus "zoueke bloc 2").
	forestCatchAll []patternCode
	coverPatterns  []patternCode

	// forestAliases maps folded multi-word aliases to canonical codes,
	// used as a substring fallback when no word-boundary pattern hits.
	forestAliases map[string]string

	// canonicalForests are the folded canonical names fuzzy matching
	// resolves against.
	canonicalForests []patternCode2

	yearWhitelist []int
	yearRe        *regexp.Regexp
	targetYearRe  *regexp.Regexp

	intentGroups     []intentGroup
	greetingPatterns []*regexp.Regexp

	stopWords map[string]bool

	percentRe     *regexp.Regexp
	largestRe     *regexp.Regexp
	smallestRe    *regexp.Regexp
	thresholdRe   *regexp.Regexp
	hectareRe     *regexp.Regexp
	inferiorRe    *regexp.Regexp
	beforeRe      *regexp.Regexp
	afterRe       *regexp.Regexp
	betweenRe     *regexp.Regexp
	conjunctionRe *regexp.Regexp
}

// patternCode2 maps a plain (already folded) name to a code.
type patternCode2 struct {
	name string
	code string
}

// Canonical forest codes for the Oumé classified forests.
const (
	ForestTene    = "TENE"
	ForestDoka    = "DOKA"
	ForestSangoue = "SANGOUE"
	ForestLahouda = "LAHOUDA"
	ForestZoueke1 = "ZOUEKE_1"
	ForestZoueke2 = "ZOUEKE_2"
)

// Canonical land-cover codes.
const (
	CoverForetDense      = "FORET_DENSE"
	CoverForetClaire     = "FORET_CLAIRE"
	CoverForetDegradee   = "FORET_DEGRADEE"
	CoverJachere         = "JACHERE"
	CoverCacao           = "CACAO"
	CoverCafe            = "CAFE"
	CoverHevea           = "HEVEA"
	CoverCultureHerbacee = "CULTURE_HERBACEE"
	CoverSolNu           = "SOL_NU"
)

// ForestCoverCodes lists the cover codes that count as forest when
// computing deforestation deltas and default rankings.
var ForestCoverCodes = []string{CoverForetDense, CoverForetClaire, CoverForetDegradee}

// YearWhitelist returns the known observation years, ascending.
func (l *Lexicon) YearWhitelist() []int {
	out := make([]int, len(l.yearWhitelist))
	copy(out, l.yearWhitelist)
	return out
}

// EarliestYear returns the first whitelist year.
func (l *Lexicon) EarliestYear() int { return l.yearWhitelist[0] }

// LatestYear returns the last whitelist year.
func (l *Lexicon) LatestYear() int { return l.yearWhitelist[len(l.yearWhitelist)-1] }

// NewLexicon compiles the full pattern catalogue.
func NewLexicon() *Lexicon {
	lex := &Lexicon{
		forestPatterns: []patternCode{
			{regexp.MustCompile(`\btene\b`), ForestTene},
			{regexp.MustCompile(`\bten[eé]\b`), ForestTene},
			{regexp.MustCompile(`\bdoka\b`), ForestDoka},
			{regexp.MustCompile(`\bsangou[eé]\b`), ForestSangoue},
			{regexp.MustCompile(`\blahouda\b`), ForestLahouda},
			{regexp.MustCompile(`\bzou[eè]k[eé]\s*(?:bloc\s*)?(?:1|i)\b`), ForestZoueke1},
			{regexp.MustCompile(`\bzou[eè]k[eé]\s*(?:bloc\s*)?(?:2|ii)\b`), ForestZoueke2},
		},
		forestCatchAll: []patternCode{
			{regexp.MustCompile(`\bzou[eè]k[eé]\b`), ForestZoueke1},
		},
		coverPatterns: []patternCode{
			{regexp.MustCompile(`\bfor[eê]t\s+dense\b`), CoverForetDense},
			{regexp.MustCompile(`\bfor[eê]t\s+clair[e]?\b`), CoverForetClaire},
			{regexp.MustCompile(`\bfor[eê]t\s+d[eé]grad[eé]e?\b`), CoverForetDegradee},
			{regexp.MustCompile(`\bjach[eè]re\b`), CoverJachere},
			{regexp.MustCompile(`\bcacao\b`), CoverCacao},
			{regexp.MustCompile(`\bcaf[eé]\b`), CoverCafe},
			{regexp.MustCompile(`\bh[eé]v[eé]a\b`), CoverHevea},
			{regexp.MustCompile(`\bculture\s*(?:annuelle|herbac[eé]e)?\b`), CoverCultureHerbacee},
			{regexp.MustCompile(`\bsol\s+nu\b`), CoverSolNu},
			// Extended synonyms fold to the same canonical codes.
			{regexp.MustCompile(`\bbois\s+dense\b`), CoverForetDense},
			{regexp.MustCompile(`\bbois\s+clair\b`), CoverForetClaire},
			{regexp.MustCompile(`\bfor[eê]t\s+primaire\b`), CoverForetDense},
			{regexp.MustCompile(`\bfor[eê]t\s+secondaire\b`), CoverForetClaire},
			{regexp.MustCompile(`\bvieille\s+for[eê]t\b`), CoverForetDense},
			{regexp.MustCompile(`\breboisement\b`), CoverJachere},
			{regexp.MustCompile(`\bfriche\b`), CoverJachere},
			{regexp.MustCompile(`\bplantation\b`), CoverCacao},
			{regexp.MustCompile(`\bzone\s+d[eé]bois[eé]e?\b`), CoverSolNu},
			{regexp.MustCompile(`\bterrain\s+nu\b`), CoverSolNu},
			{regexp.MustCompile(`\bcouvert\s+herbac[eé]\b`), CoverCultureHerbacee},
			{regexp.MustCompile(`\bchamp\b`), CoverCultureHerbacee},
			{regexp.MustCompile(`\bcaoutchouc\b`), CoverHevea},
		},
		forestAliases: map[string]string{
			"foret de tene":             ForestTene,
			"foret classee de tene":     ForestTene,
			"foret de doka":             ForestDoka,
			"foret classee de doka":     ForestDoka,
			"foret de sangoue":          ForestSangoue,
			"foret classee de sangoue":  ForestSangoue,
			"foret de lahouda":          ForestLahouda,
			"foret classee de lahouda":  ForestLahouda,
			"zoueke bloc i":             ForestZoueke1,
			"zoueke bloc ii":            ForestZoueke2,
		},
		canonicalForests: []patternCode2{
			{"tene", ForestTene},
			{"doka", ForestDoka},
			{"sangoue", ForestSangoue},
			{"lahouda", ForestLahouda},
			{"zoueke", ForestZoueke1},
		},
		yearWhitelist: []int{1986, 2003, 2023},
		yearRe:        regexp.MustCompile(`\b(1986|2003|2023)\b`),
		targetYearRe:  regexp.MustCompile(`\b(20[3-9][0-9]|2100)\b`),
		intentGroups: []intentGroup{
			{IntentPrediction, compileAll(
				`pr[eé]vision`,
				`pr[eé]di[rt]`,
				`pr[eé]diction`,
				`projection`,
				`proje[tc]`,
				`futur`,
				`horizon\s+\d{4}`,
				`d.ici\s+\d{4}`,
				`que\s+restera`,
			)},
			{IntentExport, compileAll(
				`\bexport`,
				`\brapport\b`,
				`t[eé]l[eé]charge`,
				`g[eé]n[eè]re\s+un\s+rapport`,
				`\bexcel\b`,
				`\bxlsx\b`,
				`\bpdf\b`,
			)},
			{IntentAreaCalc, compileAll(
				`calcul\w*\s+(?:de\s+)?(?:la\s+)?superficie`,
				`superficie\s+totale`,
				`surface\s+totale`,
				`combien\s+d.hectares`,
				`aire\s+totale`,
			)},
			{IntentCompare, compileAll(
				`compar[eé]`,
				`[eé]volution`,
				`diff[eé]ren`,
				`entre\s+\d{4}\s+et\s+\d{4}`,
				`de\s+\d{4}\s+[aà]\s+\d{4}`,
				`changement`,
			)},
			{IntentDeforestation, compileAll(
				`d[eé]forestation`,
				`d[eé]boisement`,
				`perte\s+de\s+for[eê]t`,
				`perte\s+foresti[eè]re`,
				`destruction`,
				`recul\s+foresti[eè]r`,
				`d[eé]gradation\s+foresti[eè]re`,
			)},
			{IntentStats, compileAll(
				`superficie`,
				`surface`,
				`combien`,
				`quelle?\s+(?:est|sont)`,
				`total[e]?`,
				`statistiq`,
				`donn[eé]es?\b`,
				`r[eé]partition`,
				`nombre\s+de`,
				`pourcentage`,
				`proportion`,
			)},
			{IntentCarbon, compileAll(
				`carbone`,
				`\bstock\b`,
				`biomasse`,
				`\bco2\b`,
				`\btco2\b`,
				`s[eé]questration`,
			)},
			{IntentRanking, compileAll(
				`class[eé]ment`,
				`ranking`,
				`\btop\b`,
				`plus\s+grand[e]?`,
				`plus\s+petit[e]?`,
				`meilleur`,
				`pire`,
			)},
		},
		greetingPatterns: compileAll(
			`^bonjour\b`,
			`^salut\b`,
			`^hello\b`,
			`^bonsoir\b`,
			`^aide\b`,
			`^help\b`,
			`^comment\s+(?:[cç]a\s+)?march`,
			`^que\s+peux`,
			`^qu.est.ce\s+que\s+tu`,
			`^quoi\s+faire`,
			`^coucou\b`,
		),
		stopWords: setOf(
			// Intent and domain keywords that must never fuzzy-resolve
			// to a forest name.
			"foret", "forets", "dense", "claire", "degradee", "jachere",
			"cacao", "cafe", "hevea", "culture", "superficie", "surface",
			"carbone", "stock", "biomasse", "compare", "comparaison",
			"evolution", "difference", "entre", "statistique", "statistiques",
			"deforestation", "deboisement", "classement", "montre", "montrer",
			"affiche", "afficher", "zone", "zones", "annee", "annees",
			"donnees", "pourcentage", "proportion", "prevision", "prediction",
			"projection", "rapport", "export", "hectare", "hectares", "bloc",
			"total", "totale", "combien", "quelle", "quelles", "quels",
			"pour", "dans", "avec", "sans", "plus", "moins", "vers", "tout",
			"toute", "toutes", "tous", "bonjour", "salut", "aide",
		),
		percentRe:  regexp.MustCompile(`pourcentage|proportion|\bratio\b|pour\s+cent|%`),
		largestRe:  regexp.MustCompile(`(?:la\s+|le\s+)?plus\s+(?:grand[e]?|vaste|important[e]?)`),
		smallestRe: regexp.MustCompile(`(?:la\s+|le\s+)?plus\s+(?:petit[e]?|faible)`),
		thresholdRe: regexp.MustCompile(
			`(?:sup[eé]rieure?|inf[eé]rieure?|plus|moins)\s+(?:[aà]|de|que?)\s+(\d+(?:[.,]\d+)?)`),
		hectareRe: regexp.MustCompile(
			`(?:d[eé]passant|au\s+moins|au\s+maximum|minimum\s+de|maximum\s+de)\s+(\d+(?:[.,]\d+)?)\s*(?:ha\b|hectares?)`),
		inferiorRe: regexp.MustCompile(`inf[eé]rieur|moins|maximum|en\s+dessous`),
		beforeRe:   regexp.MustCompile(`avant\s+(\d{4})`),
		afterRe:    regexp.MustCompile(`(?:apr[eè]s|depuis)\s+(\d{4})`),
		betweenRe:  regexp.MustCompile(`entre\s+(\d{4})\s+et\s+(\d{4})`),
		conjunctionRe: regexp.MustCompile(`([\p{L}]+)(?:\s*,\s*|\s+et\s+)([\p{L}]+)`),
	}
	return lex
}

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(p))
	}
	return out
}

func setOf(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}
