package nlq

import "fmt"

// genericExamples are served when nothing at all was recognized.
var genericExamples = []string{
	"Montre les zones de forêt dense à TENE en 2023",
	"Superficie de forêt claire à SANGOUE en 2023 ?",
	"Compare TENE entre 1986 et 2023",
	"Déforestation à DOKA",
	"Statistiques de carbone pour 2023",
}

// Suggest produces guidance when a query yielded no data or lacks the
// entities its intent requires. Purely textual: suggestions are templates
// filled with whatever was recognized, never fabricated data.
func Suggest(parsed *ParsedQuery) []string {
	var out []string

	// Intent-specific prompts come first: they name the exact gap.
	switch parsed.Intent {
	case IntentCompare:
		if len(parsed.Years) < 2 {
			out = append(out,
				"Précisez deux années à comparer, par exemple : \"Compare TENE entre 1986 et 2023\"")
		}
	case IntentDeforestation:
		if len(parsed.Years) < 2 {
			out = append(out,
				"Précisez deux années pour l'analyse de déforestation, par exemple : \"Déforestation à DOKA entre 1986 et 2023\"")
		}
	case IntentPrediction:
		if parsed.TargetYear == 0 {
			out = append(out,
				fmt.Sprintf("Précisez une année cible, par exemple : \"Prévision de déforestation pour %d\"", DefaultTargetYear))
		}
	}

	if len(parsed.Locations) == 0 && len(parsed.CoverTypes) == 0 && len(parsed.Years) == 0 {
		return append(out, genericExamples...)
	}

	if len(parsed.Locations) == 0 {
		out = append(out, "Précisez une forêt : TENE, DOKA, SANGOUE, LAHOUDA, ZOUEKE")
	}
	if len(parsed.CoverTypes) == 0 {
		out = append(out, "Précisez un type : forêt dense, forêt claire, forêt dégradée, jachère, cacao")
	}
	if len(parsed.Years) == 0 {
		out = append(out, "Précisez une année : 1986, 2003 ou 2023")
	}

	return out
}
