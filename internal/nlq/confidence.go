package nlq

import "math"

// confidenceDenominator is kept at 4 for behavioral parity with the
// historical scorer even though the extractor now distinguishes more
// categories; the cap at 1.0 absorbs the difference.
const confidenceDenominator = 4.0

// scoreConfidence derives a [0,1] score from how many entity categories
// matched. A recognized non-default intent floors the score at 0.3: the
// intent itself is evidence of understanding even with sparse entities.
func scoreConfidence(matchedCategories int, intent Intent) float64 {
	score := math.Round(float64(matchedCategories)/confidenceDenominator*100) / 100
	if score > 1.0 {
		score = 1.0
	}
	if intent != IntentShow && intent != IntentHelp && score < 0.3 {
		score = 0.3
	}
	return score
}
