package scoring

import (
	"math"

	"github.com/jonathan/jobfiltr/internal/signals"
	"github.com/jonathan/jobfiltr/internal/types"
)

// Breakdown computes each category's 0-100 contribution as
// Σ(normalized × weight × confidence) / Σweight × 100. A category with no
// signals, or only zero-weight signals, scores 0.
func Breakdown(sigs []types.Signal) map[types.SignalCategory]types.PercentScore {
	weighted := make(map[types.SignalCategory]float64, len(types.SignalCategories))
	weights := make(map[types.SignalCategory]float64, len(types.SignalCategories))
	for _, sig := range sigs {
		weighted[sig.Category] += sig.Normalized * sig.Weight * float64(sig.Confidence)
		weights[sig.Category] += sig.Weight
	}

	out := make(map[types.SignalCategory]types.PercentScore, len(types.SignalCategories))
	for _, c := range types.SignalCategories {
		if weights[c] == 0 {
			out[c] = 0
			continue
		}
		out[c] = types.PercentScore(weighted[c] / weights[c] * 100).Clamp()
	}
	return out
}

// Overall is the category-weighted sum of the breakdown, rounded and clamped to [0,100].
func Overall(tables *signals.Tables, breakdown map[types.SignalCategory]types.PercentScore) types.PercentScore {
	total := 0.0
	for _, c := range types.SignalCategories {
		total += float64(breakdown[c]) * tables.CategoryWeights[c] / 100
	}
	return types.PercentScore(math.Round(total)).Clamp()
}

// Band maps a 0-100 score to its category.
func Band(score types.PercentScore) types.ScoreCategory {
	switch {
	case score <= 20:
		return types.ScoreSafe
	case score <= 40:
		return types.ScoreLowRisk
	case score <= 60:
		return types.ScoreMediumRisk
	case score <= 80:
		return types.ScoreHighRisk
	default:
		return types.ScoreLikelyGhost
	}
}
