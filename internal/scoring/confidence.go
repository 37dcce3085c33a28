package scoring

import (
	"math"

	"github.com/jonathan/jobfiltr/internal/types"
)

const (
	completenessWeight = 0.4
	consistencyWeight  = 0.3
	strengthWeight     = 0.3

	minConfidence   = 0.5
	confidenceRange = 0.45
)

// Confidence blends data completeness, signal consistency and evidence strength
// 0.4/0.3/0.3 and rescales the result into [0.5, 0.95].
func Confidence(sigs []types.Signal, score types.PercentScore) types.UnitConfidence {
	if len(sigs) == 0 {
		return minConfidence
	}

	var known []float64
	for _, sig := range sigs {
		if sig.Known {
			known = append(known, sig.Normalized)
		}
	}
	completeness := float64(len(known)) / float64(len(sigs))
	consistency := 1 - math.Min(1, stddev(known))
	strength := math.Abs(float64(score)-50) / 50

	c := completenessWeight*completeness + consistencyWeight*consistency + strengthWeight*strength
	return types.UnitConfidence(minConfidence + clamp01(c)*confidenceRange)
}

// stddev is the population standard deviation, 0 for fewer than two values.
func stddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	return math.Sqrt(variance / float64(len(values)))
}
