// Package detection implements the per-posting soft detectors: ghost jobs,
// staffing firms and misleading remote claims. Analyze methods are pure with
// respect to shared state and safe for concurrent use.
package detection

import (
	"math"
	"sort"

	"github.com/jonathan/jobfiltr/internal/types"
)

// hit is one matched signal inside a single Analyze call.
type hit struct {
	kind   string
	desc   string
	weight float64
}

// evidence returns hit descriptions ordered by weight, strongest first,
// keeping insertion order between equal weights, capped at MaxEvidence.
func evidence(hits []hit) []string {
	sorted := make([]hit, len(hits))
	copy(sorted, hits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].weight > sorted[j].weight
	})

	out := make([]string, 0, len(sorted))
	for _, h := range sorted {
		out = append(out, h.desc)
	}
	return types.CapEvidence(out)
}

// confidenceScale is the precision detector confidences are rounded to, so
// threshold comparisons see 0.7 rather than 0.7000000000000001.
const confidenceScale = 1e6

func roundConfidence(v float64) types.UnitConfidence {
	return types.UnitConfidence(math.Round(v*confidenceScale) / confidenceScale)
}

func sumWeights(hits []hit) float64 {
	total := 0.0
	for _, h := range hits {
		total += h.weight
	}
	return total
}
