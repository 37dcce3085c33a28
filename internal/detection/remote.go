package detection

import (
	"fmt"
	"math"
	"regexp"
	"sort"

	"github.com/jonathan/jobfiltr/internal/signals"
	"github.com/jonathan/jobfiltr/internal/types"
)

var (
	remoteWordPattern = regexp.MustCompile(`(?i)\bremote\b`)
	remoteThenPlace   = regexp.MustCompile(`(?i)remote.*[,/].*[a-z]{2,}`)
	placeThenRemote   = regexp.MustCompile(`(?i)[a-z]{2,}.*[,/].*remote`)
)

const (
	remoteLocationWeight = 0.7
	notRemoteConfidence  = 0.9
)

// RemoteVerifier checks whether a posting's remote claim is contradicted by
// hybrid, onsite or location language. It never decides to hide a posting.
type RemoteVerifier struct {
	tables *signals.Tables
}

// NewRemoteVerifier creates a verifier over tables. A nil tables uses the built-in tables.
func NewRemoteVerifier(tables *signals.Tables) *RemoteVerifier {
	if tables == nil {
		tables = signals.Default()
	}
	return &RemoteVerifier{tables: tables}
}

// Analyze classifies the posting's remote claim and writes the result to job.RemoteType.
// Postings that do not claim to be remote are left untouched.
func (v *RemoteVerifier) Analyze(job *types.JobPosting) types.DetectionResult {
	claimsRemote := job.IsRemote || remoteWordPattern.MatchString(job.Title) || remoteWordPattern.MatchString(job.Location)
	if !claimsRemote {
		return types.DetectionResult{
			Detected:   false,
			Confidence: notRemoteConfidence,
			Category:   types.CategoryRemote,
			Message:    "Not advertised as remote",
			Evidence:   []string{},
		}
	}

	text := job.Title + " " + job.Description + " " + job.Location

	var positive, negative []hit
	for _, p := range v.tables.RemotePositive {
		if p.Regexp.MatchString(text) {
			positive = append(positive, hit{kind: "positive", desc: p.Description, weight: p.Weight})
		}
	}
	for _, group := range [][]signals.Pattern{v.tables.RemoteHybrid, v.tables.RemoteOnsite, v.tables.LocationContradictions} {
		for _, p := range group {
			if p.Regexp.MatchString(text) {
				negative = append(negative, hit{kind: p.Kind, desc: p.Description, weight: p.Weight})
			}
		}
	}
	if remoteThenPlace.MatchString(job.Location) || placeThenRemote.MatchString(job.Location) {
		negative = append(negative, hit{kind: "location", desc: "Remote + specific location", weight: remoteLocationWeight})
	}

	pos := sumWeights(positive)
	neg := sumWeights(negative)

	remoteType := types.RemoteTypeUnclear
	misleading := false
	switch {
	case neg >= 1.0:
		remoteType = types.RemoteTypeHybrid
		for _, h := range negative {
			if h.kind == "onsite" {
				remoteType = types.RemoteTypeOnsite
				break
			}
		}
		misleading = true
	case neg >= 0.5:
		remoteType = types.RemoteTypeHybrid
		misleading = neg > pos
	case pos >= 0.8:
		remoteType = types.RemoteTypeTrueRemote
	}
	job.RemoteType = remoteType

	confidence := roundConfidence(math.Min(0.95, 0.5+math.Abs(pos-neg)/math.Max(pos+neg, 1)*0.45))

	return types.DetectionResult{
		Detected:   misleading,
		Confidence: confidence,
		Category:   types.CategoryRemote,
		Message:    remoteMessage(remoteType, misleading, negative),
		Evidence:   evidence(negative),
	}
}

func remoteMessage(remoteType types.RemoteType, misleading bool, negative []hit) string {
	if !misleading {
		if remoteType == types.RemoteTypeTrueRemote {
			return "Verified true remote"
		}
		return "Remote status unclear"
	}

	reason := "office required"
	if len(negative) > 0 {
		sorted := make([]hit, len(negative))
		copy(sorted, negative)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].weight > sorted[j].weight })
		reason = sorted[0].desc
	}

	kind := "Hybrid role"
	if remoteType == types.RemoteTypeOnsite {
		kind = "Actually onsite"
	}
	return fmt.Sprintf("Misleading: %s (%s)", kind, reason)
}
