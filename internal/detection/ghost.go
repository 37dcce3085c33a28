package detection

import (
	"fmt"
	"math"

	"github.com/jonathan/jobfiltr/internal/parsing"
	"github.com/jonathan/jobfiltr/internal/signals"
	"github.com/jonathan/jobfiltr/internal/types"
)

const (
	// ghostNormalization divides the summed signal weight into a confidence.
	// It is an empirically chosen tuning constant.
	ghostNormalization = 2.0
	ghostMaxConfidence = 0.95
	ghostDetectedAt    = 0.5

	ageHighRiskDays   = 60
	ageMediumRiskDays = 30
	ageLowRiskDays    = 14
)

// GhostJobDetector scores how likely a posting is a ghost job ("FilterEngine ghost score").
type GhostJobDetector struct {
	tables           *signals.Tables
	applicantSignals bool
}

// GhostOption configures a GhostJobDetector.
type GhostOption func(*GhostJobDetector)

// WithApplicantSignals enables the low-applicant-count-for-age heuristic.
// It is off by default because applicant counts scraped from job boards are unreliable.
func WithApplicantSignals(enabled bool) GhostOption {
	return func(d *GhostJobDetector) {
		d.applicantSignals = enabled
	}
}

// NewGhostJobDetector creates a detector over tables. A nil tables uses the built-in tables.
func NewGhostJobDetector(tables *signals.Tables, opts ...GhostOption) *GhostJobDetector {
	if tables == nil {
		tables = signals.Default()
	}
	d := &GhostJobDetector{tables: tables}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Analyze scores a single posting. Missing fields contribute no signal.
func (d *GhostJobDetector) Analyze(job types.JobPosting) types.DetectionResult {
	var hits []hit

	days := job.DaysSincePosted
	if days == nil {
		days = parsing.DaysSincePosted(job.PostedDate)
	}
	if days != nil {
		switch {
		case *days >= ageHighRiskDays:
			hits = append(hits, hit{kind: "age", weight: 0.8, desc: fmt.Sprintf("Posted %d+ days ago", *days)})
		case *days >= ageMediumRiskDays:
			hits = append(hits, hit{kind: "age", weight: 0.5, desc: fmt.Sprintf("Posted %d days ago", *days)})
		case *days >= ageLowRiskDays:
			hits = append(hits, hit{kind: "age", weight: 0.25, desc: fmt.Sprintf("Posted %d days ago", *days)})
		}
	}

	for _, p := range d.tables.Vague() {
		if p.Regexp.MatchString(job.Description) || p.Regexp.MatchString(job.Title) {
			hits = append(hits, hit{kind: "vague", weight: p.Weight, desc: p.Description})
		}
	}

	for _, p := range d.tables.Repost {
		if p.Regexp.MatchString(job.Description) {
			hits = append(hits, hit{kind: "repost", weight: p.Weight, desc: p.Description})
		}
	}

	for _, p := range d.tables.ExcessiveRequirements {
		if p.Regexp.MatchString(job.Description) {
			hits = append(hits, hit{kind: "excessive", weight: p.Weight, desc: p.Description})
		}
	}

	if d.applicantSignals && days != nil && job.ApplicantCount != nil {
		if h, ok := applicantHit(*days, *job.ApplicantCount); ok {
			hits = append(hits, h)
		}
	}

	if job.Salary == "" && !parsing.MentionsPay(job.Description) {
		hits = append(hits, hit{kind: "missing", weight: 0.2, desc: "No salary information"})
	}

	confidence := roundConfidence(math.Min(ghostMaxConfidence, sumWeights(hits)/ghostNormalization))

	return types.DetectionResult{
		Detected:   confidence >= ghostDetectedAt,
		Confidence: confidence,
		Category:   types.CategoryGhostJob,
		Message:    ghostMessage(confidence),
		Evidence:   evidence(hits),
	}
}

// applicantHit applies the stronger of the two low-applicant thresholds.
func applicantHit(days, applicants int) (hit, bool) {
	switch {
	case days >= 60 && applicants <= 25:
		return hit{kind: "applicants", weight: 0.8, desc: fmt.Sprintf("Only %d applicants after %d days", applicants, days)}, true
	case days >= 30 && applicants <= 10:
		return hit{kind: "applicants", weight: 0.7, desc: fmt.Sprintf("Only %d applicants after %d days", applicants, days)}, true
	}
	return hit{}, false
}

// ScoreCategory maps a ghost confidence onto the shared risk bands.
func (d *GhostJobDetector) ScoreCategory(confidence types.UnitConfidence) types.ScoreCategory {
	return GhostCategory(confidence)
}

// GhostCategory maps a [0,1] ghost confidence onto the risk bands.
func GhostCategory(confidence types.UnitConfidence) types.ScoreCategory {
	switch {
	case confidence >= 0.8:
		return types.ScoreLikelyGhost
	case confidence >= 0.6:
		return types.ScoreHighRisk
	case confidence >= 0.4:
		return types.ScoreMediumRisk
	case confidence >= 0.2:
		return types.ScoreLowRisk
	default:
		return types.ScoreSafe
	}
}

func ghostMessage(confidence types.UnitConfidence) string {
	switch GhostCategory(confidence) {
	case types.ScoreLikelyGhost:
		return "Likely ghost job - multiple red flags detected"
	case types.ScoreHighRisk:
		return "High risk - several warning signs present"
	case types.ScoreMediumRisk:
		return "Medium risk - some concerns identified"
	case types.ScoreLowRisk:
		return "Low risk - minor concerns only"
	default:
		return "Appears legitimate"
	}
}
