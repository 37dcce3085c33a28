package types

import (
	"math"
	"time"
)

// UnitConfidence is a confidence on the [0,1] scale.
type UnitConfidence float64

// PercentScore is a score on the [0,100] scale.
type PercentScore float64

// Percent converts a unit confidence to the percent scale.
func (c UnitConfidence) Percent() PercentScore {
	return PercentScore(float64(c) * 100)
}

// Clamp bounds c to [0,1].
func (c UnitConfidence) Clamp() UnitConfidence {
	return UnitConfidence(math.Max(0, math.Min(1, float64(c))))
}

// Unit converts a percent score to the unit scale.
func (s PercentScore) Unit() UnitConfidence {
	return UnitConfidence(float64(s) / 100)
}

// Clamp bounds s to [0,100].
func (s PercentScore) Clamp() PercentScore {
	return PercentScore(math.Max(0, math.Min(100, float64(s))))
}

// Max returns the larger of s and floor.
func (s PercentScore) Max(floor PercentScore) PercentScore {
	if floor > s {
		return floor
	}
	return s
}

// ScoreCategory is the banded label shared by the ghost detector and the badge score.
type ScoreCategory string

// Score bands, from least to most risky.
const (
	ScoreSafe        ScoreCategory = "safe"
	ScoreLowRisk     ScoreCategory = "low_risk"
	ScoreMediumRisk  ScoreCategory = "medium_risk"
	ScoreHighRisk    ScoreCategory = "high_risk"
	ScoreLikelyGhost ScoreCategory = "likely_ghost"
)

// Label returns the display label for the category.
func (c ScoreCategory) Label() string {
	switch c {
	case ScoreSafe:
		return "Likely Legitimate"
	case ScoreLowRisk:
		return "Low Risk"
	case ScoreMediumRisk:
		return "Medium Risk"
	case ScoreHighRisk:
		return "High Risk"
	case ScoreLikelyGhost:
		return "Likely Ghost"
	default:
		return string(c)
	}
}

// SignalCategory groups badge-score signals.
type SignalCategory string

// Signal categories.
const (
	SignalTemporal   SignalCategory = "temporal"
	SignalContent    SignalCategory = "content"
	SignalCompany    SignalCategory = "company"
	SignalBehavioral SignalCategory = "behavioral"
	SignalCommunity  SignalCategory = "community"
	SignalStructural SignalCategory = "structural"
)

// SignalCategories lists every category in breakdown order.
var SignalCategories = []SignalCategory{
	SignalTemporal,
	SignalContent,
	SignalCompany,
	SignalBehavioral,
	SignalCommunity,
	SignalStructural,
}

// Signal is one piece of evidence in a badge-score pass.
// Known is false when the input the signal depends on was missing.
type Signal struct {
	ID          string         `json:"id"`
	Category    SignalCategory `json:"category"`
	Name        string         `json:"name"`
	Weight      float64        `json:"weight"`
	Value       float64        `json:"value"`
	Normalized  float64        `json:"normalized_value"`
	Confidence  UnitConfidence `json:"confidence"`
	Known       bool           `json:"known"`
	Description string         `json:"description"`
	Evidence    string         `json:"evidence,omitempty"`
}

// Score is the badge risk score for one posting.
type Score struct {
	JobID            string                          `json:"job_id"`
	Overall          PercentScore                    `json:"overall"`
	Confidence       UnitConfidence                  `json:"confidence"`
	Category         ScoreCategory                   `json:"category"`
	Breakdown        map[SignalCategory]PercentScore `json:"breakdown"`
	Signals          []Signal                        `json:"signals"`
	FloorsApplied    []string                        `json:"floors_applied,omitempty"`
	AlgorithmVersion string                          `json:"algorithm_version"`
	ComputedAt       time.Time                       `json:"computed_at"`
}

// CachedScore is a Score with its cache metadata.
type CachedScore struct {
	Data      Score     `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
	Version   string    `json:"version"`
}

// Fresh reports whether the entry may be reused for the given algorithm version at now.
func (c *CachedScore) Fresh(version string, now time.Time) bool {
	return c != nil && c.Version == version && c.ExpiresAt.After(now)
}
