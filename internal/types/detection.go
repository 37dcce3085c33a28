package types

// MaxEvidence is the maximum number of evidence strings carried by a DetectionResult.
const MaxEvidence = 5

// DetectionCategory tags the component that produced a DetectionResult.
type DetectionCategory string

// Detection categories.
const (
	CategoryGhostJob       DetectionCategory = "ghost_job"
	CategoryStaffing       DetectionCategory = "staffing"
	CategoryRemote         DetectionCategory = "remote"
	CategoryIncludeKeyword DetectionCategory = "include_keyword"
	CategoryExcludeKeyword DetectionCategory = "exclude_keyword"
	CategoryCompany        DetectionCategory = "company"
	CategoryOther          DetectionCategory = "other"
)

// DetectionResult is the outcome of one detector or gate for one posting.
// Evidence is ordered most significant first and never longer than MaxEvidence.
type DetectionResult struct {
	Detected   bool              `json:"detected"`
	Confidence UnitConfidence    `json:"confidence"`
	Category   DetectionCategory `json:"category"`
	Message    string            `json:"message"`
	Evidence   []string          `json:"evidence"`
}

// CapEvidence truncates evidence to MaxEvidence items. It never returns nil.
func CapEvidence(evidence []string) []string {
	if len(evidence) > MaxEvidence {
		evidence = evidence[:MaxEvidence]
	}
	if evidence == nil {
		return []string{}
	}
	return evidence
}

// FilterResult is the outcome of a keyword or company gate.
// Passed is true exactly when Reason is nil.
type FilterResult struct {
	Passed          bool     `json:"passed"`
	Reason          *string  `json:"reason"`
	MatchedKeywords []string `json:"matched_keywords,omitempty"`
	MissingKeywords []string `json:"missing_keywords,omitempty"`
	BlockedCompany  string   `json:"blocked_company,omitempty"`
}

// Pass returns a passing FilterResult.
func Pass() FilterResult {
	return FilterResult{Passed: true}
}

// Fail returns a failing FilterResult with the given reason.
func Fail(reason string) FilterResult {
	return FilterResult{Passed: false, Reason: &reason}
}

// ReasonText returns the reason or an empty string for passing results.
func (r FilterResult) ReasonText() string {
	if r.Reason == nil {
		return ""
	}
	return *r.Reason
}
