package engine

import (
	"github.com/jonathan/jobfiltr/internal/types"
)

// Presenter receives the engine's decisions. It owns every side effect on the page.
type Presenter interface {
	HideJob(job types.JobPosting)
	ApplyVisualIndicator(job types.JobPosting, results []types.DetectionResult)
}

// NopPresenter ignores every call.
type NopPresenter struct{}

func (NopPresenter) HideJob(types.JobPosting) {}

func (NopPresenter) ApplyVisualIndicator(types.JobPosting, []types.DetectionResult) {}

// Outcome is the engine's decision for one posting.
type Outcome struct {
	JobID   string                  `json:"job_id"`
	Job     types.JobPosting        `json:"job"`
	Hidden  bool                    `json:"hidden"`
	Results []types.DetectionResult `json:"results"`
	// Skipped is set when the posting was already processed since the last refresh.
	Skipped bool  `json:"skipped,omitempty"`
	Err     error `json:"-"`
}

// ErrText returns the analysis error text, or "".
func (o Outcome) ErrText() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}
