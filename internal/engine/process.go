package engine

import (
	"context"
	"fmt"
	"log"
	"slices"

	"github.com/jonathan/jobfiltr/internal/types"
	"golang.org/x/sync/errgroup"
)

// Process runs every posting not yet seen since the last refresh through the
// pipeline. Outcomes keep the input order. A posting whose analysis panics gets
// an Outcome with Err set and the rest of the batch continues.
func (e *FilterEngine) Process(ctx context.Context, jobs []types.JobPosting) ([]Outcome, error) {
	out := make([]Outcome, len(jobs))

	if e.workers <= 1 {
		for i, job := range jobs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			out[i] = e.processJob(job)
		}
		return out, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = e.processJob(jobs[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (e *FilterEngine) processJob(job types.JobPosting) (outcome Outcome) {
	outcome = Outcome{JobID: job.ID, Job: job}
	if !e.claim(job.ID) {
		outcome.Skipped = true
		return outcome
	}

	delta := types.FilterStats{TotalScanned: 1}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[engine] analysis of %s failed: %v", job.ID, r)
			outcome = Outcome{JobID: job.ID, Job: job, Err: fmt.Errorf("analysis of %s panicked: %v", job.ID, r)}
			delta = types.FilterStats{TotalScanned: 1}
		}
		e.addStats(delta)
	}()

	hidden, results := e.evaluate(e.Settings(), &job, &delta)
	if hidden {
		delta.TotalFiltered++
		e.presenter.HideJob(job)
	} else if len(results) > 0 {
		e.presenter.ApplyVisualIndicator(job, results)
	}

	outcome.Job = job
	outcome.Hidden = hidden
	outcome.Results = results
	return outcome
}

// evaluate runs the gates, stopping at the first failure, and then the enabled
// detectors. Only the remote verifier writes to job.
func (e *FilterEngine) evaluate(settings types.FilterSettings, job *types.JobPosting, delta *types.FilterStats) (bool, []types.DetectionResult) {
	if r := e.include.Analyze(*job); !r.Passed {
		delta.IncludeKeywordMisses++
		return true, []types.DetectionResult{gateResult(types.CategoryIncludeKeyword, r, "Missing keywords", r.MissingKeywords)}
	}
	if r := e.excludeKeywords.Analyze(*job); !r.Passed {
		delta.ExcludeKeywordMatches++
		return true, []types.DetectionResult{gateResult(types.CategoryExcludeKeyword, r, "Contains blocked keyword", r.MatchedKeywords)}
	}
	if r := e.excludeCompanies.Analyze(*job); !r.Passed {
		delta.CompaniesBlocked++
		var evidence []string
		if r.BlockedCompany != "" {
			evidence = []string{r.BlockedCompany}
		}
		return true, []types.DetectionResult{gateResult(types.CategoryCompany, r, "Blocked company", evidence)}
	}

	var (
		hide    bool
		results []types.DetectionResult
	)

	if settings.HideGhostJobs {
		if r := e.ghost.Analyze(*job); r.Detected {
			results = append(results, r)
			if r.Confidence > HideThreshold {
				hide = true
				delta.GhostJobsFiltered++
			}
		}
	}

	if settings.HideStaffingFirms {
		if r := e.staffing.Analyze(*job); r.Detected {
			results = append(results, r)
			if r.Confidence > HideThreshold {
				hide = true
				delta.StaffingFiltered++
			}
		}
	}

	if settings.VerifyTrueRemote {
		if r := e.remote.Analyze(job); r.Detected {
			results = append(results, r)
			delta.RemoteIssuesFiltered++
		}
	}

	return hide, results
}

func gateResult(category types.DetectionCategory, r types.FilterResult, fallback string, evidence []string) types.DetectionResult {
	msg := r.ReasonText()
	if msg == "" {
		msg = fallback
	}
	return types.DetectionResult{
		Detected:   true,
		Confidence: 1,
		Category:   category,
		Message:    msg,
		Evidence:   types.CapEvidence(slices.Clone(evidence)),
	}
}

// claim marks id as processed and reports whether it was new. Postings without
// an id are always processed.
func (e *FilterEngine) claim(id string) bool {
	if id == "" {
		return true
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, seen := e.processed[id]; seen {
		return false
	}
	e.processed[id] = struct{}{}
	return true
}

func (e *FilterEngine) addStats(d types.FilterStats) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stats.TotalScanned += d.TotalScanned
	e.stats.TotalFiltered += d.TotalFiltered
	e.stats.GhostJobsFiltered += d.GhostJobsFiltered
	e.stats.StaffingFiltered += d.StaffingFiltered
	e.stats.RemoteIssuesFiltered += d.RemoteIssuesFiltered
	e.stats.IncludeKeywordMisses += d.IncludeKeywordMisses
	e.stats.ExcludeKeywordMatches += d.ExcludeKeywordMatches
	e.stats.CompaniesBlocked += d.CompaniesBlocked
}
