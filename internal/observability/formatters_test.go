package observability

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/jonathan/jobfiltr/internal/engine"
	"github.com/jonathan/jobfiltr/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestPrintOutcomes(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintOutcomes([]engine.Outcome{
		{JobID: "1", Job: types.JobPosting{ID: "1", Title: "Go Engineer", Company: "Initech"}},
		{
			JobID:  "2",
			Job:    types.JobPosting{ID: "2", Title: "Recruiter", Company: "Robert Half"},
			Hidden: true,
			Results: []types.DetectionResult{
				{Detected: true, Confidence: 0.95, Category: types.CategoryStaffing, Message: "Known staffing firm"},
			},
		},
		{JobID: "3", Job: types.JobPosting{ID: "3"}, Err: errors.New("detector panicked")},
	})
	output := buf.String()

	assert.Contains(t, output, "FILTER RESULTS")
	assert.Contains(t, output, "✓ Go Engineer @ Initech")
	assert.Contains(t, output, "✗ Recruiter @ Robert Half")
	assert.Contains(t, output, "[staffing 95%] Known staffing firm")
	assert.Contains(t, output, "! 3")
	assert.Contains(t, output, "detector panicked")
	assert.Contains(t, output, "1 of 3 hidden")
}

func TestPrintOutcomes_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintOutcomes(nil)
	assert.Empty(t, buf.String())
}

func TestPrintStats(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintStats(types.FilterStats{TotalScanned: 12, TotalFiltered: 4, StaffingFiltered: 3})
	output := buf.String()

	assert.Contains(t, output, "FILTER STATS")
	assert.Contains(t, output, "Scanned:            12")
	assert.Contains(t, output, "Staffing firms:   3")
}

func TestPrintScore(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintScore(types.Score{
		JobID:      "job-1",
		Overall:    72,
		Confidence: 0.8,
		Category:   types.ScoreHighRisk,
		Breakdown: map[types.SignalCategory]types.PercentScore{
			types.SignalTemporal: 90,
			types.SignalCompany:  40,
		},
		Signals: []types.Signal{
			{Known: true, Weight: 0.2, Normalized: 0.9, Description: "Posted 90 days ago"},
			{Known: true, Weight: 0.1, Normalized: 0.1, Description: "Minor vagueness"},
			{Known: false, Weight: 0.5, Normalized: 0, Description: "Applicant count unknown"},
		},
		FloorsApplied: []string{"age_60"},
	})
	output := buf.String()

	assert.Contains(t, output, "GHOST JOB SCORE")
	assert.Contains(t, output, "72 (high_risk)")
	assert.Less(t, strings.Index(output, "company"), strings.Index(output, "temporal"), "breakdown is sorted")
	assert.Less(t, strings.Index(output, "Posted 90 days ago"), strings.Index(output, "Minor vagueness"))
	assert.NotContains(t, output, "Applicant count unknown")
	assert.Contains(t, output, "Floors: age_60")
}

func TestPrintReportedMatch(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintReportedMatch("Initech", types.ReportedMatch{})
	assert.Contains(t, buf.String(), "✓ Initech is not on the reported list")

	buf.Reset()
	p.PrintReportedMatch("Jobs 4 U Inc", types.ReportedMatch{
		Detected:   true,
		Confidence: 0.9,
		MatchType:  types.MatchAlias,
		MatchedOn:  "jobs4u",
		Company:    &types.ReportedCompany{Name: "Jobs4U", Category: types.ReportGhost},
		Message:    "Reported for ghost postings",
	})
	output := buf.String()
	assert.Contains(t, output, "REPORTED COMPANY")
	assert.Contains(t, output, "Jobs4U (ghost)")
	assert.Contains(t, output, `on "jobs4u"`)
}

func TestPrintList(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintList("exclude keywords", []string{"unpaid", "commission only"}, 3)
	assert.Contains(t, buf.String(), "EXCLUDE KEYWORDS")
	assert.Contains(t, buf.String(), "2 of 3 entries")
	assert.Contains(t, buf.String(), "• commission only")

	buf.Reset()
	p.PrintList("exclude companies", nil, -1)
	assert.Contains(t, buf.String(), "0 entries (unlimited)")
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("x", 200))
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.Equal(t, boxWidth, len([]rune(line)))
	}
	assert.Contains(t, buf.String(), "...")
}

func TestPresenter(t *testing.T) {
	var buf bytes.Buffer
	pr := NewPresenter(NewPrinter(&buf))
	var _ engine.Presenter = pr

	job := types.JobPosting{ID: "1", Title: "Engineer (Remote)", Company: "Initrode"}
	pr.HideJob(job)
	pr.ApplyVisualIndicator(job, []types.DetectionResult{
		{Detected: true, Confidence: 0.75, Category: types.CategoryRemote},
		{Detected: false, Category: types.CategoryGhostJob},
	})
	pr.ApplyVisualIndicator(job, nil)

	output := buf.String()
	assert.Contains(t, output, "✗ hide Engineer (Remote) @ Initrode")
	assert.Contains(t, output, "◆ badge Engineer (Remote) @ Initrode [remote 75%]")
	assert.NotContains(t, output, "ghost_job")
	assert.Equal(t, 2, strings.Count(output, "\n"))
}
