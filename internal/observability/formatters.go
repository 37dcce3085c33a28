// Package observability provides formatted output for the CLI: filter outcomes,
// run statistics, badge scores and reported-company lookups.
package observability

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/jonathan/jobfiltr/internal/engine"
	"github.com/jonathan/jobfiltr/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output. It is safe for concurrent use.
type Printer struct {
	mu  sync.Mutex
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func jobLabel(job types.JobPosting) string {
	title := job.Title
	if title == "" {
		title = job.ID
	}
	if job.Company == "" {
		return title
	}
	return title + " @ " + job.Company
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) line(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, format+"\n", args...)
}

// PrintOutcomes outputs one line per posting. Hidden postings are marked ✗.
func (p *Printer) PrintOutcomes(outcomes []engine.Outcome) {
	if len(outcomes) == 0 {
		return
	}

	var sb strings.Builder
	hidden := 0
	for _, o := range outcomes {
		mark := "✓"
		switch {
		case o.Err != nil:
			mark = "!"
		case o.Skipped:
			mark = "-"
		case o.Hidden:
			mark = "✗"
			hidden++
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", mark, jobLabel(o.Job)))
		if o.Err != nil {
			sb.WriteString(fmt.Sprintf("    error: %s\n", o.ErrText()))
			continue
		}
		for _, r := range o.Results {
			if !r.Detected {
				continue
			}
			sb.WriteString(fmt.Sprintf("    [%s %.0f%%] %s\n", r.Category, float64(r.Confidence)*100, r.Message))
		}
	}
	sb.WriteString(fmt.Sprintf("\n%d of %d hidden", hidden, len(outcomes)))

	p.printBox("FILTER RESULTS", sb.String())
}

// PrintStats outputs the engine counters.
func (p *Printer) PrintStats(stats types.FilterStats) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Scanned:            %d\n", stats.TotalScanned))
	sb.WriteString(fmt.Sprintf("Hidden:             %d\n", stats.TotalFiltered))
	sb.WriteString(fmt.Sprintf("  Ghost jobs:       %d\n", stats.GhostJobsFiltered))
	sb.WriteString(fmt.Sprintf("  Staffing firms:   %d\n", stats.StaffingFiltered))
	sb.WriteString(fmt.Sprintf("  Excluded words:   %d\n", stats.ExcludeKeywordMatches))
	sb.WriteString(fmt.Sprintf("  Missing keywords: %d\n", stats.IncludeKeywordMisses))
	sb.WriteString(fmt.Sprintf("  Blocked companies: %d\n", stats.CompaniesBlocked))
	sb.WriteString(fmt.Sprintf("Remote mismatches:  %d", stats.RemoteIssuesFiltered))

	p.printBox("FILTER STATS", sb.String())
}

// PrintScore outputs a badge score with its category breakdown and strongest signals.
func (p *Printer) PrintScore(score types.Score) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Job:        %s\n", score.JobID))
	sb.WriteString(fmt.Sprintf("Score:      %.0f (%s)\n", float64(score.Overall), score.Category))
	sb.WriteString(fmt.Sprintf("Confidence: %.2f\n", float64(score.Confidence)))

	if len(score.Breakdown) > 0 {
		sb.WriteString("\nBreakdown:\n")
		cats := make([]string, 0, len(score.Breakdown))
		for c := range score.Breakdown {
			cats = append(cats, string(c))
		}
		slices.Sort(cats)
		for _, c := range cats {
			sb.WriteString(fmt.Sprintf("  %-11s %5.1f\n", c, float64(score.Breakdown[types.SignalCategory(c)])))
		}
	}

	known := make([]types.Signal, 0, len(score.Signals))
	for _, s := range score.Signals {
		if s.Known && s.Normalized > 0 {
			known = append(known, s)
		}
	}
	slices.SortStableFunc(known, func(a, b types.Signal) int {
		wa, wb := a.Weight*a.Normalized, b.Weight*b.Normalized
		switch {
		case wa > wb:
			return -1
		case wa < wb:
			return 1
		}
		return 0
	})
	if len(known) > 0 {
		sb.WriteString("\nTop signals:\n")
		for _, s := range known[:min(len(known), maxItemsToShow)] {
			sb.WriteString(fmt.Sprintf("  • %s\n", s.Description))
		}
	}

	if len(score.FloorsApplied) > 0 {
		sb.WriteString(fmt.Sprintf("\nFloors: %s\n", strings.Join(score.FloorsApplied, ", ")))
	}

	p.printBox("GHOST JOB SCORE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintReportedMatch outputs the result of a reported-company lookup.
func (p *Printer) PrintReportedMatch(company string, match types.ReportedMatch) {
	if !match.Detected {
		p.line("✓ %s is not on the reported list", company)
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Company:    %s\n", company))
	if match.Company != nil {
		sb.WriteString(fmt.Sprintf("Reported:   %s (%s)\n", match.Company.Name, match.Company.Category))
	}
	sb.WriteString(fmt.Sprintf("Match:      %s on %q\n", match.MatchType, match.MatchedOn))
	sb.WriteString(fmt.Sprintf("Confidence: %.2f\n", float64(match.Confidence)))
	sb.WriteString(match.Message)

	p.printBox("REPORTED COMPANY", sb.String())
}

// PrintList outputs a configured keyword or company list with its tier limit.
func (p *Printer) PrintList(name string, values []string, limit int) {
	var sb strings.Builder
	switch {
	case limit < 0:
		sb.WriteString(fmt.Sprintf("%d entries (unlimited)\n", len(values)))
	default:
		sb.WriteString(fmt.Sprintf("%d of %d entries\n", len(values), limit))
	}
	for _, v := range values {
		sb.WriteString(fmt.Sprintf("  • %s\n", v))
	}

	p.printBox(strings.ToUpper(name), strings.TrimSuffix(sb.String(), "\n"))
}

// Presenter writes the engine's hide and badge decisions as they happen.
type Presenter struct {
	printer *Printer
}

// NewPresenter returns an engine.Presenter that reports through printer.
func NewPresenter(printer *Printer) *Presenter {
	return &Presenter{printer: printer}
}

// HideJob reports a hidden posting.
func (pr *Presenter) HideJob(job types.JobPosting) {
	pr.printer.line("✗ hide %s", jobLabel(job))
}

// ApplyVisualIndicator reports the badges a posting would carry.
func (pr *Presenter) ApplyVisualIndicator(job types.JobPosting, results []types.DetectionResult) {
	labels := make([]string, 0, len(results))
	for _, r := range results {
		if r.Detected {
			labels = append(labels, fmt.Sprintf("%s %.0f%%", r.Category, float64(r.Confidence)*100))
		}
	}
	if len(labels) == 0 {
		return
	}
	pr.printer.line("◆ badge %s [%s]", jobLabel(job), strings.Join(labels, ", "))
}
