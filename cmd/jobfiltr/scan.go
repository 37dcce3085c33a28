package main

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jonathan/jobfiltr/internal/engine"
	"github.com/jonathan/jobfiltr/internal/types"
	"github.com/spf13/cobra"
)

var (
	scanPageURL string
	scanFetch   string
)

var scanCmd = &cobra.Command{
	Use:   "scan [files...]",
	Short: "Filter job postings and report which would be hidden",
	Long: `Runs postings through the keyword and company gates and the ghost job,
staffing firm and remote detectors.

Inputs are JSON posting batches ({"postings": [...]}) or saved LinkedIn and
Indeed search pages. Use "-" to read from stdin or --url to download a public page.`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanPageURL, "page-url", "", "URL the saved HTML pages came from")
	scanCmd.Flags().StringVar(&scanFetch, "url", "", "Download and scan a public job page")
	rootCmd.AddCommand(scanCmd)
}

// scanReport is the --json output of scan.
type scanReport struct {
	RunID    string            `json:"run_id"`
	Outcomes []scanOutcome     `json:"outcomes"`
	Stats    types.FilterStats `json:"stats"`
}

type scanOutcome struct {
	engine.Outcome
	Error string `json:"error,omitempty"`
}

func runScan(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	src := postingSource{files: args, pageURL: scanPageURL, fetch: scanFetch, stdin: cmd.InOrStdin()}
	jobs, err := src.load(ctx)
	if err != nil {
		return err
	}

	runID := uuid.New().String()
	log.Printf("[scan] run %s: %d postings", runID, len(jobs))

	outcomes, err := a.engine.Process(ctx, jobs)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	stats := a.engine.Stats()

	if jsonOutputFlag {
		report := scanReport{RunID: runID, Stats: stats, Outcomes: make([]scanOutcome, len(outcomes))}
		for i, o := range outcomes {
			report.Outcomes[i] = scanOutcome{Outcome: o, Error: o.ErrText()}
		}
		return a.writeJSON(report)
	}

	a.printer.PrintOutcomes(outcomes)
	a.printer.PrintStats(stats)
	return nil
}
