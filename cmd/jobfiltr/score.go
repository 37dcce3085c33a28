package main

import (
	"fmt"

	"github.com/jonathan/jobfiltr/internal/types"
	"github.com/spf13/cobra"
)

var (
	scorePageURL string
	scoreFetch   string
	scoreCached  string
)

var scoreCmd = &cobra.Command{
	Use:   "score [files...]",
	Short: "Compute ghost job risk scores for postings",
	Long: `Scores each posting 0-100 across temporal, content, company, behavioral,
community and structural signals. Scores are cached by job ID.

Use --cached to print a previously computed score without any input.`,
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().StringVar(&scorePageURL, "page-url", "", "URL the saved HTML pages came from")
	scoreCmd.Flags().StringVar(&scoreFetch, "url", "", "Download and score a public job page")
	scoreCmd.Flags().StringVar(&scoreCached, "cached", "", "Print the cached score for this job ID")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if scoreCached != "" {
		score, err := a.scorer.Cached(ctx, scoreCached)
		if err != nil {
			return err
		}
		if score == nil {
			return fmt.Errorf("no cached score for %s", scoreCached)
		}
		return a.printScores([]types.Score{*score})
	}

	src := postingSource{files: args, pageURL: scorePageURL, fetch: scoreFetch, stdin: cmd.InOrStdin()}
	jobs, err := src.load(ctx)
	if err != nil {
		return err
	}

	scores, err := a.scorer.ScoreBatch(ctx, jobs, a.cfg.Workers)
	if err != nil {
		return fmt.Errorf("scoring failed: %w", err)
	}
	return a.printScores(scores)
}

func (a *app) printScores(scores []types.Score) error {
	if jsonOutputFlag {
		return a.writeJSON(scores)
	}
	for _, s := range scores {
		a.printer.PrintScore(s)
	}
	return nil
}
