package main

import (
	"fmt"
	"slices"

	"github.com/jonathan/jobfiltr/internal/companies"
	"github.com/jonathan/jobfiltr/internal/observability"
	"github.com/jonathan/jobfiltr/internal/types"
	"github.com/spf13/cobra"
)

var reportedCmd = &cobra.Command{
	Use:   "reported",
	Short: "Look up companies on the built-in reported list",
}

var reportedCheckCmd = &cobra.Command{
	Use:   "check <company>...",
	Short: "Check whether companies have been reported",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runReportedCheck,
}

var reportedStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show reported list statistics",
	Args:  cobra.NoArgs,
	RunE:  runReportedStats,
}

func init() {
	reportedCmd.AddCommand(reportedCheckCmd, reportedStatsCmd)
	rootCmd.AddCommand(reportedCmd)
}

type reportedCheck struct {
	Company string              `json:"company"`
	Match   types.ReportedMatch `json:"match"`
}

// The reported list is compiled in, so these commands skip the stores.

func runReportedCheck(cmd *cobra.Command, args []string) error {
	m := companies.NewDefaultMatcher()
	checks := make([]reportedCheck, len(args))
	for i, name := range args {
		checks[i] = reportedCheck{Company: name, Match: m.Match(name)}
	}

	out := cmd.OutOrStdout()
	if jsonOutputFlag {
		return writeJSON(out, checks)
	}
	p := observability.NewPrinter(out)
	for _, c := range checks {
		p.PrintReportedMatch(c.Company, c.Match)
	}
	return nil
}

func runReportedStats(cmd *cobra.Command, _ []string) error {
	stats := companies.NewDefaultMatcher().Stats()
	out := cmd.OutOrStdout()
	if jsonOutputFlag {
		return writeJSON(out, stats)
	}

	cats := make([]string, 0, len(stats.Categories))
	for c := range stats.Categories {
		cats = append(cats, string(c))
	}
	slices.Sort(cats)

	fmt.Fprintf(out, "Reported companies: %d\n", stats.TotalCompanies)
	fmt.Fprintf(out, "Aliases:            %d\n", stats.TotalAliases)
	for _, c := range cats {
		fmt.Fprintf(out, "  %-16s  %d\n", c+":", stats.Categories[types.ReportCategory(c)])
	}
	return nil
}
