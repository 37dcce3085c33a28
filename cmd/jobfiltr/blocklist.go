package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jonathan/jobfiltr/internal/db"
	"github.com/jonathan/jobfiltr/internal/schemas"
	"github.com/jonathan/jobfiltr/internal/types"
	"github.com/spf13/cobra"
)

var (
	importRemote   bool
	reportCategory string
	reportReason   string
	reportJobID    string
)

var blocklistCmd = &cobra.Command{
	Use:   "blocklist",
	Short: "Manage the community staffing and ghost job blocklist",
}

var blocklistImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import blocklist entries from a JSON array",
	Long: `Imports entries such as [{"company_name": "Acme Staffing", "category": "spam"}]
into the local store. With --remote the entries also go to the community store.`,
	Args: cobra.ExactArgs(1),
	RunE: runBlocklistImport,
}

var blocklistListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the merged local and community blocklist",
	Args:  cobra.NoArgs,
	RunE:  runBlocklistList,
}

var blocklistReportCmd = &cobra.Command{
	Use:   "report <company>",
	Short: "Report a company to the community store",
	Args:  cobra.ExactArgs(1),
	RunE:  runBlocklistReport,
}

func init() {
	blocklistImportCmd.Flags().BoolVar(&importRemote, "remote", false, "Also import into the community store (needs DATABASE_URL)")
	blocklistReportCmd.Flags().StringVar(&reportCategory, "category", string(types.ReportGhost), "Report category: ghost, spam or scam")
	blocklistReportCmd.Flags().StringVar(&reportReason, "reason", "", "Why the company is being reported")
	blocklistReportCmd.Flags().StringVar(&reportJobID, "job-id", "", "Posting that prompted the report")

	blocklistCmd.AddCommand(blocklistImportCmd, blocklistListCmd, blocklistReportCmd)
	rootCmd.AddCommand(blocklistCmd)
}

func runBlocklistImport(cmd *cobra.Command, args []string) error {
	var data []byte
	var err error
	if args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to read blocklist: %w", err)
	}

	entries, err := schemas.ParseBlocklist(data)
	if err != nil {
		return fmt.Errorf("invalid blocklist %s: %w", args[0], err)
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if importRemote && a.remote == nil {
		return fmt.Errorf("--remote needs a reachable community store (DATABASE_URL or --database-url)")
	}

	n, err := a.local.ImportBlocklist(ctx, entries)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ imported %d entries into the local blocklist\n", n)

	if importRemote {
		n, err := a.remote.ImportBlocklist(ctx, entries)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "✓ imported %d entries into the community blocklist\n", n)
	}
	return nil
}

func runBlocklistList(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	entries, err := a.store.GetCommunityBlocklist(cmd.Context())
	if err != nil {
		return err
	}
	if jsonOutputFlag {
		return a.writeJSON(entries)
	}

	values := make([]string, len(entries))
	for i, e := range entries {
		label := e.CompanyName
		if e.Category != "" {
			label += " (" + string(e.Category) + ")"
		}
		if e.Verified {
			label += " ✓"
		}
		values[i] = label
	}
	a.printer.PrintList("community blocklist", values, -1)
	return nil
}

func runBlocklistReport(cmd *cobra.Command, args []string) error {
	report := db.Report{
		CompanyName: strings.TrimSpace(args[0]),
		Category:    types.ReportCategory(strings.ToLower(reportCategory)),
		Reason:      reportReason,
		JobID:       reportJobID,
	}
	if err := report.Validate(); err != nil {
		return fmt.Errorf("invalid report: %w", err)
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.remote == nil {
		return fmt.Errorf("reporting needs a reachable community store (DATABASE_URL or --database-url)")
	}

	rec, err := a.remote.ReportCompany(cmd.Context(), report)
	if err != nil {
		return err
	}
	a.store.Invalidate()

	if jsonOutputFlag {
		return a.writeJSON(rec)
	}
	fmt.Fprintf(a.out, "✓ reported %s as %s (%d reports, confidence %.2f)\n",
		rec.Entry.CompanyName, rec.Entry.Category, rec.Entry.SubmittedCount, rec.Entry.Confidence)
	return nil
}
