// Package main provides the jobfiltr command-line tool and HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath     string
	dbPathFlag     string
	databaseURL    string
	signalTables   string
	workersFlag    int
	verbose        bool
	jsonOutputFlag bool
)

var rootCmd = &cobra.Command{
	Use:           "jobfiltr",
	Short:         "Ghost job, staffing firm and remote-claim filtering for job postings",
	Long:          "jobfiltr analyzes job postings from saved LinkedIn and Indeed pages or JSON batches, hides ghost jobs and staffing firms, verifies remote claims and scores ghost-job risk.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "Path to JSON config file")
	pf.StringVar(&dbPathFlag, "db", "", "Local sqlite database path (\":memory:\" for a throwaway store)")
	pf.StringVar(&databaseURL, "database-url", "", "PostgreSQL community store URL (overrides DATABASE_URL)")
	pf.StringVar(&signalTables, "signal-tables", "", "YAML file overriding the built-in signal tables")
	pf.IntVar(&workersFlag, "workers", 0, "Postings analyzed concurrently")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Print each hide and badge decision")
	pf.BoolVar(&jsonOutputFlag, "json", false, "Write JSON instead of formatted output")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
