package main

import (
	"github.com/jonathan/jobfiltr/internal/config"
	"github.com/jonathan/jobfiltr/internal/server"
	"github.com/spf13/cobra"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Starts the HTTP API for posting analysis, scores, filter settings and
community reports.

Set JWT_SECRET to require a bearer token on settings changes. Community
reports need DATABASE_URL.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (default from config or PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	jwtCfg, err := config.OptionalJWTConfig()
	if err != nil {
		return err
	}

	port := a.cfg.Port
	if cmd.Flags().Changed("port") {
		port = servePort
	}

	cfg := server.Config{
		Port:      port,
		Engine:    a.engine,
		Scorer:    a.scorer,
		Matcher:   a.matcher,
		Blocklist: a.store,
		JWT:       jwtCfg,
		Workers:   a.cfg.Workers,
	}
	if a.remote != nil {
		cfg.Reports = a.remote
	}

	srv, err := server.New(cfg)
	if err != nil {
		return err
	}
	return srv.Start(cmd.Context())
}
