package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/jonathan/jobfiltr/internal/companies"
	"github.com/jonathan/jobfiltr/internal/config"
	"github.com/jonathan/jobfiltr/internal/db"
	"github.com/jonathan/jobfiltr/internal/engine"
	"github.com/jonathan/jobfiltr/internal/observability"
	"github.com/jonathan/jobfiltr/internal/scoring"
	"github.com/jonathan/jobfiltr/internal/signals"
	"github.com/jonathan/jobfiltr/internal/storage"
	"github.com/jonathan/jobfiltr/internal/storage/sqlite"
	"github.com/spf13/cobra"
)

// app is everything a command needs, wired from the resolved configuration.
type app struct {
	cfg     config.Config
	local   storage.Store
	store   *storage.HybridStore
	remote  *db.DB
	engine  *engine.FilterEngine
	scorer  *scoring.Scorer
	matcher *companies.Matcher
	printer *observability.Printer
	out     io.Writer
}

// pruner is implemented by score caches that can drop expired rows.
type pruner interface {
	PruneScores(ctx context.Context) (int64, error)
}

// resolveConfig layers defaults, the config file, the environment and flags, in that order.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Defaults()
	if configPath != "" {
		fileCfg, err := config.LoadConfig(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = fileCfg.MergeWithDefaults(cfg)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.DBPath = dbPathFlag
	}
	if flags.Changed("database-url") {
		cfg.DatabaseURL = databaseURL
	}
	if flags.Changed("signal-tables") {
		cfg.SignalTables = signalTables
	}
	if flags.Changed("workers") {
		cfg.Workers = workersFlag
	}
	if flags.Changed("verbose") {
		cfg.Verbose = verbose
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func openLocal(ctx context.Context, path string) (storage.Store, error) {
	if path == ":memory:" {
		return storage.NewMemoryStore(), nil
	}
	return sqlite.Open(ctx, path)
}

func prune(ctx context.Context, name string, cache any) {
	p, ok := cache.(pruner)
	if !ok {
		return
	}
	n, err := p.PruneScores(ctx)
	if err != nil {
		log.Printf("[cli] failed to prune %s score cache: %v", name, err)
		return
	}
	if n > 0 {
		log.Printf("[cli] pruned %d expired scores from %s cache", n, name)
	}
}

// remoteConnectTimeout bounds the community store connect and migrate at startup.
const remoteConnectTimeout = 10 * time.Second

// connectRemote opens the community store. An empty URL or an unreachable
// database returns nil and the app runs on the local store alone.
func connectRemote(ctx context.Context, databaseURL string) *db.DB {
	if databaseURL == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, remoteConnectTimeout)
	defer cancel()

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		log.Printf("[cli] community store unavailable, using local data only: %v", err)
		return nil
	}
	if err := database.Migrate(ctx); err != nil {
		database.Close()
		log.Printf("[cli] community store unavailable, using local data only: %v", err)
		return nil
	}
	return database
}

// openApp resolves configuration, opens the stores and initializes the engine.
func openApp(cmd *cobra.Command) (*app, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}

	tables, err := signals.Resolve(cfg.SignalTables)
	if err != nil {
		return nil, err
	}

	local, err := openLocal(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	prune(ctx, "local", local)

	a := &app{
		cfg:     cfg,
		local:   local,
		matcher: companies.NewDefaultMatcher(),
		out:     cmd.OutOrStdout(),
	}
	a.printer = observability.NewPrinter(a.out)

	var remote storage.RemoteBlocklist
	var cache storage.ScoreCacheStore = local
	if database := connectRemote(ctx, cfg.DatabaseURL); database != nil {
		prune(ctx, "community", database)
		a.remote = database
		remote = database
		cache = database
	}
	a.store = storage.NewHybridStore(local, remote, cfg.BlocklistCacheTTL())

	var presenter engine.Presenter
	if cfg.Verbose {
		presenter = observability.NewPresenter(a.printer)
	}
	a.engine = engine.New(a.store, presenter, engine.Options{
		Tables:                tables,
		Workers:               cfg.Workers,
		GhostApplicantSignals: cfg.GhostApplicantSignals,
	})
	if err := a.engine.Init(ctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize filter engine: %w", err)
	}

	a.scorer = scoring.NewScorer(tables, a.engine.Staffing(), a.matcher, scoring.WithCache(cache, cfg.ScoreTTL()))
	return a, nil
}

// Close releases the stores.
func (a *app) Close() {
	if a.remote != nil {
		a.remote.Close()
	}
	if err := a.local.Close(); err != nil {
		log.Printf("[cli] failed to close local store: %v", err)
	}
}

func (a *app) writeJSON(v any) error {
	return writeJSON(a.out, v)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
