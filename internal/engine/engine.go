// Package engine provides the FilterEngine, which runs each posting through the
// keyword and company gates and then the ghost, staffing and remote detectors.
package engine

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/jonathan/jobfiltr/internal/detection"
	"github.com/jonathan/jobfiltr/internal/filters"
	"github.com/jonathan/jobfiltr/internal/signals"
	"github.com/jonathan/jobfiltr/internal/types"
	"golang.org/x/sync/errgroup"
)

// HideThreshold is the detector confidence above which a posting is hidden.
const HideThreshold = 0.7

// Store is the settings store the engine and its filters read from.
type Store interface {
	filters.Store
	detection.BlocklistSource
	GetSettings(ctx context.Context) (types.FilterSettings, error)
	SetProStatus(ctx context.Context, status types.ProStatus) error
}

// Options holds configuration for a FilterEngine.
type Options struct {
	Tables                *signals.Tables
	Workers               int  // postings analyzed concurrently by Process; <= 1 is sequential
	GhostApplicantSignals bool // enables the low-applicant heuristic in the ghost detector
	// Blocklist overrides the store as the staffing detector's blocklist source.
	Blocklist detection.BlocklistSource
}

// refreshable is implemented by every filter and detector that caches storage state.
type refreshable interface {
	Init(ctx context.Context) error
	Refresh(ctx context.Context) error
}

// FilterEngine owns pipeline order, settings and per-run statistics.
type FilterEngine struct {
	store     Store
	presenter Presenter
	workers   int

	include          *filters.IncludeKeywordsFilter
	excludeKeywords  *filters.ExcludeKeywordsFilter
	excludeCompanies *filters.ExcludeCompaniesFilter
	ghost            *detection.GhostJobDetector
	staffing         *detection.StaffingFirmDetector
	remote           *detection.RemoteVerifier

	settings atomic.Pointer[types.FilterSettings]

	mu        sync.Mutex
	stats     types.FilterStats
	processed map[string]struct{}
}

// New creates a FilterEngine. A nil presenter discards hide and badge calls.
func New(store Store, presenter Presenter, opts Options) *FilterEngine {
	if presenter == nil {
		presenter = NopPresenter{}
	}
	tables := opts.Tables
	if tables == nil {
		tables = signals.Default()
	}
	blocklist := opts.Blocklist
	if blocklist == nil {
		blocklist = store
	}

	e := &FilterEngine{
		store:            store,
		presenter:        presenter,
		workers:          opts.Workers,
		include:          filters.NewIncludeKeywordsFilter(store),
		excludeKeywords:  filters.NewExcludeKeywordsFilter(store),
		excludeCompanies: filters.NewExcludeCompaniesFilter(store),
		ghost:            detection.NewGhostJobDetector(tables, detection.WithApplicantSignals(opts.GhostApplicantSignals)),
		staffing:         detection.NewStaffingFirmDetector(tables, blocklist),
		remote:           detection.NewRemoteVerifier(tables),
		processed:        map[string]struct{}{},
	}
	defaults := types.DefaultSettings()
	e.settings.Store(&defaults)
	return e
}

// Init loads settings and initializes every filter and detector concurrently.
func (e *FilterEngine) Init(ctx context.Context) error {
	log.Printf("[engine] initializing filter engine")
	if err := e.load(ctx, func(r refreshable, ctx context.Context) error { return r.Init(ctx) }); err != nil {
		return err
	}
	log.Printf("[engine] filter engine ready")
	return nil
}

// Refresh reloads settings and every filter's configuration, then resets the
// statistics and the processed set so postings are evaluated again.
func (e *FilterEngine) Refresh(ctx context.Context) error {
	if err := e.load(ctx, func(r refreshable, ctx context.Context) error { return r.Refresh(ctx) }); err != nil {
		return err
	}
	e.mu.Lock()
	e.stats = types.FilterStats{}
	e.processed = map[string]struct{}{}
	e.mu.Unlock()
	return nil
}

func (e *FilterEngine) load(ctx context.Context, run func(refreshable, context.Context) error) error {
	settings, err := e.store.GetSettings(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		log.Printf("[engine] settings unavailable, using defaults: %v", err)
		settings = types.DefaultSettings()
	}
	e.settings.Store(&settings)

	g, ctx := errgroup.WithContext(ctx)
	for _, r := range []refreshable{e.staffing, e.include, e.excludeKeywords, e.excludeCompanies} {
		g.Go(func() error {
			return run(r, ctx)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to initialize filters: %w", err)
	}
	return nil
}

// SetPro records the user's tier and reloads the tier-gated filters. Statistics
// and the processed set are kept.
func (e *FilterEngine) SetPro(ctx context.Context, isPro bool) error {
	if current, err := e.store.GetProStatus(ctx); err == nil && current.IsPro == isPro {
		return nil
	}
	if err := e.store.SetProStatus(ctx, types.ProStatus{IsPro: isPro}); err != nil {
		return fmt.Errorf("failed to set pro status: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, r := range []refreshable{e.include, e.excludeKeywords, e.excludeCompanies} {
		g.Go(func() error {
			return r.Refresh(gctx)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to reload filters: %w", err)
	}

	settings := e.Settings()
	settings.IsPro = isPro
	e.settings.Store(&settings)
	log.Printf("[engine] pro status set to %t", isPro)
	return nil
}

// Settings returns the settings loaded by the last Init or Refresh.
func (e *FilterEngine) Settings() types.FilterSettings {
	return *e.settings.Load()
}

// Stats returns a copy of the counters since the last Refresh.
func (e *FilterEngine) Stats() types.FilterStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// IncludeKeywords returns the include-keywords filter, for configuration changes.
func (e *FilterEngine) IncludeKeywords() *filters.IncludeKeywordsFilter {
	return e.include
}

// ExcludeKeywords returns the exclude-keywords filter, for configuration changes.
func (e *FilterEngine) ExcludeKeywords() *filters.ExcludeKeywordsFilter {
	return e.excludeKeywords
}

// ExcludeCompanies returns the exclude-companies filter, for configuration changes.
func (e *FilterEngine) ExcludeCompanies() *filters.ExcludeCompaniesFilter {
	return e.excludeCompanies
}

// Staffing returns the staffing detector. The badge scorer shares its blocklist.
func (e *FilterEngine) Staffing() *detection.StaffingFirmDetector {
	return e.staffing
}
