// Package scoring computes the badge risk score for a posting: category-weighted
// signals, floor overrides and a confidence value, with an optional versioned cache.
//
// This is a separate algorithm from the ghost detector in package detection. The
// two use different scales and bands and are never merged.
package scoring

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"time"

	"github.com/jonathan/jobfiltr/internal/companies"
	"github.com/jonathan/jobfiltr/internal/parsing"
	"github.com/jonathan/jobfiltr/internal/signals"
	"github.com/jonathan/jobfiltr/internal/storage"
	"github.com/jonathan/jobfiltr/internal/types"
	"golang.org/x/sync/errgroup"
)

const (
	// AlgorithmVersion tags cached scores. Entries with another version are recomputed.
	AlgorithmVersion = "2.0.0"
	// DefaultCacheTTL is how long a computed score is reused.
	DefaultCacheTTL = time.Hour
)

// StaffingSource is the staffing detector and blocklist lookup used by the company signals.
type StaffingSource interface {
	Analyze(job types.JobPosting) types.DetectionResult
	Lookup(company string) (types.BlocklistEntry, bool)
}

// ReportedSource answers whether a company is on the community-reported list.
type ReportedSource interface {
	Match(company string) types.ReportedMatch
}

// Scorer computes badge scores. It is safe for concurrent use.
type Scorer struct {
	tables   *signals.Tables
	staffing StaffingSource
	reported ReportedSource
	cache    storage.ScoreCacheStore
	ttl      time.Duration
	now      func() time.Time

	vagueness []*regexp.Regexp
	buzzwords []*regexp.Regexp
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithCache stores computed scores in cache for ttl. A non-positive ttl uses DefaultCacheTTL.
func WithCache(cache storage.ScoreCacheStore, ttl time.Duration) Option {
	return func(s *Scorer) {
		if ttl <= 0 {
			ttl = DefaultCacheTTL
		}
		s.cache = cache
		s.ttl = ttl
	}
}

// WithClock replaces time.Now. The clock drives the seasonal signal and cache expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Scorer) {
		s.now = now
	}
}

// NewScorer creates a scorer. A nil tables uses the built-in tables, a nil reported
// uses the built-in registry, and a nil staffing drops the blocklist and staffing signals.
func NewScorer(tables *signals.Tables, staffing StaffingSource, reported ReportedSource, opts ...Option) *Scorer {
	if tables == nil {
		tables = signals.Default()
	}
	if reported == nil {
		reported = companies.NewDefaultMatcher()
	}
	s := &Scorer{
		tables:    tables,
		staffing:  staffing,
		reported:  reported,
		ttl:       DefaultCacheTTL,
		now:       time.Now,
		vagueness: wordPatterns(tables.VaguenessIndicators),
		buzzwords: wordPatterns(tables.Buzzwords),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Compute scores job without reading or writing the cache.
func (s *Scorer) Compute(job types.JobPosting) types.Score {
	now := s.now()

	days := job.DaysSincePosted
	if days == nil {
		days = parsing.DaysSincePosted(job.PostedDate)
	}

	var sigs []types.Signal
	sigs = append(sigs, s.temporalSignals(job, days, now)...)
	sigs = append(sigs, s.contentSignals(job)...)

	staffing := types.DetectionResult{}
	if s.staffing != nil {
		staffing = s.staffing.Analyze(job)
	}
	sigs = append(sigs, s.companySignals(job, staffing)...)
	sigs = append(sigs, s.behavioralSignals(job)...)
	sigs = append(sigs, s.communitySignals(job)...)
	sigs = append(sigs, s.structuralSignals(job)...)

	breakdown := Breakdown(sigs)
	overall := Overall(s.tables, breakdown)
	overall, applied := ApplyFloors(overall, FloorInput{
		DaysSincePosted:  days,
		ApplicantCount:   job.ApplicantCount,
		StaffingDetected: staffing.Detected,
		Reposted:         repostedPattern.MatchString(job.Title) || repostedPattern.MatchString(job.Description),
	})

	return types.Score{
		JobID:            job.ID,
		Overall:          overall,
		Confidence:       Confidence(sigs, overall),
		Category:         Band(overall),
		Breakdown:        breakdown,
		Signals:          sigs,
		FloorsApplied:    applied,
		AlgorithmVersion: AlgorithmVersion,
		ComputedAt:       now,
	}
}

// Score returns a fresh cached score for job when one exists, and otherwise computes
// and caches a new one. Cache failures are logged and never fail the call.
func (s *Scorer) Score(ctx context.Context, job types.JobPosting) (types.Score, error) {
	if err := ctx.Err(); err != nil {
		return types.Score{}, err
	}

	if s.cache != nil && job.ID != "" {
		cached, err := s.cache.GetScore(ctx, job.ID)
		if err != nil {
			log.Printf("[scoring] cache read failed for %s: %v", job.ID, err)
		} else if cached.Fresh(AlgorithmVersion, s.now()) {
			return cached.Data, nil
		}
	}

	score := s.Compute(job)

	if s.cache != nil && job.ID != "" {
		if err := s.cache.SetScore(ctx, job.ID, score, s.ttl); err != nil {
			log.Printf("[scoring] cache write failed for %s: %v", job.ID, err)
		}
	}
	return score, nil
}

// ScoreBatch scores jobs with up to workers goroutines. Results keep the input order.
func (s *Scorer) ScoreBatch(ctx context.Context, jobs []types.JobPosting, workers int) ([]types.Score, error) {
	if workers < 1 {
		workers = 1
	}
	out := make([]types.Score, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range jobs {
		g.Go(func() error {
			score, err := s.Score(ctx, jobs[i])
			if err != nil {
				return fmt.Errorf("failed to score %s: %w", jobs[i].ID, err)
			}
			out[i] = score
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Cached returns the cached score for jobID, or nil when there is no fresh entry
// for the current algorithm version.
func (s *Scorer) Cached(ctx context.Context, jobID string) (*types.Score, error) {
	if s.cache == nil {
		return nil, nil
	}
	cached, err := s.cache.GetScore(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to read cached score: %w", err)
	}
	if !cached.Fresh(AlgorithmVersion, s.now()) {
		return nil, nil
	}
	return &cached.Data, nil
}
