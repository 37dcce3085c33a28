// Package storage defines the settings and score-cache stores the filter
// engine depends on, with an in-memory implementation and a hybrid store that
// layers a remote community blocklist over a local store.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonathan/jobfiltr/internal/companies"
	"github.com/jonathan/jobfiltr/internal/types"
)

// ErrUnknownList is returned for a KeywordList that is not one of the known lists.
var ErrUnknownList = errors.New("unknown list")

// SettingsStore holds the user's toggles, lists, tier and the community blocklist.
type SettingsStore interface {
	GetSettings(ctx context.Context) (types.FilterSettings, error)
	UpdateSettings(ctx context.Context, settings types.FilterSettings) error
	GetProStatus(ctx context.Context) (types.ProStatus, error)
	SetProStatus(ctx context.Context, status types.ProStatus) error
	GetKeywords(ctx context.Context, list types.KeywordList) ([]string, error)
	AddKeyword(ctx context.Context, list types.KeywordList, value string) error
	RemoveKeyword(ctx context.Context, list types.KeywordList, value string) error
	GetMatchMode(ctx context.Context) (types.MatchMode, error)
	SetMatchMode(ctx context.Context, mode types.MatchMode) error
	GetCommunityBlocklist(ctx context.Context) ([]types.BlocklistEntry, error)
}

// ScoreCacheStore caches badge scores by job ID. GetScore returns nil, nil on a miss.
type ScoreCacheStore interface {
	GetScore(ctx context.Context, jobID string) (*types.CachedScore, error)
	SetScore(ctx context.Context, jobID string, score types.Score, ttl time.Duration) error
}

// Store is a complete local store.
type Store interface {
	SettingsStore
	ScoreCacheStore
	ImportBlocklist(ctx context.Context, entries []types.BlocklistEntry) (int, error)
	Close() error
}

// StoreError wraps a failed storage operation.
type StoreError struct {
	Op    string
	Cause error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Cause)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}

// toggles keeps the fields UpdateSettings persists. Lists and the pro flag
// have their own methods.
func toggles(s types.FilterSettings) types.FilterSettings {
	mode := s.MatchMode
	if !mode.Valid() {
		mode = types.MatchAny
	}
	return types.FilterSettings{
		HideGhostJobs:     s.HideGhostJobs,
		HideStaffingFirms: s.HideStaffingFirms,
		VerifyTrueRemote:  s.VerifyTrueRemote,
		MatchMode:         mode,
	}
}

// PrepareBlocklist validates entries and fills in normalized names.
// Entries that normalize to an empty name are dropped.
func PrepareBlocklist(entries []types.BlocklistEntry, now time.Time) ([]types.BlocklistEntry, error) {
	out := make([]types.BlocklistEntry, 0, len(entries))
	for i := range entries {
		e := entries[i]
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("invalid blocklist entry %d (%q): %w", i, e.CompanyName, err)
		}
		if e.CompanyNameNormalized == "" {
			e.CompanyNameNormalized = companies.NormalizeName(e.CompanyName)
		}
		if e.CompanyNameNormalized == "" {
			continue
		}
		if e.UpdatedAt.IsZero() {
			e.UpdatedAt = now
		}
		out = append(out, e)
	}
	return out, nil
}

// MergeBlocklists combines blocklists by normalized name. Later lists win.
func MergeBlocklists(lists ...[]types.BlocklistEntry) []types.BlocklistEntry {
	index := map[string]int{}
	var out []types.BlocklistEntry
	for _, list := range lists {
		for _, e := range list {
			key := e.CompanyNameNormalized
			if key == "" {
				key = companies.NormalizeName(e.CompanyName)
			}
			if key == "" {
				continue
			}
			if i, ok := index[key]; ok {
				out[i] = e
				continue
			}
			index[key] = len(out)
			out = append(out, e)
		}
	}
	return out
}

func errInvalidMode(mode types.MatchMode) error {
	return fmt.Errorf("invalid match mode %q", mode)
}
