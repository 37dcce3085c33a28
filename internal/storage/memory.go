package storage

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/jonathan/jobfiltr/internal/types"
)

// MemoryStore is a process-local Store. It is used by tests and when no
// database path is configured.
type MemoryStore struct {
	mu        sync.RWMutex
	settings  types.FilterSettings
	pro       bool
	lists     map[types.KeywordList][]string
	blocklist []types.BlocklistEntry
	scores    map[string]types.CachedScore
	now       func() time.Time
}

// NewMemoryStore creates an empty store with default settings.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		settings: toggles(types.DefaultSettings()),
		lists:    map[types.KeywordList][]string{},
		scores:   map[string]types.CachedScore{},
		now:      time.Now,
	}
}

func (m *MemoryStore) GetSettings(_ context.Context) (types.FilterSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := m.settings
	s.IsPro = m.pro
	s.IncludeKeywords = slices.Clone(m.lists[types.ListIncludeKeywords])
	s.ExcludeKeywords = slices.Clone(m.lists[types.ListExcludeKeywords])
	s.ExcludeCompanies = slices.Clone(m.lists[types.ListExcludeCompanies])
	for _, l := range []*[]string{&s.IncludeKeywords, &s.ExcludeKeywords, &s.ExcludeCompanies} {
		if *l == nil {
			*l = []string{}
		}
	}
	return s, nil
}

func (m *MemoryStore) UpdateSettings(_ context.Context, settings types.FilterSettings) error {
	if err := settings.Validate(); err != nil {
		return &StoreError{Op: "update settings", Cause: err}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	mode := m.settings.MatchMode
	m.settings = toggles(settings)
	if settings.MatchMode == "" {
		m.settings.MatchMode = mode
	}
	return nil
}

func (m *MemoryStore) GetProStatus(_ context.Context) (types.ProStatus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return types.ProStatus{IsPro: m.pro}, nil
}

func (m *MemoryStore) SetProStatus(_ context.Context, status types.ProStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pro = status.IsPro
	return nil
}

func (m *MemoryStore) GetKeywords(_ context.Context, list types.KeywordList) ([]string, error) {
	if !list.Valid() {
		return nil, ErrUnknownList
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := slices.Clone(m.lists[list])
	if out == nil {
		out = []string{}
	}
	return out, nil
}

// AddKeyword appends value to list. Blank values and exact duplicates are ignored.
func (m *MemoryStore) AddKeyword(_ context.Context, list types.KeywordList, value string) error {
	if !list.Valid() {
		return ErrUnknownList
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if slices.Contains(m.lists[list], value) {
		return nil
	}
	m.lists[list] = append(m.lists[list], value)
	return nil
}

func (m *MemoryStore) RemoveKeyword(_ context.Context, list types.KeywordList, value string) error {
	if !list.Valid() {
		return ErrUnknownList
	}
	value = strings.TrimSpace(value)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists[list] = slices.DeleteFunc(m.lists[list], func(v string) bool { return v == value })
	return nil
}

func (m *MemoryStore) GetMatchMode(_ context.Context) (types.MatchMode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings.MatchMode, nil
}

func (m *MemoryStore) SetMatchMode(_ context.Context, mode types.MatchMode) error {
	if !mode.Valid() {
		return &StoreError{Op: "set match mode", Cause: errInvalidMode(mode)}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings.MatchMode = mode
	return nil
}

func (m *MemoryStore) GetCommunityBlocklist(_ context.Context) ([]types.BlocklistEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.blocklist), nil
}

// ImportBlocklist upserts entries by normalized name and returns how many were stored.
func (m *MemoryStore) ImportBlocklist(_ context.Context, entries []types.BlocklistEntry) (int, error) {
	prepared, err := PrepareBlocklist(entries, m.now())
	if err != nil {
		return 0, &StoreError{Op: "import blocklist", Cause: err}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blocklist = MergeBlocklists(m.blocklist, prepared)
	return len(prepared), nil
}

// GetScore returns the cached score, dropping it once expired.
func (m *MemoryStore) GetScore(_ context.Context, jobID string) (*types.CachedScore, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.scores[jobID]
	if !ok {
		return nil, nil
	}
	if !c.ExpiresAt.After(m.now()) {
		delete(m.scores, jobID)
		return nil, nil
	}
	return &c, nil
}

// SetScore stores score under jobID. The last write wins.
func (m *MemoryStore) SetScore(_ context.Context, jobID string, score types.Score, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scores[jobID] = types.CachedScore{
		Data:      score,
		ExpiresAt: m.now().Add(ttl),
		Version:   score.AlgorithmVersion,
	}
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}
