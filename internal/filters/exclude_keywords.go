package filters

import (
	"context"
	"log"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/jonathan/jobfiltr/internal/types"
)

// FreeExcludeKeywordLimit is the number of exclude keywords a free user may keep.
const FreeExcludeKeywordLimit = 3

type excludeSnapshot struct {
	isPro    bool
	keywords []keyword
}

// ExcludeKeywordsFilter hides postings whose title, company or description
// contains any of the user's blocked keywords.
type ExcludeKeywordsFilter struct {
	store Store
	mu    sync.Mutex
	snap  atomic.Pointer[excludeSnapshot]
}

// ListConfig is a read-only view of a tier-limited list.
type ListConfig struct {
	Values []string `json:"values"`
	IsPro  bool     `json:"is_pro"`
	Limit  int      `json:"limit"`
}

// NewExcludeKeywordsFilter creates a filter backed by store. Call Init before use.
func NewExcludeKeywordsFilter(store Store) *ExcludeKeywordsFilter {
	f := &ExcludeKeywordsFilter{store: store}
	f.snap.Store(&excludeSnapshot{})
	return f
}

// Init loads the pro status and keyword list. Storage failures fall back to an empty free list.
func (f *ExcludeKeywordsFilter) Init(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	next := &excludeSnapshot{
		isPro:    loadPro(ctx, f.store, "exclude-keywords"),
		keywords: compileKeywords(loadList(ctx, f.store, types.ListExcludeKeywords, "exclude-keywords")),
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	f.snap.Store(next)
	log.Printf("[exclude-keywords] %d keywords loaded", len(next.keywords))
	return nil
}

// Refresh reloads the configuration from the store.
func (f *ExcludeKeywordsFilter) Refresh(ctx context.Context) error {
	return f.Init(ctx)
}

// Analyze fails on the first keyword found; it does not look for further matches.
func (f *ExcludeKeywordsFilter) Analyze(job types.JobPosting) types.FilterResult {
	s := f.snap.Load()
	if len(s.keywords) == 0 {
		return types.Pass()
	}

	text := searchText(job.Title, job.Company, job.Description)
	for _, k := range s.keywords {
		if k.in(text) {
			res := types.Fail("Contains: " + k.text)
			res.MatchedKeywords = []string{k.text}
			return res
		}
	}
	return types.Pass()
}

// AddKeyword stores and activates a keyword, enforcing the free-tier limit.
func (f *ExcludeKeywordsFilter) AddKeyword(ctx context.Context, kw string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := f.snap.Load()
	k := compileKeyword(kw)
	if k.text == "" {
		return ErrEmptyValue
	}
	if containsKeyword(s.keywords, k.text) {
		return nil
	}
	if !s.isPro && len(s.keywords) >= FreeExcludeKeywordLimit {
		return &TierLimitError{Feature: "exclude keywords", Limit: FreeExcludeKeywordLimit}
	}
	if err := f.store.AddKeyword(ctx, types.ListExcludeKeywords, k.text); err != nil {
		return &Error{Message: "failed to add exclude keyword", Cause: err}
	}

	next := *s
	next.keywords = append(slices.Clone(s.keywords), k)
	f.snap.Store(&next)
	return nil
}

// RemoveKeyword removes a keyword from the store and the active list.
func (f *ExcludeKeywordsFilter) RemoveKeyword(ctx context.Context, kw string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	text := normalizeKeyword(kw)
	if err := f.store.RemoveKeyword(ctx, types.ListExcludeKeywords, text); err != nil {
		return &Error{Message: "failed to remove exclude keyword", Cause: err}
	}

	s := f.snap.Load()
	next := *s
	next.keywords = slices.DeleteFunc(slices.Clone(s.keywords), func(k keyword) bool { return k.text == text })
	f.snap.Store(&next)
	return nil
}

// Count returns the number of active keywords.
func (f *ExcludeKeywordsFilter) Count() int {
	return len(f.snap.Load().keywords)
}

// Limit returns the keyword limit for the user's tier, or Unlimited.
func (f *ExcludeKeywordsFilter) Limit() int {
	if f.snap.Load().isPro {
		return Unlimited
	}
	return FreeExcludeKeywordLimit
}

// Config returns the active configuration.
func (f *ExcludeKeywordsFilter) Config() ListConfig {
	s := f.snap.Load()
	return ListConfig{Values: keywordTexts(s.keywords), IsPro: s.isPro, Limit: f.Limit()}
}
