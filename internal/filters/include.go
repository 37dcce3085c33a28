package filters

import (
	"context"
	"errors"
	"log"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/jonathan/jobfiltr/internal/types"
)

// ErrInvalidMatchMode is returned by SetMatchMode for anything but "any" or "all".
var ErrInvalidMatchMode = errors.New("match mode must be \"any\" or \"all\"")

const maxMissingInReason = 3

type includeSnapshot struct {
	isPro    bool
	mode     types.MatchMode
	keywords []keyword
}

// IncludeKeywordsFilter hides postings that lack the user's required keywords.
// It is a pro feature: free users and empty lists always pass.
type IncludeKeywordsFilter struct {
	store Store
	mu    sync.Mutex
	snap  atomic.Pointer[includeSnapshot]
}

// IncludeConfig is a read-only view of the filter's current configuration.
type IncludeConfig struct {
	Keywords  []string        `json:"keywords"`
	MatchMode types.MatchMode `json:"match_mode"`
	IsPro     bool            `json:"is_pro"`
}

// NewIncludeKeywordsFilter creates a filter backed by store. Call Init before use.
func NewIncludeKeywordsFilter(store Store) *IncludeKeywordsFilter {
	f := &IncludeKeywordsFilter{store: store}
	f.snap.Store(&includeSnapshot{mode: types.MatchAny})
	return f
}

// Init loads the pro status, keywords and match mode. Storage failures fall back to defaults.
func (f *IncludeKeywordsFilter) Init(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	next := &includeSnapshot{mode: types.MatchAny}
	next.isPro = loadPro(ctx, f.store, "include-keywords")
	if next.isPro {
		next.keywords = compileKeywords(loadList(ctx, f.store, types.ListIncludeKeywords, "include-keywords"))
		mode, err := f.store.GetMatchMode(ctx)
		switch {
		case err != nil:
			logFallback("include-keywords", "match mode", err)
		case mode.Valid():
			next.mode = mode
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	f.snap.Store(next)
	log.Printf("[include-keywords] %d keywords loaded (pro=%t, mode=%s)", len(next.keywords), next.isPro, next.mode)
	return nil
}

// Refresh reloads the configuration from the store.
func (f *IncludeKeywordsFilter) Refresh(ctx context.Context) error {
	return f.Init(ctx)
}

// Analyze checks the posting's title, company, description and location.
func (f *IncludeKeywordsFilter) Analyze(job types.JobPosting) types.FilterResult {
	s := f.snap.Load()
	if !s.isPro || len(s.keywords) == 0 {
		return types.Pass()
	}

	text := searchText(job.Title, job.Company, job.Description, job.Location)
	var matched, missing []string
	for _, k := range s.keywords {
		if k.in(text) {
			matched = append(matched, k.text)
		} else {
			missing = append(missing, k.text)
		}
	}

	if s.mode == types.MatchAll {
		if len(missing) == 0 {
			res := types.Pass()
			res.MatchedKeywords = matched
			return res
		}
		shown := missing
		if len(shown) > maxMissingInReason {
			shown = shown[:maxMissingInReason]
		}
		reason := "Missing: " + strings.Join(shown, ", ")
		if len(missing) > maxMissingInReason {
			reason += "..."
		}
		res := types.Fail(reason)
		res.MatchedKeywords = matched
		res.MissingKeywords = missing
		return res
	}

	if len(matched) > 0 {
		res := types.Pass()
		res.MatchedKeywords = matched
		return res
	}
	res := types.Fail("Missing required keywords")
	res.MissingKeywords = keywordTexts(s.keywords)
	return res
}

// AddKeyword stores and activates a keyword. Adding an existing keyword is a no-op.
func (f *IncludeKeywordsFilter) AddKeyword(ctx context.Context, kw string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := f.snap.Load()
	if !s.isPro {
		return &ProRequiredError{Feature: "include keywords"}
	}
	k := compileKeyword(kw)
	if k.text == "" {
		return ErrEmptyValue
	}
	if containsKeyword(s.keywords, k.text) {
		return nil
	}
	if err := f.store.AddKeyword(ctx, types.ListIncludeKeywords, k.text); err != nil {
		return &Error{Message: "failed to add include keyword", Cause: err}
	}

	next := *s
	next.keywords = append(slices.Clone(s.keywords), k)
	f.snap.Store(&next)
	return nil
}

// RemoveKeyword removes a keyword from the store and the active list.
func (f *IncludeKeywordsFilter) RemoveKeyword(ctx context.Context, kw string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	text := normalizeKeyword(kw)
	if err := f.store.RemoveKeyword(ctx, types.ListIncludeKeywords, text); err != nil {
		return &Error{Message: "failed to remove include keyword", Cause: err}
	}

	s := f.snap.Load()
	next := *s
	next.keywords = slices.DeleteFunc(slices.Clone(s.keywords), func(k keyword) bool { return k.text == text })
	f.snap.Store(&next)
	return nil
}

// SetMatchMode switches between "any" and "all".
func (f *IncludeKeywordsFilter) SetMatchMode(ctx context.Context, mode types.MatchMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := f.snap.Load()
	if !s.isPro {
		return &ProRequiredError{Feature: "include keyword match mode"}
	}
	if !mode.Valid() {
		return ErrInvalidMatchMode
	}
	if err := f.store.SetMatchMode(ctx, mode); err != nil {
		return &Error{Message: "failed to set match mode", Cause: err}
	}

	next := *s
	next.mode = mode
	f.snap.Store(&next)
	return nil
}

// Config returns the active configuration.
func (f *IncludeKeywordsFilter) Config() IncludeConfig {
	s := f.snap.Load()
	return IncludeConfig{Keywords: keywordTexts(s.keywords), MatchMode: s.mode, IsPro: s.isPro}
}

// CanUse reports whether the user may configure include keywords.
func (f *IncludeKeywordsFilter) CanUse() bool {
	return f.snap.Load().isPro
}
