package filters

import (
	"context"
	"log"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/jonathan/jobfiltr/internal/companies"
	"github.com/jonathan/jobfiltr/internal/types"
)

// FreeExcludeCompanyLimit is the number of companies a free user may block.
const FreeExcludeCompanyLimit = 1

type blockedCompany struct {
	raw        string
	normalized string
}

type companySnapshot struct {
	isPro     bool
	companies []blockedCompany
}

// ExcludeCompaniesFilter hides postings from companies the user has blocked.
type ExcludeCompaniesFilter struct {
	store Store
	mu    sync.Mutex
	snap  atomic.Pointer[companySnapshot]
}

// NewExcludeCompaniesFilter creates a filter backed by store. Call Init before use.
func NewExcludeCompaniesFilter(store Store) *ExcludeCompaniesFilter {
	f := &ExcludeCompaniesFilter{store: store}
	f.snap.Store(&companySnapshot{})
	return f
}

// Init loads the pro status and the blocked company list.
func (f *ExcludeCompaniesFilter) Init(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	next := &companySnapshot{isPro: loadPro(ctx, f.store, "exclude-companies")}
	for _, raw := range loadList(ctx, f.store, types.ListExcludeCompanies, "exclude-companies") {
		n := companies.NormalizeName(raw)
		if n == "" || next.has(n) {
			continue
		}
		next.companies = append(next.companies, blockedCompany{raw: raw, normalized: n})
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	f.snap.Store(next)
	log.Printf("[exclude-companies] %d companies loaded", len(next.companies))
	return nil
}

// Refresh reloads the configuration from the store.
func (f *ExcludeCompaniesFilter) Refresh(ctx context.Context) error {
	return f.Init(ctx)
}

// Analyze blocks the posting when its normalized company contains a blocked
// name or is contained by one. Postings without a usable company name pass.
func (f *ExcludeCompaniesFilter) Analyze(job types.JobPosting) types.FilterResult {
	s := f.snap.Load()
	if len(s.companies) == 0 {
		return types.Pass()
	}

	normalized := job.CompanyNormalized
	if normalized == "" {
		normalized = companies.NormalizeName(job.Company)
	}
	if normalized == "" {
		return types.Pass()
	}

	for _, c := range s.companies {
		if strings.Contains(normalized, c.normalized) || strings.Contains(c.normalized, normalized) {
			res := types.Fail("Blocked company: " + job.Company)
			res.BlockedCompany = job.Company
			return res
		}
	}
	return types.Pass()
}

// AddCompany blocks a company, enforcing the free-tier limit.
func (f *ExcludeCompaniesFilter) AddCompany(ctx context.Context, company string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := f.snap.Load()
	raw := strings.TrimSpace(company)
	n := companies.NormalizeName(raw)
	if n == "" {
		return ErrEmptyValue
	}
	if s.has(n) {
		return nil
	}
	if !s.isPro && len(s.companies) >= FreeExcludeCompanyLimit {
		return &TierLimitError{Feature: "company block", Limit: FreeExcludeCompanyLimit}
	}
	if err := f.store.AddKeyword(ctx, types.ListExcludeCompanies, raw); err != nil {
		return &Error{Message: "failed to add blocked company", Cause: err}
	}

	next := *s
	next.companies = append(slices.Clone(s.companies), blockedCompany{raw: raw, normalized: n})
	f.snap.Store(&next)
	return nil
}

// RemoveCompany unblocks every stored spelling that normalizes to the same name.
func (f *ExcludeCompaniesFilter) RemoveCompany(ctx context.Context, company string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := f.snap.Load()
	n := companies.NormalizeName(company)
	removed := false
	for _, c := range s.companies {
		if c.normalized != n {
			continue
		}
		if err := f.store.RemoveKeyword(ctx, types.ListExcludeCompanies, c.raw); err != nil {
			return &Error{Message: "failed to remove blocked company", Cause: err}
		}
		removed = true
	}
	if !removed {
		if err := f.store.RemoveKeyword(ctx, types.ListExcludeCompanies, strings.TrimSpace(company)); err != nil {
			return &Error{Message: "failed to remove blocked company", Cause: err}
		}
	}

	next := *s
	next.companies = slices.DeleteFunc(slices.Clone(s.companies), func(c blockedCompany) bool { return c.normalized == n })
	f.snap.Store(&next)
	return nil
}

// Count returns the number of blocked companies.
func (f *ExcludeCompaniesFilter) Count() int {
	return len(f.snap.Load().companies)
}

// Limit returns the company limit for the user's tier, or Unlimited.
func (f *ExcludeCompaniesFilter) Limit() int {
	if f.snap.Load().isPro {
		return Unlimited
	}
	return FreeExcludeCompanyLimit
}

// Config returns the blocked companies as originally entered.
func (f *ExcludeCompaniesFilter) Config() ListConfig {
	s := f.snap.Load()
	values := make([]string, len(s.companies))
	for i, c := range s.companies {
		values[i] = c.raw
	}
	return ListConfig{Values: values, IsPro: s.isPro, Limit: f.Limit()}
}

func (s *companySnapshot) has(normalized string) bool {
	for _, c := range s.companies {
		if c.normalized == normalized {
			return true
		}
	}
	return false
}
