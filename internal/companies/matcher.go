package companies

import (
	"fmt"
	"strings"

	"github.com/jonathan/jobfiltr/internal/types"
)

// minPartialLength is the shortest string allowed to take part in a substring match.
const minPartialLength = 3

// Confidence levels for reported-company matches.
const (
	exactConfidence   types.UnitConfidence = 1.0
	aliasConfidence   types.UnitConfidence = 0.9
	partialConfidence types.UnitConfidence = 0.85
)

// Matcher answers whether a company is on the community-reported list.
// It is immutable after construction and safe for concurrent use.
type Matcher struct {
	byName map[string]*types.ReportedCompany
	list   []types.ReportedCompany
}

// MatcherStats summarizes the registry.
type MatcherStats struct {
	TotalCompanies int                          `json:"total_companies"`
	TotalAliases   int                          `json:"total_aliases"`
	Categories     map[types.ReportCategory]int `json:"categories"`
}

// NewMatcher builds a matcher over entries. When two entries share a
// normalized name or alias, the earlier one wins.
func NewMatcher(entries []types.ReportedCompany) *Matcher {
	m := &Matcher{
		byName: make(map[string]*types.ReportedCompany, len(entries)*2),
		list:   make([]types.ReportedCompany, len(entries)),
	}
	copy(m.list, entries)

	for i := range m.list {
		rc := &m.list[i]
		if rc.Normalized == "" {
			rc.Normalized = NormalizeName(rc.Name)
		}
		m.register(rc.Normalized, rc)

		aliases := make([]string, 0, len(rc.Aliases))
		for _, alias := range rc.Aliases {
			if n := NormalizeName(alias); n != "" {
				aliases = append(aliases, n)
				m.register(n, rc)
			}
		}
		rc.Aliases = aliases
	}
	return m
}

// NewDefaultMatcher builds a matcher over the built-in registry.
func NewDefaultMatcher() *Matcher {
	return NewMatcher(DefaultReported())
}

func (m *Matcher) register(key string, rc *types.ReportedCompany) {
	if key == "" {
		return
	}
	if _, exists := m.byName[key]; !exists {
		m.byName[key] = rc
	}
}

// Match looks company up by exact name or alias, then by substring against
// names, then by substring against aliases. The first hit wins.
func (m *Matcher) Match(company string) types.ReportedMatch {
	if strings.TrimSpace(company) == "" {
		return noMatch()
	}
	normalized := NormalizeName(company)
	if normalized == "" {
		return noMatch()
	}

	if rc, ok := m.byName[normalized]; ok {
		return matched(rc, types.MatchExact, exactConfidence, normalized)
	}

	for i := range m.list {
		rc := &m.list[i]
		if on, ok := partialMatch(normalized, rc.Normalized); ok {
			return matched(rc, types.MatchPartial, partialConfidence, on)
		}
	}

	for i := range m.list {
		rc := &m.list[i]
		for _, alias := range rc.Aliases {
			if on, ok := partialMatch(normalized, alias); ok {
				return matched(rc, types.MatchAlias, aliasConfidence, on)
			}
		}
	}

	return noMatch()
}

// partialMatch reports bidirectional containment where the contained string
// is at least minPartialLength long. It returns the contained string.
func partialMatch(company, candidate string) (string, bool) {
	if candidate == "" {
		return "", false
	}
	if len(candidate) >= minPartialLength && strings.Contains(company, candidate) {
		return candidate, true
	}
	if len(company) >= minPartialLength && strings.Contains(candidate, company) {
		return company, true
	}
	return "", false
}

// QuickCheck reports whether company matches a name or alias exactly.
func (m *Matcher) QuickCheck(company string) bool {
	_, ok := m.byName[NormalizeName(company)]
	return ok
}

// Stats returns registry counts.
func (m *Matcher) Stats() MatcherStats {
	stats := MatcherStats{
		TotalCompanies: len(m.list),
		TotalAliases:   len(m.byName) - len(m.list),
		Categories:     make(map[types.ReportCategory]int),
	}
	for _, rc := range m.list {
		stats.Categories[rc.Category]++
	}
	return stats
}

// CategoryMessage describes what a company in category was reported for.
func CategoryMessage(category types.ReportCategory) string {
	switch category {
	case types.ReportSpam:
		return "posting spam job listings"
	case types.ReportGhost:
		return "posting ghost jobs (jobs that may not actually exist)"
	case types.ReportScam:
		return "potentially scam job postings"
	default:
		return "questionable hiring practices"
	}
}

func matched(rc *types.ReportedCompany, matchType types.MatchType, confidence types.UnitConfidence, on string) types.ReportedMatch {
	found := *rc
	return types.ReportedMatch{
		Detected:   true,
		Confidence: confidence,
		MatchType:  matchType,
		Company:    &found,
		MatchedOn:  on,
		Message:    fmt.Sprintf("%s has been reported for %s", rc.Name, CategoryMessage(rc.Category)),
	}
}

func noMatch() types.ReportedMatch {
	return types.ReportedMatch{MatchType: types.MatchNone}
}
