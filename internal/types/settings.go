package types

import (
	"github.com/go-playground/validator/v10"
)

// MatchMode controls how include keywords combine.
type MatchMode string

// Include keyword match modes.
const (
	MatchAny MatchMode = "any"
	MatchAll MatchMode = "all"
)

// Valid reports whether m is a known match mode.
func (m MatchMode) Valid() bool {
	return m == MatchAny || m == MatchAll
}

// KeywordList names one of the user's configured lists.
type KeywordList string

// Configured lists.
const (
	ListIncludeKeywords  KeywordList = "include_keywords"
	ListExcludeKeywords  KeywordList = "exclude_keywords"
	ListExcludeCompanies KeywordList = "exclude_companies"
)

// Valid reports whether l is a known list.
func (l KeywordList) Valid() bool {
	switch l {
	case ListIncludeKeywords, ListExcludeKeywords, ListExcludeCompanies:
		return true
	}
	return false
}

// FilterSettings are the user's toggles and lists, loaded at engine init and on refresh.
type FilterSettings struct {
	HideGhostJobs     bool      `json:"hide_ghost_jobs"`
	HideStaffingFirms bool      `json:"hide_staffing_firms"`
	VerifyTrueRemote  bool      `json:"verify_true_remote"`
	IncludeKeywords   []string  `json:"include_keywords"`
	ExcludeKeywords   []string  `json:"exclude_keywords"`
	ExcludeCompanies  []string  `json:"exclude_companies"`
	MatchMode         MatchMode `json:"match_mode" validate:"omitempty,oneof=any all"`
	IsPro             bool      `json:"is_pro"`
}

// DefaultSettings returns the settings used when nothing is stored or storage is unavailable.
func DefaultSettings() FilterSettings {
	return FilterSettings{
		HideGhostJobs:     true,
		HideStaffingFirms: true,
		VerifyTrueRemote:  false,
		IncludeKeywords:   []string{},
		ExcludeKeywords:   []string{},
		ExcludeCompanies:  []string{},
		MatchMode:         MatchAny,
	}
}

// Validate validates the FilterSettings using the validator.
func (s *FilterSettings) Validate() error {
	validate := validator.New()
	return validate.Struct(s)
}

// ProStatus describes the user's subscription tier.
type ProStatus struct {
	IsPro bool `json:"is_pro"`
}

// FilterStats are the aggregate counters for a run since the last refresh.
type FilterStats struct {
	TotalScanned          int `json:"total_scanned"`
	TotalFiltered         int `json:"total_filtered"`
	GhostJobsFiltered     int `json:"ghost_jobs_filtered"`
	StaffingFiltered      int `json:"staffing_filtered"`
	RemoteIssuesFiltered  int `json:"remote_issues_filtered"`
	IncludeKeywordMisses  int `json:"include_keyword_misses"`
	ExcludeKeywordMatches int `json:"exclude_keyword_matches"`
	CompaniesBlocked      int `json:"companies_blocked"`
}
