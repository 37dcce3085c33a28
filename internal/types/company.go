package types

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// ReportCategory is the complaint category of a reported or blocklisted company.
type ReportCategory string

// Report categories.
const (
	ReportGhost ReportCategory = "ghost"
	ReportSpam  ReportCategory = "spam"
	ReportScam  ReportCategory = "scam"
)

// BlocklistEntry is one company on the community blocklist.
type BlocklistEntry struct {
	CompanyName           string         `json:"company_name" validate:"required"`
	CompanyNameNormalized string         `json:"company_name_normalized"`
	Category              ReportCategory `json:"category,omitempty" validate:"omitempty,oneof=ghost spam scam"`
	Verified              bool           `json:"verified"`
	Confidence            float64        `json:"confidence,omitempty" validate:"omitempty,min=0,max=1"`
	SubmittedCount        int            `json:"submitted_count,omitempty" validate:"omitempty,min=0"`
	UpdatedAt             time.Time      `json:"updated_at,omitempty"`
}

// Validate validates the BlocklistEntry using the validator.
func (e *BlocklistEntry) Validate() error {
	validate := validator.New()
	return validate.Struct(e)
}

// ReportedCompany is an entry in the curated community-reported registry.
// Normalized and Aliases hold already-normalized names.
type ReportedCompany struct {
	Name        string         `json:"name"`
	Normalized  string         `json:"normalized"`
	Aliases     []string       `json:"aliases,omitempty"`
	Category    ReportCategory `json:"category"`
	LastUpdated string         `json:"last_updated"`
}

// MatchType describes how a reported company was matched.
type MatchType string

// Reported-company match types.
const (
	MatchExact   MatchType = "exact"
	MatchPartial MatchType = "partial"
	MatchAlias   MatchType = "alias"
	MatchNone    MatchType = "none"
)

// ReportedMatch is the result of looking a company up in the reported registry.
type ReportedMatch struct {
	Detected   bool             `json:"detected"`
	Confidence UnitConfidence   `json:"confidence"`
	MatchType  MatchType        `json:"match_type"`
	Company    *ReportedCompany `json:"company,omitempty"`
	MatchedOn  string           `json:"matched_on"`
	Message    string           `json:"message"`
}
