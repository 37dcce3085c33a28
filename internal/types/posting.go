// Package types provides type definitions for structured data used throughout the jobfiltr system.
package types

import (
	"github.com/go-playground/validator/v10"
)

// Platform identifies the job board a posting was extracted from.
type Platform string

// Supported platforms.
const (
	PlatformLinkedIn Platform = "linkedin"
	PlatformIndeed   Platform = "indeed"
	PlatformOther    Platform = "other"
)

// RemoteType is the derived classification of a posting's remote claim.
type RemoteType string

// Remote classifications set by the remote verifier.
const (
	RemoteTypeTrueRemote RemoteType = "true_remote"
	RemoteTypeHybrid     RemoteType = "hybrid"
	RemoteTypeOnsite     RemoteType = "onsite"
	RemoteTypeUnclear    RemoteType = "unclear"
)

// JobPosting is a single posting as delivered by the extraction layer.
//
// DaysSincePosted is nil when the posted date could not be parsed; it is never
// defaulted to zero. RemoteType is the only field written after construction.
type JobPosting struct {
	ID                string     `json:"id" validate:"required"`
	Platform          Platform   `json:"platform" validate:"omitempty,oneof=linkedin indeed other"`
	URL               string     `json:"url,omitempty" validate:"omitempty,url"`
	Title             string     `json:"title"`
	Company           string     `json:"company"`
	CompanyNormalized string     `json:"company_normalized,omitempty"`
	CompanyIndustry   string     `json:"company_industry,omitempty"`
	Location          string     `json:"location,omitempty"`
	PostedDate        string     `json:"posted_date,omitempty"`
	DaysSincePosted   *int       `json:"days_since_posted,omitempty" validate:"omitempty,min=0"`
	Description       string     `json:"description"`
	Salary            string     `json:"salary,omitempty"`
	ApplicantCount    *int       `json:"applicant_count,omitempty" validate:"omitempty,min=0"`
	IsRemote          bool       `json:"is_remote"`
	IsEasyApply       bool       `json:"is_easy_apply"`
	IsSponsored       bool       `json:"is_sponsored"`
	RemoteType        RemoteType `json:"remote_type,omitempty"`
}

// Validate validates the JobPosting using the validator.
func (p *JobPosting) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}

// PostingBatch is the on-disk and over-the-wire envelope for a list of postings.
type PostingBatch struct {
	Postings []JobPosting `json:"postings" validate:"dive"`
}

// Validate validates every posting in the batch.
func (b *PostingBatch) Validate() error {
	validate := validator.New()
	return validate.Struct(b)
}

// IntPtr returns a pointer to v. Handy for optional numeric fields.
func IntPtr(v int) *int {
	return &v
}
