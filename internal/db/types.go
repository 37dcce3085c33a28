package db

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonathan/jobfiltr/internal/types"
)

// MaxReasonLength bounds the free-text reason on a report.
const MaxReasonLength = 500

// Report is a user's complaint about a company.
type Report struct {
	CompanyName string               `json:"company_name" validate:"required,max=200"`
	Category    types.ReportCategory `json:"category" validate:"required,oneof=ghost spam scam"`
	Reason      string               `json:"reason,omitempty" validate:"max=500"`
	JobID       string               `json:"job_id,omitempty"`
}

// Validate validates the Report using the validator.
func (r *Report) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// ReportRecord is a stored report together with the blocklist entry it updated.
type ReportRecord struct {
	ID        uuid.UUID            `json:"id"`
	Report    Report               `json:"report"`
	Entry     types.BlocklistEntry `json:"entry"`
	CreatedAt time.Time            `json:"created_at"`
}
