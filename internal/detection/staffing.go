package detection

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"sync/atomic"

	"github.com/jonathan/jobfiltr/internal/companies"
	"github.com/jonathan/jobfiltr/internal/signals"
	"github.com/jonathan/jobfiltr/internal/types"
)

const (
	staffingDetectedAt        = 0.7
	staffingMaxConfidence     = 0.95
	staffingBonusPerSignal    = 0.1
	staffingMaxBonus          = 0.3
	staffingNameConfidence    = 0.75
	staffingLangConfidence    = 0.7
	knownAgencyConfidence     = 0.9
	blocklistConfidence       = 0.95
	unverifiedBlocklistWeight = 0.9
	verifiedBlocklistWeight   = 1.0
)

// BlocklistSource supplies the community blocklist.
type BlocklistSource interface {
	GetCommunityBlocklist(ctx context.Context) ([]types.BlocklistEntry, error)
}

// blocklistIndex is an immutable normalized-name lookup. It is replaced, never edited.
type blocklistIndex struct {
	byName map[string]types.BlocklistEntry
}

// StaffingFirmDetector scores how likely a posting was placed by a staffing or recruiting firm.
type StaffingFirmDetector struct {
	tables        *signals.Tables
	source        BlocklistSource
	index         atomic.Pointer[blocklistIndex]
	knownAgencies []string
}

// StaffingStats reports the size of the loaded blocklist.
type StaffingStats struct {
	Total int `json:"total"`
}

// NewStaffingFirmDetector creates a detector. source may be nil, in which case only
// name and language signals are used.
func NewStaffingFirmDetector(tables *signals.Tables, source BlocklistSource) *StaffingFirmDetector {
	if tables == nil {
		tables = signals.Default()
	}
	d := &StaffingFirmDetector{tables: tables, source: source}
	for _, agency := range tables.KnownAgencies {
		if n := companies.NormalizeName(agency); n != "" {
			d.knownAgencies = append(d.knownAgencies, n)
		}
	}
	d.index.Store(&blocklistIndex{byName: map[string]types.BlocklistEntry{}})
	return d
}

// Init loads the community blocklist and publishes a fresh lookup map.
// Storage failures keep the previously published map.
func (d *StaffingFirmDetector) Init(ctx context.Context) error {
	if d.source == nil {
		return nil
	}
	entries, err := d.source.GetCommunityBlocklist(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		log.Printf("[staffing] blocklist unavailable, keeping %d cached entries: %v", d.Stats().Total, err)
		return nil
	}

	next := &blocklistIndex{byName: make(map[string]types.BlocklistEntry, len(entries))}
	for _, e := range entries {
		key := e.CompanyNameNormalized
		if key == "" {
			key = companies.NormalizeName(e.CompanyName)
		}
		if key == "" {
			continue
		}
		next.byName[key] = e
	}
	d.index.Store(next)
	log.Printf("[staffing] staffing detector: %d companies loaded", len(next.byName))
	return nil
}

// Refresh rebuilds the blocklist map from the source.
func (d *StaffingFirmDetector) Refresh(ctx context.Context) error {
	return d.Init(ctx)
}

// Lookup returns the blocklist entry for a company, if any.
func (d *StaffingFirmDetector) Lookup(company string) (types.BlocklistEntry, bool) {
	e, ok := d.index.Load().byName[companies.NormalizeName(company)]
	return e, ok
}

// Stats returns the number of blocklisted companies currently loaded.
func (d *StaffingFirmDetector) Stats() StaffingStats {
	return StaffingStats{Total: len(d.index.Load().byName)}
}

// Analyze scores a single posting.
func (d *StaffingFirmDetector) Analyze(job types.JobPosting) types.DetectionResult {
	var hits []hit

	normalized := job.CompanyNormalized
	if normalized == "" {
		normalized = companies.NormalizeName(job.Company)
	}

	var blocked *types.BlocklistEntry
	if normalized != "" {
		if e, ok := d.index.Load().byName[normalized]; ok {
			blocked = &e
			w := unverifiedBlocklistWeight
			if e.Verified {
				w = verifiedBlocklistWeight
			}
			hits = append(hits, hit{kind: "blocklist", desc: e.CompanyName, weight: w})
		}
	}

	for _, re := range d.tables.StaffingNames {
		if m := re.FindString(job.Company); m != "" {
			hits = append(hits, hit{kind: "name_pattern", desc: m, weight: staffingNameConfidence})
			break
		}
	}

	padded := " " + normalized + " "
	for _, agency := range d.knownAgencies {
		if normalized != "" && strings.Contains(padded, " "+agency+" ") {
			hits = append(hits, hit{kind: "known_agency", desc: "Known agency: " + agency, weight: knownAgencyConfidence})
			break
		}
	}

	desc := strings.ToLower(job.Description)
	for _, re := range d.tables.StaffingLanguage {
		if m := re.FindString(desc); m != "" {
			hits = append(hits, hit{kind: "language", desc: m, weight: staffingLangConfidence})
		}
	}
	for _, p := range d.tables.StaffingPhrases {
		if strings.Contains(desc, p.Text) {
			hits = append(hits, hit{kind: "phrase", desc: p.Text, weight: p.Weight})
		}
	}

	confidence := staffingConfidence(hits, blocked)

	return types.DetectionResult{
		Detected:   confidence >= staffingDetectedAt,
		Confidence: confidence,
		Category:   types.CategoryStaffing,
		Message:    staffingMessage(confidence, blocked),
		Evidence:   evidence(hits),
	}
}

// staffingConfidence lets the strongest signal dominate, adding a small capped
// bonus per corroborating signal. A blocklist hit overrides the formula.
func staffingConfidence(hits []hit, blocked *types.BlocklistEntry) types.UnitConfidence {
	if blocked != nil {
		if blocked.Verified {
			return verifiedBlocklistWeight
		}
		return blocklistConfidence
	}
	if len(hits) == 0 {
		return 0
	}
	strongest := 0.0
	for _, h := range hits {
		strongest = math.Max(strongest, h.weight)
	}
	bonus := math.Min(staffingBonusPerSignal*float64(len(hits)), staffingMaxBonus)
	return roundConfidence(math.Min(staffingMaxConfidence, strongest+bonus))
}

func staffingMessage(confidence types.UnitConfidence, blocked *types.BlocklistEntry) string {
	switch {
	case blocked != nil:
		return fmt.Sprintf("Known staffing: %s", blocked.CompanyName)
	case confidence >= 0.8:
		return "Strong staffing indicators"
	case confidence >= 0.6:
		return "Likely staffing agency"
	default:
		return "No staffing indicators"
	}
}
