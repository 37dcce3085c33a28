package scoring

import (
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/jobfiltr/internal/parsing"
	"github.com/jonathan/jobfiltr/internal/types"
)

// signal builds a known signal with its in-category weight from the tables.
func (s *Scorer) signal(id string, category types.SignalCategory, name string, value, normalized float64, confidence types.UnitConfidence, desc string) types.Signal {
	return types.Signal{
		ID:          id,
		Category:    category,
		Name:        name,
		Weight:      s.tables.SignalWeight(id),
		Value:       value,
		Normalized:  normalized,
		Confidence:  confidence,
		Known:       true,
		Description: desc,
	}
}

func (s *Scorer) temporalSignals(job types.JobPosting, days *int, now time.Time) []types.Signal {
	var out []types.Signal

	if days == nil {
		age := s.signal("posting_age", types.SignalTemporal, "Posting Age", 0, 0, 0, "Posting date unknown")
		age.Known = false
		out = append(out, age)
	} else {
		out = append(out, s.signal("posting_age", types.SignalTemporal, "Posting Age",
			float64(*days), ageRisk(*days), 0.9, fmt.Sprintf("Posted %d days ago", *days)))
	}

	if ghostPeakMonth(now.Month()) {
		out = append(out, s.signal("seasonal", types.SignalTemporal, "Seasonal Risk", 1, 0.3, 0.6, "Peak ghost job period (Q1/Q4)"))
	} else {
		out = append(out, s.signal("seasonal", types.SignalTemporal, "Seasonal Risk", 0, 0, 0.6, "Normal period"))
	}

	repost := 0.0
	desc := "No repost language"
	text := job.Title + "\n" + job.Description
	for _, p := range s.tables.Repost {
		if p.Regexp.MatchString(text) {
			repost = 1
			desc = p.Description
			break
		}
	}
	out = append(out, s.signal("repost_language", types.SignalTemporal, "Repost Language", repost, repost, 0.8, desc))

	return out
}

// ageRisk bands the posting age into a [0,1] risk.
func ageRisk(days int) float64 {
	switch {
	case days <= 7:
		return 0
	case days <= 30:
		return 0.2
	case days <= 60:
		return 0.5
	case days <= 90:
		return 0.75
	default:
		return 1
	}
}

func ghostPeakMonth(m time.Month) bool {
	switch m {
	case time.January, time.February, time.November, time.December:
		return true
	}
	return false
}

func (s *Scorer) contentSignals(job types.JobPosting) []types.Signal {
	var out []types.Signal

	vague := s.vaguenessScore(job.Description)
	vagueDesc := "Specific and detailed"
	switch {
	case vague > 0.6:
		vagueDesc = "Vague and generic description"
	case vague > 0.3:
		vagueDesc = "Some vague elements"
	}
	out = append(out, s.signal("vagueness", types.SignalContent, "Description Quality", vague, vague, 0.8, vagueDesc))

	info := parsing.ExtractSalary(job.Description)
	salary, salaryDesc := 0.0, "Salary range provided"
	switch {
	case !info.HasSalary && job.Salary == "":
		salary, salaryDesc = 0.6, "No salary information"
	case info.IsVague:
		salary, salaryDesc = 0.4, "Vague salary info"
	}
	out = append(out, s.signal("salary", types.SignalContent, "Salary Transparency", salary, salary, 0.7, salaryDesc))

	realism, realismDesc := s.requirementRisk(job.Description)
	out = append(out, s.signal("requirement_realism", types.SignalContent, "Requirement Realism", realism, realism, 0.7, realismDesc))

	buzz := s.buzzwordDensity(job.Description)
	buzzDesc := "Normal language usage"
	if buzz > 0.5 {
		buzzDesc = "Excessive buzzwords and jargon"
	}
	out = append(out, s.signal("buzzwords", types.SignalContent, "Buzzword Usage", buzz, buzz, 0.6, buzzDesc))

	words := len(strings.Fields(job.Description))
	length := descriptionLengthRisk(words)
	lengthDesc := "Adequate description length"
	if length >= 0.5 {
		lengthDesc = "Very short description"
	} else if length > 0 {
		lengthDesc = "Short description"
	}
	out = append(out, s.signal("description_length", types.SignalContent, "Description Length", float64(words), length, 0.7, lengthDesc))

	return out
}

func (s *Scorer) companySignals(job types.JobPosting, staffing types.DetectionResult) []types.Signal {
	var out []types.Signal

	if s.staffing != nil {
		if e, ok := s.staffing.Lookup(job.Company); ok {
			conf := e.Confidence
			if conf == 0 {
				conf = 0.9
				if e.Verified {
					conf = 1
				}
			}
			sig := s.signal("blacklist", types.SignalCompany, "Blacklist Check", float64(e.SubmittedCount),
				min(1, conf), types.UnitConfidence(conf), "Found on community blocklist")
			if e.SubmittedCount > 0 {
				sig.Evidence = fmt.Sprintf("%d reports", e.SubmittedCount)
			}
			out = append(out, sig)
		} else {
			out = append(out, s.signal("blacklist", types.SignalCompany, "Blacklist Check", 0, 0, 0.9, "Not on known blacklists"))
		}

		if staffing.Detected {
			sig := s.signal("staffing", types.SignalCompany, "Staffing Agency", float64(staffing.Confidence),
				float64(staffing.Confidence), 0.85, "Appears to be a staffing agency")
			sig.Evidence = strings.Join(staffing.Evidence, ", ")
			out = append(out, sig)
		} else {
			out = append(out, s.signal("staffing", types.SignalCompany, "Staffing Agency", float64(staffing.Confidence),
				0, 0.7, "Not identified as staffing agency"))
		}
	}

	if job.CompanyIndustry != "" {
		industry := strings.ToLower(job.CompanyIndustry)
		risky := false
		for _, i := range s.tables.HighRiskIndustries {
			if strings.Contains(industry, i) {
				risky = true
				break
			}
		}
		if risky {
			out = append(out, s.signal("industry", types.SignalCompany, "Industry Risk", 1, 0.4, 0.8, "High-risk industry for ghost jobs"))
		} else {
			out = append(out, s.signal("industry", types.SignalCompany, "Industry Risk", 0, 0, 0.8, "Normal industry risk level"))
		}
	}

	return out
}

func (s *Scorer) behavioralSignals(job types.JobPosting) []types.Signal {
	var out []types.Signal

	if job.IsEasyApply {
		out = append(out, s.signal("apply_method", types.SignalBehavioral, "Application Method", 0, 0, 0.6, "Easy Apply available"))
	} else {
		out = append(out, s.signal("apply_method", types.SignalBehavioral, "Application Method", 1, 0.2, 0.6, "External application required"))
	}

	if job.IsSponsored {
		out = append(out, s.signal("sponsored", types.SignalBehavioral, "Sponsored Post", 1, 0.2, 0.9, "Sponsored/promoted listing"))
	} else {
		out = append(out, s.signal("sponsored", types.SignalBehavioral, "Sponsored Post", 0, 0, 0.9, "Organic job posting"))
	}

	if job.ApplicantCount != nil {
		n := *job.ApplicantCount
		risk := 0.0
		switch {
		case n > 500:
			risk = 0.5
		case n > 200:
			risk = 0.3
		case n > 100:
			risk = 0.1
		}
		out = append(out, s.signal("applicants", types.SignalBehavioral, "Applicant Volume", float64(n), risk, 0.7,
			fmt.Sprintf("%d applicants", n)))
	}

	return out
}

func (s *Scorer) communitySignals(job types.JobPosting) []types.Signal {
	m := s.reported.Match(job.Company)
	if !m.Detected {
		return []types.Signal{s.signal("reported_company", types.SignalCommunity, "User Reports", 0, 0, 0.7, "No community reports")}
	}
	sig := s.signal("reported_company", types.SignalCommunity, "User Reports", 1, float64(m.Confidence), 0.9, m.Message)
	sig.Evidence = m.MatchedOn
	return []types.Signal{sig}
}

func (s *Scorer) structuralSignals(job types.JobPosting) []types.Signal {
	var out []types.Signal

	if desc, bad := formattingIssue(job.Title, job.Description); bad {
		out = append(out, s.signal("formatting", types.SignalStructural, "Formatting Quality", 1, 0.5, 0.6, desc))
	} else {
		out = append(out, s.signal("formatting", types.SignalStructural, "Formatting Quality", 0, 0, 0.6, "Normal formatting"))
	}

	contact, contactDesc := 0.0, "No off-platform contact requests"
	for _, p := range s.tables.ContactRedFlags {
		if p.Weight > contact && p.Regexp.MatchString(job.Description) {
			contact, contactDesc = p.Weight, p.Description
		}
	}
	out = append(out, s.signal("contact_info", types.SignalStructural, "Contact Information", contact, contact, 0.7, contactDesc))

	return out
}
