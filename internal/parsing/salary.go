package parsing

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	vagueSalaryPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)competitive (salary|compensation|pay)`),
		regexp.MustCompile(`(?i)salary:?\s*(doe|dbo|commensurate|negotiable)`),
	}
	dollarRangePattern = regexp.MustCompile(`\$([\d,]+)\s*(?:-|–|to)+\s*\$?([\d,]+)`)
	kRangePattern      = regexp.MustCompile(`(?i)(\d+)k\s*(?:-|–|to)+\s*(\d+)k`)
	hourlyPattern      = regexp.MustCompile(`(?i)\$([\d.]+)\s*(?:-|–|to)+\s*\$?([\d.]+)\s*(per\s*hour|/hr|hourly)`)
	kAmountPattern     = regexp.MustCompile(`(?i)\d+k`)
	applicantsPattern  = regexp.MustCompile(`(\d[\d,]*)`)
)

// SalaryInfo describes the salary information found in a block of text.
type SalaryInfo struct {
	HasSalary bool
	IsVague   bool
	Min       int
	Max       int
}

// ExtractSalary looks for an explicit salary range and vague salary wording.
// Hourly ranges are annualized at 40 hours for 52 weeks.
func ExtractSalary(text string) SalaryInfo {
	var info SalaryInfo

	for _, p := range vagueSalaryPatterns {
		if p.MatchString(text) {
			info.IsVague = true
			break
		}
	}

	if m := hourlyPattern.FindStringSubmatch(text); m != nil {
		lo, _ := strconv.ParseFloat(m[1], 64)
		hi, _ := strconv.ParseFloat(m[2], 64)
		info.HasSalary = true
		info.Min = int(lo * 40 * 52)
		info.Max = int(hi * 40 * 52)
		return info
	}
	if m := dollarRangePattern.FindStringSubmatch(text); m != nil {
		info.HasSalary = true
		info.Min = atoiCommas(m[1])
		info.Max = atoiCommas(m[2])
		return info
	}
	if m := kRangePattern.FindStringSubmatch(text); m != nil {
		lo, _ := strconv.Atoi(m[1])
		hi, _ := strconv.Atoi(m[2])
		info.HasSalary = true
		info.Min = lo * 1000
		info.Max = hi * 1000
	}
	return info
}

// MentionsPay reports whether text contains a dollar sign or an "Nk" amount.
func MentionsPay(text string) bool {
	return strings.Contains(text, "$") || kAmountPattern.MatchString(text)
}

// ApplicantCount parses the first number out of strings like "over 200 applicants"
// or "1,204 applicants". It returns nil when no number is present or it overflows.
func ApplicantCount(text string) *int {
	m := applicantsPattern.FindString(text)
	if m == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m, ",", ""))
	if err != nil {
		return nil
	}
	return &n
}

func atoiCommas(s string) int {
	n, err := strconv.Atoi(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return 0
	}
	return n
}
