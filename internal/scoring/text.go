package scoring

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

const (
	minDescriptionWords  = 40
	maxBuzzwordPercent   = 15.0
	maxLegitimacyBonus   = 0.5
	legitimacyBonusEach  = 0.1
	unrealisticYears     = 10
	unrealisticYearsRisk = 0.7
)

var (
	repostedPattern = regexp.MustCompile(`(?i)\bre-?posted\b`)
	yearsPattern    = regexp.MustCompile(`(?i)(\d+)\+?\s*years?\s*(?:of\s*)?(?:experience|exp)`)
	punctuationRun  = regexp.MustCompile(`[!?$]{3,}`)
)

func wordPatterns(words []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		out = append(out, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(w)+`\b`))
	}
	return out
}

func countMatches(patterns []*regexp.Regexp, text string) int {
	n := 0
	for _, p := range patterns {
		n += len(p.FindAllStringIndex(text, -1))
	}
	return n
}

// vaguenessScore is the rate of vague phrases per hundred words, reduced by up to 0.5
// for concrete details such as a named manager or benefits. Higher is vaguer.
func (s *Scorer) vaguenessScore(text string) float64 {
	words := len(strings.Fields(text))
	vague := countMatches(s.vagueness, text)

	lower := strings.ToLower(text)
	legit := 0
	for _, ind := range s.tables.LegitimacyIndicators {
		if strings.Contains(lower, ind) {
			legit++
		}
	}

	ratio := float64(vague) / math.Max(float64(words)/100, 1)
	bonus := math.Min(float64(legit)*legitimacyBonusEach, maxLegitimacyBonus)
	return clamp01(ratio - bonus)
}

// buzzwordDensity reaches 1 when buzzwords make up maxBuzzwordPercent of the words.
func (s *Scorer) buzzwordDensity(text string) float64 {
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}
	pct := float64(countMatches(s.buzzwords, text)) / float64(words) * 100
	return math.Min(1, pct/maxBuzzwordPercent)
}

func descriptionLengthRisk(words int) float64 {
	switch {
	case words >= minDescriptionWords*2:
		return 0
	case words >= minDescriptionWords:
		return 0.2
	case words >= minDescriptionWords/2:
		return 0.5
	default:
		return 0.8
	}
}

// requirementRisk takes the strongest excessive-requirement pattern, falling back to
// a plain years-of-experience check.
func (s *Scorer) requirementRisk(text string) (float64, string) {
	risk, desc := 0.0, "Realistic requirements"
	for _, p := range s.tables.ExcessiveRequirements {
		if p.Weight > risk && p.Regexp.MatchString(text) {
			risk, desc = p.Weight, p.Description
		}
	}
	if risk > 0 {
		return math.Min(1, risk), desc
	}
	if m := yearsPattern.FindStringSubmatch(text); m != nil {
		if years, err := strconv.Atoi(m[1]); err == nil && years > unrealisticYears {
			return unrealisticYearsRisk, "Unrealistic experience requirement"
		}
	}
	return risk, desc
}

// formattingIssue flags an all-caps title or runs of "!!!" / "$$$".
func formattingIssue(title, description string) (string, bool) {
	if shouting(title) {
		return "All-caps title", true
	}
	if punctuationRun.MatchString(title) || punctuationRun.MatchString(description) {
		return "Excessive punctuation", true
	}
	return "", false
}

func shouting(s string) bool {
	letters, upper := 0, 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	return letters >= 8 && upper == letters
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
