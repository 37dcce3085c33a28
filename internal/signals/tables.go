// Package signals holds the lexicon and weight tables shared by the detectors and the
// badge scorer. Tables are compiled once and never mutated afterwards.
package signals

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/jonathan/jobfiltr/internal/types"
)

// Pattern is a compiled lexicon entry.
type Pattern struct {
	Regexp      *regexp.Regexp
	Weight      float64
	Description string
	Kind        string
}

// Phrase is a plain substring lexicon entry.
type Phrase struct {
	Text   string
	Weight float64
}

// Tables is the full, compiled signal configuration.
type Tables struct {
	VagueHigh             []Pattern
	VagueMedium           []Pattern
	VagueLow              []Pattern
	Repost                []Pattern
	ExcessiveRequirements []Pattern

	StaffingNames    []*regexp.Regexp
	StaffingLanguage []*regexp.Regexp
	StaffingPhrases  []Phrase
	KnownAgencies    []string

	RemotePositive         []Pattern
	RemoteHybrid           []Pattern
	RemoteOnsite           []Pattern
	LocationContradictions []Pattern

	CategoryWeights map[types.SignalCategory]float64
	SignalWeights   map[string]float64

	Buzzwords            []string
	VaguenessIndicators  []string
	LegitimacyIndicators []string
	HighRiskIndustries   []string
	ContactRedFlags      []Pattern
}

// Vague returns all vague-language patterns, strongest tier first.
func (t *Tables) Vague() []Pattern {
	out := make([]Pattern, 0, len(t.VagueHigh)+len(t.VagueMedium)+len(t.VagueLow))
	out = append(out, t.VagueHigh...)
	out = append(out, t.VagueMedium...)
	return append(out, t.VagueLow...)
}

// SignalWeight returns the in-category weight for a badge signal id, or 0.
func (t *Tables) SignalWeight(id string) float64 {
	return t.SignalWeights[id]
}

// rawPattern is the serialized form of a Pattern.
type rawPattern struct {
	Pattern     string  `yaml:"pattern"`
	Weight      float64 `yaml:"weight"`
	Description string  `yaml:"description"`
	Kind        string  `yaml:"kind,omitempty"`
}

type rawPhrase struct {
	Text   string  `yaml:"text"`
	Weight float64 `yaml:"weight"`
}

type rawVague struct {
	High   []rawPattern `yaml:"high"`
	Medium []rawPattern `yaml:"medium"`
	Low    []rawPattern `yaml:"low"`
}

type rawStaffing struct {
	NamePatterns  []string    `yaml:"name_patterns"`
	Language      []string    `yaml:"language"`
	Phrases       []rawPhrase `yaml:"phrases"`
	KnownAgencies []string    `yaml:"known_agencies"`
}

type rawRemote struct {
	Positive               []rawPattern `yaml:"positive"`
	Hybrid                 []rawPattern `yaml:"hybrid"`
	Onsite                 []rawPattern `yaml:"onsite"`
	LocationContradictions []rawPattern `yaml:"location_contradictions"`
}

type rawContent struct {
	Buzzwords            []string     `yaml:"buzzwords"`
	VaguenessIndicators  []string     `yaml:"vagueness_indicators"`
	LegitimacyIndicators []string     `yaml:"legitimacy_indicators"`
	HighRiskIndustries   []string     `yaml:"high_risk_industries"`
	ContactRedFlags      []rawPattern `yaml:"contact_red_flags"`
}

// rawTables is the YAML document shape. Every section is optional in an override file.
type rawTables struct {
	Vague                 rawVague           `yaml:"vague"`
	Repost                []rawPattern       `yaml:"repost"`
	ExcessiveRequirements []rawPattern       `yaml:"excessive_requirements"`
	Staffing              rawStaffing        `yaml:"staffing"`
	Remote                rawRemote          `yaml:"remote"`
	Content               rawContent         `yaml:"content"`
	CategoryWeights       map[string]float64 `yaml:"category_weights"`
	SignalWeights         map[string]float64 `yaml:"signal_weights"`
}

func compile(raw rawTables) (*Tables, error) {
	t := &Tables{
		KnownAgencies:        lowerAll(raw.Staffing.KnownAgencies),
		Buzzwords:            lowerAll(raw.Content.Buzzwords),
		VaguenessIndicators:  lowerAll(raw.Content.VaguenessIndicators),
		LegitimacyIndicators: lowerAll(raw.Content.LegitimacyIndicators),
		HighRiskIndustries:   lowerAll(raw.Content.HighRiskIndustries),
		CategoryWeights:      make(map[types.SignalCategory]float64, len(raw.CategoryWeights)),
		SignalWeights:        make(map[string]float64, len(raw.SignalWeights)),
	}

	groups := []struct {
		name string
		in   []rawPattern
		out  *[]Pattern
	}{
		{"vague.high", raw.Vague.High, &t.VagueHigh},
		{"vague.medium", raw.Vague.Medium, &t.VagueMedium},
		{"vague.low", raw.Vague.Low, &t.VagueLow},
		{"repost", raw.Repost, &t.Repost},
		{"excessive_requirements", raw.ExcessiveRequirements, &t.ExcessiveRequirements},
		{"remote.positive", raw.Remote.Positive, &t.RemotePositive},
		{"remote.hybrid", raw.Remote.Hybrid, &t.RemoteHybrid},
		{"remote.onsite", raw.Remote.Onsite, &t.RemoteOnsite},
		{"remote.location_contradictions", raw.Remote.LocationContradictions, &t.LocationContradictions},
		{"content.contact_red_flags", raw.Content.ContactRedFlags, &t.ContactRedFlags},
	}
	for _, g := range groups {
		compiled, err := compilePatterns(g.name, g.in)
		if err != nil {
			return nil, err
		}
		*g.out = compiled
	}

	var err error
	if t.StaffingNames, err = compileRegexps("staffing.name_patterns", raw.Staffing.NamePatterns); err != nil {
		return nil, err
	}
	if t.StaffingLanguage, err = compileRegexps("staffing.language", raw.Staffing.Language); err != nil {
		return nil, err
	}
	for _, p := range raw.Staffing.Phrases {
		t.StaffingPhrases = append(t.StaffingPhrases, Phrase{Text: strings.ToLower(p.Text), Weight: p.Weight})
	}

	total := 0.0
	for name, w := range raw.CategoryWeights {
		cat := types.SignalCategory(name)
		if !knownCategory(cat) {
			return nil, &LoadError{Message: fmt.Sprintf("unknown signal category %q", name)}
		}
		t.CategoryWeights[cat] = w
		total += w
	}
	if len(t.CategoryWeights) > 0 && math.Abs(total-100) > 1e-6 {
		return nil, &LoadError{Message: fmt.Sprintf("category weights must sum to 100, got %.2f", total)}
	}
	for id, w := range raw.SignalWeights {
		t.SignalWeights[id] = w
	}

	return t, nil
}

func compilePatterns(group string, in []rawPattern) ([]Pattern, error) {
	out := make([]Pattern, 0, len(in))
	for _, rp := range in {
		re, err := regexp.Compile("(?i)" + rp.Pattern)
		if err != nil {
			return nil, &LoadError{Message: fmt.Sprintf("invalid pattern in %s: %q", group, rp.Pattern), Cause: err}
		}
		if rp.Weight < 0 {
			return nil, &LoadError{Message: fmt.Sprintf("negative weight in %s: %q", group, rp.Pattern)}
		}
		out = append(out, Pattern{Regexp: re, Weight: rp.Weight, Description: rp.Description, Kind: rp.Kind})
	}
	return out, nil
}

func compileRegexps(group string, in []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(in))
	for _, p := range in {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, &LoadError{Message: fmt.Sprintf("invalid pattern in %s: %q", group, p), Cause: err}
		}
		out = append(out, re)
	}
	return out, nil
}

func knownCategory(c types.SignalCategory) bool {
	for _, k := range types.SignalCategories {
		if k == c {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToLower(strings.TrimSpace(s)))
	}
	return out
}
