// Package companies provides company-name normalization and the community-reported company registry.
package companies

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonWordPattern     = regexp.MustCompile(`[^\w\s]`)
	whitespacePattern  = regexp.MustCompile(`\s+`)
	legalSuffixPattern = regexp.MustCompile(`\b(inc|llc|ltd|corp|corporation|company|co)\b`)
)

// foldAccents strips combining marks so "Nestlé" and "Nestle" normalize alike.
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}

// NormalizeName canonicalizes a company name for matching: lowercase, punctuation
// and legal suffixes (inc, llc, ltd, corp, corporation, company, co) removed,
// whitespace collapsed.
func NormalizeName(name string) string {
	s := strings.ToLower(foldAccents(name))
	s = strings.TrimSpace(s)
	s = nonWordPattern.ReplaceAllString(s, "")
	s = whitespacePattern.ReplaceAllString(s, " ")
	s = legalSuffixPattern.ReplaceAllString(s, "")
	s = whitespacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
