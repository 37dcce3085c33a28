// Package filters implements the user-configured gates that run before the
// detectors: include keywords (pro only), exclude keywords and exclude companies.
//
// Each filter loads its list from a Store on Init/Refresh and publishes an
// immutable snapshot through an atomic pointer. Writers are serialized by a mutex.
package filters

import (
	"context"
	"log"
	"regexp"
	"strings"

	"github.com/jonathan/jobfiltr/internal/types"
)

// Unlimited is the Limit reported for pro users.
const Unlimited = -1

// Store is the part of the settings store the filters read and write.
type Store interface {
	GetProStatus(ctx context.Context) (types.ProStatus, error)
	GetKeywords(ctx context.Context, list types.KeywordList) ([]string, error)
	AddKeyword(ctx context.Context, list types.KeywordList, value string) error
	RemoveKeyword(ctx context.Context, list types.KeywordList, value string) error
	GetMatchMode(ctx context.Context) (types.MatchMode, error)
	SetMatchMode(ctx context.Context, mode types.MatchMode) error
}

// keyword is a compiled user keyword.
//   - "quoted phrase" matches as a substring
//   - keywords containing + # or . (c++, c#, .net) match as substrings
//   - anything else matches as a whole word
type keyword struct {
	text   string
	phrase string
	word   *regexp.Regexp
}

func normalizeKeyword(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// compileKeyword returns a keyword with empty text when raw has no content,
// including a quoted phrase with nothing inside.
func compileKeyword(raw string) keyword {
	text := normalizeKeyword(raw)
	if strings.TrimSpace(strings.Trim(text, `"`)) == "" {
		return keyword{}
	}
	k := keyword{text: text}
	switch {
	case len(text) >= 2 && strings.HasPrefix(text, `"`) && strings.HasSuffix(text, `"`):
		k.phrase = text[1 : len(text)-1]
	case strings.ContainsAny(text, "+#."):
		k.phrase = text
	default:
		k.word = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(text) + `\b`)
	}
	return k
}

// in reports whether the keyword occurs in text, which must already be lowercased.
func (k keyword) in(text string) bool {
	if k.word != nil {
		return k.word.MatchString(text)
	}
	return k.phrase != "" && strings.Contains(text, k.phrase)
}

func compileKeywords(raw []string) []keyword {
	out := make([]keyword, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, r := range raw {
		k := compileKeyword(r)
		if k.text == "" || seen[k.text] {
			continue
		}
		seen[k.text] = true
		out = append(out, k)
	}
	return out
}

func keywordTexts(ks []keyword) []string {
	out := make([]string, len(ks))
	for i, k := range ks {
		out[i] = k.text
	}
	return out
}

func containsKeyword(ks []keyword, text string) bool {
	for _, k := range ks {
		if k.text == text {
			return true
		}
	}
	return false
}

func searchText(parts ...string) string {
	return strings.ToLower(strings.Join(parts, " "))
}

// loadPro reads the pro flag, treating a storage failure as the free tier.
func loadPro(ctx context.Context, store Store, component string) bool {
	status, err := store.GetProStatus(ctx)
	if err != nil {
		logFallback(component, "pro status", err)
		return false
	}
	return status.IsPro
}

// loadList reads a list, treating a storage failure as an empty list.
func loadList(ctx context.Context, store Store, list types.KeywordList, component string) []string {
	values, err := store.GetKeywords(ctx, list)
	if err != nil {
		logFallback(component, string(list), err)
		return nil
	}
	return values
}

func logFallback(component, what string, err error) {
	log.Printf("[%s] failed to load %s, using defaults: %v", component, what, err)
}
