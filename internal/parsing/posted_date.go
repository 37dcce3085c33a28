// Package parsing extracts structured values (posting age, salary, applicant counts)
// from the free text found on job boards.
package parsing

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	agoPattern  = regexp.MustCompile(`(?i)(\d+)\s*(minute|hour|day|week|month)s?\s*ago`)
	plusPattern = regexp.MustCompile(`(\d+)\+`)
)

// DaysSincePosted parses strings such as "3 days ago", "2 weeks ago", "today",
// "yesterday" or "30+ days ago" into a day count. It returns nil when the
// string cannot be interpreted; callers must not treat nil as zero.
func DaysSincePosted(posted string) *int {
	text := strings.ToLower(strings.TrimSpace(posted))
	if text == "" {
		return nil
	}

	if m := agoPattern.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			var days int
			switch m[2] {
			case "minute", "hour":
				days = 0
			case "day":
				days = n
			case "week":
				days = n * 7
			case "month":
				days = n * 30
			}
			return &days
		}
	}

	if strings.Contains(text, "today") || strings.Contains(text, "just now") {
		days := 0
		return &days
	}
	if strings.Contains(text, "yesterday") {
		days := 1
		return &days
	}

	if m := plusPattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return &n
		}
	}

	return nil
}
