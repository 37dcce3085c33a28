// Package extract turns saved LinkedIn and Indeed pages into JobPostings.
//
// A search results page yields one posting per job card. When the page also
// shows an open detail pane, its richer fields are merged into the card whose
// ID matches the page URL. A standalone job page yields a single posting.
package extract

import (
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/jonathan/jobfiltr/internal/companies"
	"github.com/jonathan/jobfiltr/internal/parsing"
	"github.com/jonathan/jobfiltr/internal/types"
)

var (
	linkedInIDPattern = regexp.MustCompile(`/jobs/view/(\d+)`)
	remotePattern     = regexp.MustCompile(`(?i)\bremote\b`)
)

// ExtractError is returned when a page cannot be turned into postings.
type ExtractError struct {
	Message string
	Cause   error
}

func (e *ExtractError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extract error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("extract error: %s", e.Message)
}

func (e *ExtractError) Unwrap() error {
	return e.Cause
}

// Postings parses a saved page and returns its postings in document order.
// pageURL selects the platform; when it names neither board the page markup is
// sniffed instead.
func Postings(r io.Reader, pageURL string) ([]types.JobPosting, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, &ExtractError{Message: "failed to parse HTML", Cause: err}
	}

	platform := DetectPlatform(pageURL)
	if platform == types.PlatformOther {
		platform = sniffPlatform(doc)
	}
	sel, ok := selectorsFor(platform)
	if !ok {
		return nil, &ExtractError{Message: "unsupported page: not a LinkedIn or Indeed job page"}
	}

	x := &extractor{doc: doc, sel: sel, platform: platform, pageURL: pageURL}
	postings := x.run()
	if len(postings) == 0 {
		return nil, &ExtractError{Message: "no job postings found"}
	}
	return postings, nil
}

// PostingsFromString is Postings over an in-memory page.
func PostingsFromString(html, pageURL string) ([]types.JobPosting, error) {
	return Postings(strings.NewReader(html), pageURL)
}

func sniffPlatform(doc *goquery.Document) types.Platform {
	for _, p := range []types.Platform{types.PlatformLinkedIn, types.PlatformIndeed} {
		sel, _ := selectorsFor(p)
		if doc.Find(sel.jobDetail).Length() > 0 || doc.Find(sel.jobCard).Length() > 0 {
			return p
		}
	}
	return types.PlatformOther
}

type extractor struct {
	doc      *goquery.Document
	sel      selectors
	platform types.Platform
	pageURL  string
}

func (x *extractor) run() []types.JobPosting {
	currentID := jobIDFromURL(x.platform, x.pageURL)
	hasDetail := x.doc.Find(x.sel.jobDetail).Length() > 0

	var postings []types.JobPosting
	x.doc.Find(x.sel.jobCard).Each(func(_ int, card *goquery.Selection) {
		// Nested card selectors (e.g. a list item wrapping a card container)
		// would otherwise yield the same posting twice.
		if card.ParentsFiltered(x.sel.jobCard).Length() > 0 {
			return
		}
		p, rawID, ok := x.fromCard(card)
		if !ok {
			return
		}
		if hasDetail && currentID != "" && rawID == currentID {
			x.mergeDetail(&p)
		}
		postings = append(postings, p)
	})

	if len(postings) == 0 && hasDetail {
		var p types.JobPosting
		p.Title = x.pageText(x.sel.title)
		p.Company = x.pageText(x.sel.company)
		if p.Title != "" && p.Company != "" {
			p.ID = x.postingID(currentID)
			p.Platform = x.platform
			p.URL = x.absoluteURL(x.pageURL)
			x.mergeDetail(&p)
			postings = append(postings, p)
		}
	}
	return postings
}

func (x *extractor) fromCard(card *goquery.Selection) (types.JobPosting, string, bool) {
	title := text(card.Find(x.sel.cardTitle))
	company := text(card.Find(x.sel.cardCompany))
	if title == "" || company == "" {
		return types.JobPosting{}, "", false
	}

	rawID, href := x.cardID(card)
	p := types.JobPosting{
		ID:                x.postingID(rawID),
		Platform:          x.platform,
		URL:               x.absoluteURL(href),
		Title:             title,
		Company:           company,
		CompanyNormalized: companies.NormalizeName(company),
		Location:          text(card.Find(x.sel.cardLocation)),
		PostedDate:        text(card.Find(x.sel.cardPosted)),
		IsSponsored:       x.cardSponsored(card),
	}
	p.DaysSincePosted = parsing.DaysSincePosted(p.PostedDate)
	p.IsRemote = x.remote(p.Title, p.Location)
	if x.sel.cardApplyWord != "" {
		p.IsEasyApply = strings.Contains(strings.ToLower(card.Text()), x.sel.cardApplyWord)
	}
	return p, rawID, true
}

// mergeDetail overlays the open detail pane onto p. Detail values win when present.
func (x *extractor) mergeDetail(p *types.JobPosting) {
	if v := x.pageText(x.sel.title); v != "" {
		p.Title = v
	}
	if v := x.pageText(x.sel.company); v != "" {
		p.Company = v
	}
	p.CompanyNormalized = companies.NormalizeName(p.Company)
	if v := x.pageText(x.sel.location); v != "" {
		p.Location = v
	}
	if v := x.pageText(x.sel.posted); v != "" {
		p.PostedDate = v
		p.DaysSincePosted = parsing.DaysSincePosted(v)
	}
	p.Description = x.pageText(x.sel.description)
	if x.sel.salary != "" {
		if v := x.pageText(x.sel.salary); parsing.MentionsPay(v) {
			p.Salary = v
		}
	}
	if x.sel.applicants != "" {
		if v := x.pageText(x.sel.applicants); strings.Contains(strings.ToLower(v), "applicant") {
			p.ApplicantCount = parsing.ApplicantCount(v)
		}
	}
	if apply := x.doc.Find(x.sel.apply).First(); apply.Length() > 0 {
		p.IsEasyApply = x.sel.easyApplyWord == "" ||
			strings.Contains(strings.ToLower(apply.Text()), x.sel.easyApplyWord)
	}
	if x.doc.Find(x.sel.jobDetail).Find(x.sel.sponsored).Length() > 0 {
		p.IsSponsored = true
	}
	p.IsRemote = x.remote(p.Title, p.Location)
}

func (x *extractor) cardID(card *goquery.Selection) (id, href string) {
	link := card.Find(x.sel.linkSelector).First()
	href, _ = link.Attr("href")

	if x.sel.idAttr != "" {
		if v, ok := card.Attr(x.sel.idAttr); ok && v != "" {
			return v, href
		}
		if v, ok := card.Find("[" + x.sel.idAttr + "]").First().Attr(x.sel.idAttr); ok && v != "" {
			return v, href
		}
	}
	return jobIDFromURL(x.platform, href), href
}

func (x *extractor) cardSponsored(card *goquery.Selection) bool {
	if card.Find(x.sel.sponsored).Length() > 0 {
		return true
	}
	if x.sel.sponsoredState != "" {
		state := strings.ToLower(text(card.Find(x.sel.sponsoredState)))
		return strings.Contains(state, "promoted")
	}
	return false
}

func (x *extractor) remote(title, location string) bool {
	if remotePattern.MatchString(location) {
		return true
	}
	return x.sel.remoteInTitle && remotePattern.MatchString(title)
}

// postingID prefixes the board's job ID with the platform. Postings without an
// ID get a random one so they still pass through the engine, once.
func (x *extractor) postingID(raw string) string {
	if raw == "" {
		raw = uuid.NewString()
	}
	return string(x.platform) + "_" + raw
}

func (x *extractor) absoluteURL(href string) string {
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if ref.IsAbs() {
		return ref.String()
	}
	base, err := url.Parse(x.pageURL)
	if err != nil || !base.IsAbs() {
		return ""
	}
	return base.ResolveReference(ref).String()
}

func (x *extractor) pageText(selector string) string {
	if selector == "" {
		return ""
	}
	return text(x.doc.Find(selector))
}

// jobIDFromURL pulls the board's job ID out of a posting or search URL.
func jobIDFromURL(platform types.Platform, raw string) string {
	if raw == "" {
		return ""
	}
	switch platform {
	case types.PlatformLinkedIn:
		if m := linkedInIDPattern.FindStringSubmatch(raw); m != nil {
			return m[1]
		}
		if u, err := url.Parse(raw); err == nil {
			return u.Query().Get("currentJobId")
		}
	case types.PlatformIndeed:
		if u, err := url.Parse(raw); err == nil {
			q := u.Query()
			if jk := q.Get("jk"); jk != "" {
				return jk
			}
			return q.Get("vjk")
		}
	}
	return ""
}

// text returns the first matched element's text with whitespace collapsed.
func text(s *goquery.Selection) string {
	if s.Length() == 0 {
		return ""
	}
	return strings.Join(strings.Fields(s.First().Text()), " ")
}
