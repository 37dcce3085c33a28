package extract

import (
	"net/url"
	"strings"

	"github.com/jonathan/jobfiltr/internal/types"
)

// selectors are the CSS selectors used for one job board. Card selectors are
// evaluated inside a job card; the rest against the whole page.
type selectors struct {
	jobCard        string
	cardTitle      string
	cardCompany    string
	cardLocation   string
	cardPosted     string
	jobDetail      string
	title          string
	company        string
	location       string
	posted         string
	applicants     string
	description    string
	salary         string
	apply          string
	sponsored      string
	sponsoredState string
	idAttr         string
	linkSelector   string
	remoteInTitle  bool
	easyApplyWord  string
	cardApplyWord  string
}

var linkedInSelectors = selectors{
	jobCard:        ".jobs-search-results__list-item, .scaffold-layout__list-item, .job-card-container",
	cardTitle:      ".job-card-list__title, .job-card-container__link, .jobs-unified-top-card__job-title",
	cardCompany:    ".job-card-container__primary-description, .job-card-container__company-name",
	cardLocation:   ".job-card-container__metadata-item, .job-card-container__metadata-wrapper",
	cardPosted:     ".job-card-container__listed-time, .job-card-container__footer-item",
	jobDetail:      ".job-view-layout, .jobs-details, .jobs-unified-top-card, .jobs-search__job-details",
	title:          ".job-details-jobs-unified-top-card__job-title, .jobs-unified-top-card__job-title, .t-24.t-bold",
	company:        ".job-details-jobs-unified-top-card__company-name, .jobs-unified-top-card__company-name",
	location:       ".job-details-jobs-unified-top-card__bullet, .jobs-unified-top-card__bullet, .jobs-unified-top-card__workplace-type",
	posted:         ".job-details-jobs-unified-top-card__posted-date, .jobs-unified-top-card__posted-date",
	applicants:     ".jobs-unified-top-card__applicant-count, .jobs-details-top-card__bullet",
	description:    ".jobs-description__content, .jobs-description-content__text, .jobs-box__html-content",
	apply:          ".jobs-apply-button--top-card, .jobs-apply-button, button[data-control-name=\"jobdetails_topcard_inapply\"]",
	sponsored:      ".promoted-badge",
	sponsoredState: ".job-card-container__footer-job-state",
	linkSelector:   "a[href*=\"/jobs/view/\"]",
	easyApplyWord:  "easy apply",
	cardApplyWord:  "easy apply",
}

var indeedSelectors = selectors{
	jobCard:       ".job_seen_beacon, .jobsearch-ResultsList > li, .result, [data-jk]",
	cardTitle:     ".jobTitle, [data-testid=\"job-title\"], .jcs-JobTitle",
	cardCompany:   ".companyName, [data-testid=\"company-name\"]",
	cardLocation:  ".companyLocation, [data-testid=\"text-location\"]",
	cardPosted:    ".date, [data-testid=\"myJobsStateDate\"], .result-footer .date",
	jobDetail:     ".jobsearch-ViewJobLayout, .jobsearch-JobComponent, #jobDescriptionText",
	title:         ".jobsearch-JobInfoHeader-title, [data-testid=\"jobsearch-JobInfoHeader-title\"]",
	company:       "[data-testid=\"inlineHeader-companyName\"], .jobsearch-InlineCompanyRating-companyHeader, .jobsearch-CompanyInfoContainer a",
	location:      "[data-testid=\"job-location\"], .jobsearch-JobInfoHeader-subtitle, [data-testid=\"inlineHeader-companyLocation\"]",
	posted:        ".jobsearch-HiringInsights-entry--age, [data-testid=\"job-age\"]",
	description:   "#jobDescriptionText, .jobsearch-jobDescriptionText, .jobsearch-JobComponent-description",
	salary:        "#salaryInfoAndJobType, .jobsearch-JobMetadataHeader-item",
	apply:         ".jobsearch-IndeedApplyButton, #indeedApplyButton",
	sponsored:     ".sponsoredJob, .sponsoredGray, .jobsearch-JobCard-Sponsored, .job-result-sponsored, [data-is-sponsored=\"true\"], [data-testid=\"sponsored-label\"], [data-sponsored=\"true\"]",
	idAttr:        "data-jk",
	linkSelector:  "a[href*=\"jk=\"]",
	remoteInTitle: true,
	cardApplyWord: "easily apply",
}

// DetectPlatform identifies the job board from a page URL.
func DetectPlatform(pageURL string) types.Platform {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return types.PlatformOther
	}
	host := strings.ToLower(parsed.Host)

	switch {
	case strings.Contains(host, "linkedin.com"):
		return types.PlatformLinkedIn
	case strings.Contains(host, "indeed."):
		return types.PlatformIndeed
	}
	return types.PlatformOther
}

func selectorsFor(platform types.Platform) (selectors, bool) {
	switch platform {
	case types.PlatformLinkedIn:
		return linkedInSelectors, true
	case types.PlatformIndeed:
		return indeedSelectors, true
	}
	return selectors{}, false
}
