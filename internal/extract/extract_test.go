package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/jobfiltr/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const linkedInSearchPage = `
<html><body>
<ul class="scaffold-layout__list-container">
  <li class="scaffold-layout__list-item">
    <div class="job-card-container">
      <a class="job-card-container__link" href="/jobs/view/3901234567/?refId=abc">Senior Go Engineer</a>
      <div class="job-card-container__primary-description">Robert Half</div>
      <ul><li class="job-card-container__metadata-item">United States (Remote)</li></ul>
      <div class="job-card-container__footer-job-state">Promoted</div>
      <time class="job-card-container__listed-time">2 weeks ago</time>
      <span>Easy Apply</span>
    </div>
  </li>
  <li class="scaffold-layout__list-item">
    <div class="job-card-container">
      <a class="job-card-container__link" href="/jobs/view/3900000002/">Backend Developer</a>
      <div class="job-card-container__primary-description">Acme Corp</div>
      <ul><li class="job-card-container__metadata-item">Austin, TX (On-site)</li></ul>
      <time class="job-card-container__listed-time">3 days ago</time>
    </div>
  </li>
  <li class="scaffold-layout__list-item">
    <div class="job-card-container">
      <a class="job-card-container__link" href="/jobs/view/3900000003/">Untitled</a>
    </div>
  </li>
</ul>
<div class="jobs-search__job-details">
  <h1 class="job-details-jobs-unified-top-card__job-title">Senior Go Engineer (Contract)</h1>
  <div class="job-details-jobs-unified-top-card__company-name">Robert Half</div>
  <span class="job-details-jobs-unified-top-card__bullet">United States (Remote)</span>
  <span class="jobs-unified-top-card__applicant-count">Over 200 applicants</span>
  <button class="jobs-apply-button">Easy Apply</button>
  <div class="jobs-description__content">
    Our client is hiring a Go engineer.
    Contract to hire.
  </div>
</div>
</body></html>`

const linkedInJobPage = `
<html><body>
<div class="job-view-layout">
  <h1 class="t-24 t-bold">Platform Engineer</h1>
  <div class="jobs-unified-top-card__company-name">Globex</div>
  <span class="jobs-unified-top-card__bullet">New York, NY</span>
  <span class="jobs-unified-top-card__posted-date">Reposted 2 months ago</span>
  <button class="jobs-apply-button">Apply</button>
  <div class="jobs-description__content">Build things.</div>
</div>
</body></html>`

const indeedSearchPage = `
<html><body>
<div id="mosaic-provider-jobcards"><ul>
  <li><div class="job_seen_beacon">
    <h2 class="jobTitle"><a class="jcs-JobTitle" data-jk="abc123" href="/rc/clk?jk=abc123&amp;from=serp">Remote Data Analyst</a></h2>
    <span data-testid="company-name">Insight Global</span>
    <div data-testid="text-location">Denver, CO</div>
    <span class="date">Posted 30+ days ago</span>
    <span class="iaLabel">Easily apply</span>
    <span class="sponsoredJob">Sponsored</span>
  </div></li>
  <li><div class="job_seen_beacon">
    <h2 class="jobTitle"><span>Office Manager</span></h2>
    <span data-testid="company-name">Initech</span>
    <div data-testid="text-location">Dallas, TX</div>
  </div></li>
</ul></div>
<div class="jobsearch-ViewJobLayout">
  <h1 class="jobsearch-JobInfoHeader-title">Data Analyst - Remote</h1>
  <div data-testid="inlineHeader-companyName">Insight Global</div>
  <div data-testid="job-location">Remote in Denver, CO</div>
  <div id="salaryInfoAndJobType">$40 - $45 an hour</div>
  <button id="indeedApplyButton">Apply now</button>
  <div id="jobDescriptionText">Hybrid schedule, 2 days in office.</div>
</div>
</body></html>`

func TestPostings_LinkedInSearchPage(t *testing.T) {
	postings, err := PostingsFromString(linkedInSearchPage,
		"https://www.linkedin.com/jobs/search/?currentJobId=3901234567&keywords=go")
	require.NoError(t, err)
	require.Len(t, postings, 2, "card without a company is skipped")

	open := postings[0]
	assert.Equal(t, "linkedin_3901234567", open.ID)
	assert.Equal(t, types.PlatformLinkedIn, open.Platform)
	assert.Equal(t, "https://www.linkedin.com/jobs/view/3901234567/?refId=abc", open.URL)
	assert.Equal(t, "Senior Go Engineer (Contract)", open.Title)
	assert.Equal(t, "Robert Half", open.Company)
	assert.Equal(t, "robert half", open.CompanyNormalized)
	assert.Equal(t, "Our client is hiring a Go engineer. Contract to hire.", open.Description)
	require.NotNil(t, open.DaysSincePosted)
	assert.Equal(t, 14, *open.DaysSincePosted)
	require.NotNil(t, open.ApplicantCount)
	assert.Equal(t, 200, *open.ApplicantCount)
	assert.True(t, open.IsRemote)
	assert.True(t, open.IsEasyApply)
	assert.True(t, open.IsSponsored)
	assert.NoError(t, open.Validate())

	other := postings[1]
	assert.Equal(t, "linkedin_3900000002", other.ID)
	assert.Equal(t, "Backend Developer", other.Title)
	assert.Empty(t, other.Description, "detail pane belongs to another card")
	assert.False(t, other.IsRemote)
	assert.False(t, other.IsEasyApply)
	assert.False(t, other.IsSponsored)
	assert.Nil(t, other.ApplicantCount)
	require.NotNil(t, other.DaysSincePosted)
	assert.Equal(t, 3, *other.DaysSincePosted)
}

func TestPostings_LinkedInJobPage(t *testing.T) {
	postings, err := PostingsFromString(linkedInJobPage, "https://www.linkedin.com/jobs/view/3905555555/")
	require.NoError(t, err)
	require.Len(t, postings, 1)

	p := postings[0]
	assert.Equal(t, "linkedin_3905555555", p.ID)
	assert.Equal(t, "https://www.linkedin.com/jobs/view/3905555555/", p.URL)
	assert.Equal(t, "Platform Engineer", p.Title)
	assert.Equal(t, "Globex", p.Company)
	assert.Equal(t, "Reposted 2 months ago", p.PostedDate)
	require.NotNil(t, p.DaysSincePosted)
	assert.Equal(t, 60, *p.DaysSincePosted)
	assert.False(t, p.IsEasyApply, "external apply button")
	assert.False(t, p.IsRemote)
	assert.Equal(t, "Build things.", p.Description)
}

func TestPostings_IndeedSearchPage(t *testing.T) {
	postings, err := PostingsFromString(indeedSearchPage, "https://www.indeed.com/jobs?q=data&vjk=abc123")
	require.NoError(t, err)
	require.Len(t, postings, 2)

	p := postings[0]
	assert.Equal(t, "indeed_abc123", p.ID)
	assert.Equal(t, types.PlatformIndeed, p.Platform)
	assert.Equal(t, "https://www.indeed.com/rc/clk?jk=abc123&from=serp", p.URL)
	assert.Equal(t, "Data Analyst - Remote", p.Title)
	assert.Equal(t, "Remote in Denver, CO", p.Location)
	assert.Equal(t, "$40 - $45 an hour", p.Salary)
	assert.Equal(t, "Hybrid schedule, 2 days in office.", p.Description)
	require.NotNil(t, p.DaysSincePosted)
	assert.Equal(t, 30, *p.DaysSincePosted)
	assert.True(t, p.IsRemote)
	assert.True(t, p.IsEasyApply)
	assert.True(t, p.IsSponsored)

	noID := postings[1]
	require.True(t, strings.HasPrefix(noID.ID, "indeed_"))
	_, err = uuid.Parse(strings.TrimPrefix(noID.ID, "indeed_"))
	assert.NoError(t, err, "postings without a board ID get a UUID")
	assert.Empty(t, noID.URL)
	assert.False(t, noID.IsSponsored)
}

func TestPostings_SniffsPlatformFromMarkup(t *testing.T) {
	postings, err := PostingsFromString(linkedInJobPage, "saved/job.html")
	require.NoError(t, err)
	require.Len(t, postings, 1)
	assert.Equal(t, types.PlatformLinkedIn, postings[0].Platform)
	assert.Empty(t, postings[0].URL, "relative page paths are not URLs")
	assert.NoError(t, postings[0].Validate())
}

func TestPostings_Errors(t *testing.T) {
	tests := []struct {
		name    string
		html    string
		pageURL string
		want    string
	}{
		{"unsupported", "<html><body><p>hello</p></body></html>", "https://example.com/careers", "unsupported page"},
		{"empty linkedin page", "<html><body></body></html>", "https://www.linkedin.com/jobs/view/1/", "no job postings found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PostingsFromString(tt.html, tt.pageURL)
			require.Error(t, err)
			var extractErr *ExtractError
			assert.ErrorAs(t, err, &extractErr)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		url  string
		want types.Platform
	}{
		{"https://www.linkedin.com/jobs/view/123", types.PlatformLinkedIn},
		{"https://uk.indeed.com/viewjob?jk=abc", types.PlatformIndeed},
		{"https://www.indeed.com/jobs?q=go", types.PlatformIndeed},
		{"https://boards.greenhouse.io/acme/jobs/1", types.PlatformOther},
		{"::not a url", types.PlatformOther},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectPlatform(tt.url))
		})
	}
}

func TestJobIDFromURL(t *testing.T) {
	tests := []struct {
		name     string
		platform types.Platform
		url      string
		want     string
	}{
		{"linkedin view", types.PlatformLinkedIn, "/jobs/view/3901234567/?refId=x", "3901234567"},
		{"linkedin search", types.PlatformLinkedIn, "https://www.linkedin.com/jobs/search/?currentJobId=42", "42"},
		{"indeed jk", types.PlatformIndeed, "/rc/clk?jk=abc&from=serp", "abc"},
		{"indeed vjk", types.PlatformIndeed, "https://www.indeed.com/jobs?q=go&vjk=def", "def"},
		{"none", types.PlatformIndeed, "https://www.indeed.com/jobs?q=go", ""},
		{"empty", types.PlatformLinkedIn, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, jobIDFromURL(tt.platform, tt.url))
		})
	}
}

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(linkedInJobPage))
	}))
	defer server.Close()

	postings, err := Fetch(context.Background(), server.URL+"/jobs/view/77/", nil)
	require.NoError(t, err)
	require.Len(t, postings, 1)
	assert.Equal(t, "Platform Engineer", postings[0].Title)

	_, err = Fetch(context.Background(), server.URL+"/missing", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")

	_, err = Fetch(context.Background(), "not-a-valid-url", nil)
	var extractErr *ExtractError
	require.ErrorAs(t, err, &extractErr)
	assert.Contains(t, err.Error(), "invalid URL")
}
