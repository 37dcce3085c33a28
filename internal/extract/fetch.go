package extract

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/jonathan/jobfiltr/internal/types"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; jobfiltr/1.0)"

// FetchOptions configures Fetch.
type FetchOptions struct {
	Timeout   time.Duration
	UserAgent string
	Client    *http.Client
}

// DefaultFetchOptions returns sensible defaults for fetching.
func DefaultFetchOptions() *FetchOptions {
	return &FetchOptions{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// Fetch downloads a public job page and extracts its postings. Pages behind a
// login usually come back without job markup and fail with "no job postings
// found"; save those from the browser and use Postings instead.
func Fetch(ctx context.Context, pageURL string, opts *FetchOptions) ([]types.JobPosting, error) {
	if opts == nil {
		opts = DefaultFetchOptions()
	}

	parsed, err := url.Parse(pageURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, &ExtractError{Message: fmt.Sprintf("invalid URL %q", pageURL), Cause: err}
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, &ExtractError{Message: "failed to create request", Cause: err}
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	req.Header.Set("User-Agent", ua)

	resp, err := client.Do(req)
	if err != nil {
		return nil, &ExtractError{Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &ExtractError{Message: fmt.Sprintf("HTTP status %d for %s", resp.StatusCode, pageURL)}
	}
	return Postings(resp.Body, pageURL)
}
