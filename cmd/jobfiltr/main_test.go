package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonathan/jobfiltr/internal/companies"
	"github.com/jonathan/jobfiltr/internal/filters"
	"github.com/jonathan/jobfiltr/internal/types"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const postingBatch = `{"postings": [
	{"id": "1", "title": "Golang Developer", "company": "Initech", "salary": "$100k"},
	{"id": "2", "title": "Unpaid Internship", "company": "Initech", "salary": "$100k"}
]}`

const linkedInCards = `
<html><body>
<ul class="scaffold-layout__list-container">
  <li class="scaffold-layout__list-item">
    <div class="job-card-container">
      <a class="job-card-container__link" href="/jobs/view/3900000002/">Backend Developer</a>
      <div class="job-card-container__primary-description">Acme Corp</div>
      <ul><li class="job-card-container__metadata-item">Austin, TX (On-site)</li></ul>
      <time class="job-card-container__listed-time">3 days ago</time>
    </div>
  </li>
</ul>
</body></html>`

// resetFlags restores every flag to its default so commands can run repeatedly in one process.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// testEnv runs commands against a sqlite file that lives for the test.
type testEnv struct {
	dir string
	db  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JOBFILTR_DB_PATH", "")
	t.Setenv("JWT_SECRET", "")
	dir := t.TempDir()
	return &testEnv{dir: dir, db: filepath.Join(dir, "jobfiltr.db")}
}

func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return e.runWithInput(t, "", args...)
}

func (e *testEnv) runWithInput(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--db", e.db}, args...))

	err := rootCmd.Execute()
	return out.String(), err
}

func (e *testEnv) write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestScan_JSONBatch(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "keywords", "add", "exclude", "Unpaid")
	require.NoError(t, err)

	batch := env.write(t, "batch.json", postingBatch)
	out, err := env.run(t, "scan", "--json", batch)
	require.NoError(t, err, out)

	var report scanReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.NotEmpty(t, report.RunID)
	require.Len(t, report.Outcomes, 2)
	assert.False(t, report.Outcomes[0].Hidden)
	assert.True(t, report.Outcomes[1].Hidden)
	require.NotEmpty(t, report.Outcomes[1].Results)
	assert.Equal(t, types.CategoryExcludeKeyword, report.Outcomes[1].Results[0].Category)
	assert.Equal(t, 2, report.Stats.TotalScanned)
	assert.Equal(t, 1, report.Stats.ExcludeKeywordMatches)
}

func TestScan_FormattedOutput(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.runWithInput(t, postingBatch, "scan", "-")
	require.NoError(t, err, out)
	assert.Contains(t, out, "FILTER RESULTS")
	assert.Contains(t, out, "Golang Developer @ Initech")
	assert.Contains(t, out, "FILTER STATS")
}

func TestScan_SavedHTMLPage(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "keywords", "add", "companies", "Acme Corp")
	require.NoError(t, err)

	page := env.write(t, "search.html", linkedInCards)
	out, err := env.run(t, "scan", "--json", "--page-url", "https://www.linkedin.com/jobs/search/?keywords=go", page)
	require.NoError(t, err, out)

	var report scanReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Outcomes, 1)
	assert.Equal(t, "linkedin_3900000002", report.Outcomes[0].JobID)
	assert.True(t, report.Outcomes[0].Hidden)
	assert.Equal(t, 1, report.Stats.CompaniesBlocked)
}

// unreachableDatabaseURL points at a port nothing listens on.
const unreachableDatabaseURL = "postgres://u:p@127.0.0.1:1/jobfiltr?connect_timeout=2"

func TestScan_UnreachableCommunityStoreFallsBackToLocal(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv("DATABASE_URL", unreachableDatabaseURL)

	_, err := env.run(t, "keywords", "add", "exclude", "Unpaid")
	require.NoError(t, err)

	batch := env.write(t, "batch.json", postingBatch)
	out, err := env.run(t, "scan", "--json", batch)
	require.NoError(t, err, out)

	var report scanReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Outcomes, 2)
	assert.True(t, report.Outcomes[1].Hidden)
	assert.Equal(t, 2, report.Stats.TotalScanned)

	out, err = env.run(t, "--database-url", unreachableDatabaseURL, "score", "--json", batch)
	require.NoError(t, err, out)

	_, err = env.run(t, "blocklist", "report", "Acme Staffing", "--category", "spam")
	assert.ErrorContains(t, err, "reachable community store")
}

func TestScan_InputErrors(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "scan")
	assert.ErrorContains(t, err, "no input")

	_, err = env.run(t, "scan", filepath.Join(env.dir, "missing.json"))
	assert.ErrorContains(t, err, "failed to read")

	bad := env.write(t, "bad.json", `{"postings": [{"title": "no id"}]}`)
	_, err = env.run(t, "scan", bad)
	assert.ErrorContains(t, err, "invalid posting batch")

	_, err = env.run(t, "scan", "--url", "https://example.com/jobs", bad)
	assert.ErrorContains(t, err, "cannot be combined")
}

func TestScore(t *testing.T) {
	env := newTestEnv(t)

	batch := env.write(t, "batch.json", postingBatch)
	out, err := env.run(t, "score", "--json", batch)
	require.NoError(t, err, out)

	var scores []types.Score
	require.NoError(t, json.Unmarshal([]byte(out), &scores))
	require.Len(t, scores, 2)
	assert.Equal(t, "1", scores[0].JobID)
	assert.GreaterOrEqual(t, float64(scores[0].Overall), 0.0)
	assert.LessOrEqual(t, float64(scores[0].Overall), 100.0)

	out, err = env.run(t, "score", "--cached", "1")
	require.NoError(t, err, out)
	assert.Contains(t, out, "GHOST JOB SCORE")
	assert.Contains(t, out, "Job:        1")

	_, err = env.run(t, "score", "--cached", "never-scored")
	assert.ErrorContains(t, err, "no cached score")
}

func TestKeywords_TierLimits(t *testing.T) {
	env := newTestEnv(t)

	for _, kw := range []string{"unpaid", "commission", "volunteer"} {
		_, err := env.run(t, "keywords", "add", "exclude", kw)
		require.NoError(t, err)
	}
	_, err := env.run(t, "keywords", "add", "exclude", "one too many")
	assert.ErrorIs(t, err, filters.ErrTierLimit)

	_, err = env.run(t, "keywords", "add", "include", "golang")
	assert.ErrorIs(t, err, filters.ErrProRequired)

	out, err := env.run(t, "keywords", "tier", "pro")
	require.NoError(t, err)
	assert.Contains(t, out, "tier set to pro")

	_, err = env.run(t, "keywords", "add", "exclude", "one too many")
	assert.NoError(t, err)
	_, err = env.run(t, "keywords", "add", "include", "golang")
	assert.NoError(t, err)
	_, err = env.run(t, "keywords", "mode", "all")
	assert.NoError(t, err)

	out, err = env.run(t, "--json", "keywords", "list", "include")
	require.NoError(t, err)
	var views []listView
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.Len(t, views, 1)
	assert.Equal(t, []string{"golang"}, views[0].Values)
	assert.Equal(t, types.MatchAll, views[0].MatchMode)
	assert.Equal(t, filters.Unlimited, views[0].Limit)
}

func TestKeywords_ListAndRemove(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "keywords", "add", "exclude", "Unpaid")
	require.NoError(t, err)

	out, err := env.run(t, "keywords", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "INCLUDE KEYWORDS")
	assert.Contains(t, out, "EXCLUDE KEYWORDS")
	assert.Contains(t, out, "1 of 3 entries")
	assert.Contains(t, out, "• unpaid")
	assert.Contains(t, out, "EXCLUDE COMPANIES")

	out, err = env.run(t, "keywords", "remove", "exclude", "unpaid")
	require.NoError(t, err)
	assert.Contains(t, out, "removed")

	out, err = env.run(t, "keywords", "list", "exclude_keywords")
	require.NoError(t, err)
	assert.Contains(t, out, "0 of 3 entries")
}

func TestKeywords_ArgumentErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "unknown list", args: []string{"keywords", "add", "titles", "x"}, wantErr: "unknown list"},
		{name: "missing value", args: []string{"keywords", "add", "exclude"}, wantErr: "accepts 2 arg(s)"},
		{name: "unknown tier", args: []string{"keywords", "tier", "gold"}, wantErr: "unknown tier"},
		{name: "mode needs pro", args: []string{"keywords", "mode", "all"}, wantErr: "Pro"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			_, err := env.run(t, tt.args...)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestParseList(t *testing.T) {
	tests := []struct {
		in   string
		want types.KeywordList
	}{
		{"include", types.ListIncludeKeywords},
		{"Exclude", types.ListExcludeKeywords},
		{" companies ", types.ListExcludeCompanies},
		{"exclude_companies", types.ListExcludeCompanies},
	}
	for _, tt := range tests {
		got, err := parseList(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestBlocklist_ImportAndList(t *testing.T) {
	env := newTestEnv(t)

	file := env.write(t, "blocklist.json", `[
		{"company_name": "Acme Staffing", "category": "spam", "verified": true},
		{"company_name": "Ghostly Inc", "category": "ghost"}
	]`)
	out, err := env.run(t, "blocklist", "import", file)
	require.NoError(t, err, out)
	assert.Contains(t, out, "imported 2 entries")

	out, err = env.run(t, "blocklist", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "COMMUNITY BLOCKLIST")
	assert.Contains(t, out, "Acme Staffing (spam) ✓")
	assert.Contains(t, out, "Ghostly Inc (ghost)")

	_, err = env.run(t, "blocklist", "import", "--remote", file)
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestBlocklist_ReportNeedsCommunityStore(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "blocklist", "report", "Acme Staffing", "--category", "spam")
	assert.ErrorContains(t, err, "DATABASE_URL")

	_, err = env.run(t, "blocklist", "report", "Acme Staffing", "--category", "nonsense")
	assert.ErrorContains(t, err, "invalid report")
}

func TestReported(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "reported", "check", "Definitely Not Reported LLC")
	require.NoError(t, err)
	assert.Contains(t, out, "is not on the reported list")

	reported := companies.DefaultReported()[0]
	out, err = env.run(t, "--json", "reported", "check", reported.Name)
	require.NoError(t, err)
	var checks []reportedCheck
	require.NoError(t, json.Unmarshal([]byte(out), &checks))
	require.Len(t, checks, 1)
	assert.True(t, checks[0].Match.Detected)

	out, err = env.run(t, "reported", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Reported companies:")
}

func TestResolveConfig_FlagsOverrideFile(t *testing.T) {
	env := newTestEnv(t)
	cfgFile := env.write(t, "config.json", `{"workers": 2, "db_path": "from-file.db"}`)

	resetFlags(rootCmd)
	require.NoError(t, rootCmd.ParseFlags([]string{"--config", cfgFile, "--workers", "8"}))

	cfg, err := resolveConfig(rootCmd)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "from-file.db", cfg.DBPath)
}

func TestIsJSON(t *testing.T) {
	assert.True(t, isJSON("batch.json", []byte("<html>")))
	assert.False(t, isJSON("page.html", []byte("{}")))
	assert.True(t, isJSON("-", []byte("  {\"postings\": []}")))
	assert.False(t, isJSON("-", []byte("<html></html>")))
}
