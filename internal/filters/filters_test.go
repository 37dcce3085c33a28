package filters

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/jonathan/jobfiltr/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu       sync.Mutex
	pro      bool
	mode     types.MatchMode
	lists    map[types.KeywordList][]string
	failRead error
	failAdd  error
	adds     int
}

func newFakeStore(pro bool) *fakeStore {
	return &fakeStore{pro: pro, mode: types.MatchAny, lists: map[types.KeywordList][]string{}}
}

func (s *fakeStore) GetProStatus(_ context.Context) (types.ProStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failRead != nil {
		return types.ProStatus{}, s.failRead
	}
	return types.ProStatus{IsPro: s.pro}, nil
}

func (s *fakeStore) GetKeywords(_ context.Context, list types.KeywordList) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failRead != nil {
		return nil, s.failRead
	}
	return append([]string(nil), s.lists[list]...), nil
}

func (s *fakeStore) AddKeyword(_ context.Context, list types.KeywordList, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAdd != nil {
		return s.failAdd
	}
	s.adds++
	s.lists[list] = append(s.lists[list], value)
	return nil
}

func (s *fakeStore) RemoveKeyword(_ context.Context, list types.KeywordList, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var kept []string
	for _, v := range s.lists[list] {
		if v != value {
			kept = append(kept, v)
		}
	}
	s.lists[list] = kept
	return nil
}

func (s *fakeStore) GetMatchMode(_ context.Context) (types.MatchMode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failRead != nil {
		return "", s.failRead
	}
	return s.mode, nil
}

func (s *fakeStore) SetMatchMode(_ context.Context, mode types.MatchMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
	return nil
}

func (s *fakeStore) list(l types.KeywordList) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lists[l]...)
}

func posting(title, company, description string) types.JobPosting {
	return types.JobPosting{ID: "1", Title: title, Company: company, Description: description}
}

func TestKeywordMatching(t *testing.T) {
	tests := []struct {
		name    string
		keyword string
		text    string
		match   bool
	}{
		{"whole word", "java", "senior java engineer", true},
		{"partial word rejected", "java", "javascript developer", false},
		{"case insensitive", "GoLang", "we write golang", true},
		{"c++ substring", "C++", "modern c++ codebase", true},
		{"c# substring", "c#", "c# and .net", true},
		{".net substring", ".NET", "asp.net core", true},
		{"quoted phrase", `"machine learning"`, "applied machine learning team", true},
		{"quoted phrase partial rejected", `"machine learning"`, "machine-learning team", false},
		{"regex metacharacters are literal", "go|rust", "we use go|rust daily", true},
		{"alternation is not applied", "go|rust", "we use go daily", false},
		{"empty quotes never match", `""`, "anything", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := compileKeyword(tt.keyword)
			assert.Equal(t, tt.match, k.in(tt.text))
		})
	}
}

func TestIncludeKeywordsFilter_FreeUserAlwaysPasses(t *testing.T) {
	store := newFakeStore(false)
	store.lists[types.ListIncludeKeywords] = []string{"golang"}
	f := NewIncludeKeywordsFilter(store)
	require.NoError(t, f.Init(context.Background()))

	res := f.Analyze(posting("Java Developer", "Acme", "Spring"))
	assert.True(t, res.Passed)
	assert.Nil(t, res.Reason)
	assert.False(t, f.CanUse())
}

func TestIncludeKeywordsFilter_EmptyListPasses(t *testing.T) {
	f := NewIncludeKeywordsFilter(newFakeStore(true))
	require.NoError(t, f.Init(context.Background()))

	assert.True(t, f.Analyze(posting("Anything", "", "")).Passed)
}

func TestIncludeKeywordsFilter_AnyMode(t *testing.T) {
	store := newFakeStore(true)
	store.lists[types.ListIncludeKeywords] = []string{"Golang", "Rust"}
	f := NewIncludeKeywordsFilter(store)
	require.NoError(t, f.Init(context.Background()))

	res := f.Analyze(posting("Backend Engineer", "Acme", "We use golang"))
	assert.True(t, res.Passed)
	assert.Equal(t, []string{"golang"}, res.MatchedKeywords)

	res = f.Analyze(posting("Backend Engineer", "Acme", "We use java"))
	assert.False(t, res.Passed)
	assert.Equal(t, "Missing required keywords", res.ReasonText())
	assert.Equal(t, []string{"golang", "rust"}, res.MissingKeywords)
}

func TestIncludeKeywordsFilter_AllMode(t *testing.T) {
	store := newFakeStore(true)
	store.mode = types.MatchAll
	store.lists[types.ListIncludeKeywords] = []string{"A", "B"}
	f := NewIncludeKeywordsFilter(store)
	require.NoError(t, f.Init(context.Background()))

	res := f.Analyze(posting("Role with a", "", ""))
	assert.False(t, res.Passed)
	assert.Equal(t, []string{"b"}, res.MissingKeywords)
	assert.Equal(t, []string{"a"}, res.MatchedKeywords)
	assert.Equal(t, "Missing: b", res.ReasonText())

	res = f.Analyze(posting("a and b", "", ""))
	assert.True(t, res.Passed)
}

func TestIncludeKeywordsFilter_AllModeReasonElides(t *testing.T) {
	store := newFakeStore(true)
	store.mode = types.MatchAll
	store.lists[types.ListIncludeKeywords] = []string{"go", "rust", "zig", "haskell"}
	f := NewIncludeKeywordsFilter(store)
	require.NoError(t, f.Init(context.Background()))

	res := f.Analyze(posting("Python role", "", ""))
	assert.Equal(t, "Missing: go, rust, zig...", res.ReasonText())
	assert.Len(t, res.MissingKeywords, 4)

	store.lists[types.ListIncludeKeywords] = []string{"go", "rust", "zig"}
	require.NoError(t, f.Refresh(context.Background()))
	res = f.Analyze(posting("Python role", "", ""))
	assert.Equal(t, "Missing: go, rust, zig", res.ReasonText())
}

func TestIncludeKeywordsFilter_SearchesLocation(t *testing.T) {
	store := newFakeStore(true)
	store.lists[types.ListIncludeKeywords] = []string{"berlin"}
	f := NewIncludeKeywordsFilter(store)
	require.NoError(t, f.Init(context.Background()))

	job := posting("Engineer", "Acme", "")
	job.Location = "Berlin, Germany"
	assert.True(t, f.Analyze(job).Passed)
}

func TestIncludeKeywordsFilter_ProGatedWrites(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(false)
	f := NewIncludeKeywordsFilter(store)
	require.NoError(t, f.Init(ctx))

	err := f.AddKeyword(ctx, "golang")
	assert.ErrorIs(t, err, ErrProRequired)
	assert.EqualError(t, err, "Pro required")

	err = f.SetMatchMode(ctx, types.MatchAll)
	assert.ErrorIs(t, err, ErrProRequired)
	assert.Empty(t, store.list(types.ListIncludeKeywords))
}

func TestIncludeKeywordsFilter_AddRemoveAndMode(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(true)
	f := NewIncludeKeywordsFilter(store)
	require.NoError(t, f.Init(ctx))

	require.NoError(t, f.AddKeyword(ctx, "  Kubernetes "))
	require.NoError(t, f.AddKeyword(ctx, "kubernetes"))
	assert.Equal(t, []string{"kubernetes"}, store.list(types.ListIncludeKeywords))
	assert.Equal(t, []string{"kubernetes"}, f.Config().Keywords)

	assert.ErrorIs(t, f.AddKeyword(ctx, "   "), ErrEmptyValue)
	assert.ErrorIs(t, f.SetMatchMode(ctx, "most"), ErrInvalidMatchMode)

	require.NoError(t, f.SetMatchMode(ctx, types.MatchAll))
	assert.Equal(t, types.MatchAll, f.Config().MatchMode)
	assert.Equal(t, types.MatchAll, store.mode)

	require.NoError(t, f.RemoveKeyword(ctx, "KUBERNETES"))
	assert.Empty(t, f.Config().Keywords)
	assert.Empty(t, store.list(types.ListIncludeKeywords))
}

func TestIncludeKeywordsFilter_StorageFailureFallsBack(t *testing.T) {
	store := newFakeStore(true)
	store.lists[types.ListIncludeKeywords] = []string{"golang"}
	store.failRead = errors.New("context invalidated")
	f := NewIncludeKeywordsFilter(store)

	require.NoError(t, f.Init(context.Background()))
	assert.False(t, f.CanUse())
	assert.True(t, f.Analyze(posting("Java", "", "")).Passed)
}

func TestExcludeKeywordsFilter_Analyze(t *testing.T) {
	store := newFakeStore(false)
	store.lists[types.ListExcludeKeywords] = []string{"Senior", "lead", "C++"}
	f := NewExcludeKeywordsFilter(store)
	require.NoError(t, f.Init(context.Background()))

	tests := []struct {
		name    string
		job     types.JobPosting
		passed  bool
		matched string
	}{
		{"title", posting("Senior Engineer", "Acme", ""), false, "senior"},
		{"description", posting("Engineer", "Acme", "You will lead a team"), false, "lead"},
		{"company", posting("Engineer", "Lead Generation LLC", ""), false, "lead"},
		{"special chars", posting("Engineer", "Acme", "modern c++"), false, "c++"},
		{"whole word only", posting("Engineer", "Acme", "misleading"), true, ""},
		{"no match", posting("Engineer", "Acme", "Go services"), true, ""},
		{"empty description", posting("Engineer", "", ""), true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := f.Analyze(tt.job)
			assert.Equal(t, tt.passed, res.Passed)
			if tt.passed {
				assert.Nil(t, res.Reason)
				return
			}
			assert.Equal(t, []string{tt.matched}, res.MatchedKeywords)
			assert.Equal(t, "Contains: "+tt.matched, res.ReasonText())
		})
	}
}

func TestExcludeKeywordsFilter_StopsAtFirstMatch(t *testing.T) {
	store := newFakeStore(false)
	store.lists[types.ListExcludeKeywords] = []string{"senior", "lead", "principal"}
	f := NewExcludeKeywordsFilter(store)
	require.NoError(t, f.Init(context.Background()))

	res := f.Analyze(posting("Senior Lead Principal Engineer", "", ""))
	assert.False(t, res.Passed)
	assert.Len(t, res.MatchedKeywords, 1)
	assert.Equal(t, "senior", res.MatchedKeywords[0])
}

func TestExcludeKeywordsFilter_FreeTierLimit(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(false)
	store.lists[types.ListExcludeKeywords] = []string{"one", "two", "three"}
	f := NewExcludeKeywordsFilter(store)
	require.NoError(t, f.Init(ctx))
	require.Equal(t, 3, f.Count())

	err := f.AddKeyword(ctx, "four")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTierLimit)
	assert.EqualError(t, err, "Free limit: 3 exclude keywords. Upgrade for unlimited.")

	var tierErr *TierLimitError
	require.True(t, errors.As(err, &tierErr))
	assert.Equal(t, 3, tierErr.Limit)

	assert.Equal(t, 3, f.Count())
	assert.Len(t, store.list(types.ListExcludeKeywords), 3)
	assert.Equal(t, 0, store.adds)
	assert.Equal(t, FreeExcludeKeywordLimit, f.Limit())

	// removing one frees a slot
	require.NoError(t, f.RemoveKeyword(ctx, "two"))
	require.NoError(t, f.AddKeyword(ctx, "four"))
	assert.Equal(t, []string{"one", "three", "four"}, f.Config().Values)
}

func TestExcludeKeywordsFilter_BlankPhrasesUseNoSlot(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(false)
	f := NewExcludeKeywordsFilter(store)
	require.NoError(t, f.Init(ctx))

	for _, kw := range []string{"", "   ", `""`, `" "`, `"`} {
		assert.ErrorIs(t, f.AddKeyword(ctx, kw), ErrEmptyValue, "keyword %q", kw)
	}
	assert.Equal(t, 0, f.Count())
	assert.Equal(t, 0, store.adds)

	for _, kw := range []string{"one", "two", `"three words"`} {
		require.NoError(t, f.AddKeyword(ctx, kw))
	}
	assert.Equal(t, 3, f.Count())
}

func TestCompileKeywords_SkipsBlankStoredEntries(t *testing.T) {
	ks := compileKeywords([]string{`""`, "go", "  ", `" "`})
	assert.Equal(t, []string{"go"}, keywordTexts(ks))
}

func TestExcludeKeywordsFilter_ProIsUnlimited(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(true)
	f := NewExcludeKeywordsFilter(store)
	require.NoError(t, f.Init(ctx))

	for _, kw := range []string{"a1", "a2", "a3", "a4", "a5"} {
		require.NoError(t, f.AddKeyword(ctx, kw))
	}
	assert.Equal(t, 5, f.Count())
	assert.Equal(t, Unlimited, f.Limit())
}

func TestExcludeKeywordsFilter_StoreWriteFailure(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(false)
	store.failAdd = errors.New("quota exceeded")
	f := NewExcludeKeywordsFilter(store)
	require.NoError(t, f.Init(ctx))

	err := f.AddKeyword(ctx, "senior")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to add exclude keyword")
	assert.Equal(t, 0, f.Count())
}

func TestExcludeKeywordsFilter_RefreshReloads(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(false)
	f := NewExcludeKeywordsFilter(store)
	require.NoError(t, f.Init(ctx))
	assert.True(t, f.Analyze(posting("Senior Engineer", "", "")).Passed)

	store.lists[types.ListExcludeKeywords] = []string{"senior"}
	require.NoError(t, f.Refresh(ctx))
	assert.False(t, f.Analyze(posting("Senior Engineer", "", "")).Passed)
}

func TestExcludeCompaniesFilter_Analyze(t *testing.T) {
	store := newFakeStore(true)
	store.lists[types.ListExcludeCompanies] = []string{"Acme, Inc.", "Globex Corporation"}
	f := NewExcludeCompaniesFilter(store)
	require.NoError(t, f.Init(context.Background()))

	tests := []struct {
		company string
		passed  bool
	}{
		{"ACME INC", false},
		{"Acme Robotics", false},
		{"globex", false},
		{"Initech", true},
		{"", true},
		{"Inc.", true},
	}

	for _, tt := range tests {
		t.Run(tt.company, func(t *testing.T) {
			res := f.Analyze(posting("Engineer", tt.company, ""))
			assert.Equal(t, tt.passed, res.Passed)
			if !tt.passed {
				assert.Equal(t, "Blocked company: "+tt.company, res.ReasonText())
				assert.Equal(t, tt.company, res.BlockedCompany)
			}
		})
	}
}

func TestExcludeCompaniesFilter_FreeTierLimit(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(false)
	f := NewExcludeCompaniesFilter(store)
	require.NoError(t, f.Init(ctx))

	require.NoError(t, f.AddCompany(ctx, "Acme Inc"))
	// same company, different spelling
	require.NoError(t, f.AddCompany(ctx, "ACME"))

	err := f.AddCompany(ctx, "Globex")
	assert.ErrorIs(t, err, ErrTierLimit)
	assert.EqualError(t, err, "Free limit: 1 company block. Upgrade for unlimited.")
	assert.Equal(t, 1, f.Count())
	assert.Equal(t, []string{"Acme Inc"}, store.list(types.ListExcludeCompanies))

	assert.ErrorIs(t, f.AddCompany(ctx, " , "), ErrEmptyValue)
}

func TestExcludeCompaniesFilter_RemoveByNormalizedName(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(true)
	store.lists[types.ListExcludeCompanies] = []string{"Acme, Inc."}
	f := NewExcludeCompaniesFilter(store)
	require.NoError(t, f.Init(ctx))

	require.NoError(t, f.RemoveCompany(ctx, "acme"))
	assert.Equal(t, 0, f.Count())
	assert.Empty(t, store.list(types.ListExcludeCompanies))
	assert.True(t, f.Analyze(posting("Engineer", "Acme", "")).Passed)
}

func TestExcludeCompaniesFilter_ConfigKeepsOriginalSpelling(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(true)
	f := NewExcludeCompaniesFilter(store)
	require.NoError(t, f.Init(ctx))

	require.NoError(t, f.AddCompany(ctx, "  Globex Corporation "))
	cfg := f.Config()
	assert.Equal(t, []string{"Globex Corporation"}, cfg.Values)
	assert.Equal(t, Unlimited, cfg.Limit)
	assert.True(t, cfg.IsPro)
}
