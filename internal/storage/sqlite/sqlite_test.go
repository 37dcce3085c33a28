package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonathan/jobfiltr/internal/storage"
	"github.com/jonathan/jobfiltr/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "jobfiltr.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen_MigrateIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobfiltr.db")

	s, err := Open(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, s.AddKeyword(context.Background(), types.ListExcludeKeywords, "senior"))
	require.NoError(t, s.Close())

	s, err = Open(context.Background(), path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	got, err := s.GetKeywords(context.Background(), types.ListExcludeKeywords)
	require.NoError(t, err)
	assert.Equal(t, []string{"senior"}, got)
}

func TestStore_DefaultSettings(t *testing.T) {
	s := openTestStore(t)

	settings, err := s.GetSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.DefaultSettings(), settings)
}

func TestStore_SettingsRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.UpdateSettings(ctx, types.FilterSettings{HideGhostJobs: false, HideStaffingFirms: true, VerifyTrueRemote: true}))
	require.NoError(t, s.SetMatchMode(ctx, types.MatchAll))
	require.NoError(t, s.SetProStatus(ctx, types.ProStatus{IsPro: true}))

	settings, err := s.GetSettings(ctx)
	require.NoError(t, err)
	assert.False(t, settings.HideGhostJobs)
	assert.True(t, settings.HideStaffingFirms)
	assert.True(t, settings.VerifyTrueRemote)
	assert.True(t, settings.IsPro)
	assert.Equal(t, types.MatchAll, settings.MatchMode)

	// an update without a match mode keeps the stored one
	require.NoError(t, s.UpdateSettings(ctx, types.FilterSettings{HideGhostJobs: true}))
	mode, err := s.GetMatchMode(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.MatchAll, mode)

	assert.Error(t, s.SetMatchMode(ctx, "sometimes"))
}

func TestStore_ListsKeepInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	for _, kw := range []string{"zeta", "alpha", "mid", "alpha", "  "} {
		require.NoError(t, s.AddKeyword(ctx, types.ListIncludeKeywords, kw))
	}
	got, err := s.GetKeywords(ctx, types.ListIncludeKeywords)
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, got)

	require.NoError(t, s.RemoveKeyword(ctx, types.ListIncludeKeywords, "alpha"))
	require.NoError(t, s.AddKeyword(ctx, types.ListIncludeKeywords, "omega"))
	got, err = s.GetKeywords(ctx, types.ListIncludeKeywords)
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "mid", "omega"}, got)

	other, err := s.GetKeywords(ctx, types.ListExcludeCompanies)
	require.NoError(t, err)
	assert.Empty(t, other)

	_, err = s.GetKeywords(ctx, "favorites")
	assert.ErrorIs(t, err, storage.ErrUnknownList)
}

func TestStore_Blocklist(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	n, err := s.ImportBlocklist(ctx, []types.BlocklistEntry{
		{CompanyName: "Acme Staffing, Inc.", Category: types.ReportSpam, Confidence: 0.8, SubmittedCount: 4},
		{CompanyName: "Globex", Verified: true},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = s.ImportBlocklist(ctx, []types.BlocklistEntry{{CompanyName: "ACME STAFFING", Verified: true}})
	require.NoError(t, err)

	entries, err := s.GetCommunityBlocklist(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "acme staffing", entries[0].CompanyNameNormalized)
	assert.Equal(t, "ACME STAFFING", entries[0].CompanyName)
	assert.True(t, entries[0].Verified)
	assert.Equal(t, "globex", entries[1].CompanyNameNormalized)

	_, err = s.ImportBlocklist(ctx, []types.BlocklistEntry{{CompanyName: "Bad", Category: "fraud"}})
	assert.Error(t, err)
}

func TestStore_ScoreCache(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	got, err := s.GetScore(ctx, "job-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	score := types.Score{
		JobID:            "job-1",
		Overall:          67,
		Confidence:       0.8,
		Category:         types.ScoreHighRisk,
		Breakdown:        map[types.SignalCategory]types.PercentScore{types.SignalTemporal: 75},
		AlgorithmVersion: "2",
		ComputedAt:       now,
	}
	require.NoError(t, s.SetScore(ctx, "job-1", score, time.Hour))

	got, err = s.GetScore(ctx, "job-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "2", got.Version)
	assert.Equal(t, types.ScoreHighRisk, got.Data.Category)
	assert.Equal(t, types.PercentScore(75), got.Data.Breakdown[types.SignalTemporal])
	assert.True(t, got.Fresh("2", now))

	// last write wins
	score.Overall = 10
	require.NoError(t, s.SetScore(ctx, "job-1", score, time.Hour))
	got, err = s.GetScore(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, types.PercentScore(10), got.Data.Overall)

	require.NoError(t, s.SetScore(ctx, "job-2", score, time.Minute))
	now = now.Add(2 * time.Minute)
	pruned, err := s.PruneScores(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pruned)

	got, err = s.GetScore(ctx, "job-2")
	require.NoError(t, err)
	assert.Nil(t, got)
}
