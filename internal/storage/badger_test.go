package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tianzeyuan99/website-monitor/internal/domain"
)

// setupTestDB creates a temporary BadgerDB instance for testing.
// It returns the repository instance and a cleanup function.
func setupTestDB(t *testing.T) (*BadgerRepository, func()) {
	t.Helper()

	// t.TempDir() automatically handles cleanup after the test completes.
	tempDir := t.TempDir()

	testLogger := logrus.New()
	testLogger.SetOutput(os.Stderr)        // Send logs to stderr during tests
	testLogger.SetLevel(logrus.ErrorLevel) // Only show errors by default

	repo, err := NewBadgerRepository(tempDir, testLogger)
	require.NoError(t, err, "Failed to create test BadgerDB repository")

	cleanup := func() {
		err := repo.Close()
		assert.NoError(t, err, "Failed to close test BadgerDB repository")
	}

	return repo, cleanup
}

// storedRun builds a one-site run fixture starting at the given instant.
// Its report holds one accessible link, one 404 and one timeout, so tests
// can verify both the totals and the nullable status code round-trip.
func storedRun(startedAt time.Time, siteURL string) domain.MonitoringRun {
	report := domain.NewLinkCheckReport(3)
	report.Observe(domain.Link{URL: siteURL + "/ok", Text: "ok"}, domain.Accessible(200))
	report.Observe(domain.Link{URL: siteURL + "/missing", Text: "missing"}, domain.InaccessibleStatus(404))
	report.Observe(domain.Link{URL: siteURL + "/slow", Text: "slow"}, domain.InaccessibleReason("request timed out"))

	return domain.MonitoringRun{
		StartedAt:  startedAt,
		FinishedAt: startedAt.Add(time.Minute),
		Websites: []domain.SiteResult{{
			URL:       siteURL,
			Status:    domain.SiteSuccess,
			Title:     "Fixture Site",
			Headings:  map[string][]string{"h1": {"Fixture"}},
			Links:     []domain.Link{{URL: siteURL + "/ok", Text: "ok"}},
			Images:    []domain.Image{},
			ParsedAt:  startedAt,
			LinkCheck: report,
		}},
	}
}

// TestBadgerRepository_SaveAndLatestRun tests saving runs and retrieving
// the newest one.
func TestBadgerRepository_SaveAndLatestRun(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup() // Ensure cleanup runs even if the test panics

	ctx := context.Background()
	older := storedRun(time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC), "https://old.example.com")
	newer := storedRun(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC), "https://new.example.com")

	// --- Test SaveRun ---
	// Save out of chronological order so key ordering, not insertion
	// order, determines the latest.
	err := repo.SaveRun(ctx, newer)
	require.NoError(t, err, "Failed to save newer run")
	err = repo.SaveRun(ctx, older)
	require.NoError(t, err, "Failed to save older run")

	// --- Test LatestRun ---
	latest, err := repo.LatestRun(ctx)
	require.NoError(t, err, "Failed to get latest run")
	require.NotNil(t, latest)
	assert.True(t, latest.StartedAt.Equal(newer.StartedAt), "Latest run should be the newest by start time")
	require.Len(t, latest.Websites, 1)
	assert.Equal(t, "https://new.example.com", latest.Websites[0].URL)
	assert.Equal(t, "Fixture Site", latest.Websites[0].Title)

	// Verify the report round-trips, including the nil status code on the
	// timeout entry.
	report := latest.Websites[0].LinkCheck
	require.NotNil(t, report)
	assert.Equal(t, 3, report.TotalTested)
	assert.Equal(t, 1, report.AccessibleCount)
	assert.Equal(t, 2, report.InaccessibleCount)
	require.Len(t, report.InaccessibleLinks, 2)
	require.NotNil(t, report.InaccessibleLinks[0].StatusCode)
	assert.Equal(t, 404, *report.InaccessibleLinks[0].StatusCode)
	assert.Nil(t, report.InaccessibleLinks[1].StatusCode, "Timeout entry should keep a null status code")
	assert.Equal(t, "request timed out", report.InaccessibleLinks[1].Error)

	// --- Test Overwriting a run (same start time should update) ---
	updated := newer
	updated.Websites = append([]domain.SiteResult{}, newer.Websites...)
	updated.Websites[0].Title = "Updated Fixture Site"
	err = repo.SaveRun(ctx, updated)
	require.NoError(t, err, "Failed to update run")

	latestAfterUpdate, err := repo.LatestRun(ctx)
	require.NoError(t, err, "Failed to get latest run after update")
	assert.Equal(t, "Updated Fixture Site", latestAfterUpdate.Websites[0].Title)

	summaries, err := repo.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, summaries, 2, "Overwriting should not add a new run")
}

// TestBadgerRepository_LatestRunEmpty tests the empty-store sentinel.
func TestBadgerRepository_LatestRunEmpty(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	run, err := repo.LatestRun(context.Background())
	require.Error(t, err, "LatestRun on an empty store should error")
	assert.ErrorIs(t, err, ErrNoRuns)
	assert.Nil(t, run)
}

// TestBadgerRepository_ListRuns tests summaries, ordering and the limit.
func TestBadgerRepository_ListRuns(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	starts := []time.Time{
		time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}
	// Insert shuffled.
	for _, i := range []int{1, 2, 0} {
		err := repo.SaveRun(ctx, storedRun(starts[i], "https://example.com"))
		require.NoError(t, err, "Failed to save run")
	}

	// --- Test ListRuns without a limit ---
	all, err := repo.ListRuns(ctx, 0)
	require.NoError(t, err, "Failed to list runs")
	require.Len(t, all, 3, "Expected every stored run")
	assert.True(t, all[0].StartedAt.Equal(starts[2]), "Runs should be listed newest first")
	assert.True(t, all[1].StartedAt.Equal(starts[1]))
	assert.True(t, all[2].StartedAt.Equal(starts[0]))

	// Summaries carry the run totals.
	assert.Equal(t, 1, all[0].Websites)
	assert.Equal(t, 0, all[0].Failed)
	assert.Equal(t, 3, all[0].LinksTested)
	assert.Equal(t, 2, all[0].Inaccessible)

	// --- Test ListRuns with a limit ---
	limited, err := repo.ListRuns(ctx, 2)
	require.NoError(t, err, "Failed to list runs with limit")
	require.Len(t, limited, 2, "Expected the limit to cap the listing")
	assert.True(t, limited[0].StartedAt.Equal(starts[2]), "Limited listing should still start with the newest run")
}

// TestBadgerRepository_ListRunsEmpty tests listing an empty store.
func TestBadgerRepository_ListRunsEmpty(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	summaries, err := repo.ListRuns(context.Background(), 5)
	require.NoError(t, err, "Listing an empty store should not error")
	assert.Empty(t, summaries)
}
