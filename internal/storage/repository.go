package storage

import (
	"context"
	"errors"
	"time"

	"github.com/tianzeyuan99/website-monitor/internal/domain"
)

// ErrNoRuns is returned by LatestRun when no run has been stored yet.
var ErrNoRuns = errors.New("no monitoring runs stored")

// RunSummary is a compact view of one stored run, used for listings where
// the full per-site results are not needed.
type RunSummary struct {
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	Websites     int       `json:"websites"`
	Failed       int       `json:"failed"`
	LinksTested  int       `json:"links_tested"`
	Inaccessible int       `json:"inaccessible"`
}

// RunRepository defines the interface for persisting monitoring runs.
// This allows us to swap storage implementations (e.g., BadgerDB, PostgreSQL)
// without changing the application logic that uses it.
type RunRepository interface {
	// SaveRun stores a completed monitoring run. Runs are keyed by their
	// start time, so saving a run with the same start time overwrites the
	// stored copy.
	SaveRun(ctx context.Context, run domain.MonitoringRun) error

	// LatestRun retrieves the most recently started run, or ErrNoRuns when
	// the store is empty.
	LatestRun(ctx context.Context) (*domain.MonitoringRun, error)

	// ListRuns returns summaries of stored runs, newest first. A limit of
	// zero or less returns all of them.
	ListRuns(ctx context.Context, limit int) ([]RunSummary, error)

	// Close gracefully shuts down the repository connection.
	Close() error
}
