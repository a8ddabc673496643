package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"

	"github.com/tianzeyuan99/website-monitor/internal/domain"
)

// runKeyPrefix namespaces run entries inside the key space.
const runKeyPrefix = "run:"

// runKeyTimeLayout formats start times with enough precision that
// lexicographic key order matches chronological order. LatestRun depends
// on that when it iterates in reverse.
const runKeyTimeLayout = "20060102T150405.000000000"

// BadgerRepository implements the RunRepository interface using BadgerDB.
type BadgerRepository struct {
	db  *badger.DB
	log logrus.FieldLogger
}

// NewBadgerRepository creates and initializes a new BadgerDB repository.
// It opens the database at the specified path.
func NewBadgerRepository(dbPath string, logger logrus.FieldLogger) (*BadgerRepository, error) {
	opts := badger.DefaultOptions(dbPath)
	// Route Badger's internal logging through logrus
	opts.Logger = &badgerLogger{logger.WithField("component", "badgerdb")}

	db, err := badger.Open(opts)
	if err != nil {
		logger.WithError(err).Error("Failed to open BadgerDB")
		return nil, fmt.Errorf("failed to open badger db at %s: %w", dbPath, err)
	}
	logger.Info("BadgerDB opened successfully at path: ", dbPath)

	return &BadgerRepository{
		db:  db,
		log: logger.WithField("component", "repository"),
	}, nil
}

// Close closes the BadgerDB database connection.
func (r *BadgerRepository) Close() error {
	r.log.Info("Closing BadgerDB...")
	if err := r.db.Close(); err != nil {
		r.log.WithError(err).Error("Error closing BadgerDB")
		return err
	}
	r.log.Info("BadgerDB closed.")
	return nil
}

// generateRunKey creates the storage key for a run.
// Format: run:{UTC start time, nanosecond precision}
func generateRunKey(startedAt time.Time) []byte {
	return []byte(runKeyPrefix + startedAt.UTC().Format(runKeyTimeLayout))
}

// runSeekKey is the key just past every run entry, where a reverse
// iterator starts.
func runSeekKey() []byte {
	return append([]byte(runKeyPrefix), 0xFF)
}

// SaveRun stores or updates a monitoring run in BadgerDB.
func (r *BadgerRepository) SaveRun(ctx context.Context, run domain.MonitoringRun) error {
	// A zero start time would collapse every such run onto the same key.
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}

	log := r.log.WithFields(logrus.Fields{
		"started_at": run.StartedAt,
		"websites":   len(run.Websites),
	})
	log.Info("Attempting to save run")

	runBytes, err := json.Marshal(run)
	if err != nil {
		log.WithError(err).Error("Failed to marshal run to JSON")
		return fmt.Errorf("failed to marshal run: %w", err)
	}

	key := generateRunKey(run.StartedAt)

	err = r.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(key, runBytes)
		return txn.SetEntry(e)
	})
	if err != nil {
		log.WithError(err).Error("Failed to save run to BadgerDB")
		return fmt.Errorf("failed to save run: %w", err)
	}

	log.Info("Run saved successfully")
	return nil
}

// LatestRun retrieves the most recently started run.
func (r *BadgerRepository) LatestRun(ctx context.Context) (*domain.MonitoringRun, error) {
	r.log.Info("Attempting to get latest run")

	var run domain.MonitoringRun
	found := false

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(runKeyPrefix)
		it.Seek(runSeekKey())
		if !it.ValidForPrefix(prefix) {
			return nil
		}

		item := it.Item()
		valCopy, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(valCopy, &run); err != nil {
			r.log.WithError(err).WithField("key", string(item.Key())).Error("Failed to unmarshal run from DB")
			return fmt.Errorf("failed to unmarshal run data for key %s: %w", string(item.Key()), err)
		}
		found = true
		return nil
	})
	if err != nil {
		r.log.WithError(err).Error("Failed to retrieve latest run from BadgerDB")
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}
	if !found {
		return nil, ErrNoRuns
	}

	r.log.WithField("started_at", run.StartedAt).Info("Latest run retrieved successfully")
	return &run, nil
}

// ListRuns retrieves summaries of stored runs, newest first.
func (r *BadgerRepository) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	log := r.log.WithField("limit", limit)
	log.Info("Attempting to list runs")

	summaries := []RunSummary{}

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(runKeyPrefix)
		for it.Seek(runSeekKey()); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(summaries) >= limit {
				break
			}
			item := it.Item()
			valCopy, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			var run domain.MonitoringRun
			if err := json.Unmarshal(valCopy, &run); err != nil {
				log.WithError(err).WithField("key", string(item.Key())).Error("Failed to unmarshal run from DB")
				return fmt.Errorf("failed to unmarshal run data for key %s: %w", string(item.Key()), err)
			}
			totals := run.Totals()
			summaries = append(summaries, RunSummary{
				StartedAt:    run.StartedAt,
				FinishedAt:   run.FinishedAt,
				Websites:     totals.Websites,
				Failed:       totals.Failed,
				LinksTested:  totals.LinksTested,
				Inaccessible: totals.Inaccessible,
			})
		}
		return nil
	})
	if err != nil {
		log.WithError(err).Error("Failed to list runs from BadgerDB")
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	log.WithField("run_count", len(summaries)).Info("Runs listed successfully")
	return summaries, nil
}

// StartGC runs Badger's value log garbage collection every interval until
// ctx is cancelled. Only the server mode keeps the database open long
// enough for this to reclaim anything.
func (r *BadgerRepository) StartGC(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			err := r.db.RunValueLogGC(0.7)
			switch {
			case err == nil:
				r.log.Info("BadgerDB GC completed successfully")
			case errors.Is(err, badger.ErrNoRewrite):
				r.log.Debug("BadgerDB GC: no rewrite needed")
			default:
				r.log.WithError(err).Error("BadgerDB GC failed")
			}
		case <-ctx.Done():
			r.log.Info("Stopping BadgerDB GC routine")
			return
		}
	}
}

// --- BadgerDB Internal Logger ---

// badgerLogger adapts logrus.FieldLogger to Badger's logger interface.
type badgerLogger struct {
	logger logrus.FieldLogger
}

func (l *badgerLogger) Errorf(f string, v ...interface{}) {
	l.logger.Errorf(f, v...)
}
func (l *badgerLogger) Warningf(f string, v ...interface{}) {
	l.logger.Warningf(f, v...)
}
func (l *badgerLogger) Infof(f string, v ...interface{}) {
	l.logger.Infof(f, v...)
}
func (l *badgerLogger) Debugf(f string, v ...interface{}) {
	l.logger.Debugf(f, v...)
}
