// Package runlog persists training run metadata and per-epoch metrics
// to SQLite so past runs can be compared after the fact.
package runlog

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	_ "modernc.org/sqlite"
)

// Run identifies one training run.
type Run struct {
	ID        string
	StartedAt time.Time
	Config    string // serialized config for reference
}

// EpochRecord is one epoch's metrics within a run.
type EpochRecord struct {
	Epoch         int
	TrainLoss     float32
	TrainAccuracy float32
	ValidLoss     float32
	ValidAccuracy float32
}

// Store writes run history to a SQLite database.
type Store struct {
	path string

	mu sync.Mutex
	db *sql.DB
}

// NewStore creates a store backed by the SQLite database at path. The
// database and schema are created on Open.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Open connects to the database and creates the schema if needed.
func (s *Store) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("runlog: database path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return errors.Wrap(err, "open run database")
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return errors.Wrap(err, "ping run database")
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id         TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			config     TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS epochs (
			run_id    TEXT NOT NULL REFERENCES runs(id),
			epoch     INTEGER NOT NULL,
			train_loss REAL NOT NULL,
			train_acc  REAL NOT NULL,
			valid_loss REAL NOT NULL,
			valid_acc  REAL NOT NULL,
			PRIMARY KEY (run_id, epoch)
		);
	`)
	return errors.Wrap(err, "create run tables")
}

func (s *Store) getDB() (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil, errors.New("runlog: store is not open")
	}
	return s.db, nil
}

// BeginRun records a new run with a fresh UUID and returns it.
func (s *Store) BeginRun(ctx context.Context, configDump string) (Run, error) {
	db, err := s.getDB()
	if err != nil {
		return Run{}, err
	}

	run := Run{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Config:    configDump,
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, config) VALUES (?, ?, ?)`,
		run.ID, run.StartedAt.Format(time.RFC3339), run.Config)
	if err != nil {
		return Run{}, errors.Wrap(err, "insert run")
	}
	return run, nil
}

// RecordEpoch stores one epoch's metrics for a run. Recording the same
// epoch twice replaces the previous row.
func (s *Store) RecordEpoch(ctx context.Context, runID string, rec EpochRecord) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO epochs (run_id, epoch, train_loss, train_acc, valid_loss, valid_acc)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, epoch) DO UPDATE SET
			train_loss = excluded.train_loss,
			train_acc  = excluded.train_acc,
			valid_loss = excluded.valid_loss,
			valid_acc  = excluded.valid_acc
	`, runID, rec.Epoch, rec.TrainLoss, rec.TrainAccuracy, rec.ValidLoss, rec.ValidAccuracy)
	return errors.Wrapf(err, "record epoch %d", rec.Epoch)
}

// Epochs returns the recorded metrics for a run in epoch order.
func (s *Store) Epochs(ctx context.Context, runID string) ([]EpochRecord, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT epoch, train_loss, train_acc, valid_loss, valid_acc
		FROM epochs WHERE run_id = ? ORDER BY epoch
	`, runID)
	if err != nil {
		return nil, errors.Wrap(err, "query epochs")
	}
	defer rows.Close()

	var records []EpochRecord
	for rows.Next() {
		var rec EpochRecord
		if err := rows.Scan(&rec.Epoch, &rec.TrainLoss, &rec.TrainAccuracy,
			&rec.ValidLoss, &rec.ValidAccuracy); err != nil {
			return nil, errors.Wrap(err, "scan epoch row")
		}
		records = append(records, rec)
	}
	return records, errors.Wrap(rows.Err(), "iterate epochs")
}
