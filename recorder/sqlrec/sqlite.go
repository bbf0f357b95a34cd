// Package sqlrec provides reference persistent Recorder backends: a SQLite
// sink (via modernc.org/sqlite, the pure-Go driver the teacher's
// graph/store.SQLiteStore uses) and a MySQL sink (via
// github.com/go-sql-driver/mysql, as graph/store.MySQLStore uses). Both
// satisfy recorder.Recorder directly; persisting observations is the
// external collaborator spec.md §1 names as out of scope for the core
// engine, exercised here rather than implemented by it.
package sqlrec

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/relloyd/pywr-go/recorder"
	"github.com/relloyd/pywr-go/scenario"
	"github.com/relloyd/pywr-go/state"
	"github.com/relloyd/pywr-go/timestep"
)

// Recorder persists one Metric's observations into a SQLite database, one
// row per (run, timestep, scenario).
type Recorder struct {
	meta   recorder.Meta
	metric recorder.Metric
	db     *sql.DB
	runID  string
}

// NewSQLiteRecorder opens (or creates) the SQLite database at path and
// returns a Recorder named name observing metric for runID.
func NewSQLiteRecorder(name, path, runID string, metric recorder.Metric) (*Recorder, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlrec: opening %q: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlrec: enabling WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlrec: setting busy timeout: %w", err)
	}

	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlrec: creating observations table: %w", err)
	}

	return &Recorder{meta: recorder.Meta{Name: name}, metric: metric, db: db, runID: runID}, nil
}

const createTableSQL = `
CREATE TABLE IF NOT EXISTS observations (
	run_id          TEXT    NOT NULL,
	timestep_index  INTEGER NOT NULL,
	scenario_index  INTEGER NOT NULL,
	recorder_name   TEXT    NOT NULL,
	value           REAL    NOT NULL,
	PRIMARY KEY (run_id, timestep_index, scenario_index, recorder_name)
)`

func (r *Recorder) Meta() recorder.Meta { return r.meta }

// Save writes one observation row, replacing any prior row for the same
// (run, timestep, scenario, recorder) key.
func (r *Recorder) Save(ts timestep.Timestep, sidx scenario.Index, ns state.NetworkState, pvalues []float64) error {
	v, err := r.metric.Read(ns, pvalues)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(context.Background(),
		`INSERT OR REPLACE INTO observations (run_id, timestep_index, scenario_index, recorder_name, value) VALUES (?, ?, ?, ?, ?)`,
		r.runID, ts.Index, sidx.Index, r.meta.Name, v)
	if err != nil {
		return fmt.Errorf("sqlrec: writing observation: %w", err)
	}
	return nil
}

// Close releases the underlying database connection.
func (r *Recorder) Close() error {
	return r.db.Close()
}
