package sqlrec

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"github.com/relloyd/pywr-go/recorder"
	"github.com/relloyd/pywr-go/scenario"
	"github.com/relloyd/pywr-go/state"
	"github.com/relloyd/pywr-go/timestep"
)

// MySQLRecorder persists one Metric's observations into a MySQL table, for
// deployments sharing a central database across multiple model runs.
type MySQLRecorder struct {
	meta   recorder.Meta
	metric recorder.Metric
	db     *sql.DB
	runID  string
}

// NewMySQLRecorder opens a connection using dsn (a go-sql-driver/mysql
// data source name) and returns a MySQLRecorder named name observing
// metric for runID. The observations table is created if absent.
func NewMySQLRecorder(name, dsn, runID string, metric recorder.Metric) (*MySQLRecorder, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlrec: opening mysql connection: %w", err)
	}

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, createMySQLTableSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlrec: creating observations table: %w", err)
	}

	return &MySQLRecorder{meta: recorder.Meta{Name: name}, metric: metric, db: db, runID: runID}, nil
}

const createMySQLTableSQL = `
CREATE TABLE IF NOT EXISTS observations (
	run_id          VARCHAR(128) NOT NULL,
	timestep_index  INT          NOT NULL,
	scenario_index  INT          NOT NULL,
	recorder_name   VARCHAR(255) NOT NULL,
	value           DOUBLE       NOT NULL,
	PRIMARY KEY (run_id, timestep_index, scenario_index, recorder_name)
)`

func (r *MySQLRecorder) Meta() recorder.Meta { return r.meta }

// Save writes one observation row, replacing any prior row for the same
// (run, timestep, scenario, recorder) key.
func (r *MySQLRecorder) Save(ts timestep.Timestep, sidx scenario.Index, ns state.NetworkState, pvalues []float64) error {
	v, err := r.metric.Read(ns, pvalues)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(context.Background(),
		`INSERT INTO observations (run_id, timestep_index, scenario_index, recorder_name, value) VALUES (?, ?, ?, ?, ?)
		 ON DUPLICATE KEY UPDATE value = VALUES(value)`,
		r.runID, ts.Index, sidx.Index, r.meta.Name, v)
	if err != nil {
		return fmt.Errorf("sqlrec: writing observation: %w", err)
	}
	return nil
}

// Close releases the underlying database connection.
func (r *MySQLRecorder) Close() error {
	return r.db.Close()
}
