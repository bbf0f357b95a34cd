// Package badgerrec provides a reference Recorder backed by an embedded
// BadgerDB key-value store (github.com/dgraph-io/badger/v4), the storage
// engine the other repos in this corpus use for embedded graph persistence.
// Each observation is written under a lexicographically ordered key so a
// full scenario's time series can be read back with a single prefix scan.
package badgerrec

import (
	"encoding/binary"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/relloyd/pywr-go/recorder"
	"github.com/relloyd/pywr-go/scenario"
	"github.com/relloyd/pywr-go/state"
	"github.com/relloyd/pywr-go/timestep"
)

// Recorder persists one Metric's observations into an embedded Badger
// database, keyed by run, recorder name, scenario and timestep so that a
// single scenario's series is a contiguous key range.
type Recorder struct {
	meta   recorder.Meta
	metric recorder.Metric
	db     *badger.DB
	runID  string
}

// Open opens (creating if absent) a Badger database at dir and returns a
// Recorder named name observing metric for runID.
func Open(name, dir, runID string, metric recorder.Metric) (*Recorder, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badgerrec: opening %q: %w", dir, err)
	}
	return &Recorder{meta: recorder.Meta{Name: name}, metric: metric, db: db, runID: runID}, nil
}

func (r *Recorder) Meta() recorder.Meta { return r.meta }

// key encodes run/recorder/scenario/timestep into a byte-ordered key:
// runID|recorderName|0x00|scenarioIndex(4B BE)|timestepIndex(4B BE).
func (r *Recorder) key(sidx, tsIdx int) []byte {
	prefix := fmt.Sprintf("%s|%s|", r.runID, r.meta.Name)
	k := make([]byte, len(prefix)+1+4+4)
	n := copy(k, prefix)
	k[n] = 0x00
	n++
	binary.BigEndian.PutUint32(k[n:], uint32(sidx))
	n += 4
	binary.BigEndian.PutUint32(k[n:], uint32(tsIdx))
	return k
}

// Save writes one observation as an 8-byte big-endian IEEE 754 value under
// this (run, recorder, scenario, timestep)'s key.
func (r *Recorder) Save(ts timestep.Timestep, sidx scenario.Index, ns state.NetworkState, pvalues []float64) error {
	v, err := r.metric.Read(ns, pvalues)
	if err != nil {
		return err
	}

	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, mathFloatBits(v))

	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(r.key(sidx.Index, ts.Index), buf)
	})
}

// ScenarioSeries reads back every observation for one scenario, in
// timestep order, via a prefix scan over that scenario's key range.
func (r *Recorder) ScenarioSeries(scenarioIndex int) ([]float64, error) {
	var values []float64
	prefix := r.key(scenarioIndex, 0)[:len(r.key(scenarioIndex, 0))-4] // drop the timestep suffix

	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				values = append(values, mathFloatFromBits(binary.BigEndian.Uint64(val)))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return values, err
}

// Close releases the underlying database handle.
func (r *Recorder) Close() error {
	return r.db.Close()
}
