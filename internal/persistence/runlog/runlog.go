// Package runlog is the harness-side run archive: snapshot digests and
// metrics per checkpoint in SQLite, with optional zstd-compressed full
// state blobs. The engine itself never persists anything; archiving is the
// caller's choice.
package runlog

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	_ "modernc.org/sqlite"

	"ecosysx/internal/protocol"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	scenario    TEXT NOT NULL,
	seed        INTEGER NOT NULL,
	provider    TEXT NOT NULL,
	build_hash  TEXT NOT NULL,
	config_json TEXT NOT NULL,
	started_at  TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS snapshots (
	run_id      TEXT NOT NULL,
	tick        INTEGER NOT NULL,
	sim_digest  TEXT NOT NULL,
	rng_digest  TEXT NOT NULL,
	pop         INTEGER NOT NULL,
	energy_mean REAL NOT NULL,
	sir_s       INTEGER NOT NULL,
	sir_i       INTEGER NOT NULL,
	sir_r       INTEGER NOT NULL,
	state_zstd  BLOB,
	PRIMARY KEY (run_id, tick)
);
`

type DB struct {
	db  *sql.DB
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func Open(path string) (*DB, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		db.Close()
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &DB{db: db, enc: enc, dec: dec}, nil
}

func (d *DB) Close() error {
	d.enc.Close()
	d.dec.Close()
	return d.db.Close()
}

// BeginRun registers a run and returns its id.
func (d *DB) BeginRun(scenario string, seed int64, provider protocol.ProviderInfo, cfgJSON []byte) (string, error) {
	id := uuid.NewString()
	_, err := d.db.Exec(
		`INSERT INTO runs (id, scenario, seed, provider, build_hash, config_json, started_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, scenario, seed, provider.Name+"/"+provider.Version, provider.BuildHash,
		string(cfgJSON), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// RecordSnapshot stores one checkpoint. Full state, when present, is
// JSON-encoded and zstd-compressed.
func (d *DB) RecordSnapshot(runID string, snap *protocol.Snapshot) error {
	var blob []byte
	if snap.State != nil {
		raw, err := json.Marshal(snap.State)
		if err != nil {
			return fmt.Errorf("encode state: %w", err)
		}
		blob = d.enc.EncodeAll(raw, nil)
	}
	_, err := d.db.Exec(
		`INSERT INTO snapshots (run_id, tick, sim_digest, rng_digest, pop, energy_mean, sir_s, sir_i, sir_r, state_zstd)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, snap.Tick, snap.SimDigest, snap.RNGDigest,
		snap.Metrics.Pop, snap.Metrics.EnergyMean,
		snap.Metrics.SIR.S, snap.Metrics.SIR.I, snap.Metrics.SIR.R,
		blob,
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// Row is one archived checkpoint, without the state blob.
type Row struct {
	Tick       uint64
	SimDigest  string
	RNGDigest  string
	Pop        int
	EnergyMean float64
	SIR        protocol.SIRBuckets
}

func (d *DB) Snapshots(runID string) ([]Row, error) {
	rows, err := d.db.Query(
		`SELECT tick, sim_digest, rng_digest, pop, energy_mean, sir_s, sir_i, sir_r
		 FROM snapshots WHERE run_id = ? ORDER BY tick`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.Tick, &r.SimDigest, &r.RNGDigest, &r.Pop, &r.EnergyMean,
			&r.SIR.S, &r.SIR.I, &r.SIR.R); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// FullState decompresses and decodes the archived state blob for one
// checkpoint. Returns nil when the checkpoint was recorded metrics-only.
func (d *DB) FullState(runID string, tick uint64) (*protocol.FullState, error) {
	var blob []byte
	err := d.db.QueryRow(
		`SELECT state_zstd FROM snapshots WHERE run_id = ? AND tick = ?`, runID, tick).Scan(&blob)
	if err != nil {
		return nil, err
	}
	if len(blob) == 0 {
		return nil, nil
	}
	raw, err := d.dec.DecodeAll(blob, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress state: %w", err)
	}
	var st protocol.FullState
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	return &st, nil
}
