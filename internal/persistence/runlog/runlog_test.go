package runlog

import (
	"path/filepath"
	"testing"

	"ecosysx/internal/protocol"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
	})
	return db
}

func metricsSnap(tick uint64, pop int) *protocol.Snapshot {
	return &protocol.Snapshot{
		Schema:    protocol.SchemaTag,
		TimeModel: protocol.TimeModelTag,
		Tick:      tick,
		SimDigest: "aaaa",
		RNGDigest: "bbbb",
		Metrics: protocol.Metrics{
			Pop:        pop,
			EnergyMean: 61.5,
			SIR:        protocol.SIRBuckets{S: pop - 2, I: 2},
		},
	}
}

func TestArchive_RoundTrip(t *testing.T) {
	db := openTemp(t)

	provider := protocol.ProviderInfo{Name: "ecosysx-go", Version: "0.3.0", BuildHash: "0123456789abcdef"}
	runID, err := db.BeginRun("baseline", 42, provider, []byte(`{"simulation":{}}`))
	if err != nil {
		t.Fatalf("begin run: %v", err)
	}
	if runID == "" {
		t.Fatal("empty run id")
	}

	for _, tick := range []uint64{0, 24, 48} {
		if err := db.RecordSnapshot(runID, metricsSnap(tick, 100)); err != nil {
			t.Fatalf("record tick %d: %v", tick, err)
		}
	}

	rows, err := db.Snapshots(runID)
	if err != nil {
		t.Fatalf("snapshots: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	for i, want := range []uint64{0, 24, 48} {
		if rows[i].Tick != want {
			t.Fatalf("row %d tick = %d, want %d", i, rows[i].Tick, want)
		}
	}
	if rows[1].Pop != 100 || rows[1].EnergyMean != 61.5 || rows[1].SIR.I != 2 {
		t.Fatalf("row metrics = %+v", rows[1])
	}
	if rows[0].SimDigest != "aaaa" || rows[0].RNGDigest != "bbbb" {
		t.Fatalf("row digests = %+v", rows[0])
	}
}

func TestArchive_FullStateBlob(t *testing.T) {
	db := openTemp(t)

	runID, err := db.BeginRun("blob", 1, protocol.ProviderInfo{Name: "x", Version: "0"}, []byte(`{}`))
	if err != nil {
		t.Fatalf("begin run: %v", err)
	}

	snap := metricsSnap(10, 2)
	snap.State = &protocol.FullState{
		Agents: []protocol.AgentState{
			{ID: 1, Energy: 55.5, SIRState: 1, AgeTicks: 10},
			{ID: 2, Energy: 80, SIRState: 0, AgeTicks: 10},
		},
		Environment: protocol.EnvironmentState{
			ResourceGrid: []float64{1, 2, 3, 4},
			Tick:         10,
		},
	}
	if err := db.RecordSnapshot(runID, snap); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := db.RecordSnapshot(runID, metricsSnap(20, 2)); err != nil {
		t.Fatalf("record metrics-only: %v", err)
	}

	st, err := db.FullState(runID, 10)
	if err != nil {
		t.Fatalf("full state: %v", err)
	}
	if st == nil || len(st.Agents) != 2 {
		t.Fatalf("state = %+v", st)
	}
	if st.Agents[0].ID != 1 || st.Agents[0].Energy != 55.5 || st.Agents[0].SIRState != 1 {
		t.Fatalf("agent round trip = %+v", st.Agents[0])
	}
	if len(st.Environment.ResourceGrid) != 4 || st.Environment.ResourceGrid[3] != 4 {
		t.Fatalf("grid round trip = %+v", st.Environment)
	}

	// Metrics-only checkpoints come back without state, not as an error.
	st, err = db.FullState(runID, 20)
	if err != nil {
		t.Fatalf("metrics-only full state: %v", err)
	}
	if st != nil {
		t.Fatalf("metrics-only checkpoint returned state: %+v", st)
	}
}

func TestArchive_RunsIsolated(t *testing.T) {
	db := openTemp(t)

	a, _ := db.BeginRun("a", 1, protocol.ProviderInfo{Name: "x", Version: "0"}, []byte(`{}`))
	b, _ := db.BeginRun("b", 2, protocol.ProviderInfo{Name: "x", Version: "0"}, []byte(`{}`))
	if a == b {
		t.Fatal("two runs share an id")
	}
	if err := db.RecordSnapshot(a, metricsSnap(0, 5)); err != nil {
		t.Fatal(err)
	}

	rows, err := db.Snapshots(b)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Fatalf("run b sees %d snapshots from run a", len(rows))
	}
}
