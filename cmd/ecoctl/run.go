package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"

	"ecosysx/internal/persistence/runlog"
	"ecosysx/internal/protocol"
	"ecosysx/internal/sidecar"
	"ecosysx/internal/sim/scenario"
)

func cmdRun(logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	scenarioPath, sidecarPath := commonFlags(fs)
	dbPath := fs.String("db", "runs.db", "run archive database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *scenarioPath == "" {
		return fmt.Errorf("-scenario is required")
	}

	sc, err := scenario.Load(*scenarioPath)
	if err != nil {
		return err
	}

	db, err := runlog.Open(*dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	proc, err := spawnEngine(*sidecarPath)
	if err != nil {
		return err
	}
	defer proc.Close()

	provider, err := proc.Client.Info()
	if err != nil {
		return err
	}
	cfgJSON, err := json.Marshal(sc.Config)
	if err != nil {
		return err
	}
	runID, err := db.BeginRun(sc.Name, sc.Seed, *provider, cfgJSON)
	if err != nil {
		return err
	}
	logger.Printf("run %s: scenario %q seed %d on %s/%s", runID, sc.Name, sc.Seed, provider.Name, provider.Version)

	checkpoints, err := driveScenario(proc.Client, sc, func(snap *protocol.Snapshot) error {
		return db.RecordSnapshot(runID, snap)
	})
	if err != nil {
		return err
	}

	last := checkpoints[len(checkpoints)-1]
	logger.Printf("run %s done: tick=%d pop=%d simDigest=%s", runID, last.Tick, last.Metrics.Pop, last.SimDigest)
	return nil
}

// driveScenario performs init, the tick-0 snapshot, then batches of steps
// with a snapshot at every checkpoint. It returns the snapshots in order.
func driveScenario(c *sidecar.Client, sc scenario.Scenario, record func(*protocol.Snapshot) error) ([]*protocol.Snapshot, error) {
	if err := c.Init(sc.Config, sc.Seed); err != nil {
		return nil, err
	}

	kind := "metrics"
	if sc.FullState {
		kind = "full"
	}

	var out []*protocol.Snapshot
	snap, err := c.Snapshot(kind)
	if err != nil {
		return nil, err
	}
	if record != nil {
		if err := record(snap); err != nil {
			return nil, err
		}
	}
	out = append(out, snap)

	for done := 0; done < sc.Ticks; {
		batch := sc.SnapshotEvery
		if done+batch > sc.Ticks {
			batch = sc.Ticks - done
		}
		if _, err := c.Step(batch); err != nil {
			return nil, err
		}
		done += batch

		snap, err := c.Snapshot(kind)
		if err != nil {
			return nil, err
		}
		if record != nil {
			if err := record(snap); err != nil {
				return nil, err
			}
		}
		out = append(out, snap)
	}
	return out, nil
}
