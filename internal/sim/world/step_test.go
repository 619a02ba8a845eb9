package world

import (
	"math"
	"testing"

	"ecosysx/internal/sim/config"
)

func TestMetrics_InitialPopulation(t *testing.T) {
	cfg := testConfig()
	cfg.Simulation.PopulationSize = 10

	w := New(cfg, 42)
	m := w.Metrics()
	if m.Pop != 10 {
		t.Fatalf("pop = %d, want 10", m.Pop)
	}
	if m.SIR.S != 10 || m.SIR.I != 0 || m.SIR.R != 0 {
		t.Fatalf("sir = %+v, want S:10 I:0 R:0", m.SIR)
	}
	if m.EnergyMean < cfg.Agents.InitialEnergy.Min || m.EnergyMean > cfg.Agents.InitialEnergy.Max {
		t.Fatalf("energyMean %v outside initial energy range", m.EnergyMean)
	}

	if tick, err := w.Step(1); err != nil || tick != 1 {
		t.Fatalf("step(1) = %d, %v; want 1, nil", tick, err)
	}
	// Death threshold 0 and consumption well under initial energy: nobody
	// dies on the first tick.
	if m := w.Metrics(); m.Pop != 10 {
		t.Fatalf("pop after one tick = %d, want 10", m.Pop)
	}
}

func TestMetrics_EmptyPopulation(t *testing.T) {
	cfg := testConfig()
	cfg.Simulation.PopulationSize = 0

	w := New(cfg, 1)
	m := w.Metrics()
	if m.Pop != 0 || m.EnergyMean != 0 {
		t.Fatalf("empty world metrics = %+v", m)
	}
	if _, err := w.Step(10); err != nil {
		t.Fatalf("step on empty world: %v", err)
	}
	if m := w.Metrics(); m.Pop != 0 {
		t.Fatalf("agents appeared from nowhere: %+v", m)
	}
}

func TestDeathRule_NoAgentAtOrBelowThreshold(t *testing.T) {
	cfg := fullConfig()
	// High burn and a threshold the whole population will cross quickly.
	cfg.Agents.InitialEnergy = config.Range{Min: 5, Max: 15}
	cfg.Agents.EnergyConsumption = config.Range{Min: 1.5, Max: 3}
	cfg.Simulation.EnableReproduction = false
	cfg.Environment.ResourceRegenRate = 0.1

	w := New(cfg, 11)
	for i := 0; i < 30; i++ {
		if _, err := w.Step(1); err != nil {
			t.Fatalf("step: %v", err)
		}
		m := w.Metrics()
		if m.Pop < 0 || m.SIR.S < 0 || m.SIR.I < 0 || m.SIR.R < 0 {
			t.Fatalf("negative count at tick %d: %+v", w.Tick(), m)
		}
		for id, a := range w.agents {
			if a.Energy <= cfg.Agents.DeathThreshold {
				t.Fatalf("tick %d: agent %d alive with energy %v <= threshold %v",
					w.Tick(), id, a.Energy, cfg.Agents.DeathThreshold)
			}
		}
	}
}

func TestResourceBounds_CellsStayInRange(t *testing.T) {
	cfg := fullConfig()
	cfg.Environment.ResourceRegenRate = 1.0

	w := New(cfg, 3)
	for _, v := range w.resources.cells {
		if v < 0 || v > resourceMax {
			t.Fatalf("initial cell out of range: %v", v)
		}
	}
	for i := 0; i < 60; i++ {
		if _, err := w.Step(1); err != nil {
			t.Fatalf("step: %v", err)
		}
		for j, v := range w.resources.cells {
			if v < 0 || v > resourceMax {
				t.Fatalf("tick %d: cell %d out of range: %v", w.Tick(), j, v)
			}
		}
	}
}

func TestMovement_PositionsStayWrapped(t *testing.T) {
	cfg := testConfig()
	cfg.Simulation.WorldSize = 5
	cfg.Agents.MovementSpeed = config.Range{Min: 3, Max: 6}

	w := New(cfg, 8)
	ws := float64(cfg.Simulation.WorldSize)
	for i := 0; i < 50; i++ {
		if _, err := w.Step(1); err != nil {
			t.Fatalf("step: %v", err)
		}
		for id, a := range w.agents {
			if a.X < 0 || a.X >= ws || a.Y < 0 || a.Y >= ws {
				t.Fatalf("agent %d escaped the torus: (%v, %v)", id, a.X, a.Y)
			}
			want := Cell{X: int(math.Floor(a.X)), Y: int(math.Floor(a.Y))}
			if a.cell != want {
				t.Fatalf("agent %d spatial index stale: cell %+v, position (%v, %v)", id, a.cell, a.X, a.Y)
			}
			if _, ok := w.grid.cells[a.cell][id]; !ok {
				t.Fatalf("agent %d missing from grid cell %+v", id, a.cell)
			}
		}
	}
}

func TestReproduction_SpawnsOffspringWithFreshIDs(t *testing.T) {
	cfg := fullConfig()
	cfg.Simulation.EnableDisease = false
	cfg.Disease = nil
	// Abundant energy keeps everyone above the reproduction threshold.
	cfg.Agents.InitialEnergy = config.Range{Min: 200, Max: 300}
	cfg.Agents.ReproductionThreshold = 50
	cfg.Agents.EnergyConsumption = config.Range{Min: 0.01, Max: 0.02}

	w := New(cfg, 5)
	before := w.Metrics().Pop
	if _, err := w.Step(200); err != nil {
		t.Fatalf("step: %v", err)
	}
	after := w.Metrics().Pop
	if after <= before {
		t.Fatalf("population never grew: %d -> %d", before, after)
	}
	// Ids stay unique and dense enough: counter covers every live agent.
	for id, a := range w.agents {
		if id != a.ID {
			t.Fatalf("population key %d holds agent %d", id, a.ID)
		}
		if id == 0 || id > w.agentCounter {
			t.Fatalf("agent id %d outside counter range %d", id, w.agentCounter)
		}
	}
}

func TestAging_NewbornsDoNotStepOnBirthTick(t *testing.T) {
	cfg := fullConfig()
	cfg.Simulation.EnableDisease = false
	cfg.Disease = nil
	cfg.Agents.InitialEnergy = config.Range{Min: 200, Max: 300}
	cfg.Agents.ReproductionThreshold = 50

	w := New(cfg, 21)
	initialPop := uint64(len(w.agents))

	for i := 0; i < 400; i++ {
		if _, err := w.Step(1); err != nil {
			t.Fatalf("step: %v", err)
		}
		for id, a := range w.agents {
			if id <= initialPop {
				continue
			}
			// The living set is frozen before iteration: an offspring born
			// this tick has age 0 until its first own tick.
			if a.AgeTicks > w.Tick() {
				t.Fatalf("offspring %d aged %d ticks in a %d-tick world", id, a.AgeTicks, w.Tick())
			}
		}
		if w.agentCounter > initialPop {
			return
		}
	}
	t.Fatal("no offspring born in 400 ticks despite forced conditions")
}
