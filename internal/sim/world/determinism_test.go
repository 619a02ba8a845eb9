package world

import (
	"testing"

	"ecosysx/internal/sim/config"
)

func testConfig() config.Config {
	return config.Config{
		Simulation: config.Simulation{
			WorldSize:      50,
			PopulationSize: 40,
		},
		Agents: config.Agents{
			InitialEnergy:         config.Range{Min: 60, Max: 100},
			MovementSpeed:         config.Range{Min: 0.5, Max: 2.0},
			EnergyConsumption:     config.Range{Min: 0.2, Max: 0.8},
			DeathThreshold:        0,
			ReproductionThreshold: 80,
		},
	}
}

func fullConfig() config.Config {
	cfg := testConfig()
	cfg.Simulation.EnableDisease = true
	cfg.Simulation.EnableReproduction = true
	cfg.Simulation.EnableEnvironment = true
	cfg.Disease = &config.Disease{
		InitialInfectionRate: 0.1,
		TransmissionRate:     0.3,
		ContactRadius:        1,
		RecoveryTime:         120,
	}
	cfg.Environment = &config.Environment{ResourceRegenRate: 0.5}
	return cfg
}

func TestDeterminism_SameSeedSameDigest(t *testing.T) {
	cfg := fullConfig()

	w1 := New(cfg, 1337)
	w2 := New(cfg, 1337)

	if d1, d2 := w1.SimDigest(), w2.SimDigest(); d1 != d2 {
		t.Fatalf("initial digests diverge:\n  %s\n  %s", d1, d2)
	}

	for round := 0; round < 5; round++ {
		if _, err := w1.Step(10); err != nil {
			t.Fatalf("w1 step: %v", err)
		}
		if _, err := w2.Step(10); err != nil {
			t.Fatalf("w2 step: %v", err)
		}
		if d1, d2 := w1.SimDigest(), w2.SimDigest(); d1 != d2 {
			t.Fatalf("digests diverge at tick %d:\n  %s\n  %s", w1.Tick(), d1, d2)
		}
		if d1, d2 := w1.RNGDigest(), w2.RNGDigest(); d1 != d2 {
			t.Fatalf("rng digests diverge at tick %d", w1.Tick())
		}
		if m1, m2 := w1.Metrics(), w2.Metrics(); m1 != m2 {
			t.Fatalf("metrics diverge at tick %d: %+v vs %+v", w1.Tick(), m1, m2)
		}
	}
}

func TestDeterminism_DifferentSeedsDiverge(t *testing.T) {
	cfg := fullConfig()
	w1 := New(cfg, 1)
	w2 := New(cfg, 2)
	if w1.SimDigest() == w2.SimDigest() {
		t.Fatal("different seeds produced identical state digests")
	}
}

func TestStepComposition_BatchEqualsSingles(t *testing.T) {
	cfg := fullConfig()

	batch := New(cfg, 99)
	singles := New(cfg, 99)

	if _, err := batch.Step(5); err != nil {
		t.Fatalf("step(5): %v", err)
	}
	for i := 0; i < 5; i++ {
		if _, err := singles.Step(1); err != nil {
			t.Fatalf("step(1) #%d: %v", i, err)
		}
	}

	if batch.Tick() != singles.Tick() {
		t.Fatalf("tick mismatch: %d vs %d", batch.Tick(), singles.Tick())
	}
	if d1, d2 := batch.SimDigest(), singles.SimDigest(); d1 != d2 {
		t.Fatalf("step(5) and 5x step(1) diverge:\n  %s\n  %s", d1, d2)
	}
}

func TestSnapshot_DoesNotMutateState(t *testing.T) {
	cfg := fullConfig()
	w := New(cfg, 7)
	if _, err := w.Step(3); err != nil {
		t.Fatalf("step: %v", err)
	}

	before := w.SimDigest()
	beforeRNG := w.RNGDigest()
	for i := 0; i < 3; i++ {
		if _, err := w.Snapshot(KindFull); err != nil {
			t.Fatalf("snapshot: %v", err)
		}
	}
	if w.SimDigest() != before {
		t.Fatal("snapshot mutated simulation state")
	}
	if w.RNGDigest() != beforeRNG {
		t.Fatal("snapshot consumed randomness")
	}

	// A snapshotted world must continue identically to one never observed.
	twin := New(cfg, 7)
	if _, err := twin.Step(3); err != nil {
		t.Fatalf("twin step: %v", err)
	}
	if _, err := w.Step(4); err != nil {
		t.Fatalf("step: %v", err)
	}
	if _, err := twin.Step(4); err != nil {
		t.Fatalf("twin step: %v", err)
	}
	if w.SimDigest() != twin.SimDigest() {
		t.Fatal("observed and unobserved runs diverge")
	}
}

func TestStep_RejectsNonPositiveCount(t *testing.T) {
	w := New(testConfig(), 1)
	for _, n := range []int{0, -1} {
		if _, err := w.Step(n); err == nil {
			t.Fatalf("step(%d) succeeded", n)
		}
	}
	if w.Tick() != 0 {
		t.Fatalf("rejected step advanced tick to %d", w.Tick())
	}
}
