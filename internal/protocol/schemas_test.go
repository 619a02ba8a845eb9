package protocol_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"ecosysx/internal/sim/config"
	"ecosysx/internal/sim/world"
)

func compile(t *testing.T, name string) *jsonschema.Schema {
	t.Helper()
	s, err := jsonschema.Compile(filepath.Join("..", "..", "schemas", name))
	if err != nil {
		t.Fatalf("compile %s: %v", name, err)
	}
	return s
}

func decode(t *testing.T, raw []byte) any {
	t.Helper()
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode sample: %v", err)
	}
	return v
}

func TestRequestSchema_ValidatesSamples(t *testing.T) {
	s := compile(t, "request.schema.json")

	valid := [][]byte{
		[]byte(`{"op":"init","seed":42,"cfg":{
		  "simulation":{"worldSize":50,"populationSize":10},
		  "agents":{"initialEnergy":{"min":50,"max":100},"movementSpeed":{"min":0.5,"max":2},
		            "energyConsumption":{"min":0.1,"max":0.5},"deathThreshold":0,"reproductionThreshold":80}}}`),
		[]byte(`{"op":"step","n":24,"id":7}`),
		[]byte(`{"op":"snapshot","kind":"full"}`),
		[]byte(`{"op":"stop"}`),
		[]byte(`{"op":"info"}`),
	}
	for i, raw := range valid {
		if err := s.Validate(decode(t, raw)); err != nil {
			t.Fatalf("valid sample %d rejected: %v", i, err)
		}
	}

	invalid := [][]byte{
		[]byte(`{"op":"teleport"}`),
		[]byte(`{"op":"step","n":0}`),
		[]byte(`{"op":"snapshot","kind":"everything"}`),
		[]byte(`{"op":"init","seed":42}`),
	}
	for i, raw := range invalid {
		if err := s.Validate(decode(t, raw)); err == nil {
			t.Fatalf("invalid sample %d accepted", i)
		}
	}
}

func TestSnapshotSchema_ValidatesEngineOutput(t *testing.T) {
	s := compile(t, "snapshot.schema.json")

	cfg := config.Config{
		Simulation: config.Simulation{
			WorldSize:         12,
			PopulationSize:    6,
			EnableDisease:     true,
			EnableEnvironment: true,
		},
		Agents: config.Agents{
			InitialEnergy:         config.Range{Min: 50, Max: 100},
			MovementSpeed:         config.Range{Min: 0.5, Max: 2},
			EnergyConsumption:     config.Range{Min: 0.1, Max: 0.5},
			ReproductionThreshold: 80,
		},
		Disease: &config.Disease{
			InitialInfectionRate: 0.5,
			TransmissionRate:     0.3,
			ContactRadius:        1,
			RecoveryTime:         48,
		},
		Environment: &config.Environment{ResourceRegenRate: 0.5},
	}

	w := world.New(cfg, 42)
	if _, err := w.Step(6); err != nil {
		t.Fatalf("step: %v", err)
	}

	for _, kind := range []string{"metrics", "full"} {
		snap, err := w.Snapshot(kind)
		if err != nil {
			t.Fatalf("snapshot %s: %v", kind, err)
		}
		raw, err := json.Marshal(snap)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if err := s.Validate(decode(t, raw)); err != nil {
			t.Fatalf("%s snapshot fails its schema: %v", kind, err)
		}
	}
}
