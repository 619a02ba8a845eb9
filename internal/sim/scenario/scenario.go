// Package scenario loads harness scenario files: a named simulation
// configuration plus the tick plan used to drive a sidecar session.
package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"ecosysx/internal/sim/config"
)

type Scenario struct {
	Name string `yaml:"name"`
	Seed int64  `yaml:"seed"`

	// Tick plan: run Ticks total, snapshotting every SnapshotEvery ticks.
	Ticks         int  `yaml:"ticks"`
	SnapshotEvery int  `yaml:"snapshot_every"`
	FullState     bool `yaml:"full_state"`

	Config config.Config `yaml:"config"`
}

func Load(path string) (Scenario, error) {
	var sc Scenario
	raw, err := os.ReadFile(path)
	if err != nil {
		return sc, err
	}
	if err := yaml.Unmarshal(raw, &sc); err != nil {
		return sc, fmt.Errorf("%s: %w", path, err)
	}
	sc.applyDefaults()
	if err := sc.Validate(); err != nil {
		return sc, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

func (s *Scenario) applyDefaults() {
	if s.Name == "" {
		s.Name = "unnamed"
	}
	if s.Ticks <= 0 {
		s.Ticks = 24
	}
	if s.SnapshotEvery <= 0 {
		s.SnapshotEvery = s.Ticks
	}
}

func (s *Scenario) Validate() error {
	if s.SnapshotEvery > s.Ticks {
		s.SnapshotEvery = s.Ticks
	}
	return s.Config.Validate()
}
