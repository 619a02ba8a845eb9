// Package config holds the validated simulation configuration. The wire
// shape matches the cfg object shared by every ecosysx engine backend.
package config

import (
	"encoding/json"
	"fmt"

	"ecosysx/internal/protocol"
)

type Config struct {
	Simulation  Simulation   `json:"simulation" yaml:"simulation"`
	Agents      Agents       `json:"agents" yaml:"agents"`
	Disease     *Disease     `json:"disease,omitempty" yaml:"disease,omitempty"`
	Environment *Environment `json:"environment,omitempty" yaml:"environment,omitempty"`
}

type Simulation struct {
	WorldSize          int  `json:"worldSize" yaml:"worldSize"`
	PopulationSize     int  `json:"populationSize" yaml:"populationSize"`
	EnableDisease      bool `json:"enableDisease" yaml:"enableDisease"`
	EnableReproduction bool `json:"enableReproduction" yaml:"enableReproduction"`
	EnableEnvironment  bool `json:"enableEnvironment" yaml:"enableEnvironment"`
}

type Agents struct {
	InitialEnergy         Range   `json:"initialEnergy" yaml:"initialEnergy"`
	MovementSpeed         Range   `json:"movementSpeed" yaml:"movementSpeed"`
	EnergyConsumption     Range   `json:"energyConsumption" yaml:"energyConsumption"`
	DeathThreshold        float64 `json:"deathThreshold" yaml:"deathThreshold"`
	ReproductionThreshold float64 `json:"reproductionThreshold" yaml:"reproductionThreshold"`
}

type Range struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

type Disease struct {
	InitialInfectionRate float64 `json:"initialInfectionRate" yaml:"initialInfectionRate"`
	TransmissionRate     float64 `json:"transmissionRate" yaml:"transmissionRate"`
	ContactRadius        int     `json:"contactRadius" yaml:"contactRadius"`
	RecoveryTime         float64 `json:"recoveryTime" yaml:"recoveryTime"`
}

type Environment struct {
	ResourceRegenRate float64 `json:"resourceRegenRate" yaml:"resourceRegenRate"`
}

// Parse decodes and validates a wire cfg object. All range and rate checks
// happen here, once, so the engine never fails lazily mid-simulation.
func Parse(raw json.RawMessage) (Config, error) {
	var cfg Config
	if len(raw) == 0 {
		return cfg, protocol.Errorf(protocol.CodeInvalidConfig, "missing configuration")
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return cfg, protocol.Errorf(protocol.CodeInvalidConfig, "malformed configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Simulation.WorldSize <= 0 {
		return invalidf("simulation.worldSize must be > 0, got %d", c.Simulation.WorldSize)
	}
	if c.Simulation.PopulationSize < 0 {
		return invalidf("simulation.populationSize must be >= 0, got %d", c.Simulation.PopulationSize)
	}
	if err := c.Agents.InitialEnergy.check("agents.initialEnergy"); err != nil {
		return err
	}
	if err := c.Agents.MovementSpeed.check("agents.movementSpeed"); err != nil {
		return err
	}
	if err := c.Agents.EnergyConsumption.check("agents.energyConsumption"); err != nil {
		return err
	}
	if c.Simulation.EnableDisease {
		if c.Disease == nil {
			return invalidf("disease section required when simulation.enableDisease is set")
		}
		if err := checkRate("disease.initialInfectionRate", c.Disease.InitialInfectionRate); err != nil {
			return err
		}
		if err := checkRate("disease.transmissionRate", c.Disease.TransmissionRate); err != nil {
			return err
		}
		if c.Disease.ContactRadius < 0 {
			return invalidf("disease.contactRadius must be >= 0, got %d", c.Disease.ContactRadius)
		}
		if c.Disease.RecoveryTime <= 0 {
			return invalidf("disease.recoveryTime must be > 0, got %v", c.Disease.RecoveryTime)
		}
	}
	if c.Simulation.EnableEnvironment {
		if c.Environment == nil {
			return invalidf("environment section required when simulation.enableEnvironment is set")
		}
		if err := checkRate("environment.resourceRegenRate", c.Environment.ResourceRegenRate); err != nil {
			return err
		}
	}
	return nil
}

func (r Range) check(name string) error {
	if r.Min > r.Max {
		return invalidf("%s: min %v > max %v", name, r.Min, r.Max)
	}
	return nil
}

func checkRate(name string, v float64) error {
	if v < 0 || v > 1 {
		return invalidf("%s must be in [0,1], got %v", name, v)
	}
	return nil
}

func invalidf(format string, args ...any) error {
	return protocol.Errorf(protocol.CodeInvalidConfig, "%s", fmt.Sprintf(format, args...))
}
