package world

// SIRState is an agent's epidemiological status.
type SIRState uint8

const (
	Susceptible SIRState = 0
	Infected    SIRState = 1
	Recovered   SIRState = 2
)

// Agent is the unit of simulated life. Agents are owned exclusively by the
// World's population map and are never aliased elsewhere.
type Agent struct {
	ID uint64

	// Continuous position in [0,worldSize)^2 and current velocity.
	X, Y   float64
	VX, VY float64

	Energy      float64
	SIR         SIRState
	DaysInState float64
	AgeTicks    uint64

	// Per-agent draws fixed at creation.
	moveSpeed  float64
	energyBurn float64

	cell Cell
}

// newAgent performs the creation draws in the canonical order: energy,
// movement speed, energy consumption, then the disease roll. Position is
// assigned by the caller (initial seeding and reproduction place agents
// differently).
func (w *World) newAgent(id uint64) *Agent {
	a := &Agent{ID: id}
	a.Energy = w.rng.Uniform(CatBirths, w.cfg.Agents.InitialEnergy.Min, w.cfg.Agents.InitialEnergy.Max)
	a.moveSpeed = w.rng.Uniform(CatBirths, w.cfg.Agents.MovementSpeed.Min, w.cfg.Agents.MovementSpeed.Max)
	a.energyBurn = w.rng.Uniform(CatBirths, w.cfg.Agents.EnergyConsumption.Min, w.cfg.Agents.EnergyConsumption.Max)

	if w.cfg.Simulation.EnableDisease {
		if w.rng.Float64(CatDisease) < w.cfg.Disease.InitialInfectionRate {
			a.SIR = Infected
			a.DaysInState = w.rng.Uniform(CatDisease, 0, w.cfg.Disease.RecoveryTime/2)
		}
	}
	return a
}

func (w *World) nextAgentID() uint64 {
	w.agentCounter++
	return w.agentCounter
}
