package world

import "ecosysx/internal/protocol"

// Per-tick constants fixed across engine backends; deliberately not
// configurable (changing them forks the digest lineage).
const (
	velocityMomentum   = 0.8
	movementJitter     = 0.5
	reproductionChance = 0.01
	reproductionCost   = 20.0
	offspringSpread    = 2.0
)

// Step advances the simulation by n ticks. Each tick runs to completion;
// callers never observe a partially applied tick.
func (w *World) Step(n int) (uint64, error) {
	if n <= 0 {
		return w.tick, protocol.Errorf(protocol.CodeInvalidArgument, "step count must be a positive integer, got %d", n)
	}
	for i := 0; i < n; i++ {
		w.tickOnce()
	}
	return w.tick, nil
}

// tickOnce applies the fixed update order: every live agent in ascending id
// order, then resource regeneration, then the tick counter. The living set
// is frozen before iteration begins since updates create and remove
// members.
func (w *World) tickOnce() {
	for _, id := range w.sortedIDs() {
		a, alive := w.agents[id]
		if !alive {
			continue
		}
		w.stepAgent(a)
	}
	if w.cfg.Simulation.EnableEnvironment {
		w.resources.regenerate(w.rng, w.cfg.Environment.ResourceRegenRate)
	}
	w.tick++
}

func (w *World) stepAgent(a *Agent) {
	a.AgeTicks++
	a.Energy -= a.energyBurn

	w.moveAgent(a)

	if w.cfg.Simulation.EnableDisease {
		w.updateDisease(a)
	}
	if w.cfg.Simulation.EnableEnvironment {
		w.forage(a)
	}

	// Death check ends the agent's tick: no reproduction for the dead.
	if a.Energy <= w.cfg.Agents.DeathThreshold {
		w.removeAgent(a)
		return
	}

	if w.cfg.Simulation.EnableReproduction &&
		a.Energy > w.cfg.Agents.ReproductionThreshold &&
		w.rng.Float64(CatBirths) < reproductionChance {
		w.reproduce(a)
	}
}

// moveAgent applies the momentum random walk: each axis keeps 80% of its
// velocity plus a jitter draw scaled by the agent's movement speed, then
// the position wraps toroidally and the spatial index is updated. When a
// decision policy supplies a heading it replaces the two jitter draws.
func (w *World) moveAgent(a *Agent) {
	var jx, jy float64
	decided := false
	if w.policy != nil {
		if d, ok := w.policy.Decide(PolicyView{
			ID:          a.ID,
			Energy:      a.Energy,
			SIR:         int(a.SIR),
			AgeTicks:    a.AgeTicks,
			ResourceAt:  w.resourceAt(a.cell),
			NeighborPop: len(w.grid.Neighbors(a.cell, 1)),
		}); ok {
			jx, jy = d.DX, d.DY
			w.rng.Note(CatLLM)
			decided = true
		}
	}
	if !decided {
		jx = w.rng.Uniform(CatMovement, -movementJitter, movementJitter)
		jy = w.rng.Uniform(CatMovement, -movementJitter, movementJitter)
	}

	a.VX = a.VX*velocityMomentum + jx*a.moveSpeed
	a.VY = a.VY*velocityMomentum + jy*a.moveSpeed

	a.X = w.wrapCoord(a.X + a.VX)
	a.Y = w.wrapCoord(a.Y + a.VY)

	next := w.cellOf(a.X, a.Y)
	w.grid.Move(a.ID, a.cell, next)
	a.cell = next
}

// updateDisease advances the SIR clock and, for infected agents, checks
// recovery before rolling transmission against each susceptible occupant of
// the surrounding Chebyshev neighborhood. Multiple infected agents may each
// roll against the same target within one tick.
func (w *World) updateDisease(a *Agent) {
	d := w.cfg.Disease
	a.DaysInState += 1.0 / hoursPerDay

	if a.SIR != Infected {
		return
	}
	if a.DaysInState >= d.RecoveryTime/hoursPerDay {
		a.SIR = Recovered
		a.DaysInState = 0
		return
	}
	for _, id := range w.grid.Neighbors(a.cell, d.ContactRadius) {
		n, alive := w.agents[id]
		if !alive || n.SIR != Susceptible {
			continue
		}
		if w.rng.Float64(CatDisease) < d.TransmissionRate {
			n.SIR = Infected
			n.DaysInState = 0
		}
	}
}

func (w *World) resourceAt(c Cell) float64 {
	if w.resources == nil || !w.cfg.Simulation.EnableEnvironment {
		return 0
	}
	return w.resources.At(w.grid.wrap(c))
}

// forage gains at most forageCap energy from the agent's current cell and
// decrements the cell by the same amount.
func (w *World) forage(a *Agent) {
	c := w.grid.wrap(a.cell)
	v := w.resources.At(c)
	if v <= 0 {
		return
	}
	gain := v
	if gain > forageCap {
		gain = forageCap
	}
	a.Energy += gain
	w.resources.Take(c, gain)
}

// reproduce spawns exactly one offspring: the parent pays the fixed energy
// cost, the child performs the standard creation draws and lands at the
// parent's position plus an independent offset per axis.
func (w *World) reproduce(parent *Agent) {
	parent.Energy -= reproductionCost

	child := w.newAgent(w.nextAgentID())
	ox := w.rng.Uniform(CatBirths, -offspringSpread, offspringSpread)
	oy := w.rng.Uniform(CatBirths, -offspringSpread, offspringSpread)
	child.X = w.wrapCoord(parent.X + ox)
	child.Y = w.wrapCoord(parent.Y + oy)
	w.admit(child)
}
