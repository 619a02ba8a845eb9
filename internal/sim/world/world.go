// Package world implements the deterministic ecosystem engine: the agent
// population, the toroidal spatial grid, disease dynamics, the renewable
// resource field and the fixed per-tick schedule. All state is owned by a
// single World and must be accessed from one goroutine.
package world

import (
	"math"
	"sort"

	"ecosysx/internal/protocol"
	"ecosysx/internal/sim/config"
)

const hoursPerDay = 24.0

// World is a single-threaded deterministic simulation. Identical config and
// seed always reproduce the identical state, provable via SimDigest.
type World struct {
	cfg  config.Config
	seed int64

	tick uint64
	rng  *Stream

	agents       map[uint64]*Agent
	agentCounter uint64

	grid      *Grid
	resources *ResourceField

	// Optional decision policy consulted before heuristic movement.
	// Nil keeps the engine fully self-contained and deterministic.
	policy DecisionPolicy
}

// New validates nothing: the caller parses and validates cfg via
// config.Parse. It seeds the RNG stream once and performs the canonical
// init draw order: population first (ids ascending from 1), then the
// resource field row-major.
func New(cfg config.Config, seed int64) *World {
	w := &World{
		cfg:    cfg,
		seed:   seed,
		rng:    NewStream(seed),
		agents: make(map[uint64]*Agent),
		grid:   NewGrid(cfg.Simulation.WorldSize),
	}

	ws := float64(cfg.Simulation.WorldSize)
	for i := 0; i < cfg.Simulation.PopulationSize; i++ {
		a := w.newAgent(w.nextAgentID())
		a.X = w.rng.Uniform(CatBirths, 0, ws)
		a.Y = w.rng.Uniform(CatBirths, 0, ws)
		w.admit(a)
	}

	w.resources = newResourceField(cfg.Simulation.WorldSize, w.rng, cfg.Simulation.EnableEnvironment)
	return w
}

// SetPolicy installs a decision policy for agent movement. Must be called
// before the first Step.
func (w *World) SetPolicy(p DecisionPolicy) { w.policy = p }

// Tick returns the current tick counter.
func (w *World) Tick() uint64 { return w.tick }

// Seed returns the init seed.
func (w *World) Seed() int64 { return w.seed }

// Config returns the immutable simulation configuration.
func (w *World) Config() config.Config { return w.cfg }

// admit adds a newly created agent to the population and the spatial index.
func (w *World) admit(a *Agent) {
	a.cell = w.cellOf(a.X, a.Y)
	w.agents[a.ID] = a
	w.grid.Place(a.ID, a.cell)
}

func (w *World) removeAgent(a *Agent) {
	w.grid.Remove(a.ID, a.cell)
	delete(w.agents, a.ID)
}

func (w *World) cellOf(x, y float64) Cell {
	return Cell{X: int(math.Floor(x)), Y: int(math.Floor(y))}
}

// wrapCoord maps a coordinate back into [0,worldSize) toroidally.
func (w *World) wrapCoord(v float64) float64 {
	ws := float64(w.cfg.Simulation.WorldSize)
	v = math.Mod(v, ws)
	if v < 0 {
		v += ws
	}
	return v
}

// sortedIDs returns the live agent ids in ascending order. Every iteration
// over the population goes through this: map order is never observable.
func (w *World) sortedIDs() []uint64 {
	ids := make([]uint64, 0, len(w.agents))
	for id := range w.agents {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Metrics computes the aggregate population metrics without mutating state.
func (w *World) Metrics() protocol.Metrics {
	var m protocol.Metrics
	var total float64
	for _, id := range w.sortedIDs() {
		a := w.agents[id]
		m.Pop++
		total += a.Energy
		switch a.SIR {
		case Susceptible:
			m.SIR.S++
		case Infected:
			m.SIR.I++
		case Recovered:
			m.SIR.R++
		}
	}
	if m.Pop > 0 {
		m.EnergyMean = total / float64(m.Pop)
	}
	return m
}
