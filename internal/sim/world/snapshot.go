package world

import "ecosysx/internal/protocol"

// Snapshot kinds.
const (
	KindMetrics = "metrics"
	KindFull    = "full"
)

// Snapshot builds a point-in-time projection of the current state. It is
// always computable, including at tick 0, and never mutates state or
// consumes randomness. kind defaults to "metrics" when empty.
func (w *World) Snapshot(kind string) (*protocol.Snapshot, error) {
	switch kind {
	case "", KindMetrics, KindFull:
	default:
		return nil, protocol.Errorf(protocol.CodeInvalidArgument, "unsupported snapshot kind %q", kind)
	}

	snap := &protocol.Snapshot{
		Schema:    protocol.SchemaTag,
		TimeModel: protocol.TimeModelTag,
		Tick:      w.tick,
		BuildHash: BuildHash(),
		RNGDigest: w.RNGDigest(),
		SimDigest: w.SimDigest(),
		Metrics:   w.Metrics(),
		Provider:  providerShort(),
	}

	if kind == KindFull {
		ids := w.sortedIDs()
		agents := make([]protocol.AgentState, 0, len(ids))
		for _, id := range ids {
			a := w.agents[id]
			agents = append(agents, protocol.AgentState{
				ID:          a.ID,
				Position:    protocol.Vec2{X: a.X, Y: a.Y},
				Velocity:    protocol.Delta2{DX: a.VX, DY: a.VY},
				Energy:      a.Energy,
				SIRState:    int(a.SIR),
				DaysInState: a.DaysInState,
				AgeTicks:    a.AgeTicks,
			})
		}
		snap.State = &protocol.FullState{
			Agents: agents,
			Environment: protocol.EnvironmentState{
				ResourceGrid: w.resources.Flatten(),
				Tick:         w.tick,
			},
		}
	}

	return snap, nil
}
