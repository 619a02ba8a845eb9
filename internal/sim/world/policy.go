package world

// PolicyView is the read-only context handed to a decision policy for one
// agent's movement step.
type PolicyView struct {
	ID          uint64
	Energy      float64
	SIR         int
	AgeTicks    uint64
	ResourceAt  float64
	NeighborPop int
}

// Decision is a movement heading in jitter units (the same [-0.5,0.5]
// range the heuristic draws from, before scaling by the agent's speed).
type Decision struct {
	DX, DY float64
}

// DecisionPolicy lets an external reasoner steer agents. Decide returns
// false to fall back to the default heuristic jitter; implementations must
// treat any downstream failure (timeout, unavailable service, unparseable
// answer) as a fallback, never as an error that reaches the tick loop.
type DecisionPolicy interface {
	Decide(v PolicyView) (Decision, bool)
}
