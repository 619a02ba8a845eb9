package advisor

import (
	"context"
	"log"
	"time"

	"ecosysx/internal/sim/world"
)

// Action names the service is known to emit.
const (
	ActionExplore   = "explore"
	ActionCollect   = "collect"
	ActionSocialize = "socialize"
	ActionAvoid     = "avoid"
	ActionRest      = "rest"
)

// headings maps each action to a fixed movement impulse in jitter units.
// The mapping must stay value-stable: it feeds agent state and therefore
// the simulation digest whenever the advisor is enabled.
var headings = map[string]world.Decision{
	ActionExplore:   {DX: 0.5, DY: 0},
	ActionCollect:   {DX: 0, DY: 0},
	ActionSocialize: {DX: 0, DY: 0.5},
	ActionAvoid:     {DX: -0.5, DY: -0.5},
	ActionRest:      {DX: 0, DY: 0},
}

// Policy adapts the decision service to the engine's movement hook. Any
// transport failure, non-OK status or unknown action makes Decide report
// false, which keeps the default heuristic behavior.
type Policy struct {
	c       *Client
	log     *log.Logger
	timeout time.Duration
}

func NewPolicy(c *Client, logger *log.Logger, timeout time.Duration) *Policy {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Policy{c: c, log: logger, timeout: timeout}
}

func (p *Policy) Decide(v world.PolicyView) (world.Decision, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	res, err := p.c.Generate(ctx, AgentContext{
		ID:           v.ID,
		Energy:       v.Energy,
		Status:       statusOf(v.SIR),
		AgeTicks:     v.AgeTicks,
		ResourceHere: v.ResourceAt,
		NearbyAgents: v.NeighborPop,
	})
	if err != nil {
		p.log.Printf("advisor unavailable, falling back to heuristic: %v", err)
		return world.Decision{}, false
	}
	d, known := headings[res.Decision.Action]
	if !known {
		p.log.Printf("advisor returned unknown action %q, falling back", res.Decision.Action)
		return world.Decision{}, false
	}
	return d, true
}

func statusOf(sir int) string {
	switch sir {
	case 1:
		return "Infected"
	case 2:
		return "Recovered"
	default:
		return "Healthy"
	}
}
