package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/egobh/systems"
)

// resolveContention lets the two nearest agents in reach of each cow split it.
// Claimed cows are replaced immediately; replacements are not contested until the next tick.
func (g *Game) resolveContention() {
	// Collect first: removing and spawning cows changes world structure.
	g.entities = g.entities[:0]
	query := g.cowFilter.Query()
	for query.Next() {
		g.entities = append(g.entities, query.Entity())
	}
	cows := g.entities

	for i := len(cows) - 1; i >= 0; i-- {
		e := cows[i]
		if !g.claimCow(e) {
			continue
		}
		g.removeCow(e)
		g.spawnCow()
		g.cowsClaimed++
	}
}

// claimCow distributes a cow's value to the two nearest agents in reach.
// It reports whether the cow was claimed.
func (g *Game) claimCow(e ecs.Entity) bool {
	cpos := g.posMap.Get(e)
	cow := g.cowMap.Get(e)

	g.nearby = g.agentHash.QueryAroundInto(g.nearby[:0], cpos.X, cpos.Y)
	g.candidates = g.candidates[:0]
	for _, a := range g.nearby {
		apos := g.posMap.Get(a)
		reach := cow.Radius + g.senseMap.Get(a).PickupRadius
		dx, dy := g.bounds.Delta(cpos.X, cpos.Y, apos.X, apos.Y)
		d2 := dx*dx + dy*dy
		if d2 <= reach*reach {
			g.candidates = append(g.candidates, systems.Neighbor{E: a, DX: dx, DY: dy, DistSq: d2})
		}
	}

	first, second, ok := systems.NearestPair(g.candidates)
	if !ok {
		return false
	}

	agentA := g.agentMap.Get(first.E)
	agentB := g.agentMap.Get(second.E)
	shareA, shareB, branch := systems.Distribute(agentA.Ego, agentB.Ego, cow.Value)
	agentA.Points += shareA
	agentB.Points += shareB

	slog.Debug("cow_claimed",
		"day", g.day,
		"cow", cow.ID,
		"agent_a", agentA.ID,
		"agent_b", agentB.ID,
		"branch", branch,
		"share_a", shareA,
		"share_b", shareB,
	)
	return true
}
