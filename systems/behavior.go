package systems

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/pthm-cable/egobh/components"
	"github.com/pthm-cable/egobh/config"
)

const (
	wanderTimerMin    = 0.2 // seconds
	wanderTimerSpread = 1.2
	wanderTurnSpread  = 0.8 // radians, centered on zero
)

// Policy names accepted by NewPolicy.
const (
	PolicyGreedy   = "greedy"
	PolicyWanderer = "wanderer"
)

// IntentKind selects how an Intent changes an agent's heading.
type IntentKind uint8

const (
	IntentHold IntentKind = iota // keep the current heading
	IntentSeek                   // turn toward a target point, rate-limited
	IntentTurn                   // add an instant heading offset
)

func (k IntentKind) String() string {
	switch k {
	case IntentSeek:
		return "seek"
	case IntentTurn:
		return "turn"
	default:
		return "hold"
	}
}

// Intent is a policy decision for a single tick.
type Intent struct {
	Kind             IntentKind
	TargetX, TargetY float32 // IntentSeek; may lie outside the world when it is a wrapped image
	Turn             float32 // IntentTurn
}

// CowView is the part of a cow a policy may see.
type CowView struct {
	X, Y float32
}

// Observation is everything a policy may read for one agent on one tick.
type Observation struct {
	X, Y        float32
	Heading     float32
	SenseRadius float32
	DT          float32
	Bounds      Bounds

	// Cows near the agent, from the cow hash. Not filtered by distance.
	Cows []CowView

	Memory *components.Steering
	Rng    *rand.Rand
}

// Policy decides a steering intent from an observation.
type Policy interface {
	ID() string
	Decide(obs *Observation) Intent
}

// NewPolicy returns the policy configured by name.
func NewPolicy(cfg config.AIConfig) (Policy, error) {
	switch cfg.Policy {
	case PolicyGreedy, "":
		return &GreedyPolicy{CenterBias: cfg.Greedy.CenterBias}, nil
	case PolicyWanderer:
		return &WandererPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown ai policy %q", cfg.Policy)
	}
}

// GreedyPolicy heads for the nearest visible cow, drifts toward the world
// center now and then, and otherwise wanders.
type GreedyPolicy struct {
	CenterBias float64 // per-tick probability of seeking the center when idle
}

// ID implements Policy.
func (p *GreedyPolicy) ID() string { return PolicyGreedy }

// Decide implements Policy.
func (p *GreedyPolicy) Decide(obs *Observation) Intent {
	if tx, ty, ok := nearestCow(obs); ok {
		return Intent{Kind: IntentSeek, TargetX: tx, TargetY: ty}
	}
	if obs.Rng.Float64() < p.CenterBias {
		return Intent{Kind: IntentSeek, TargetX: obs.Bounds.W / 2, TargetY: obs.Bounds.H / 2}
	}
	return wander(obs)
}

// WandererPolicy ignores cows entirely.
type WandererPolicy struct{}

// ID implements Policy.
func (p *WandererPolicy) ID() string { return PolicyWanderer }

// Decide implements Policy.
func (p *WandererPolicy) Decide(obs *Observation) Intent {
	return wander(obs)
}

// nearestCow returns the position of the closest cow strictly inside the
// sense radius, expressed as the image nearest to the agent.
func nearestCow(obs *Observation) (x, y float32, ok bool) {
	best := obs.SenseRadius * obs.SenseRadius
	for _, c := range obs.Cows {
		dx, dy := obs.Bounds.Delta(obs.X, obs.Y, c.X, c.Y)
		d2 := dx*dx + dy*dy
		if d2 < best {
			best = d2
			x, y = obs.X+dx, obs.Y+dy
			ok = true
		}
	}
	return x, y, ok
}

func wander(obs *Observation) Intent {
	mem := obs.Memory
	mem.WanderTimer -= obs.DT
	if mem.WanderTimer > 0 {
		return Intent{Kind: IntentHold}
	}
	mem.WanderTimer = float32(obs.Rng.Float64()*wanderTimerSpread + wanderTimerMin)
	return Intent{
		Kind: IntentTurn,
		Turn: float32((obs.Rng.Float64() - 0.5) * wanderTurnSpread),
	}
}

// ApplyIntent updates the heading of m for an agent at (x, y).
func ApplyIntent(m *components.Motion, x, y float32, in Intent, turnRate, dt float32) {
	switch in.Kind {
	case IntentSeek:
		m.Heading = SteerToward(m.Heading, in.TargetX-x, in.TargetY-y, turnRate, dt)
	case IntentTurn:
		m.Heading = normalizeAngle(m.Heading + in.Turn)
	}
}

// SteerToward rotates heading toward the direction (dx, dy) by at most
// turnRate*dt, taking the shorter way around.
func SteerToward(heading, dx, dy, turnRate, dt float32) float32 {
	if dx == 0 && dy == 0 {
		return heading
	}
	target := float32(math.Atan2(float64(dy), float64(dx)))
	delta := normalizeAngle(target - heading)
	maxStep := turnRate * dt
	delta = clampFloat(delta, -maxStep, maxStep)
	return normalizeAngle(heading + delta)
}
