package game

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/egobh/config"
	"github.com/pthm-cable/egobh/systems"
	"github.com/pthm-cable/egobh/telemetry"
)

// arrivalSlack is added to the body and home radii to decide arrival.
const arrivalSlack = 2.0

// arrivalJitter is the half-width of the snap offset around a home.
const arrivalJitter = 3.0

// Phase is a stage of the day cycle.
type Phase uint8

const (
	PhaseActive    Phase = iota // cows are contested, day timer runs
	PhaseReturning              // agents walk home
	PhaseWaiting                // everyone is home
)

func (p Phase) String() string {
	switch p {
	case PhaseActive:
		return "active"
	case PhaseReturning:
		return "returning"
	default:
		return "waiting"
	}
}

// Mode selects how a Waiting phase ends.
type Mode uint8

const (
	ModeAuto   Mode = iota // next day starts after the auto wait
	ModeManual             // next day starts on RequestNextDay
)

func (m Mode) String() string {
	if m == ModeManual {
		return "manual"
	}
	return "auto"
}

// ParseMode parses "auto" or "manual". Empty means auto.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "auto", "":
		return ModeAuto, nil
	case "manual":
		return ModeManual, nil
	default:
		return ModeAuto, fmt.Errorf("%w: unknown mode %q", config.ErrInvalid, s)
	}
}

// Advance steps the simulation by dt seconds, clamped to sim.max_dt.
// Non-positive steps are ignored.
func (g *Game) Advance(dt float64) {
	if !(dt > 0) {
		return
	}
	if dt > g.cfg.Sim.MaxDt {
		dt = g.cfg.Sim.MaxDt
	}

	g.perf.StartTick()
	switch g.phase {
	case PhaseActive:
		g.stepActive(dt)
	case PhaseReturning:
		g.perf.StartPhase(telemetry.PhaseReturning)
		g.stepReturning(dt)
	case PhaseWaiting:
		g.stepWaiting(dt)
	}
	g.perf.EndTick()
}

// Step advances by the configured fixed step sim.dt.
func (g *Game) Step() {
	g.Advance(g.cfg.Sim.DT)
}

func (g *Game) stepActive(dt float64) {
	g.dayTime += dt

	g.perf.StartPhase(telemetry.PhaseCowHash)
	g.rebuildCowHash()
	g.perf.StartPhase(telemetry.PhaseAgents)
	g.updateAgents(float32(dt))
	g.perf.StartPhase(telemetry.PhaseAgentHash)
	g.rebuildAgentHash()
	g.perf.StartPhase(telemetry.PhaseContention)
	g.resolveContention()
	g.perf.StartPhase(telemetry.PhaseCowTopUp)
	g.topUpCows()

	if g.dayTime >= g.cfg.Sim.DayDurationSec {
		g.perf.StartPhase(telemetry.PhaseSettlement)
		g.endDay()
	}
}

// updateAgents runs policy, movement, home avoidance, bounds and coverage for every agent.
func (g *Game) updateAgents(dt float32) {
	turnRate := float32(g.cfg.AI.Greedy.TurnRate)
	obs := systems.Observation{
		DT:     dt,
		Bounds: g.bounds,
		Rng:    g.rng,
	}

	query := g.agentFilter.Query()
	for query.Next() {
		pos, motion, sense, steering, agent := query.Get()

		obs.X, obs.Y = pos.X, pos.Y
		obs.Heading = motion.Heading
		obs.SenseRadius = sense.SenseRadius
		obs.Memory = steering
		obs.Cows = g.nearbyCows(pos.X, pos.Y)

		intent := g.policy.Decide(&obs)
		systems.ApplyIntent(motion, pos.X, pos.Y, intent, turnRate, dt)

		agent.DistToday += systems.Integrate(pos, motion, dt)
		if !agent.ReturningHome {
			systems.AvoidHomes(pos, motion, g.homes, dt)
		}
		systems.ApplyBounds(pos, g.bounds)

		g.coverage.MarkCircle(float64(pos.X), float64(pos.Y), float64(sense.SenseRadius))
	}
}

// nearbyCows returns the cows in the 3x3 block around (x, y).
// The returned slice is reused by the next call.
func (g *Game) nearbyCows(x, y float32) []systems.CowView {
	g.nearby = g.cowHash.QueryAroundInto(g.nearby[:0], x, y)
	g.cowViews = g.cowViews[:0]
	for _, e := range g.nearby {
		p := g.posMap.Get(e)
		g.cowViews = append(g.cowViews, systems.CowView{X: p.X, Y: p.Y})
	}
	return g.cowViews
}

func (g *Game) rebuildCowHash() {
	g.cowHash.Clear()
	query := g.cowFilter.Query()
	for query.Next() {
		pos, _ := query.Get()
		g.cowHash.Insert(query.Entity(), pos.X, pos.Y)
	}
}

func (g *Game) rebuildAgentHash() {
	g.agentHash.Clear()
	query := g.agentFilter.Query()
	for query.Next() {
		pos, _, _, _, _ := query.Get()
		g.agentHash.Insert(query.Entity(), pos.X, pos.Y)
	}
}

func (g *Game) stepReturning(dt float64) {
	fdt := float32(dt)
	turnRate := float32(g.cfg.AI.Greedy.TurnRate)
	allHome := true

	query := g.agentFilter.Query()
	for query.Next() {
		pos, motion, sense, _, agent := query.Get()
		if agent.AtHome {
			continue
		}
		home := &g.homes[agent.Home]

		dx, dy := g.bounds.Delta(pos.X, pos.Y, home.X, home.Y)
		motion.Heading = systems.SteerToward(motion.Heading, dx, dy, turnRate, fdt)
		agent.DistToday += systems.Integrate(pos, motion, fdt)
		systems.ApplyBounds(pos, g.bounds)

		reach := sense.BodyRadius + home.Radius + arrivalSlack
		if g.bounds.DistSq(pos.X, pos.Y, home.X, home.Y) <= reach*reach {
			agent.AtHome = true
			pos.X = home.X + g.jitter(arrivalJitter)
			pos.Y = home.Y + g.jitter(arrivalJitter)
			motion.VelX, motion.VelY = 0, 0
			continue
		}
		allHome = false
	}

	if allHome {
		g.waitTimer = 0
		g.setPhase(PhaseWaiting)
	}
}

func (g *Game) stepWaiting(dt float64) {
	if g.mode == ModeManual {
		g.waitTimer = 0
		return
	}
	g.waitTimer += dt
	if g.waitTimer >= g.cfg.Sim.AutoWaitSec {
		g.day++
		g.startDay()
	}
}

// ToggleMode switches between Auto and Manual and resets the wait timer.
func (g *Game) ToggleMode() {
	if g.mode == ModeAuto {
		g.mode = ModeManual
	} else {
		g.mode = ModeAuto
	}
	g.waitTimer = 0
	slog.Info("mode_changed", "mode", g.mode, "day", g.day)
}

// CanRequestNextDay reports whether RequestNextDay would start a day.
func (g *Game) CanRequestNextDay() bool {
	return g.mode == ModeManual && g.phase == PhaseWaiting
}

// RequestNextDay starts the next day. It only has an effect in Manual mode
// while Waiting, and reports whether a day was started.
func (g *Game) RequestNextDay() bool {
	if !g.CanRequestNextDay() {
		return false
	}
	g.day++
	g.startDay()
	return true
}

// startDay resets day-scoped state and enters the Active phase.
func (g *Game) startDay() {
	g.dayTime = 0
	g.waitTimer = 0
	g.cowsClaimed = 0
	g.coverage.Clear()

	query := g.agentFilter.Query()
	for query.Next() {
		_, _, _, _, agent := query.Get()
		agent.Points = 0
		agent.DistToday = 0
		agent.ReturningHome = false
		agent.AtHome = false
	}

	g.setPhase(PhaseActive)
}

func (g *Game) setPhase(p Phase) {
	if g.phase == p {
		return
	}
	prev := g.phase
	g.phase = p
	slog.Debug("phase_changed", "day", g.day, "from", prev, "to", p)
}

// TimeLeft returns the remaining time of the Active phase.
func (g *Game) TimeLeft() float64 {
	if g.phase != PhaseActive {
		return 0
	}
	left := g.cfg.Sim.DayDurationSec - g.dayTime
	if left < 0 {
		return 0
	}
	return left
}

// WaitLeft returns the remaining auto wait, or 0 when not waiting in Auto mode.
func (g *Game) WaitLeft() float64 {
	if g.phase != PhaseWaiting || g.mode != ModeAuto {
		return 0
	}
	left := g.cfg.Sim.AutoWaitSec - g.waitTimer
	if left < 0 {
		return 0
	}
	return left
}
