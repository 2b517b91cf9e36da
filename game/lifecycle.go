package game

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/egobh/components"
	"github.com/pthm-cable/egobh/config"
	"github.com/pthm-cable/egobh/systems"
	"github.com/pthm-cable/egobh/telemetry"
)

const (
	spawnJitter     = 40.0 // initial population around the center home
	offspringJitter = 20.0 // newborns around the parent's home

	placementTries = 200

	cowEdgeMargin     = 12.0
	homeEdgeMargin    = 80.0
	homeSeparationGap = 60.0 // added to both radii between home centers
)

// Preset is an initial ego distribution.
type Preset string

const (
	PresetUniform Preset = "uniform" // presets.uniform_each agents at every ego percent
	PresetAll70   Preset = "all70"
	PresetAll30   Preset = "all30"
)

// Presets lists the presets in cycling order.
var Presets = []Preset{PresetUniform, PresetAll70, PresetAll30}

// ParsePreset parses a preset name. Empty means uniform.
func ParsePreset(s string) (Preset, error) {
	switch Preset(s) {
	case "", PresetUniform:
		return PresetUniform, nil
	case PresetAll70, PresetAll30:
		return Preset(s), nil
	default:
		return PresetUniform, fmt.Errorf("%w: unknown preset %q", config.ErrInvalid, s)
	}
}

// Next returns the preset after p in cycling order.
func (p Preset) Next() Preset {
	for i, q := range Presets {
		if q == p {
			return Presets[(i+1)%len(Presets)]
		}
	}
	return PresetUniform
}

// presetEgoPercents returns the ego percent of every initial agent.
// sim.total_agents_override takes precedence over the preset.
func presetEgoPercents(cfg *config.Config, p Preset) []int {
	if n := cfg.Sim.TotalAgentsOverride; n > 0 {
		out := make([]int, n)
		for i := range out {
			out[i] = cfg.Sim.SingleEgoPercent
		}
		return out
	}

	switch p {
	case PresetAll70, PresetAll30:
		pct := 70
		if p == PresetAll30 {
			pct = 30
		}
		out := make([]int, cfg.Presets.AllCount)
		for i := range out {
			out[i] = pct
		}
		return out
	default:
		out := make([]int, 0, 101*cfg.Presets.UniformEach)
		for pct := 0; pct <= 100; pct++ {
			for i := 0; i < cfg.Presets.UniformEach; i++ {
				out = append(out, pct)
			}
		}
		return out
	}
}

// ResetPopulation discards every agent, cow, home and recorded day, then
// seeds a fresh population from the preset and starts day 1. With a
// history database the new population is recorded as a new run.
func (g *Game) ResetPopulation(p Preset) {
	if g.historyDB != nil {
		if err := g.startRun(p); err != nil {
			slog.Error("failed to start run", "error", err)
		}
	}
	g.seedPopulation(p)
}

// startRun registers a new run in the history database.
// On failure the game keeps running without recording days.
func (g *Game) startRun(p Preset) error {
	g.runID = ""
	id, err := g.historyDB.StartRun(g.cfg, g.seed, string(p))
	if err != nil {
		return err
	}
	g.runID = id
	return nil
}

func (g *Game) seedPopulation(p Preset) {
	g.clearEntities()

	g.homes = g.homes[:0]
	g.addHome(g.bounds.W/2, g.bounds.H/2)
	center := g.homes[0]

	for _, pct := range presetEgoPercents(g.cfg, p) {
		g.spawnAgent(
			center.X+g.jitter(spawnJitter),
			center.Y+g.jitter(spawnJitter),
			systems.EgoFromPercent(pct),
			0,
		)
	}
	g.reconcileHomes()
	g.topUpCows()

	g.preset = p
	g.history.Reset()
	g.run++
	g.day = 1
	g.startDay()

	slog.Info("population_reset",
		"run", g.run,
		"run_id", g.runID,
		"preset", p,
		"agents", g.numAgents,
		"homes", len(g.homes),
		"cows", g.numCows,
	)
}

// SetPreset selects the preset used by Reset.
func (g *Game) SetPreset(p Preset) {
	g.preset = p
}

// Reset re-seeds the population from the selected preset.
func (g *Game) Reset() {
	g.ResetPopulation(g.preset)
}

// clearEntities removes every agent and cow.
func (g *Game) clearEntities() {
	g.entities = g.entities[:0]
	aq := g.agentFilter.Query()
	for aq.Next() {
		g.entities = append(g.entities, aq.Entity())
	}
	for _, e := range g.entities {
		g.world.RemoveEntity(e)
	}

	g.entities = g.entities[:0]
	cq := g.cowFilter.Query()
	for cq.Next() {
		g.entities = append(g.entities, cq.Entity())
	}
	for _, e := range g.entities {
		g.removeCow(e)
	}

	g.numAgents = 0
	g.numCows = 0
}

// jitter returns a uniform offset in [-half, half).
func (g *Game) jitter(half float32) float32 {
	return float32((g.rng.Float64() - 0.5) * 2 * float64(half))
}

// randRange returns a uniform value in [lo, hi).
func (g *Game) randRange(lo, hi float32) float32 {
	return lo + float32(g.rng.Float64())*(hi-lo)
}

func (g *Game) spawnAgent(x, y float32, ego float64, home int) ecs.Entity {
	g.nextAgentID++
	pos := components.Position{X: x, Y: y}
	systems.ApplyBounds(&pos, g.bounds)
	motion := components.Motion{
		Heading: float32(g.rng.Float64() * 2 * math.Pi),
		Speed:   float32(g.cfg.Entities.AgentDefaults.Speed),
	}
	sense := components.SenseFromDefaults(g.cfg.Entities.AgentDefaults)
	steering := components.Steering{}
	agent := components.Agent{
		ID:   g.nextAgentID,
		Ego:  ego,
		Home: home,
	}
	g.numAgents++
	return g.agentMapper.NewEntity(&pos, &motion, &sense, &steering, &agent)
}

func (g *Game) spawnCowAt(x, y float32) ecs.Entity {
	g.nextCowID++
	pos := components.Position{X: x, Y: y}
	cow := components.Cow{
		ID:     g.nextCowID,
		Radius: float32(g.cfg.Cows.Radius),
		Value:  g.cfg.Rules.CowValue,
	}
	g.numCows++
	return g.cowMapper.NewEntity(&pos, &cow)
}

// spawnCow places a cow away from every home, falling back to any position
// after placementTries failed attempts.
func (g *Game) spawnCow() ecs.Entity {
	buffer := float32(g.cfg.Cows.HouseBuffer)
	for try := 0; try < placementTries; try++ {
		x := g.randRange(cowEdgeMargin, g.bounds.W-cowEdgeMargin)
		y := g.randRange(cowEdgeMargin, g.bounds.H-cowEdgeMargin)
		if g.clearOfHomes(x, y, buffer) {
			return g.spawnCowAt(x, y)
		}
	}
	return g.spawnCowAt(g.randRange(0, g.bounds.W), g.randRange(0, g.bounds.H))
}

// clearOfHomes reports whether (x, y) is at least home radius + gap from every home.
func (g *Game) clearOfHomes(x, y, gap float32) bool {
	for _, h := range g.homes {
		dx := float64(h.X - x)
		dy := float64(h.Y - y)
		if float32(math.Hypot(dx, dy)) < h.Radius+gap {
			return false
		}
	}
	return true
}

func (g *Game) removeCow(e ecs.Entity) {
	g.world.RemoveEntity(e)
	g.numCows--
}

// topUpCows spawns cows until rules.target_cows is reached.
func (g *Game) topUpCows() {
	for g.numCows < g.cfg.Rules.TargetCows {
		g.spawnCow()
	}
}

func (g *Game) addHome(x, y float32) {
	g.nextHomeID++
	g.homes = append(g.homes, components.Home{
		ID:     g.nextHomeID,
		X:      x,
		Y:      y,
		Radius: float32(g.cfg.Houses.Radius),
	})
}

// reconcileHomes adds homes until the population fits, then reassigns every
// agent to its nearest home. Homes are never removed.
func (g *Game) reconcileHomes() {
	needed := systems.HomesNeeded(g.numAgents, g.cfg.Rules.HouseCapacity)
	added := 0
	radius := float32(g.cfg.Houses.Radius)
	for len(g.homes) < needed {
		x, y := g.placeHome(radius)
		g.addHome(x, y)
		added++
	}
	if added > 0 {
		slog.Info("homes_added", "day", g.day, "added", added, "homes", len(g.homes))
	}

	query := g.agentFilter.Query()
	for query.Next() {
		pos, _, _, _, agent := query.Get()
		agent.Home = g.nearestHome(pos.X, pos.Y)
	}
}

func (g *Game) placeHome(radius float32) (x, y float32) {
	for try := 0; try < placementTries; try++ {
		x = g.randRange(homeEdgeMargin, g.bounds.W-homeEdgeMargin)
		y = g.randRange(homeEdgeMargin, g.bounds.H-homeEdgeMargin)
		if g.clearOfHomes(x, y, homeSeparationGap+radius) {
			return x, y
		}
	}
	return g.randRange(homeEdgeMargin, g.bounds.W-homeEdgeMargin),
		g.randRange(homeEdgeMargin, g.bounds.H-homeEdgeMargin)
}

// nearestHome returns the index of the closest home by straight-line distance.
func (g *Game) nearestHome(x, y float32) int {
	best := 0
	bestD2 := float32(math.MaxFloat32)
	for i, h := range g.homes {
		dx := h.X - x
		dy := h.Y - y
		if d2 := dx*dx + dy*dy; d2 < bestD2 {
			best, bestD2 = i, d2
		}
	}
	return best
}

type birth struct {
	x, y float32
	ego  float64
	home int
}

// endDay settles every agent, replaces the population with survivors and
// newborns, reconciles homes and enters the Returning phase.
func (g *Game) endDay() {
	stats := telemetry.DayStats{
		Run:              g.run,
		Day:              g.day,
		PopulationBefore: g.numAgents,
		CowsClaimed:      g.cowsClaimed,
		CoveragePct:      g.coverage.CoveragePercent(),
	}

	threshold := g.cfg.Rules.SurvivePoints
	cost := g.cfg.Rules.ReproEvery
	keep := g.cfg.Rules.MutationKeepProb

	egos := make([]float64, 0, g.numAgents)
	dists := make([]float64, 0, g.numAgents)
	var dead []ecs.Entity
	var births []birth

	query := g.agentFilter.Query()
	for query.Next() {
		_, _, _, _, agent := query.Get()
		egos = append(egos, agent.Ego)
		dists = append(dists, float64(agent.DistToday))

		survives, offspring := systems.Settle(agent.Points, threshold, cost)
		stats.Outcomes.Add(systems.OutcomeFor(survives, offspring))
		if !survives {
			dead = append(dead, query.Entity())
			continue
		}
		home := g.homes[agent.Home]
		for i := 0; i < offspring; i++ {
			births = append(births, birth{
				x:    home.X + g.jitter(offspringJitter),
				y:    home.Y + g.jitter(offspringJitter),
				ego:  systems.MutateEgo(g.rng, agent.Ego, keep),
				home: agent.Home,
			})
		}
	}

	for _, e := range dead {
		g.world.RemoveEntity(e)
		g.numAgents--
	}
	for _, b := range births {
		g.spawnAgent(b.x, b.y, b.ego, b.home)
	}
	g.reconcileHomes()

	// everyone walks home with a clean slate
	aq := g.agentFilter.Query()
	for aq.Next() {
		_, _, _, _, agent := aq.Get()
		agent.ReturningHome = true
		agent.AtHome = false
		agent.Points = 0
		agent.DistToday = 0
	}

	stats.Deaths = len(dead)
	stats.Births = len(births)
	stats.PopulationAfter = g.numAgents
	stats.Homes = len(g.homes)
	stats.AvgDistance = telemetry.AverageOrZero(dists)
	stats.SetEgoStats(telemetry.ComputeEgoStats(egos))

	g.waitTimer = 0
	g.setPhase(PhaseReturning)
	g.recordDay(stats)

	if stats.PopulationBefore > 0 && stats.PopulationAfter == 0 {
		slog.Warn("extinction", "day", g.day)
	}
}
