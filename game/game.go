// Package game owns the simulation root: entities, homes, the day cycle and telemetry sinks.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/egobh/components"
	"github.com/pthm-cable/egobh/config"
	"github.com/pthm-cable/egobh/history"
	"github.com/pthm-cable/egobh/systems"
	"github.com/pthm-cable/egobh/telemetry"
)

// Options configures a new Game.
type Options struct {
	Config    *config.Config // nil uses the embedded defaults
	Seed      int64
	LogStats  bool   // log every settled day via slog
	OutputDir string // CSV output; empty disables
	HistoryDB string // SQLite run log; empty disables

	// StatsCallback is called with every settled day.
	StatsCallback func(telemetry.DayStats)
}

// perfWindow is the number of ticks tick timings are averaged over.
const perfWindow = 120

// Game holds the complete simulation state.
type Game struct {
	cfg    *config.Config
	world  *ecs.World
	rng    *rand.Rand
	seed   int64
	policy systems.Policy
	bounds systems.Bounds

	// Entity mappers
	agentMapper *ecs.Map5[
		components.Position,
		components.Motion,
		components.Sense,
		components.Steering,
		components.Agent,
	]
	agentFilter *ecs.Filter5[
		components.Position,
		components.Motion,
		components.Sense,
		components.Steering,
		components.Agent,
	]
	cowMapper *ecs.Map2[components.Position, components.Cow]
	cowFilter *ecs.Filter2[components.Position, components.Cow]

	// Individual component mappers for lookups
	posMap   *ecs.Map1[components.Position]
	senseMap *ecs.Map1[components.Sense]
	agentMap *ecs.Map1[components.Agent]
	cowMap   *ecs.Map1[components.Cow]

	homes []components.Home

	// Spatial indexes and analytics
	agentHash *systems.SpatialHash
	cowHash   *systems.SpatialHash
	coverage  *systems.CoverageGrid
	history   *telemetry.History
	perf      *telemetry.PerfCollector

	// Day state
	day         int
	phase       Phase
	mode        Mode
	preset      Preset
	dayTime     float64
	waitTimer   float64
	cowsClaimed int

	nextAgentID uint32
	nextCowID   uint32
	nextHomeID  uint32
	numAgents   int
	numCows     int

	// Scratch buffers reused across ticks
	nearby     []ecs.Entity
	cowViews   []systems.CowView
	candidates []systems.Neighbor
	entities   []ecs.Entity

	// Telemetry sinks
	logStats      bool
	statsCallback func(telemetry.DayStats)
	outputManager *telemetry.OutputManager
	historyDB     *history.DB
	runID         string
	run           int
}

// New creates a game and seeds the initial population from the configured preset.
func New(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.ComputeDerived()

	policy, err := systems.NewPolicy(cfg.AI)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalid, err)
	}
	mode, err := ParseMode(cfg.Sim.InitialMode)
	if err != nil {
		return nil, err
	}
	preset, err := ParsePreset(cfg.Sim.InitialPreset)
	if err != nil {
		return nil, err
	}

	world := ecs.NewWorld()

	g := &Game{
		cfg:    cfg,
		world:  world,
		rng:    rand.New(rand.NewSource(opts.Seed)),
		seed:   opts.Seed,
		policy: policy,
		bounds: systems.Bounds{W: cfg.Derived.WorldW32, H: cfg.Derived.WorldH32, Wrap: cfg.World.Wrap},
		mode:   mode,
		agentMapper: ecs.NewMap5[
			components.Position,
			components.Motion,
			components.Sense,
			components.Steering,
			components.Agent,
		](world),
		agentFilter: ecs.NewFilter5[
			components.Position,
			components.Motion,
			components.Sense,
			components.Steering,
			components.Agent,
		](world),
		cowMapper: ecs.NewMap2[components.Position, components.Cow](world),
		cowFilter: ecs.NewFilter2[components.Position, components.Cow](world),
		posMap:    ecs.NewMap1[components.Position](world),
		senseMap:  ecs.NewMap1[components.Sense](world),
		agentMap:  ecs.NewMap1[components.Agent](world),
		cowMap:    ecs.NewMap1[components.Cow](world),

		agentHash: systems.NewSpatialHash(float32(cfg.Sim.SpatialCellAgents)),
		cowHash:   systems.NewSpatialHash(float32(cfg.Sim.SpatialCellCows)),
		coverage:  systems.NewCoverageGrid(cfg.World.Width, cfg.World.Height, cfg.Analysis.CoverageCellSize, cfg.World.Wrap),
		history:   telemetry.NewHistory(cfg.Telemetry.HistoryCap),
		perf:      telemetry.NewPerfCollector(perfWindow),

		logStats:      opts.LogStats,
		statsCallback: opts.StatsCallback,
	}

	if g.outputManager, err = telemetry.NewOutputManager(opts.OutputDir); err != nil {
		return nil, err
	}
	if err := g.outputManager.WriteConfig(cfg); err != nil {
		g.Close()
		return nil, err
	}

	if opts.HistoryDB != "" {
		if g.historyDB, err = history.Open(opts.HistoryDB); err != nil {
			g.Close()
			return nil, err
		}
		if err := g.startRun(preset); err != nil {
			g.Close()
			return nil, err
		}
	}

	g.seedPopulation(preset)

	slog.Info("game created",
		"seed", opts.Seed,
		"policy", policy.ID(),
		"preset", preset,
		"mode", mode,
		"agents", g.numAgents,
		"run_id", g.runID,
	)

	return g, nil
}

// Close releases output files and the history database.
func (g *Game) Close() error {
	var firstErr error
	if err := g.outputManager.Close(); err != nil {
		firstErr = err
	}
	if g.historyDB != nil {
		if err := g.historyDB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Config returns the configuration the game was built with.
func (g *Game) Config() *config.Config { return g.cfg }

// Day returns the current day index, starting at 1.
func (g *Game) Day() int { return g.day }

// Phase returns the current phase.
func (g *Game) Phase() Phase { return g.phase }

// Mode returns the current day-advance mode.
func (g *Game) Mode() Mode { return g.mode }

// Preset returns the preset of the last population reset.
func (g *Game) Preset() Preset { return g.preset }

// DayTime returns the elapsed time of the current Active phase.
func (g *Game) DayTime() float64 { return g.dayTime }

// CowsClaimed returns the cows claimed so far today.
func (g *Game) CowsClaimed() int { return g.cowsClaimed }

// AgentCount returns the live population size.
func (g *Game) AgentCount() int { return g.numAgents }

// CowCount returns the number of cows in the world.
func (g *Game) CowCount() int { return g.numCows }

// RunID returns the history run id, or "" when the history log is disabled.
func (g *Game) RunID() string { return g.runID }

// Run returns how many populations this game has seeded, counting the first.
func (g *Game) Run() int { return g.run }

// Homes returns a copy of the home list.
func (g *Game) Homes() []components.Home {
	out := make([]components.Home, len(g.homes))
	copy(out, g.homes)
	return out
}

// Perf returns tick timings averaged over the last perfWindow ticks.
func (g *Game) Perf() telemetry.PerfStats { return g.perf.Stats() }

// History returns the settled days kept in memory, oldest first.
func (g *Game) History() []telemetry.DayStats {
	return g.history.Days()
}
