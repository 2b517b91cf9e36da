package game

import (
	"errors"
	"math"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/egobh/config"
	"github.com/pthm-cable/egobh/telemetry"
)

func newTestGame(t *testing.T, mutate func(c *config.Config)) *Game {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	g, err := New(Options{Config: cfg, Seed: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { g.Close() })
	return g
}

// setPoints overrides an agent's points for settlement tests.
func setPoints(g *Game, e ecs.Entity, points float64) {
	g.agentMap.Get(e).Points = points
}

// runUntil advances with the fixed step until cond holds or maxSteps pass.
func runUntil(t *testing.T, g *Game, maxSteps int, cond func() bool) {
	t.Helper()
	for i := 0; i < maxSteps; i++ {
		if cond() {
			return
		}
		g.Step()
	}
	if !cond() {
		t.Fatalf("condition not reached after %d steps (day %d, phase %v)", maxSteps, g.Day(), g.Phase())
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *config.Config)
	}{
		{"zero width", func(c *config.Config) { c.World.Width = 0 }},
		{"zero day", func(c *config.Config) { c.Sim.DayDurationSec = 0 }},
		{"zero cell", func(c *config.Config) { c.Sim.SpatialCellAgents = -1 }},
		{"unknown policy", func(c *config.Config) { c.AI.Policy = "oracle" }},
		{"unknown mode", func(c *config.Config) { c.Sim.InitialMode = "sometimes" }},
		{"unknown preset", func(c *config.Config) { c.Sim.InitialPreset = "all99" }},
		{"negative uniform count", func(c *config.Config) { c.Presets.UniformEach = -1 }},
		{"negative all count", func(c *config.Config) {
			c.Presets.AllCount = -5
			c.Sim.InitialPreset = "all70"
		}},
		{"negative override", func(c *config.Config) { c.Sim.TotalAgentsOverride = -3 }},
		{"ego percent above range", func(c *config.Config) { c.Sim.SingleEgoPercent = 101 }},
		{"ego percent below range", func(c *config.Config) { c.Sim.SingleEgoPercent = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)
			g, err := New(Options{Config: cfg})
			if err == nil {
				g.Close()
				t.Fatal("expected error")
			}
			if !errors.Is(err, config.ErrInvalid) {
				t.Errorf("error %v does not wrap ErrInvalid", err)
			}
		})
	}
}

func TestResetPopulationPresets(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *config.Config)
		preset    Preset
		wantCount int
		wantEgo   float64 // -1 skips the check
		wantHomes int
	}{
		{"uniform", nil, PresetUniform, 202, -1, 5},
		{"all70", nil, PresetAll70, 100, 0.70, 2},
		{"all30", nil, PresetAll30, 100, 0.30, 2},
		{"override", func(c *config.Config) {
			c.Sim.TotalAgentsOverride = 7
			c.Sim.SingleEgoPercent = 25
		}, PresetAll70, 7, 0.25, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t, tt.mutate)
			g.ResetPopulation(tt.preset)

			if g.AgentCount() != tt.wantCount {
				t.Errorf("agents = %d, want %d", g.AgentCount(), tt.wantCount)
			}
			if len(g.Homes()) != tt.wantHomes {
				t.Errorf("homes = %d, want %d", len(g.Homes()), tt.wantHomes)
			}
			if g.CowCount() != g.Config().Rules.TargetCows {
				t.Errorf("cows = %d, want %d", g.CowCount(), g.Config().Rules.TargetCows)
			}
			if g.Day() != 1 || g.Phase() != PhaseActive || g.DayTime() != 0 {
				t.Errorf("day=%d phase=%v time=%v, want fresh day 1", g.Day(), g.Phase(), g.DayTime())
			}

			s := g.Snapshot()
			center := s.Homes[0]
			for _, a := range s.Agents {
				if tt.wantEgo >= 0 && a.Ego != tt.wantEgo {
					t.Fatalf("agent ego = %v, want %v", a.Ego, tt.wantEgo)
				}
				if a.Ego < 0 || a.Ego > 1 {
					t.Fatalf("agent ego %v out of range", a.Ego)
				}
				if math.Abs(float64(a.X-center.X)) > 40 || math.Abs(float64(a.Y-center.Y)) > 40 {
					t.Fatalf("agent at (%v,%v) too far from center home", a.X, a.Y)
				}
			}
		})
	}
}

func TestResetPopulationClearsHistory(t *testing.T) {
	g := newTestGame(t, func(c *config.Config) {
		c.Sim.DayDurationSec = 0.1
		c.Sim.TotalAgentsOverride = 4
	})
	runUntil(t, g, 100, func() bool { return len(g.History()) > 0 })

	g.SetPreset(PresetAll30)
	g.Reset()
	if len(g.History()) != 0 {
		t.Error("history not cleared by reset")
	}
	if g.Preset() != PresetAll30 || g.Day() != 1 {
		t.Errorf("preset=%v day=%d after reset", g.Preset(), g.Day())
	}
}

func TestSingleAgentDebugSetup(t *testing.T) {
	g := newTestGame(t, func(c *config.Config) {
		c.Sim.TotalAgentsOverride = 1
		c.Sim.DayDurationSec = 0.5
		c.Rules.CowValue = 50
		c.Rules.TargetCows = 1
		c.Rules.HouseCapacity = 10000
		c.Presets.UniformEach = 10
		c.Presets.AllCount = 1
	})
	if g.AgentCount() != 1 || g.CowCount() != 1 || len(g.Homes()) != 1 {
		t.Fatalf("agents=%d cows=%d homes=%d, want 1/1/1", g.AgentCount(), g.CowCount(), len(g.Homes()))
	}

	// a lone agent never contends, so it starves on the first day
	runUntil(t, g, 5000, func() bool { return len(g.History()) >= 1 })
	day := g.History()[0]
	if day.CowsClaimed != 0 || day.PopulationAfter != 0 {
		t.Errorf("day 1 claimed=%d population=%d, want 0/0", day.CowsClaimed, day.PopulationAfter)
	}
}

func TestPresetCycle(t *testing.T) {
	if PresetUniform.Next() != PresetAll70 || PresetAll70.Next() != PresetAll30 || PresetAll30.Next() != PresetUniform {
		t.Error("preset cycle order mismatch")
	}
}

func TestHomesReconcileToNearest(t *testing.T) {
	g := newTestGame(t, func(c *config.Config) {
		c.Sim.TotalAgentsOverride = 120
	})
	homes := g.Homes()
	if len(homes) != 3 {
		t.Fatalf("homes = %d, want 3", len(homes))
	}
	for i, a := range homes {
		for j, b := range homes {
			if i >= j {
				continue
			}
			d := math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
			if d < 60+2*18 {
				t.Errorf("homes %d and %d only %v apart", i, j, d)
			}
		}
	}
	for _, a := range g.Snapshot().Agents {
		if want := g.nearestHome(a.X, a.Y); a.Home != want {
			t.Errorf("agent %d home = %d, want nearest %d", a.ID, a.Home, want)
		}
	}
}

func TestAdvanceClampsDt(t *testing.T) {
	g := newTestGame(t, nil)

	g.Advance(0)
	g.Advance(-3)
	g.Advance(math.NaN())
	if g.DayTime() != 0 {
		t.Fatalf("non-positive steps advanced time to %v", g.DayTime())
	}

	g.Advance(10)
	if math.Abs(g.DayTime()-g.Config().Sim.MaxDt) > 1e-12 {
		t.Errorf("dayTime = %v, want clamp %v", g.DayTime(), g.Config().Sim.MaxDt)
	}
	if g.Phase() != PhaseActive {
		t.Error("a long pause skipped the day")
	}
}

func TestCowsReturnToTargetEveryTick(t *testing.T) {
	g := newTestGame(t, nil)
	target := g.Config().Rules.TargetCows
	for i := 0; i < 300; i++ {
		g.Step()
		if g.Phase() == PhaseActive && g.CowCount() != target {
			t.Fatalf("tick %d: cows = %d, want %d", i, g.CowCount(), target)
		}
	}
}

func TestSnapshotAndHUD(t *testing.T) {
	g := newTestGame(t, nil)
	for i := 0; i < 30; i++ {
		g.Step()
	}

	s := g.Snapshot()
	if len(s.Agents) != g.AgentCount() || len(s.Cows) != g.CowCount() {
		t.Fatalf("snapshot sizes %d/%d, want %d/%d", len(s.Agents), len(s.Cows), g.AgentCount(), g.CowCount())
	}
	total := 0
	for _, c := range s.EgoHistogram {
		total += c
	}
	if total != g.AgentCount() {
		t.Errorf("histogram total = %d, want %d", total, g.AgentCount())
	}
	if s.AvgDistance <= 0 {
		t.Errorf("avg distance = %v, want > 0 after moving", s.AvgDistance)
	}

	// snapshot is a copy
	s.Homes[0].X = -1
	if g.Homes()[0].X == -1 {
		t.Error("snapshot homes alias game state")
	}

	if p := g.Perf(); p.Samples != 30 || p.PhaseAvg[telemetry.PhaseAgents] <= 0 {
		t.Errorf("perf = %+v, want 30 timed ticks", p)
	}

	hud := g.HUD()
	if hud.Day != 1 || hud.Phase != "active" || hud.Agents != g.AgentCount() {
		t.Errorf("hud = %+v", hud)
	}
	if math.Abs(hud.EgoMean-0.5) > 1e-9 {
		t.Errorf("uniform ego mean = %v, want 0.5", hud.EgoMean)
	}
	if hud.TimeLeft <= 0 || hud.TimeLeft >= g.Config().Sim.DayDurationSec {
		t.Errorf("time left = %v", hud.TimeLeft)
	}
}

func TestStatsCallbackReceivesDays(t *testing.T) {
	cfg := config.Default()
	cfg.Sim.DayDurationSec = 0.2
	cfg.Sim.TotalAgentsOverride = 6

	var days []telemetry.DayStats
	g, err := New(Options{Config: cfg, Seed: 3, StatsCallback: func(s telemetry.DayStats) {
		days = append(days, s)
	}})
	if err != nil {
		t.Fatal(err)
	}
	defer g.Close()

	runUntil(t, g, 5000, func() bool { return len(days) >= 2 })
	if days[0].Day != 1 || days[1].Day != 2 {
		t.Errorf("days = %d,%d, want 1,2", days[0].Day, days[1].Day)
	}
	if days[1].PopulationBefore != days[0].PopulationAfter {
		t.Errorf("day 2 started with %d, day 1 ended with %d", days[1].PopulationBefore, days[0].PopulationAfter)
	}
}
