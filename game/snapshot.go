package game

import (
	"github.com/pthm-cable/egobh/components"
	"github.com/pthm-cable/egobh/telemetry"
)

// AgentView is a read-only copy of an agent.
type AgentView struct {
	ID      uint32
	X, Y    float32
	Heading float32
	Ego     float64
	Points  float64
	Sense   float32
	Home    int
	AtHome  bool
}

// CowView is a read-only copy of a cow.
type CowView struct {
	ID     uint32
	X, Y   float32
	Radius float32
}

// Snapshot is a value copy of everything a viewer may draw.
type Snapshot struct {
	Agents []AgentView
	Cows   []CowView
	Homes  []components.Home

	Phase       Phase
	Mode        Mode
	Day         int
	DayTime     float64
	TimeLeft    float64
	WaitLeft    float64
	CoveragePct float64
	CowsClaimed int

	AvgDistance  float64
	EgoHistogram [telemetry.EgoHistogramBuckets]int
	History      []telemetry.DayStats
}

// Snapshot copies the current state.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Agents:      make([]AgentView, 0, g.numAgents),
		Cows:        make([]CowView, 0, g.numCows),
		Homes:       g.Homes(),
		Phase:       g.phase,
		Mode:        g.mode,
		Day:         g.day,
		DayTime:     g.dayTime,
		TimeLeft:    g.TimeLeft(),
		WaitLeft:    g.WaitLeft(),
		CoveragePct: g.coverage.CoveragePercent(),
		CowsClaimed: g.cowsClaimed,
		History:     g.history.Days(),
	}

	egos := make([]float64, 0, g.numAgents)
	dists := make([]float64, 0, g.numAgents)

	aq := g.agentFilter.Query()
	for aq.Next() {
		pos, motion, sense, _, agent := aq.Get()
		s.Agents = append(s.Agents, AgentView{
			ID:      agent.ID,
			X:       pos.X,
			Y:       pos.Y,
			Heading: motion.Heading,
			Ego:     agent.Ego,
			Points:  agent.Points,
			Sense:   sense.SenseRadius,
			Home:    agent.Home,
			AtHome:  agent.AtHome,
		})
		egos = append(egos, agent.Ego)
		dists = append(dists, float64(agent.DistToday))
	}

	cq := g.cowFilter.Query()
	for cq.Next() {
		pos, cow := cq.Get()
		s.Cows = append(s.Cows, CowView{ID: cow.ID, X: pos.X, Y: pos.Y, Radius: cow.Radius})
	}

	s.EgoHistogram = telemetry.EgoHistogram(egos)
	s.AvgDistance = telemetry.AverageOrZero(dists)
	return s
}

// HUD is the compact status line shown by a viewer.
type HUD struct {
	Day         int
	Phase       string
	Mode        string
	TimeLeft    float64
	WaitLeft    float64
	Agents      int
	Cows        int
	Homes       int
	CoveragePct float64
	CowsClaimed int
	EgoMean     float64
	CanNextDay  bool
}

// HUD returns the current status without copying entities.
func (g *Game) HUD() HUD {
	var egoSum float64
	aq := g.agentFilter.Query()
	for aq.Next() {
		_, _, _, _, agent := aq.Get()
		egoSum += agent.Ego
	}
	egoMean := 0.0
	if g.numAgents > 0 {
		egoMean = egoSum / float64(g.numAgents)
	}

	return HUD{
		Day:         g.day,
		Phase:       g.phase.String(),
		Mode:        g.mode.String(),
		TimeLeft:    g.TimeLeft(),
		WaitLeft:    g.WaitLeft(),
		Agents:      g.numAgents,
		Cows:        g.numCows,
		Homes:       len(g.homes),
		CoveragePct: g.coverage.CoveragePercent(),
		CowsClaimed: g.cowsClaimed,
		EgoMean:     egoMean,
		CanNextDay:  g.CanRequestNextDay(),
	}
}
