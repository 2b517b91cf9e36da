package game

import (
	"log/slog"

	"github.com/pthm-cable/egobh/telemetry"
)

// recordDay pushes a settled day to history and every configured sink.
// Sink failures are logged and never stop the simulation.
func (g *Game) recordDay(stats telemetry.DayStats) {
	g.history.Push(stats)

	slog.Info("day_settled",
		"run", stats.Run,
		"day", stats.Day,
		"population_before", stats.PopulationBefore,
		"population_after", stats.PopulationAfter,
		"deaths", stats.Deaths,
		"births", stats.Births,
		"cows_claimed", stats.CowsClaimed,
		"avg_distance", stats.AvgDistance,
		"coverage_pct", stats.CoveragePct,
		"ego_mean", stats.EgoMean,
	)

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		slog.Info("perf", "day", stats.Day, "tick", g.perf.Stats())
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteDay(stats); err != nil {
			slog.Error("failed to write day", "error", err)
		}
	}

	if g.historyDB != nil && g.runID != "" {
		if err := g.historyDB.RecordDay(g.runID, stats); err != nil {
			slog.Error("failed to record day", "run_id", g.runID, "error", err)
		}
	}
}
