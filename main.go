package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/egobh/config"
	"github.com/pthm-cable/egobh/game"
	"github.com/pthm-cable/egobh/ui"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output per-day stats via slog")
	logFormat := flag.String("log-format", "json", "Log format: json or text")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	historyDB := flag.String("history-db", "", "SQLite file for the run history (empty = disabled)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxDays := flag.Int("max-days", 0, "Stop after N settled days (0 = unlimited)")
	flag.Parse()

	setupLogger(*logFormat, *logLevel)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Config:    cfg,
		Seed:      rngSeed,
		LogStats:  *logStats,
		OutputDir: *outputDir,
		HistoryDB: *historyDB,
	}

	if *headless {
		os.Exit(runHeadless(opts, *maxDays))
	}
	os.Exit(runWindow(opts, cfg, *maxDays))
}

func setupLogger(format, level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	hopts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, hopts)
	if format == "text" {
		handler = slog.NewTextHandler(os.Stdout, hopts)
	}
	slog.SetDefault(slog.New(handler))
}

// runHeadless steps the simulation at the fixed dt with no window.
func runHeadless(opts game.Options, maxDays int) int {
	g, err := game.New(opts)
	if err != nil {
		slog.Error("failed to create game", "error", err)
		return 1
	}
	defer g.Close()

	slog.Info("starting headless simulation",
		"seed", opts.Seed,
		"max_days", maxDays,
		"run_id", g.RunID(),
	)

	for {
		g.Step()
		// nobody presses Next Day without a window
		if g.Mode() == game.ModeManual {
			g.RequestNextDay()
		}
		if maxDays > 0 && settledDays(g) >= maxDays {
			slog.Info("max days reached", "day", g.Day(), "agents", g.AgentCount())
			return 0
		}
	}
}

// runWindow opens the raylib viewer and advances by frame time.
func runWindow(opts game.Options, cfg *config.Config, maxDays int) int {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Ego Contention")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.New(opts)
	if err != nil {
		slog.Error("failed to create game", "error", err)
		return 1
	}
	defer g.Close()

	viewer := ui.NewViewer(g)
	for !rl.WindowShouldClose() {
		viewer.Update()
		viewer.Draw()

		if maxDays > 0 && settledDays(g) >= maxDays {
			break
		}
	}
	return 0
}

// settledDays counts days whose settlement has run.
func settledDays(g *game.Game) int {
	if g.Phase() == game.PhaseActive {
		return g.Day() - 1
	}
	return g.Day()
}
