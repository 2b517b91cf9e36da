package game

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/egobh/config"
	"github.com/pthm-cable/egobh/history"
	"github.com/pthm-cable/egobh/systems"
)

func TestSinksRecordEveryDay(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "runs.db")

	cfg := config.Default()
	cfg.Sim.DayDurationSec = 0.2
	cfg.Sim.TotalAgentsOverride = 8

	g, err := New(Options{Config: cfg, Seed: 9, OutputDir: dir, HistoryDB: dbPath})
	if err != nil {
		t.Fatal(err)
	}
	if g.RunID() == "" {
		t.Fatal("no run id with a history db")
	}
	runUntil(t, g, 5000, func() bool { return len(g.History()) >= 2 })
	runID := g.RunID()
	recorded := g.History()
	if err := g.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	for _, name := range []string{"config.yaml", "days.csv", "outcomes.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s missing: %v", name, err)
		}
	}
	data, err := os.ReadFile(filepath.Join(dir, "days.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1+len(recorded) {
		t.Errorf("days.csv has %d lines, want header + %d", len(lines), len(recorded))
	}

	db, err := history.Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	days, err := db.Days(runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(days) != len(recorded) {
		t.Fatalf("db days = %d, want %d", len(days), len(recorded))
	}
	for i, d := range days {
		if d.Day != recorded[i].Day || d.PopulationAfter != recorded[i].PopulationAfter {
			t.Errorf("db day %d = %+v, want %+v", i, d, recorded[i])
		}
	}

	dead, err := db.OutcomeCount(runID, recorded[0].Day, systems.OutcomeDead.String())
	if err != nil {
		t.Fatal(err)
	}
	if dead != recorded[0].Outcomes.Dead {
		t.Errorf("dead outcomes = %d, want %d", dead, recorded[0].Outcomes.Dead)
	}
}

func TestResetStartsNewHistoryRun(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "runs.db")

	cfg := config.Default()
	cfg.Sim.DayDurationSec = 0.2
	cfg.Sim.TotalAgentsOverride = 8

	g, err := New(Options{Config: cfg, Seed: 3, OutputDir: dir, HistoryDB: dbPath})
	if err != nil {
		t.Fatal(err)
	}
	runUntil(t, g, 5000, func() bool { return len(g.History()) >= 3 })
	firstID := g.RunID()
	first := g.History()

	g.Reset()
	secondID := g.RunID()
	if secondID == "" || secondID == firstID {
		t.Fatalf("run id after reset = %q, first run %q", secondID, firstID)
	}
	if g.Run() != 2 {
		t.Errorf("Run() = %d after one reset, want 2", g.Run())
	}
	runUntil(t, g, 5000, func() bool { return len(g.History()) >= 1 })
	second := g.History()
	if err := g.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	db, err := history.Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	runs, err := db.Runs()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("runs = %d, want 2", len(runs))
	}

	days, err := db.Days(firstID)
	if err != nil {
		t.Fatal(err)
	}
	if len(days) != len(first) {
		t.Fatalf("first run has %d days, want %d", len(days), len(first))
	}
	for i, d := range days {
		if d.Day != first[i].Day || d.PopulationAfter != first[i].PopulationAfter {
			t.Errorf("first run day %d = %+v, want %+v", i, d, first[i])
		}
	}

	days, err = db.Days(secondID)
	if err != nil {
		t.Fatal(err)
	}
	if len(days) != len(second) || days[0].Day != 1 {
		t.Errorf("second run days = %+v, want %d starting at day 1", days, len(second))
	}

	data, err := os.ReadFile(filepath.Join(dir, "days.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if !strings.HasPrefix(lines[1], "1,1,") || !strings.HasPrefix(lines[len(lines)-1], "2,") {
		t.Errorf("days.csv rows do not carry the run: first %q last %q", lines[1], lines[len(lines)-1])
	}
}
