package telemetry

import (
	"log/slog"
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseCowHash)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseAgents)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}
	if stats.Samples != 5 {
		t.Errorf("samples = %d, want 5", stats.Samples)
	}
	for _, phase := range []string{PhaseCowHash, PhaseAgents} {
		if _, ok := stats.PhaseAvg[phase]; !ok {
			t.Errorf("phase %s not tracked", phase)
		}
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseContention)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.Samples != 5 {
		t.Errorf("samples = %d, want window size 5", stats.Samples)
	}
	if stats.MinTickDuration > stats.AvgTickDuration || stats.AvgTickDuration > stats.MaxTickDuration {
		t.Errorf("min/avg/max out of order: %v %v %v", stats.MinTickDuration, stats.AvgTickDuration, stats.MaxTickDuration)
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase("fast")
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase("slow")
		time.Sleep(2 * time.Millisecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.PhasePct["slow"] <= stats.PhasePct["fast"] {
		t.Errorf("expected slow phase (%v%%) > fast phase (%v%%)", stats.PhasePct["slow"], stats.PhasePct["fast"])
	}
}

func TestPerfCollector_EmptyAndNil(t *testing.T) {
	var nilPC *PerfCollector
	nilPC.StartTick()
	nilPC.StartPhase(PhaseAgents)
	nilPC.EndTick()

	for _, pc := range []*PerfCollector{nilPC, NewPerfCollector(0)} {
		stats := pc.Stats()
		if stats.AvgTickDuration != 0 || stats.Samples != 0 {
			t.Errorf("expected zero stats, got %+v", stats)
		}
		if stats.PhaseAvg == nil || stats.PhasePct == nil {
			t.Error("expected non-nil maps")
		}
	}
}

func TestPerfStatsLogValue(t *testing.T) {
	s := PerfStats{
		Samples:         3,
		AvgTickDuration: 100 * time.Microsecond,
		PhasePct:        map[string]float64{PhaseAgents: 72.35, PhaseCowHash: 0.05},
	}
	v := s.LogValue()
	if v.Kind() != slog.KindGroup {
		t.Fatalf("kind = %v, want group", v.Kind())
	}
	keys := map[string]bool{}
	for _, a := range v.Group() {
		keys[a.Key] = true
	}
	if !keys["agents_pct"] || keys["cow_hash_pct"] {
		t.Errorf("phase attrs = %v, want only phases above 0.1%%", keys)
	}
}
