package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/egobh/config"
	"github.com/pthm-cable/egobh/telemetry"
)

func TestParamVectorRoundtrip(t *testing.T) {
	cfg := config.Default()
	pv := NewParamVector(cfg)

	raw := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(raw[i]-back[i]) > 1e-9 {
			t.Errorf("%s: %v -> %v", pv.Specs[i].Name, raw[i], back[i])
		}
	}

	got := pv.ExtractFromConfig(cfg)
	for i := range raw {
		if got[i] != raw[i] {
			t.Errorf("%s: extracted %v, default %v", pv.Specs[i].Name, got[i], raw[i])
		}
	}
}

func TestApplyToConfigClampsAndRounds(t *testing.T) {
	cfg := config.Default()
	pv := NewParamVector(cfg)

	pv.ApplyToConfig(cfg, []float64{-5, 500, 42.6, 1.5})
	if cfg.Rules.SurvivePoints != 10 || cfg.Rules.ReproEvery != 200 {
		t.Errorf("rules = %v/%v, want clamped 10/200", cfg.Rules.SurvivePoints, cfg.Rules.ReproEvery)
	}
	if cfg.Rules.TargetCows != 43 {
		t.Errorf("target cows = %d, want 43", cfg.Rules.TargetCows)
	}
	if cfg.Rules.MutationKeepProb != 1 {
		t.Errorf("keep prob = %v, want 1", cfg.Rules.MutationKeepProb)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("tuned config invalid: %v", err)
	}
}

func daysWithPops(pops ...int) []telemetry.DayStats {
	days := make([]telemetry.DayStats, len(pops))
	for i, p := range pops {
		days[i] = telemetry.DayStats{Day: i + 1, PopulationAfter: p}
	}
	return days
}

func TestComputeFitnessOrdering(t *testing.T) {
	const maxDays = 6
	steady := runResult{initialPop: 100, days: daysWithPops(100, 100, 100, 100, 100, 100)}
	noisy := runResult{initialPop: 100, days: daysWithPops(100, 100, 40, 160, 50, 150)}
	extinct := runResult{initialPop: 100, days: daysWithPops(60, 20, 0)}
	blown := runResult{initialPop: 100, days: daysWithPops(300, 900), blownUp: true}

	fs := computeFitness(steady, maxDays)
	fn := computeFitness(noisy, maxDays)
	fe := computeFitness(extinct, maxDays)
	fb := computeFitness(blown, maxDays)

	if math.Abs(fs-(-1)) > 1e-9 {
		t.Errorf("steady full run fitness = %v, want -1", fs)
	}
	if !(fs < fn && fn < fe) {
		t.Errorf("want steady < noisy < extinct, got %v, %v, %v", fs, fn, fe)
	}
	if fb <= fe {
		t.Errorf("blow-up fitness %v should be worse than extinction %v", fb, fe)
	}
}

func TestSurvivedDaysStopsAtExtinction(t *testing.T) {
	r := runResult{days: daysWithPops(5, 3, 0)}
	if got := survivedDays(r); got != 2 {
		t.Errorf("survived = %d, want 2", got)
	}
}
