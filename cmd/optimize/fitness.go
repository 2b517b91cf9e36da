package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/egobh/config"
	"github.com/pthm-cable/egobh/game"
	"github.com/pthm-cable/egobh/telemetry"
)

// Fitness component weights.
const (
	weightSurvival  = 1.0
	weightStability = 0.5
	weightTarget    = 0.3

	// A run whose population exceeds this multiple of the starting
	// population is stopped and scored as a blow-up.
	blowUpFactor = 8
	blowUpCost   = 2.0

	warmupDays = 2 // excluded from stability scoring
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxDays    int
	seeds      []int64
	baseConfig *config.Config

	mu          sync.Mutex
	lastSummary runSummary
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxDays int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxDays:    maxDays,
		seeds:      seeds,
		baseConfig: baseCfg,
	}
}

// runResult holds the outcome of one headless run.
type runResult struct {
	initialPop int
	days       []telemetry.DayStats
	blownUp    bool
	err        error
}

// runSummary is the seed-averaged view of the latest evaluation.
type runSummary struct {
	survivedDays float64
	egoMean      float64
	finalPop     float64
}

// LastSummary returns the averages from the most recent evaluation.
func (fe *FitnessEvaluator) LastSummary() runSummary {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastSummary
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
// Seeds run concurrently; each gets its own Game.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]runResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(x, s)
		}(i, seed)
	}
	wg.Wait()

	var total float64
	var sum runSummary
	for _, r := range results {
		total += computeFitness(r, fe.maxDays)
		sum.survivedDays += float64(survivedDays(r))
		if n := len(r.days); n > 0 {
			sum.egoMean += r.days[n-1].EgoMean
			sum.finalPop += float64(r.days[n-1].PopulationAfter)
		}
	}
	n := float64(len(fe.seeds))
	sum.survivedDays /= n
	sum.egoMean /= n
	sum.finalPop /= n

	fe.mu.Lock()
	fe.lastSummary = sum
	fe.mu.Unlock()

	return total / n
}

// runSimulation runs one headless game until maxDays settle, the population
// dies out or it blows up.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) runResult {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)
	cfg.Sim.InitialMode = game.ModeAuto.String()

	var result runResult
	g, err := game.New(game.Options{
		Config: cfg,
		Seed:   seed,
		StatsCallback: func(s telemetry.DayStats) {
			result.days = append(result.days, s)
		},
	})
	if err != nil {
		result.err = err
		return result
	}
	defer g.Close()

	result.initialPop = g.AgentCount()
	limit := blowUpFactor * max(result.initialPop, 1)
	for len(result.days) < fe.maxDays {
		g.Step()
		if n := len(result.days); n > 0 {
			last := result.days[n-1]
			if last.PopulationAfter == 0 {
				break
			}
			if last.PopulationAfter > limit {
				result.blownUp = true
				break
			}
		}
	}
	return result
}

// survivedDays counts settled days that ended with a living population.
func survivedDays(r runResult) int {
	n := 0
	for _, d := range r.days {
		if d.PopulationAfter == 0 {
			break
		}
		n++
	}
	return n
}

// computeFitness scores a run (lower = better). It rewards surviving the
// full horizon, a steady population and staying near the starting size.
func computeFitness(r runResult, maxDays int) float64 {
	if r.err != nil || maxDays <= 0 {
		return math.Inf(1)
	}

	survival := float64(survivedDays(r)) / float64(maxDays)
	fitness := -weightSurvival * survival

	if r.blownUp {
		fitness += blowUpCost
	}

	pops := populationSeries(r.days)
	if len(pops) >= 2 {
		mean, std := stat.MeanStdDev(pops, nil)
		if mean > 0 {
			fitness += weightStability * std / mean
		}
		if r.initialPop > 0 {
			fitness += weightTarget * math.Abs(math.Log(mean/float64(r.initialPop)))
		}
	}
	return fitness
}

// populationSeries returns end-of-day populations after the warmup, while
// the population is alive.
func populationSeries(days []telemetry.DayStats) []float64 {
	var pops []float64
	for i, d := range days {
		if d.PopulationAfter == 0 {
			break
		}
		if i < warmupDays {
			continue
		}
		pops = append(pops, float64(d.PopulationAfter))
	}
	return pops
}
