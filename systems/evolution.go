package systems

import (
	"log/slog"
	"math"
	"math/rand"
)

const egoPercentBuckets = 101

// Outcome is the settlement result of a single agent.
type Outcome uint8

const (
	OutcomeDead Outcome = iota
	OutcomeSurvived
	OutcomeR1
	OutcomeR2
	OutcomeR3
	OutcomeR4Plus
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDead:
		return "dead"
	case OutcomeSurvived:
		return "survived"
	case OutcomeR1:
		return "r1"
	case OutcomeR2:
		return "r2"
	case OutcomeR3:
		return "r3"
	default:
		return "r4p"
	}
}

// OutcomeFor classifies a settlement result.
func OutcomeFor(survives bool, offspring int) Outcome {
	switch {
	case !survives:
		return OutcomeDead
	case offspring <= 0:
		return OutcomeSurvived
	case offspring == 1:
		return OutcomeR1
	case offspring == 2:
		return OutcomeR2
	case offspring == 3:
		return OutcomeR3
	default:
		return OutcomeR4Plus
	}
}

// OutcomeBuckets counts agents per outcome for one day.
type OutcomeBuckets struct {
	Dead     int `csv:"dead"`
	Survived int `csv:"survived"`
	R1       int `csv:"r1"`
	R2       int `csv:"r2"`
	R3       int `csv:"r3"`
	R4Plus   int `csv:"r4p"`
}

// Add records one outcome.
func (b *OutcomeBuckets) Add(o Outcome) {
	switch o {
	case OutcomeDead:
		b.Dead++
	case OutcomeSurvived:
		b.Survived++
	case OutcomeR1:
		b.R1++
	case OutcomeR2:
		b.R2++
	case OutcomeR3:
		b.R3++
	default:
		b.R4Plus++
	}
}

// Total returns the number of agents counted.
func (b OutcomeBuckets) Total() int {
	return b.Dead + b.Survived + b.R1 + b.R2 + b.R3 + b.R4Plus
}

// LogValue implements slog.LogValuer.
func (b OutcomeBuckets) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("dead", b.Dead),
		slog.Int("survived", b.Survived),
		slog.Int("r1", b.R1),
		slog.Int("r2", b.R2),
		slog.Int("r3", b.R3),
		slog.Int("r4p", b.R4Plus),
	)
}

// Settle applies the end-of-day rule to an agent's points.
func Settle(points, threshold, cost float64) (survives bool, offspring int) {
	if points < threshold {
		return false, 0
	}
	if cost <= 0 {
		return true, 0
	}
	return true, int(math.Floor((points - threshold) / cost))
}

// MutateEgo returns a child's ego. With probability keepProb the child keeps
// the parent's ego rounded to a whole percent; otherwise a uniform percent is drawn.
func MutateEgo(rng *rand.Rand, parentEgo, keepProb float64) float64 {
	if rng.Float64() < keepProb {
		return EgoFromPercent(int(math.Round(parentEgo * 100)))
	}
	return EgoFromPercent(rng.Intn(egoPercentBuckets))
}

// EgoFromPercent converts a percent to an ego, clamped to [0,1].
func EgoFromPercent(p int) float64 {
	if p < 0 {
		p = 0
	} else if p > 100 {
		p = 100
	}
	return float64(p) / 100
}

// EgoBucket returns the whole-percent histogram bucket of an ego.
func EgoBucket(ego float64) int {
	b := int(math.Round(ego * 100))
	if b < 0 {
		return 0
	}
	if b >= egoPercentBuckets {
		return egoPercentBuckets - 1
	}
	return b
}

// HomesNeeded returns the number of homes for a population.
func HomesNeeded(population, capacity int) int {
	if capacity <= 0 {
		return 1
	}
	n := (population + capacity - 1) / capacity
	if n < 1 {
		return 1
	}
	return n
}
