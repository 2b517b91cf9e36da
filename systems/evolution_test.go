package systems

import (
	"math"
	"math/rand"
	"testing"
)

func TestSettle(t *testing.T) {
	tests := []struct {
		points    float64
		survives  bool
		offspring int
		outcome   Outcome
	}{
		{0, false, 0, OutcomeDead},
		{54.99, false, 0, OutcomeDead},
		{55, true, 0, OutcomeSurvived},
		{104.9, true, 0, OutcomeSurvived},
		{105, true, 1, OutcomeR1},
		{155, true, 2, OutcomeR2},
		{205, true, 3, OutcomeR3},
		{1000, true, 18, OutcomeR4Plus},
	}
	for _, tt := range tests {
		s, o := Settle(tt.points, 55, 50)
		if s != tt.survives || o != tt.offspring {
			t.Errorf("Settle(%v) = (%v,%d), want (%v,%d)", tt.points, s, o, tt.survives, tt.offspring)
		}
		if got := OutcomeFor(s, o); got != tt.outcome {
			t.Errorf("OutcomeFor(%v) = %v, want %v", tt.points, got, tt.outcome)
		}
	}
}

func TestOutcomeBuckets(t *testing.T) {
	var b OutcomeBuckets
	for _, o := range []Outcome{OutcomeDead, OutcomeDead, OutcomeSurvived, OutcomeR1, OutcomeR4Plus} {
		b.Add(o)
	}
	if b.Dead != 2 || b.Survived != 1 || b.R1 != 1 || b.R4Plus != 1 || b.Total() != 5 {
		t.Errorf("buckets = %+v", b)
	}
}

func TestMutateEgo_RangeAndPercentGrid(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	kept := 0
	const n = 20000
	for i := 0; i < n; i++ {
		child := MutateEgo(rng, 0.437, 0.8)
		if child < 0 || child > 1 {
			t.Fatalf("child ego %v out of range", child)
		}
		if p := child * 100; math.Abs(p-math.Round(p)) > 1e-9 {
			t.Fatalf("child ego %v not on percent grid", child)
		}
		if child == 0.44 {
			kept++
		}
	}
	frac := float64(kept) / n
	// 0.8 kept plus ~1/101 of redraws landing on 44
	if frac < 0.78 || frac > 0.83 {
		t.Errorf("keep fraction = %v, want about 0.81", frac)
	}
}

func TestMutateEgo_KeepProbExtremes(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 100; i++ {
		if got := MutateEgo(rng, 0.7, 1); got != 0.7 {
			t.Fatalf("keepProb 1 produced %v", got)
		}
	}
}

func TestEgoBucketAndHomesNeeded(t *testing.T) {
	if EgoBucket(0) != 0 || EgoBucket(1) != 100 || EgoBucket(0.374) != 37 || EgoBucket(1.2) != 100 {
		t.Error("EgoBucket mismatch")
	}
	tests := []struct{ n, capacity, want int }{
		{0, 50, 1},
		{1, 50, 1},
		{50, 50, 1},
		{51, 50, 2},
		{202, 50, 5},
	}
	for _, tt := range tests {
		if got := HomesNeeded(tt.n, tt.capacity); got != tt.want {
			t.Errorf("HomesNeeded(%d,%d) = %d, want %d", tt.n, tt.capacity, got, tt.want)
		}
	}
}
