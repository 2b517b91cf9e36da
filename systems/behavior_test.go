package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/egobh/components"
	"github.com/pthm-cable/egobh/config"
)

func newObservation(x, y float32, cows ...CowView) *Observation {
	return &Observation{
		X:           x,
		Y:           y,
		SenseRadius: 220,
		DT:          1.0 / 60,
		Bounds:      Bounds{W: 2000, H: 1500, Wrap: true},
		Cows:        cows,
		Memory:      &components.Steering{WanderTimer: 1},
		Rng:         rand.New(rand.NewSource(1)),
	}
}

func TestGreedyPolicy_SeeksNearestCowInRange(t *testing.T) {
	p := &GreedyPolicy{}
	obs := newObservation(100, 100,
		CowView{X: 300, Y: 100}, // 200 away
		CowView{X: 150, Y: 100}, // 50 away
		CowView{X: 700, Y: 100}, // out of range
	)

	in := p.Decide(obs)
	if in.Kind != IntentSeek {
		t.Fatalf("kind = %v, want seek", in.Kind)
	}
	if in.TargetX != 150 || in.TargetY != 100 {
		t.Errorf("target = (%v,%v), want (150,100)", in.TargetX, in.TargetY)
	}
}

func TestGreedyPolicy_TargetsNearestWrappedImage(t *testing.T) {
	p := &GreedyPolicy{}
	obs := newObservation(10, 100, CowView{X: 1990, Y: 100})

	in := p.Decide(obs)
	if in.Kind != IntentSeek {
		t.Fatalf("kind = %v, want seek across the seam", in.Kind)
	}
	if in.TargetX != -10 {
		t.Errorf("target x = %v, want -10", in.TargetX)
	}
}

func TestGreedyPolicy_IgnoresCowOnSenseBoundary(t *testing.T) {
	p := &GreedyPolicy{}
	obs := newObservation(0, 100, CowView{X: 220, Y: 100})
	if in := p.Decide(obs); in.Kind == IntentSeek {
		t.Error("cow exactly at sense radius should not be seen")
	}
}

func TestGreedyPolicy_CenterBias(t *testing.T) {
	p := &GreedyPolicy{CenterBias: 1}
	in := p.Decide(newObservation(100, 100))
	if in.Kind != IntentSeek || in.TargetX != 1000 || in.TargetY != 750 {
		t.Errorf("intent = %+v, want seek to center", in)
	}
}

func TestWander_TimerAndTurnRange(t *testing.T) {
	p := &WandererPolicy{}
	obs := newObservation(100, 100)
	obs.Memory.WanderTimer = 0.5

	if in := p.Decide(obs); in.Kind != IntentHold {
		t.Fatalf("kind = %v, want hold while timer runs", in.Kind)
	}

	for i := 0; i < 200; i++ {
		obs.Memory.WanderTimer = 0
		in := p.Decide(obs)
		if in.Kind != IntentTurn {
			t.Fatalf("kind = %v, want turn on expiry", in.Kind)
		}
		if in.Turn < -0.4 || in.Turn >= 0.4 {
			t.Errorf("turn %v outside [-0.4, 0.4)", in.Turn)
		}
		if obs.Memory.WanderTimer < 0.2 || obs.Memory.WanderTimer >= 1.4 {
			t.Errorf("timer %v outside [0.2, 1.4)", obs.Memory.WanderTimer)
		}
	}
}

func TestSteerToward_RateLimitedShortestWay(t *testing.T) {
	dt := float32(0.1)
	rate := float32(6.0)

	// target straight behind-left: heading pi-0.1 to target -pi+0.1 is a 0.2 rad turn
	h := SteerToward(math.Pi-0.1, float32(math.Cos(-math.Pi+0.1)), float32(math.Sin(-math.Pi+0.1)), rate, dt)
	if d := math.Abs(float64(normalizeAngle(h - (-math.Pi + 0.1)))); d > 1e-4 {
		t.Errorf("heading %v did not take the short way across pi", h)
	}

	// large turn is capped to rate*dt
	h = SteerToward(0, 0, 1, rate, dt)
	if math.Abs(float64(h)-0.6) > 1e-5 {
		t.Errorf("heading = %v, want 0.6", h)
	}
}

func TestApplyIntent(t *testing.T) {
	m := &components.Motion{Heading: 0}
	ApplyIntent(m, 0, 0, Intent{Kind: IntentTurn, Turn: 0.3}, 6, 0.016)
	if math.Abs(float64(m.Heading)-0.3) > 1e-6 {
		t.Errorf("turn heading = %v, want 0.3", m.Heading)
	}

	ApplyIntent(m, 0, 0, Intent{Kind: IntentHold}, 6, 0.016)
	if math.Abs(float64(m.Heading)-0.3) > 1e-6 {
		t.Errorf("hold changed heading to %v", m.Heading)
	}
}

func TestNewPolicy(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"greedy", PolicyGreedy, false},
		{"wanderer", PolicyWanderer, false},
		{"", PolicyGreedy, false},
		{"telepathic", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPolicy(config.AIConfig{Policy: tt.name})
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if p.ID() != tt.want {
				t.Errorf("ID = %q, want %q", p.ID(), tt.want)
			}
		})
	}
}
