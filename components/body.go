package components

import "github.com/pthm-cable/egobh/config"

// Sense holds an agent's physical and perceptual radii.
type Sense struct {
	SenseRadius  float32 // cow detection distance
	PickupRadius float32 // contention reach, added to the cow radius
	BodyRadius   float32 // used for home arrival
}

// SenseFromDefaults returns radii from the configured agent defaults.
func SenseFromDefaults(d config.AgentDefaults) Sense {
	return Sense{
		SenseRadius:  float32(d.SenseRadius),
		PickupRadius: float32(d.PickupRadius),
		BodyRadius:   float32(d.BodyRadius),
	}
}

// Steering is per-agent memory owned by the behavior policy.
type Steering struct {
	WanderTimer float32 // seconds until the next wander turn
}
