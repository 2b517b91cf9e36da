package components

// Agent bundles identity, the ego trait and day-scoped state.
type Agent struct {
	ID        uint32
	Ego       float64 // selfishness in [0,1], set at spawn and never changed
	Points    float64 // points accumulated today
	DistToday float32 // distance traveled today
	Home      int     // index into the game's home list

	ReturningHome bool
	AtHome        bool
}

// Cow is a stationary resource claimed by two agents at a time.
type Cow struct {
	ID     uint32
	Radius float32
	Value  float64
}

// Home is a fixed return point. Homes are never removed, so an index stays valid.
type Home struct {
	ID     uint32
	X, Y   float32
	Radius float32
}
