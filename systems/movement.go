package systems

import (
	"math"

	"github.com/pthm-cable/egobh/components"
)

const (
	homeSafetyMargin = 14.0 // avoidance starts inside home radius + margin
	homePushMargin   = 20.0 // agents are pushed out to home radius + this
	homeAvoidTurn    = 4.5  // rad/s
)

// Integrate derives velocity from heading and speed, advances the position
// and returns the distance covered.
func Integrate(pos *components.Position, m *components.Motion, dt float32) float32 {
	sin, cos := math.Sincos(float64(m.Heading))
	m.VelX = float32(cos) * m.Speed
	m.VelY = float32(sin) * m.Speed

	pos.X += m.VelX * dt
	pos.Y += m.VelY * dt

	return m.Speed * dt
}

// AvoidHomes pushes an agent out of any home it has wandered into and turns it
// away. Homes are tested with plain distance; they are placed away from the edges.
// It reports whether a push happened.
func AvoidHomes(pos *components.Position, m *components.Motion, homes []components.Home, dt float32) bool {
	pushed := false
	for i := range homes {
		h := &homes[i]
		dx := pos.X - h.X
		dy := pos.Y - h.Y
		dist := distance(pos.X, pos.Y, h.X, h.Y)
		if dist >= h.Radius+homeSafetyMargin {
			continue
		}

		nx, ny := float32(1), float32(0)
		if dist > 0 {
			nx, ny = dx/dist, dy/dist
		}
		target := h.Radius + homePushMargin
		pos.X = h.X + nx*target
		pos.Y = h.Y + ny*target

		m.Heading = SteerToward(m.Heading, nx, ny, homeAvoidTurn, dt)
		pushed = true
	}
	return pushed
}

// ApplyBounds wraps the position on a periodic world and clamps it otherwise.
func ApplyBounds(pos *components.Position, b Bounds) {
	if b.Wrap {
		pos.X = wrapCoord(pos.X, b.W)
		pos.Y = wrapCoord(pos.Y, b.H)
		return
	}
	pos.X = clampFloat(pos.X, 0, b.W)
	pos.Y = clampFloat(pos.Y, 0, b.H)
}
