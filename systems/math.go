package systems

import "math"

// normalizeAngle wraps an angle to [-Pi, Pi].
func normalizeAngle(angle float32) float32 {
	a := math.Mod(float64(angle), 2*math.Pi)
	if a > math.Pi {
		a -= 2 * math.Pi
	} else if a < -math.Pi {
		a += 2 * math.Pi
	}
	return float32(a)
}

// clampFloat clamps a float32 value between min and max.
func clampFloat(v, minVal, maxVal float32) float32 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// wrapCoord maps v into [0, size).
func wrapCoord(v, size float32) float32 {
	m := float32(math.Mod(float64(v), float64(size)))
	if m < 0 {
		m += size
	}
	if m >= size {
		m = 0
	}
	return m
}

// ToroidalDelta returns the shortest path delta from (x1,y1) to (x2,y2).
func ToroidalDelta(x1, y1, x2, y2, w, h float32) (dx, dy float32) {
	dx = x2 - x1
	dy = y2 - y1

	if dx > w/2 {
		dx -= w
	} else if dx < -w/2 {
		dx += w
	}
	if dy > h/2 {
		dy -= h
	} else if dy < -h/2 {
		dy += h
	}

	return dx, dy
}

// Bounds describes the world rectangle and its boundary mode.
type Bounds struct {
	W, H float32
	Wrap bool
}

// Delta returns the displacement from (x1,y1) to (x2,y2), using the shortest
// wrapped displacement when the world is periodic.
func (b Bounds) Delta(x1, y1, x2, y2 float32) (dx, dy float32) {
	if b.Wrap {
		return ToroidalDelta(x1, y1, x2, y2, b.W, b.H)
	}
	return x2 - x1, y2 - y1
}

// DistSq returns the squared distance between two points under the boundary mode.
func (b Bounds) DistSq(x1, y1, x2, y2 float32) float32 {
	dx, dy := b.Delta(x1, y1, x2, y2)
	return dx*dx + dy*dy
}

// distance returns the Euclidean distance between two points.
func distance(x1, y1, x2, y2 float32) float32 {
	dx := x1 - x2
	dy := y1 - y2
	return float32(math.Sqrt(float64(dx*dx + dy*dy)))
}
