// Package camera maps the simulation plane onto the viewer window.
package camera

import "math"

// Point is a screen or world position.
type Point struct{ X, Y float32 }

// Camera controls the viewport into the world. In a wrapped world positions
// are drawn at their nearest image to the camera center and panning wraps;
// in a bounded world the center is clamped so the view stays over the plane.
type Camera struct {
	// Center in world coordinates
	X, Y float32

	// 1.0 = one world unit per pixel
	Zoom float32

	ViewportW, ViewportH float32
	WorldW, WorldH       float32
	Wrap                 bool

	MinZoom, MaxZoom float32
}

// New creates a camera centered on the world, zoomed to fit it.
func New(viewportW, viewportH, worldW, worldH float32, wrap bool) *Camera {
	c := &Camera{
		ViewportW: viewportW,
		ViewportH: viewportH,
		WorldW:    worldW,
		WorldH:    worldH,
		Wrap:      wrap,
		MinZoom:   0.25,
		MaxZoom:   4,
	}
	c.Reset()
	return c
}

// SetLimits sets the zoom range and re-clamps the current zoom.
// Non-positive or inverted limits are ignored.
func (c *Camera) SetLimits(minZoom, maxZoom float32) {
	if minZoom <= 0 || maxZoom < minZoom {
		return
	}
	c.MinZoom, c.MaxZoom = minZoom, maxZoom
	c.SetZoom(c.Zoom)
}

// FitZoom is the zoom at which the whole world fits in the viewport.
func (c *Camera) FitZoom() float32 {
	return min(c.ViewportW/c.WorldW, c.ViewportH/c.WorldH)
}

// delta returns the offset from the camera center to a world position.
func (c *Camera) delta(wx, wy float32) (dx, dy float32) {
	dx, dy = wx-c.X, wy-c.Y
	if c.Wrap {
		dx = toroidalDelta(wx, c.X, c.WorldW)
		dy = toroidalDelta(wy, c.Y, c.WorldH)
	}
	return dx, dy
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	dx, dy := c.delta(wx, wy)
	return c.ViewportW/2 + dx*c.Zoom, c.ViewportH/2 + dy*c.Zoom
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = c.X + (sx-c.ViewportW/2)/c.Zoom
	wy = c.Y + (sy-c.ViewportH/2)/c.Zoom
	if c.Wrap {
		wx = mod(wx, c.WorldW)
		wy = mod(wy, c.WorldH)
	}
	return wx, wy
}

// Scale converts a world length to pixels.
func (c *Camera) Scale(r float32) float32 {
	return r * c.Zoom
}

// IsVisible reports whether a circle could be on screen. Used for culling.
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	dx, dy := c.delta(wx, wy)
	halfW := c.ViewportW/(2*c.Zoom) + radius
	halfH := c.ViewportH/(2*c.Zoom) + radius
	return abs32(dx) <= halfW && abs32(dy) <= halfH
}

// GhostPositions returns extra screen positions for a circle straddling the
// view edge of a wrapped world, so it shows on both sides. Bounded worlds
// have no ghosts.
func (c *Camera) GhostPositions(wx, wy, radius float32) []Point {
	if !c.Wrap {
		return nil
	}
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)
	dx, dy := c.delta(wx, wy)

	var shiftX, shiftY float32
	switch {
	case dx > halfW-radius:
		shiftX = -c.WorldW
	case dx < -halfW+radius:
		shiftX = c.WorldW
	}
	switch {
	case dy > halfH-radius:
		shiftY = -c.WorldH
	case dy < -halfH+radius:
		shiftY = c.WorldH
	}

	sx := c.ViewportW/2 + dx*c.Zoom
	sy := c.ViewportH/2 + dy*c.Zoom
	gx := c.ViewportW/2 + (dx+shiftX)*c.Zoom
	gy := c.ViewportH/2 + (dy+shiftY)*c.Zoom

	var ghosts []Point
	if shiftX != 0 {
		ghosts = append(ghosts, Point{gx, sy})
	}
	if shiftY != 0 {
		ghosts = append(ghosts, Point{sx, gy})
	}
	if shiftX != 0 && shiftY != 0 {
		ghosts = append(ghosts, Point{gx, gy})
	}
	return ghosts
}

// Resize updates the viewport, keeping the center and zoom.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.clampCenter()
}

// Pan moves the camera by a delta in screen pixels.
func (c *Camera) Pan(dx, dy float32) {
	c.X += dx / c.Zoom
	c.Y += dy / c.Zoom
	c.clampCenter()
}

// SetZoom sets the zoom level, clamped to the limits.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
	c.clampCenter()
}

// ZoomBy multiplies the current zoom by factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// ZoomAt zooms by factor keeping the world point under (sx, sy) fixed.
func (c *Camera) ZoomAt(sx, sy, factor float32) {
	wx, wy := c.ScreenToWorld(sx, sy)
	c.Zoom = clamp(c.Zoom*factor, c.MinZoom, c.MaxZoom)
	c.X = wx - (sx-c.ViewportW/2)/c.Zoom
	c.Y = wy - (sy-c.ViewportH/2)/c.Zoom
	c.clampCenter()
}

// Reset centers the camera on the world at fit zoom.
func (c *Camera) Reset() {
	c.X = c.WorldW / 2
	c.Y = c.WorldH / 2
	c.Zoom = clamp(c.FitZoom(), c.MinZoom, c.MaxZoom)
}

// clampCenter wraps the center in a wrapped world. Otherwise it keeps the
// view inside the plane, centering any axis the view is wider than.
func (c *Camera) clampCenter() {
	if c.Wrap {
		c.X = mod(c.X, c.WorldW)
		c.Y = mod(c.Y, c.WorldH)
		return
	}
	c.X = clampAxis(c.X, c.ViewportW/(2*c.Zoom), c.WorldW)
	c.Y = clampAxis(c.Y, c.ViewportH/(2*c.Zoom), c.WorldH)
}

func clampAxis(center, half, size float32) float32 {
	if 2*half >= size {
		return size / 2
	}
	return clamp(center, half, size-half)
}

// toroidalDelta is the shortest signed distance from 'from' to 'to'.
func toroidalDelta(to, from, size float32) float32 {
	d := to - from
	if d > size/2 {
		d -= size
	} else if d < -size/2 {
		d += size
	}
	return d
}

// mod is the non-negative remainder.
func mod(x, m float32) float32 {
	r := float32(math.Mod(float64(x), float64(m)))
	if r < 0 {
		r += m
	}
	return r
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
