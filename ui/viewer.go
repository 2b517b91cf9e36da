package ui

import (
	"fmt"
	"log/slog"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/egobh/camera"
	"github.com/pthm-cable/egobh/game"
)

const (
	zoomStep    = 1.1
	keyPanSpeed = 600 // screen pixels per second
)

// Viewer owns the window-side state: camera, panels and overlays.
type Viewer struct {
	game      *game.Game
	cam       *camera.Camera
	hud       *HUD
	controls  *ControlsPanel
	inspector *Inspector
	overlays  *OverlayRegistry
	theme     Theme

	paused bool
	snap   game.Snapshot
}

// NewViewer creates a viewer for g sized to the current window.
func NewViewer(g *game.Game) *Viewer {
	cfg := g.Config()
	cam := camera.New(
		float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()),
		cfg.Derived.WorldW32, cfg.Derived.WorldH32,
		cfg.World.Wrap,
	)
	cam.SetLimits(float32(cfg.Camera.MinZoom), float32(cfg.Camera.MaxZoom))

	return &Viewer{
		game:      g,
		cam:       cam,
		hud:       NewHUD(),
		controls:  NewControlsPanel(0, 0),
		inspector: NewInspector(),
		overlays:  NewOverlayRegistry(),
		theme:     DefaultTheme(),
	}
}

// Update handles input and advances the simulation by one frame.
func (v *Viewer) Update() {
	v.cam.Resize(float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()))
	v.handleInput()
	if !v.paused {
		v.game.Advance(float64(rl.GetFrameTime()))
	}
	v.snap = v.game.Snapshot()
}

func (v *Viewer) handleInput() {
	if rl.IsKeyPressed(rl.KeyM) {
		v.game.ToggleMode()
	}
	if rl.IsKeyPressed(rl.KeyN) {
		v.game.RequestNextDay()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		v.game.Reset()
	}
	if rl.IsKeyPressed(rl.KeyH) {
		v.cam.Reset()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		v.paused = !v.paused
	}
	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		if id, on, ok := v.overlays.HandleKeyPress(key); ok {
			slog.Debug("overlay_toggled", "overlay", id, "enabled", on)
		}
	}

	// camera
	frame := rl.GetFrameTime()
	var dx, dy float32
	if rl.IsKeyDown(rl.KeyLeft) || rl.IsKeyDown(rl.KeyA) {
		dx -= keyPanSpeed * frame
	}
	if rl.IsKeyDown(rl.KeyRight) || rl.IsKeyDown(rl.KeyD) {
		dx += keyPanSpeed * frame
	}
	if rl.IsKeyDown(rl.KeyUp) || rl.IsKeyDown(rl.KeyW) {
		dy -= keyPanSpeed * frame
	}
	if rl.IsKeyDown(rl.KeyDown) || rl.IsKeyDown(rl.KeyS) {
		dy += keyPanSpeed * frame
	}
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		dx -= d.X
		dy -= d.Y
	}
	if dx != 0 || dy != 0 {
		v.cam.Pan(dx, dy)
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		mouse := rl.GetMousePosition()
		v.cam.ZoomAt(mouse.X, mouse.Y, float32(math.Pow(zoomStep, float64(wheel))))
	}

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) && !v.overPanel(rl.GetMousePosition()) {
		mouse := rl.GetMousePosition()
		v.inspector.Pick(&v.snap, v.cam.WorldToScreen, mouse.X, mouse.Y)
	}
}

// overPanel reports whether a screen point is over the controls panel.
func (v *Viewer) overPanel(p rl.Vector2) bool {
	x, y := v.controlsOrigin()
	return p.X >= float32(x) && p.Y >= float32(y)
}

func (v *Viewer) controlsOrigin() (int32, int32) {
	w := int32(2*buttonW + 3*buttonGap)
	h := int32(2*buttonH + 3*buttonGap)
	return int32(rl.GetScreenWidth()) - w - 10, int32(rl.GetScreenHeight()) - h - 34
}

// Draw renders one frame.
func (v *Viewer) Draw() {
	rl.BeginDrawing()
	defer rl.EndDrawing()

	rl.ClearBackground(v.theme.Background)
	v.drawWorld()

	screenW, screenH := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	hud := v.game.HUD()
	v.hud.Draw(hud, v.paused)
	if v.overlays.IsEnabled(OverlayCharts) {
		v.hud.DrawCharts(screenH, &v.snap)
	}
	v.inspector.Draw(&v.snap, screenW)

	v.controls.SetPosition(v.controlsOrigin())
	switch v.controls.Draw(hud, v.game.Preset()) {
	case ActionToggleMode:
		v.game.ToggleMode()
	case ActionNextDay:
		v.game.RequestNextDay()
	case ActionReset:
		v.game.Reset()
	case ActionCyclePreset:
		v.game.SetPreset(v.game.Preset().Next())
		v.game.Reset()
	}

	v.hud.DrawControls(screenH)
	rl.DrawFPS(screenW-90, screenH-22)
	perf := v.game.Perf()
	rl.DrawText(fmt.Sprintf("tick %dus", perf.AvgTickDuration.Microseconds()), screenW-190, screenH-20, 12, rl.Gray)
}

func (v *Viewer) drawWorld() {
	cfg := v.game.Config()
	s := &v.snap

	if !v.cam.Wrap {
		x0, y0 := v.cam.WorldToScreen(0, 0)
		w, h := v.cam.Scale(v.cam.WorldW), v.cam.Scale(v.cam.WorldH)
		rl.DrawRectangleV(rl.Vector2{X: x0, Y: y0}, rl.Vector2{X: w, Y: h}, v.theme.WorldBg)
		rl.DrawRectangleLinesEx(rl.Rectangle{X: x0, Y: y0, Width: w, Height: h}, 2, v.theme.WorldBorder)
	} else {
		rl.ClearBackground(v.theme.WorldBg)
	}

	for _, h := range s.Homes {
		v.circle(h.X, h.Y, h.Radius, v.theme.HomeFill)
		v.ring(h.X, h.Y, h.Radius, v.theme.HomeBorder)
	}

	for _, c := range s.Cows {
		v.circle(c.X, c.Y, c.Radius*0.6, v.theme.CowColor)
	}

	body := float32(cfg.Entities.AgentDefaults.BodyRadius)
	pickup := float32(cfg.Entities.AgentDefaults.PickupRadius)
	selected, hasSelected := v.inspector.Selected()
	for _, a := range s.Agents {
		if !v.cam.IsVisible(a.X, a.Y, a.Sense) {
			continue
		}
		if v.overlays.IsEnabled(OverlaySenseRadius) {
			v.ring(a.X, a.Y, a.Sense, v.theme.SenseColor)
		}
		if v.overlays.IsEnabled(OverlayPickupRadius) {
			v.ring(a.X, a.Y, pickup, v.theme.PickupColor)
		}
		if v.overlays.IsEnabled(OverlayHomeLinks) && a.Home < len(s.Homes) {
			h := s.Homes[a.Home]
			v.line(a.X, a.Y, h.X, h.Y, rl.Fade(EgoColor(a.Ego), 0.25))
		}
		v.circle(a.X, a.Y, body, EgoColor(a.Ego))
		if v.overlays.IsEnabled(OverlayHeadings) {
			hx := a.X + float32(math.Cos(float64(a.Heading)))*body*2
			hy := a.Y + float32(math.Sin(float64(a.Heading)))*body*2
			v.line(a.X, a.Y, hx, hy, rl.White)
		}
		if hasSelected && a.ID == selected {
			v.ring(a.X, a.Y, body+4, rl.Yellow)
		}
	}
}

// circle draws a filled circle plus any wrap ghosts.
func (v *Viewer) circle(x, y, r float32, c rl.Color) {
	if !v.cam.IsVisible(x, y, r) {
		return
	}
	sx, sy := v.cam.WorldToScreen(x, y)
	sr := max(v.cam.Scale(r), 1)
	rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, sr, c)
	for _, g := range v.cam.GhostPositions(x, y, r) {
		rl.DrawCircleV(rl.Vector2{X: g.X, Y: g.Y}, sr, c)
	}
}

func (v *Viewer) ring(x, y, r float32, c rl.Color) {
	if !v.cam.IsVisible(x, y, r) {
		return
	}
	sx, sy := v.cam.WorldToScreen(x, y)
	rl.DrawCircleLines(int32(sx), int32(sy), v.cam.Scale(r), c)
}

// line draws a segment along the shortest path between its endpoints.
func (v *Viewer) line(x0, y0, x1, y1 float32, c rl.Color) {
	sx0, sy0 := v.cam.WorldToScreen(x0, y0)
	dx, dy := x1-x0, y1-y0
	if v.cam.Wrap {
		dx = wrapDelta(dx, v.cam.WorldW)
		dy = wrapDelta(dy, v.cam.WorldH)
	}
	rl.DrawLineV(
		rl.Vector2{X: sx0, Y: sy0},
		rl.Vector2{X: sx0 + v.cam.Scale(dx), Y: sy0 + v.cam.Scale(dy)},
		c,
	)
}

func wrapDelta(d, size float32) float32 {
	if d > size/2 {
		return d - size
	}
	if d < -size/2 {
		return d + size
	}
	return d
}
