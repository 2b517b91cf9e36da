package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/egobh/game"
	"github.com/pthm-cable/egobh/telemetry"
)

// HUD renders the status panel and charts.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the status panel at the top left.
func (h *HUD) Draw(data game.HUD, paused bool) {
	r := h.renderer
	x, y := int32(10), int32(10)
	width := int32(250)
	r.DrawPanel(x, y, width, 190)

	px := x + r.Theme.Padding
	py := r.DrawSectionHeader(px, y+r.Theme.Padding, fmt.Sprintf("Day %d", data.Day))

	phase := data.Phase
	if paused {
		phase += " (paused)"
	}
	py = r.DrawLabelValue(px, py, "Phase", phase)
	py = r.DrawLabelValue(px, py, "Mode", data.Mode)
	switch data.Phase {
	case game.PhaseActive.String():
		py = r.DrawLabelValue(px, py, "Time left", fmt.Sprintf("%.1fs", data.TimeLeft))
	case game.PhaseWaiting.String():
		wait := "press N"
		if data.Mode == game.ModeAuto.String() {
			wait = fmt.Sprintf("%.1fs", data.WaitLeft)
		}
		py = r.DrawLabelValue(px, py, "Next day", wait)
	default:
		py = r.DrawLabelValue(px, py, "Time left", "-")
	}
	py = r.DrawLabelValue(px, py, "Agents", fmt.Sprintf("%d", data.Agents))
	py = r.DrawLabelValue(px, py, "Cows", fmt.Sprintf("%d (claimed %d)", data.Cows, data.CowsClaimed))
	py = r.DrawLabelValue(px, py, "Homes", fmt.Sprintf("%d", data.Homes))
	py = r.DrawLabelValue(px, py, "Ego mean", fmt.Sprintf("%.3f", data.EgoMean))
	r.DrawBar(px, py, "Coverage", float32(data.CoveragePct/100), width-2*r.Theme.Padding)
}

// DrawCharts renders the ego histogram and per-day history at the bottom left.
func (h *HUD) DrawCharts(screenH int32, s *game.Snapshot) {
	r := h.renderer
	width := int32(300)
	height := int32(230)
	x, y := int32(10), screenH-height-34
	r.DrawPanel(x, y, width, height)

	px := x + r.Theme.Padding
	inner := width - 2*r.Theme.Padding - 40

	py := r.DrawSectionHeader(px, y+r.Theme.Padding, "Ego distribution")
	py = r.DrawEgoHistogram(px, py, inner, 50, s.EgoHistogram[:])

	pop, claimed := historySeries(s.History)
	py = r.DrawSectionHeader(px, py+4, "Population / day")
	py = r.DrawSparkline(px, py, inner, 40, pop, rl.SkyBlue)
	py = r.DrawSectionHeader(px, py+4, "Cows claimed / day")
	py = r.DrawSparkline(px, py, inner, 40, claimed, rl.Gold)
	r.DrawLabelValue(px, py, "Avg distance", fmt.Sprintf("%.0f", s.AvgDistance))
}

// DrawControls renders the key legend at the bottom of the screen.
func (h *HUD) DrawControls(screenH int32) {
	rl.DrawText(
		"M: mode | N: next day | R: reset | V: sense | P: pickup | X: headings | L: home links | C: charts | H: camera | Space: pause | RMB drag: pan | Wheel: zoom",
		10, screenH-22, 12, rl.Gray,
	)
}

func historySeries(days []telemetry.DayStats) (pop, claimed []float64) {
	pop = make([]float64, len(days))
	claimed = make([]float64, len(days))
	for i, d := range days {
		pop[i] = float64(d.PopulationAfter)
		claimed[i] = float64(d.CowsClaimed)
	}
	return pop, claimed
}
