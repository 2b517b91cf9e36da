package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer handles panel drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFont, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight + 2
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawBar draws a progress bar for a value in [0, 1].
func (r *Renderer) DrawBar(x, y int32, label string, value float32, width int32) int32 {
	value = clamp01(value)

	barX := x + r.Theme.LabelWidth
	barWidth := width - r.Theme.LabelWidth - 50

	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(barX, y+2, barWidth, r.Theme.BarHeight, r.Theme.BarBg)
	rl.DrawRectangle(barX, y+2, int32(float32(barWidth)*value), r.Theme.BarHeight, r.Theme.BarFill)
	rl.DrawText(fmt.Sprintf("%.0f%%", value*100), barX+barWidth+5, y, r.Theme.FontSize, r.Theme.ValueColor)

	return y + r.Theme.LineHeight + 2
}

// DrawEgoHistogram draws one column per ego percent, coloured by ego.
func (r *Renderer) DrawEgoHistogram(x, y, width, height int32, counts []int) int32 {
	rl.DrawRectangle(x, y, width, height, r.Theme.BarBg)

	peak := 0
	for _, c := range counts {
		peak = max(peak, c)
	}
	if peak == 0 || len(counts) == 0 {
		return y + height + 4
	}

	colW := float32(width) / float32(len(counts))
	for i, c := range counts {
		if c == 0 {
			continue
		}
		h := float32(height) * float32(c) / float32(peak)
		rl.DrawRectangleV(
			rl.Vector2{X: float32(x) + float32(i)*colW, Y: float32(y+height) - h},
			rl.Vector2{X: max(colW, 1), Y: h},
			EgoColor(float64(i)/float64(len(counts)-1)),
		)
	}
	return y + height + 4
}

// DrawSparkline draws a polyline of values scaled to the box.
func (r *Renderer) DrawSparkline(x, y, width, height int32, values []float64, color rl.Color) int32 {
	rl.DrawRectangle(x, y, width, height, r.Theme.BarBg)
	if len(values) < 2 {
		return y + height + 4
	}

	hi := values[0]
	for _, v := range values {
		hi = max(hi, v)
	}
	if hi <= 0 {
		hi = 1
	}

	step := float32(width) / float32(len(values)-1)
	point := func(i int) rl.Vector2 {
		return rl.Vector2{
			X: float32(x) + float32(i)*step,
			Y: float32(y+height) - float32(height)*float32(values[i]/hi),
		}
	}
	for i := 1; i < len(values); i++ {
		rl.DrawLineEx(point(i-1), point(i), 1.5, color)
	}
	rl.DrawText(fmt.Sprintf("%.0f", values[len(values)-1]), x+width+4, y, r.Theme.FontSize, color)
	return y + height + 4
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
