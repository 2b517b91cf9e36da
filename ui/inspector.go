package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/egobh/game"
)

// pickRadius is the screen distance within which a click selects an agent.
const pickRadius = 12

// Inspector shows details for the selected agent.
type Inspector struct {
	renderer *Renderer
	selected uint32
	has      bool
}

// NewInspector creates an inspector with nothing selected.
func NewInspector() *Inspector {
	return &Inspector{renderer: NewRenderer()}
}

// Select tracks an agent by ID.
func (in *Inspector) Select(id uint32) {
	in.selected, in.has = id, true
}

// Clear drops the selection.
func (in *Inspector) Clear() {
	in.has = false
}

// Selected returns the tracked agent ID.
func (in *Inspector) Selected() (uint32, bool) {
	return in.selected, in.has
}

// Pick selects the agent closest to the screen point, or clears the
// selection when none is within pickRadius pixels.
func (in *Inspector) Pick(s *game.Snapshot, toScreen func(x, y float32) (float32, float32), sx, sy float32) {
	best := float32(pickRadius * pickRadius)
	found := false
	for _, a := range s.Agents {
		ax, ay := toScreen(a.X, a.Y)
		dx, dy := ax-sx, ay-sy
		if d2 := dx*dx + dy*dy; d2 <= best {
			best = d2
			in.selected = a.ID
			found = true
		}
	}
	in.has = found
}

// Draw renders the panel at the top right. The selection is dropped when the
// agent no longer exists.
func (in *Inspector) Draw(s *game.Snapshot, screenW int32) (game.AgentView, bool) {
	if !in.has {
		return game.AgentView{}, false
	}
	var agent game.AgentView
	found := false
	for _, a := range s.Agents {
		if a.ID == in.selected {
			agent, found = a, true
			break
		}
	}
	if !found {
		in.has = false
		return game.AgentView{}, false
	}

	r := in.renderer
	width := int32(220)
	x, y := screenW-width-10, int32(10)
	r.DrawPanel(x, y, width, 130)

	px := x + r.Theme.Padding
	py := r.DrawSectionHeader(px, y+r.Theme.Padding, fmt.Sprintf("Agent #%d", agent.ID))
	py = r.DrawLabelValue(px, py, "Ego", fmt.Sprintf("%.2f", agent.Ego))
	py = r.DrawLabelValue(px, py, "Points", fmt.Sprintf("%.1f", agent.Points))
	py = r.DrawLabelValue(px, py, "Home", fmt.Sprintf("%d", agent.Home))
	py = r.DrawLabelValue(px, py, "Position", fmt.Sprintf("%.0f, %.0f", agent.X, agent.Y))
	status := "out"
	if agent.AtHome {
		status = "home"
	}
	r.DrawLabelValue(px, py, "Status", status)
	rl.DrawRectangle(x+width-26, y+r.Theme.Padding, 14, 14, EgoColor(agent.Ego))
	return agent, true
}
