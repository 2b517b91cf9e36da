package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/egobh/game"
)

// Action is a viewer command requested through the controls panel.
type Action int

const (
	ActionNone Action = iota
	ActionToggleMode
	ActionNextDay
	ActionReset
	ActionCyclePreset
)

const (
	buttonW   = 120
	buttonH   = 28
	buttonGap = 8
)

// ControlsPanel renders the raygui command buttons.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewControlsPanel creates a controls panel at the given position.
func NewControlsPanel(x, y int32) *ControlsPanel {
	return &ControlsPanel{renderer: NewRenderer(), x: x, y: y}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x, c.y = x, y
}

// Draw renders the buttons and returns the clicked action, if any.
// Next Day is only enabled while the game would accept it.
func (c *ControlsPanel) Draw(hud game.HUD, preset game.Preset) Action {
	width := int32(2*buttonW + 3*buttonGap)
	height := int32(2*buttonH + 3*buttonGap)
	c.renderer.DrawPanel(c.x, c.y, width, height)

	col := func(i int) float32 { return float32(c.x) + buttonGap + float32(i)*(buttonW+buttonGap) }
	row := func(i int) float32 { return float32(c.y) + buttonGap + float32(i)*(buttonH+buttonGap) }
	rect := func(i, j int) rl.Rectangle {
		return rl.Rectangle{X: col(i), Y: row(j), Width: buttonW, Height: buttonH}
	}

	action := ActionNone

	modeLabel := "Mode: Auto"
	if hud.Mode == game.ModeManual.String() {
		modeLabel = "Mode: Manual"
	}
	if gui.Button(rect(0, 0), modeLabel) {
		action = ActionToggleMode
	}

	if !hud.CanNextDay {
		gui.Disable()
	}
	if gui.Button(rect(1, 0), "Next Day") && hud.CanNextDay {
		action = ActionNextDay
	}
	gui.Enable()

	if gui.Button(rect(0, 1), "Reset") {
		action = ActionReset
	}
	if gui.Button(rect(1, 1), fmt.Sprintf("Preset: %s", preset)) {
		action = ActionCyclePreset
	}
	return action
}
