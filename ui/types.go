// Package ui draws the simulation with raylib and handles viewer input.
// The simulation is read through game.Snapshot and game.HUD only; viewer
// commands go back through the game's public command methods.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds UI styling constants.
type Theme struct {
	Background    rl.Color
	WorldBg       rl.Color
	WorldBorder   rl.Color
	PanelBg       rl.Color
	PanelBorder   rl.Color
	SectionHeader rl.Color
	LabelColor    rl.Color
	ValueColor    rl.Color
	BarBg         rl.Color
	BarFill       rl.Color
	HomeFill      rl.Color
	HomeBorder    rl.Color
	CowColor      rl.Color
	SenseColor    rl.Color
	PickupColor   rl.Color
	Padding       int32
	LineHeight    int32
	LabelWidth    int32
	BarHeight     int32
	FontSize      int32
	HeaderFont    int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		Background:    rl.Color{R: 12, G: 14, B: 18, A: 255},
		WorldBg:       rl.Color{R: 34, G: 52, B: 36, A: 255},
		WorldBorder:   rl.Color{R: 70, G: 90, B: 70, A: 255},
		PanelBg:       rl.Color{R: 20, G: 25, B: 30, A: 230},
		PanelBorder:   rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader: rl.Yellow,
		LabelColor:    rl.LightGray,
		ValueColor:    rl.RayWhite,
		BarBg:         rl.Color{R: 40, G: 40, B: 40, A: 255},
		BarFill:       rl.Color{R: 100, G: 150, B: 200, A: 255},
		HomeFill:      rl.Color{R: 150, G: 110, B: 70, A: 255},
		HomeBorder:    rl.Color{R: 90, G: 60, B: 35, A: 255},
		CowColor:      rl.Color{R: 245, G: 240, B: 225, A: 255},
		SenseColor:    rl.Color{R: 255, G: 255, B: 255, A: 40},
		PickupColor:   rl.Color{R: 255, G: 220, B: 80, A: 90},
		Padding:       10,
		LineHeight:    16,
		LabelWidth:    90,
		BarHeight:     12,
		FontSize:      12,
		HeaderFont:    14,
	}
}

// EgoColor maps ego in [0, 1] to a blue (cooperative) through pale
// (neutral) to red (egoistic) ramp.
func EgoColor(ego float64) rl.Color {
	low := rl.Color{R: 60, G: 140, B: 255, A: 255}
	mid := rl.Color{R: 230, G: 230, B: 220, A: 255}
	high := rl.Color{R: 255, G: 70, B: 60, A: 255}

	switch {
	case ego <= 0:
		return low
	case ego >= 1:
		return high
	case ego < 0.5:
		return lerpColor(low, mid, float32(ego/0.5))
	default:
		return lerpColor(mid, high, float32((ego-0.5)/0.5))
	}
}

func lerpColor(a, b rl.Color, t float32) rl.Color {
	mix := func(x, y uint8) uint8 {
		return uint8(float32(x) + (float32(y)-float32(x))*t)
	}
	return rl.Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}
