package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlaySenseRadius  OverlayID = "sense_radius"
	OverlayPickupRadius OverlayID = "pickup_radius"
	OverlayHeadings     OverlayID = "headings"
	OverlayHomeLinks    OverlayID = "home_links"
	OverlayCharts       OverlayID = "charts"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID        OverlayID
	Name      string
	Key       int32 // 0 = no key
	KeyLabel  string
	Category  string
	Exclusive []OverlayID // disabled when this one is enabled
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with the default overlays.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	reg.registerDefaults()
	return reg
}

func (r *OverlayRegistry) registerDefaults() {
	r.Register(OverlayDescriptor{
		ID:       OverlaySenseRadius,
		Name:     "Sense Radius",
		Key:      rl.KeyV,
		KeyLabel: "V",
		Category: "agents",
	})
	r.Register(OverlayDescriptor{
		ID:       OverlayPickupRadius,
		Name:     "Pickup Radius",
		Key:      rl.KeyP,
		KeyLabel: "P",
		Category: "agents",
	})
	r.Register(OverlayDescriptor{
		ID:       OverlayHeadings,
		Name:     "Headings",
		Key:      rl.KeyX,
		KeyLabel: "X",
		Category: "agents",
	})
	r.Register(OverlayDescriptor{
		ID:       OverlayHomeLinks,
		Name:     "Home Links",
		Key:      rl.KeyL,
		KeyLabel: "L",
		Category: "homes",
	})
	r.Register(OverlayDescriptor{
		ID:       OverlayCharts,
		Name:     "Charts",
		Key:      rl.KeyC,
		KeyLabel: "C",
		Category: "panels",
	})
	r.SetEnabled(OverlayCharts, true)
}

// Register adds an overlay to the registry.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.byID[desc.ID] = desc
	r.enabled[desc.ID] = false
}

// Toggle switches an overlay on/off and handles exclusivity.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	r.SetEnabled(id, !r.enabled[id])
	return r.enabled[id]
}

// SetEnabled explicitly sets an overlay's state.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	desc, ok := r.byID[id]
	if !ok {
		return
	}
	r.enabled[id] = enabled
	if enabled {
		for _, excl := range desc.Exclusive {
			r.enabled[excl] = false
		}
	}
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// All returns all registered overlays in registration order.
func (r *OverlayRegistry) All() []OverlayDescriptor {
	return r.descriptors
}

// HandleKeyPress toggles the overlay bound to key, if any.
func (r *OverlayRegistry) HandleKeyPress(key int32) (OverlayID, bool, bool) {
	for _, desc := range r.descriptors {
		if desc.Key == key {
			return desc.ID, r.Toggle(desc.ID), true
		}
	}
	return "", false, false
}
