package components

// Position represents an entity's world position.
type Position struct {
	X, Y float32
}

// Motion holds heading-driven kinematics.
// Velocity is derived from Heading and Speed every integration step.
type Motion struct {
	Heading    float32 // radians
	VelX, VelY float32
	Speed      float32 // world units per second
}
