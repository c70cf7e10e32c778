// Package components defines ECS components for the particle field.
package components

// Position represents a particle's position in surface pixels.
type Position struct {
	X, Y float32
}

// Velocity represents a particle's per-frame displacement.
type Velocity struct {
	X, Y float32
}

// Body holds the fixed visual size of a particle.
type Body struct {
	Radius float32
}

// Particle is the flat value form of a particle, used for snapshots,
// deterministic spawning and rendering.
type Particle struct {
	X, Y   float32
	VX, VY float32
	Radius float32
}

// Pointer is the last known pointer location. Active is false when the
// pointer has not moved yet or has left the tracked region.
type Pointer struct {
	X, Y   float32
	Active bool
}

// Bounds represents the drawing surface extent.
type Bounds struct {
	Width, Height float32
}
