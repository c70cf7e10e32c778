package systems

import (
	"math"

	"github.com/pthm-cable/constellation/components"
)

// PhysicsParams holds the per-frame simulation constants.
type PhysicsParams struct {
	RepulsionRadius   float32 // pointer influence distance in px
	RepulsionStrength float32 // velocity impulse at distance 0
	Damping           float32 // per-frame velocity multiplier
}

// DefaultPhysicsParams returns a 150 px repulsion radius, 0.1 strength and 0.99 damping.
func DefaultPhysicsParams() PhysicsParams {
	return PhysicsParams{
		RepulsionRadius:   150,
		RepulsionStrength: 0.1,
		Damping:           0.99,
	}
}

// Step advances every particle in the store by exactly one frame.
func Step(store *ParticleStore, pointer components.Pointer, bounds components.Bounds, p PhysicsParams) {
	store.Update(func(pos *components.Position, vel *components.Velocity, _ *components.Body) {
		StepParticle(pos, vel, pointer, bounds, p)
	})
}

// StepParticle advances one particle by one frame: integrate, repel from the
// pointer, reflect at the bounds, clamp into the bounds, then damp.
// Velocities are per-frame displacements; there is no time delta.
func StepParticle(pos *components.Position, vel *components.Velocity, pointer components.Pointer, bounds components.Bounds, p PhysicsParams) {
	// Integrate
	pos.X += vel.X
	pos.Y += vel.Y

	// Pointer repulsion with linear falloff; zero distance has no direction
	if pointer.Active && p.RepulsionRadius > 0 {
		dx := pointer.X - pos.X
		dy := pointer.Y - pos.Y
		dist := float32(math.Sqrt(float64(dx*dx + dy*dy)))

		if dist > 0 && dist < p.RepulsionRadius {
			force := (p.RepulsionRadius - dist) / p.RepulsionRadius
			vel.X -= dx / dist * force * p.RepulsionStrength
			vel.Y -= dy / dist * force * p.RepulsionStrength
		}
	}

	// Bounce off edges
	if pos.X < 0 || pos.X > bounds.Width {
		vel.X = -vel.X
	}
	if pos.Y < 0 || pos.Y > bounds.Height {
		vel.Y = -vel.Y
	}

	// Clamp against one-frame overshoot
	pos.X = clampFloat(pos.X, 0, max(bounds.Width, 0))
	pos.Y = clampFloat(pos.Y, 0, max(bounds.Height, 0))

	vel.X *= p.Damping
	vel.Y *= p.Damping
}
