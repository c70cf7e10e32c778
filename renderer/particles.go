package renderer

import (
	"github.com/pthm-cable/constellation/components"
	"github.com/pthm-cable/constellation/systems"
)

// ParticleRenderer draws particles as filled accent circles.
type ParticleRenderer struct {
	style *Style
}

// NewParticleRenderer creates a particle renderer reading from style.
func NewParticleRenderer(style *Style) *ParticleRenderer {
	return &ParticleRenderer{style: style}
}

// Draw renders all particles.
func (r *ParticleRenderer) Draw(s Surface, particles []components.Particle) {
	for i := range particles {
		p := &particles[i]
		s.DrawFilledCircle(p.X, p.Y, p.Radius, r.style.Accent, r.style.ParticleOpacity)
	}
}

// ConnectionRenderer draws a line between every pair of nearby particles.
type ConnectionRenderer struct {
	style *Style
}

// NewConnectionRenderer creates a connection renderer reading from style.
func NewConnectionRenderer(style *Style) *ConnectionRenderer {
	return &ConnectionRenderer{style: style}
}

// Draw renders connections and returns how many were drawn.
func (r *ConnectionRenderer) Draw(s Surface, particles []components.Particle) int {
	accent, width := r.style.Accent, r.style.LineWidth
	return systems.ForEachConnection(particles, r.style.Connections, func(a, b *components.Particle, opacity float32) {
		s.DrawLine(a.X, a.Y, b.X, b.Y, accent, opacity, width)
	})
}
