package renderer

import (
	"github.com/pthm-cable/constellation/components"
)

// FrameStats reports what one render pass drew.
type FrameStats struct {
	Particles   int
	Connections int
}

// FieldRenderer composes a full frame: clear, particles, then connections.
type FieldRenderer struct {
	style       *Style
	particles   *ParticleRenderer
	connections *ConnectionRenderer
}

// NewFieldRenderer creates a renderer drawing with style. Changes made to
// *style take effect on the next frame.
func NewFieldRenderer(style *Style) *FieldRenderer {
	return &FieldRenderer{
		style:       style,
		particles:   NewParticleRenderer(style),
		connections: NewConnectionRenderer(style),
	}
}

// Style returns the live style.
func (r *FieldRenderer) Style() *Style {
	return r.style
}

// Render draws one frame of the field onto s. It does not present.
func (r *FieldRenderer) Render(s Surface, particles []components.Particle) FrameStats {
	s.Clear()
	r.particles.Draw(s, particles)
	n := r.connections.Draw(s, particles)

	return FrameStats{
		Particles:   len(particles),
		Connections: n,
	}
}

// NullSurface discards all drawing. Used for headless runs.
type NullSurface struct {
	Width, Height float32
}

// Size returns the configured dimensions.
func (s *NullSurface) Size() (float32, float32) { return s.Width, s.Height }

// Clear does nothing.
func (s *NullSurface) Clear() {}

// DrawFilledCircle does nothing.
func (s *NullSurface) DrawFilledCircle(x, y, radius float32, c Color, opacity float32) {}

// DrawLine does nothing.
func (s *NullSurface) DrawLine(x1, y1, x2, y2 float32, c Color, opacity, width float32) {}
