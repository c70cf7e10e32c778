package systems

import "github.com/pthm-cable/constellation/components"

// ConnectionParams controls which particle pairs are joined by a line.
type ConnectionParams struct {
	Radius     float32 // pairs closer than this are connected
	MaxOpacity float32 // line opacity at distance 0
}

// DefaultConnectionParams returns a 100 px radius fading from 0.15 opacity.
func DefaultConnectionParams() ConnectionParams {
	return ConnectionParams{
		Radius:     100,
		MaxOpacity: 0.15,
	}
}

// ConnectionOpacity returns MaxOpacity * (1 - dist/Radius) for dist < Radius,
// and 0 otherwise. It decreases linearly and reaches 0 at Radius.
func ConnectionOpacity(dist float32, p ConnectionParams) float32 {
	if p.Radius <= 0 || dist >= p.Radius {
		return 0
	}
	return p.MaxOpacity * clamp01(1-dist/p.Radius)
}

// ForEachConnection visits every unordered pair (i < j) of particles closer
// than p.Radius and returns how many pairs were visited.
//
// Cost is O(n²): at 100 particles that is 4,950 distance checks per frame.
// A larger cap would want a uniform grid with cell size = Radius.
func ForEachConnection(particles []components.Particle, p ConnectionParams, fn func(a, b *components.Particle, opacity float32)) int {
	radiusSq := p.Radius * p.Radius
	visited := 0

	for i := range particles {
		a := &particles[i]
		for j := i + 1; j < len(particles); j++ {
			b := &particles[j]

			// Cheap reject before the square root
			if distanceSq(a.X, a.Y, b.X, b.Y) >= radiusSq {
				continue
			}

			dist := distance(a.X, a.Y, b.X, b.Y)
			if fn != nil {
				fn(a, b, ConnectionOpacity(dist, p))
			}
			visited++
		}
	}

	return visited
}
