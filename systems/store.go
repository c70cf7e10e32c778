// Package systems contains the particle store and the per-frame step functions.
package systems

import (
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/constellation/components"
)

// SpawnParams controls how a store seeds particles for a surface.
type SpawnParams struct {
	AreaPerParticle float32 // px² of surface per particle
	MaxParticles    int     // ceiling regardless of area
	SpeedScale      float32 // vx, vy = (rand - 0.5) * SpeedScale
	MinRadius       float32
	MaxRadius       float32
}

// DefaultSpawnParams returns one particle per 15,000 px², at most 100,
// with velocity components in [-0.25, 0.25] and radii in [1, 3].
func DefaultSpawnParams() SpawnParams {
	return SpawnParams{
		AreaPerParticle: 15000,
		MaxParticles:    100,
		SpeedScale:      0.5,
		MinRadius:       1,
		MaxRadius:       3,
	}
}

// ParticleCount returns min(MaxParticles, floor(width*height / AreaPerParticle)).
// A surface with no area holds no particles.
func ParticleCount(width, height float32, p SpawnParams) int {
	if width <= 0 || height <= 0 || p.AreaPerParticle <= 0 || p.MaxParticles <= 0 {
		return 0
	}
	n := int(math.Floor(float64(width) * float64(height) / float64(p.AreaPerParticle)))
	return min(n, p.MaxParticles)
}

// ParticleStore owns the particle collection as entities of an ECS world.
// Re-seeding replaces the whole world; particles are never carried over.
type ParticleStore struct {
	rng    *rand.Rand
	params SpawnParams

	world  *ecs.World
	mapper *ecs.Map3[components.Position, components.Velocity, components.Body]
	filter *ecs.Filter3[components.Position, components.Velocity, components.Body]
	count  int
}

// NewParticleStore creates an empty store drawing randomness from rng.
func NewParticleStore(rng *rand.Rand, params SpawnParams) *ParticleStore {
	s := &ParticleStore{
		rng:    rng,
		params: params,
	}
	s.reset()
	return s
}

// reset discards the current world and starts an empty one.
func (s *ParticleStore) reset() {
	s.world = ecs.NewWorld()
	s.mapper = ecs.NewMap3[components.Position, components.Velocity, components.Body](s.world)
	s.filter = ecs.NewFilter3[components.Position, components.Velocity, components.Body](s.world)
	s.count = 0
}

// Initialize replaces the collection with a fresh random seeding for a
// width x height surface and returns the new particle count.
func (s *ParticleStore) Initialize(width, height float32) int {
	s.reset()

	n := ParticleCount(width, height, s.params)
	radiusSpan := s.params.MaxRadius - s.params.MinRadius

	for i := 0; i < n; i++ {
		pos := components.Position{
			X: s.rng.Float32() * width,
			Y: s.rng.Float32() * height,
		}
		vel := components.Velocity{
			X: (s.rng.Float32() - 0.5) * s.params.SpeedScale,
			Y: (s.rng.Float32() - 0.5) * s.params.SpeedScale,
		}
		body := components.Body{Radius: s.params.MinRadius + s.rng.Float32()*radiusSpan}
		s.mapper.NewEntity(&pos, &vel, &body)
	}
	s.count = n

	return n
}

// Spawn appends a single particle with exact state.
func (s *ParticleStore) Spawn(p components.Particle) {
	pos := components.Position{X: p.X, Y: p.Y}
	vel := components.Velocity{X: p.VX, Y: p.VY}
	body := components.Body{Radius: p.Radius}
	s.mapper.NewEntity(&pos, &vel, &body)
	s.count++
}

// Clear removes every particle.
func (s *ParticleStore) Clear() {
	s.reset()
}

// Len returns the number of particles.
func (s *ParticleStore) Len() int {
	return s.count
}

// Params returns the spawn parameters used by Initialize.
func (s *ParticleStore) Params() SpawnParams {
	return s.params
}

// Update calls fn with mutable components for every particle, in storage order.
func (s *ParticleStore) Update(fn func(pos *components.Position, vel *components.Velocity, body *components.Body)) {
	query := s.filter.Query()
	for query.Next() {
		pos, vel, body := query.Get()
		fn(pos, vel, body)
	}
}

// Snapshot appends the flat form of every particle to dst and returns it.
// Reuse dst across frames to avoid allocations.
func (s *ParticleStore) Snapshot(dst []components.Particle) []components.Particle {
	query := s.filter.Query()
	for query.Next() {
		pos, vel, body := query.Get()
		dst = append(dst, components.Particle{
			X: pos.X, Y: pos.Y,
			VX: vel.X, VY: vel.Y,
			Radius: body.Radius,
		})
	}
	return dst
}

// Speeds appends every particle's speed to dst and returns it.
func (s *ParticleStore) Speeds(dst []float64) []float64 {
	query := s.filter.Query()
	for query.Next() {
		_, vel, _ := query.Get()
		dst = append(dst, float64(velocityMagnitude(vel.X, vel.Y)))
	}
	return dst
}
