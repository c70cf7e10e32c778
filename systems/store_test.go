package systems

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/constellation/components"
)

func TestParticleCount(t *testing.T) {
	p := DefaultSpawnParams()

	tests := []struct {
		name          string
		width, height float32
		want          int
	}{
		{"square 1000", 1000, 1000, 66},
		{"default window", 1280, 800, 68},
		{"full hd capped", 1920, 1080, 100},
		{"exactly one", 150, 100, 1},
		{"below one", 100, 100, 0},
		{"zero width", 0, 500, 0},
		{"zero height", 500, 0, 0},
		{"negative", -100, 400, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParticleCount(tc.width, tc.height, p); got != tc.want {
				t.Errorf("ParticleCount(%v, %v) = %d, want %d", tc.width, tc.height, got, tc.want)
			}
		})
	}
}

func TestInitializeMatchesDensityLaw(t *testing.T) {
	store := NewParticleStore(rand.New(rand.NewSource(1)), DefaultSpawnParams())

	sizes := [][2]float32{{1000, 1000}, {640, 480}, {3000, 2000}, {0, 0}, {10, 10}}
	for _, sz := range sizes {
		want := ParticleCount(sz[0], sz[1], DefaultSpawnParams())
		if got := store.Initialize(sz[0], sz[1]); got != want {
			t.Errorf("Initialize(%v, %v) = %d, want %d", sz[0], sz[1], got, want)
		}
		if store.Len() != want {
			t.Errorf("Len after Initialize(%v, %v) = %d, want %d", sz[0], sz[1], store.Len(), want)
		}
		if n := len(store.Snapshot(nil)); n != want {
			t.Errorf("Snapshot length = %d, want %d", n, want)
		}
	}
}

func TestInitializeRanges(t *testing.T) {
	const w, h = 1600, 1200
	store := NewParticleStore(rand.New(rand.NewSource(42)), DefaultSpawnParams())
	store.Initialize(w, h)

	for i, p := range store.Snapshot(nil) {
		if p.X < 0 || p.X >= w || p.Y < 0 || p.Y >= h {
			t.Errorf("particle %d position (%v, %v) outside [0,%v)x[0,%v)", i, p.X, p.Y, w, h)
		}
		if p.VX < -0.25 || p.VX > 0.25 || p.VY < -0.25 || p.VY > 0.25 {
			t.Errorf("particle %d velocity (%v, %v) outside [-0.25, 0.25]", i, p.VX, p.VY)
		}
		if p.Radius < 1 || p.Radius > 3 {
			t.Errorf("particle %d radius %v outside [1, 3]", i, p.Radius)
		}
	}
}

func TestInitializeReplacesCollection(t *testing.T) {
	store := NewParticleStore(rand.New(rand.NewSource(3)), DefaultSpawnParams())
	store.Initialize(1000, 1000)
	store.Spawn(components.Particle{X: 1, Y: 1, Radius: 2})
	if store.Len() != 67 {
		t.Fatalf("Len = %d, want 67 after spawn", store.Len())
	}

	// Shrinking re-seeds from scratch rather than keeping old particles
	store.Initialize(300, 300)
	if store.Len() != 6 {
		t.Errorf("Len = %d, want 6 after re-seed", store.Len())
	}
	for _, p := range store.Snapshot(nil) {
		if p.X >= 300 || p.Y >= 300 {
			t.Errorf("particle (%v, %v) survived from the previous surface", p.X, p.Y)
		}
	}
}

func TestInitializeDeterministicWithSeed(t *testing.T) {
	a := NewParticleStore(rand.New(rand.NewSource(99)), DefaultSpawnParams())
	b := NewParticleStore(rand.New(rand.NewSource(99)), DefaultSpawnParams())
	a.Initialize(800, 600)
	b.Initialize(800, 600)

	sa, sb := a.Snapshot(nil), b.Snapshot(nil)
	if len(sa) != len(sb) {
		t.Fatalf("lengths differ: %d vs %d", len(sa), len(sb))
	}
	for i := range sa {
		if sa[i] != sb[i] {
			t.Fatalf("particle %d differs: %+v vs %+v", i, sa[i], sb[i])
		}
	}
}

func TestSpeeds(t *testing.T) {
	store := NewParticleStore(rand.New(rand.NewSource(1)), DefaultSpawnParams())
	store.Spawn(components.Particle{VX: 3, VY: 4, Radius: 1})
	store.Spawn(components.Particle{Radius: 1})

	speeds := store.Speeds(nil)
	if len(speeds) != 2 {
		t.Fatalf("len(speeds) = %d, want 2", len(speeds))
	}
	if speeds[0] != 5 || speeds[1] != 0 {
		t.Errorf("speeds = %v, want [5 0]", speeds)
	}
}

func TestClear(t *testing.T) {
	store := NewParticleStore(rand.New(rand.NewSource(1)), DefaultSpawnParams())
	store.Initialize(1000, 1000)
	store.Clear()

	if store.Len() != 0 || len(store.Snapshot(nil)) != 0 {
		t.Errorf("store not empty after Clear: Len=%d", store.Len())
	}
}
