package window

import (
	"testing"

	"github.com/pthm-cable/constellation/renderer"
	"github.com/pthm-cable/constellation/systems"
	"github.com/pthm-cable/constellation/telemetry"
)

func TestSpeedBarScale(t *testing.T) {
	spawn := systems.DefaultSpawnParams()

	// Slow field: the initial speed ceiling wins
	if got := speedBarScale(telemetry.SpeedStats{P90: 0.1}, spawn); got < 0.35 || got > 0.36 {
		t.Errorf("scale = %v, want ~0.354", got)
	}

	// Repelled field: the p90 wins
	if got := speedBarScale(telemetry.SpeedStats{P90: 2}, spawn); got != 2 {
		t.Errorf("scale = %v, want 2", got)
	}
}

func TestToRaylib(t *testing.T) {
	c := toRaylib(renderer.Color{R: 1, G: 2, B: 3})
	if c.R != 1 || c.G != 2 || c.B != 3 || c.A != 255 {
		t.Errorf("toRaylib = %+v", c)
	}
}
