package telemetry

import (
	"math"
	"testing"
)

func TestComputeSpeedStats(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	s := ComputeSpeedStats(values)

	if math.Abs(s.Mean-5.5) > 0.001 {
		t.Errorf("mean = %v, want 5.5", s.Mean)
	}
	// Sample std-dev of 1..10
	if math.Abs(s.Std-3.02765) > 0.001 {
		t.Errorf("std = %v, want ~3.0277", s.Std)
	}
	if s.P10 != 1 || s.P50 != 5 || s.P90 != 9 {
		t.Errorf("percentiles = %v/%v/%v, want 1/5/9", s.P10, s.P50, s.P90)
	}
}

func TestComputeSpeedStatsUnsortedInput(t *testing.T) {
	values := []float64{9, 1, 5, 3, 7}
	s := ComputeSpeedStats(values)

	if s.P50 != 5 {
		t.Errorf("p50 = %v, want 5", s.P50)
	}
	if values[0] != 9 {
		t.Error("input slice was reordered")
	}
}

func TestComputeSpeedStatsEdgeCases(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   SpeedStats
	}{
		{"empty", nil, SpeedStats{}},
		{"single", []float64{0.2}, SpeedStats{Mean: 0.2, P10: 0.2, P50: 0.2, P90: 0.2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeSpeedStats(tt.values); got != tt.want {
				t.Errorf("ComputeSpeedStats(%v) = %+v, want %+v", tt.values, got, tt.want)
			}
		})
	}
}

func TestCollectorWindow(t *testing.T) {
	c := NewCollector(4, 1.0/60.0)

	for tick := int64(1); tick <= 4; tick++ {
		c.RecordFrame(int(tick)*2, tick%2 == 0)
		if tick < 4 && c.ShouldFlush(tick) {
			t.Fatalf("flush requested early at tick %d", tick)
		}
	}
	c.RecordReseed()

	if !c.ShouldFlush(4) {
		t.Fatal("expected flush at tick 4")
	}

	stats := c.Flush(4, 66, []float64{0.1, 0.2, 0.3})

	if stats.WindowStartTick != 0 || stats.WindowEndTick != 4 {
		t.Errorf("window = [%d, %d], want [0, 4]", stats.WindowStartTick, stats.WindowEndTick)
	}
	if stats.Particles != 66 {
		t.Errorf("particles = %d, want 66", stats.Particles)
	}
	// Connections were 2, 4, 6, 8
	if stats.ConnectionsMean != 5 || stats.ConnectionsMax != 8 {
		t.Errorf("connections mean/max = %v/%d, want 5/8", stats.ConnectionsMean, stats.ConnectionsMax)
	}
	if stats.PointerActiveFrac != 0.5 {
		t.Errorf("pointer active = %v, want 0.5", stats.PointerActiveFrac)
	}
	if stats.Reseeds != 1 {
		t.Errorf("reseeds = %d, want 1", stats.Reseeds)
	}
	if math.Abs(stats.SimTimeSec-4.0/60.0) > 1e-9 {
		t.Errorf("sim time = %v", stats.SimTimeSec)
	}

	// Counters reset for the next window
	next := c.Flush(8, 66, nil)
	if next.WindowStartTick != 4 || next.ConnectionsMax != 0 || next.Reseeds != 0 {
		t.Errorf("counters not reset: %+v", next)
	}
}

func TestCollectorMinimumWindow(t *testing.T) {
	c := NewCollector(0, 1.0/60.0)
	if c.WindowDurationTicks() != 1 {
		t.Errorf("window = %d ticks, want 1", c.WindowDurationTicks())
	}
}
