package telemetry

import (
	"log/slog"
	"testing"
	"time"
)

// stepClock advances by the queued steps, one per call.
type stepClock struct {
	t     time.Time
	steps []time.Duration
}

func (c *stepClock) now() time.Time {
	if len(c.steps) > 0 {
		c.t = c.t.Add(c.steps[0])
		c.steps = c.steps[1:]
	}
	return c.t
}

func newClockedCollector(size int, steps ...time.Duration) (*PerfCollector, *stepClock) {
	clock := &stepClock{t: time.Unix(0, 0), steps: steps}
	pc := NewPerfCollector(size)
	pc.now = clock.now
	return pc, clock
}

func TestPhasesFollowFrameOrder(t *testing.T) {
	want := []string{"simulate", "snapshot", "render", "present", "telemetry"}
	got := Phases()
	if len(got) != len(want) {
		t.Fatalf("Phases() = %v, want %d phases", got, len(want))
	}
	for i, ph := range got {
		if ph.String() != want[i] {
			t.Errorf("phase %d = %q, want %q", i, ph, want[i])
		}
	}

	got[0] = PhaseTelemetry
	if Phases()[0] != PhaseSimulate {
		t.Error("Phases() shares its backing array with callers")
	}
	if Phase(42).String() != "unknown" {
		t.Errorf("out-of-range phase = %q", Phase(42).String())
	}
}

func TestPhaseDurations(t *testing.T) {
	ms := time.Millisecond
	// StartTick, simulate, snapshot, render, present, EndTick
	pc, _ := newClockedCollector(4, 0, 0, 4*ms, 1*ms, 3*ms, 2*ms)

	pc.StartTick()
	pc.StartPhase(PhaseSimulate)
	pc.StartPhase(PhaseSnapshot)
	pc.StartPhase(PhaseRender)
	pc.StartPhase(PhasePresent)
	pc.EndTick()

	s := pc.Stats()
	if s.AvgTickDuration != 10*ms {
		t.Errorf("avg tick = %v, want 10ms", s.AvgTickDuration)
	}
	tests := []struct {
		phase Phase
		avg   time.Duration
		pct   float64
	}{
		{PhaseSimulate, 4 * ms, 40},
		{PhaseSnapshot, 1 * ms, 10},
		{PhaseRender, 3 * ms, 30},
		{PhasePresent, 2 * ms, 20},
		{PhaseTelemetry, 0, 0},
	}
	for _, tt := range tests {
		if s.PhaseAvg[tt.phase] != tt.avg {
			t.Errorf("%s avg = %v, want %v", tt.phase, s.PhaseAvg[tt.phase], tt.avg)
		}
		if d := s.PhasePct[tt.phase] - tt.pct; d > 1e-9 || d < -1e-9 {
			t.Errorf("%s pct = %v, want %v", tt.phase, s.PhasePct[tt.phase], tt.pct)
		}
	}
	if s.TicksPerSecond != 100 {
		t.Errorf("ticks/sec = %v, want 100", s.TicksPerSecond)
	}
}

func TestReenteredPhaseAccumulates(t *testing.T) {
	ms := time.Millisecond
	pc, _ := newClockedCollector(2, 0, 0, 2*ms, 1*ms, 3*ms)

	pc.StartTick()
	pc.StartPhase(PhaseRender)
	pc.StartPhase(PhasePresent)
	pc.StartPhase(PhaseRender)
	pc.EndTick()

	s := pc.Stats()
	if s.PhaseAvg[PhaseRender] != 5*ms {
		t.Errorf("render = %v, want 5ms across both visits", s.PhaseAvg[PhaseRender])
	}
}

func TestRingKeepsRecentFrames(t *testing.T) {
	ms := time.Millisecond
	// Five frames of 1, 2, 3, 4, 5ms, each StartTick then EndTick.
	var steps []time.Duration
	for i := 1; i <= 5; i++ {
		steps = append(steps, 0, time.Duration(i)*ms)
	}
	pc, _ := newClockedCollector(3, steps...)
	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.EndTick()
	}

	if pc.Frames() != 3 {
		t.Fatalf("frames = %d, want 3", pc.Frames())
	}
	s := pc.Stats()
	if s.MinTickDuration != 3*ms || s.MaxTickDuration != 5*ms || s.AvgTickDuration != 4*ms {
		t.Errorf("min/avg/max = %v/%v/%v, want 3ms/4ms/5ms",
			s.MinTickDuration, s.AvgTickDuration, s.MaxTickDuration)
	}
}

func TestFramePacingBeforeAnyTick(t *testing.T) {
	pc, _ := newClockedCollector(4, 0, 20*time.Millisecond)
	if s := pc.Stats(); s.FPS != 0 || s.AvgTickDuration != 0 {
		t.Errorf("empty collector reported %+v", s)
	}

	pc.RecordFrame()
	pc.RecordFrame()
	s := pc.Stats()
	if s.FrameDuration != 20*time.Millisecond || s.FPS != 50 {
		t.Errorf("frame = %v at %v fps, want 20ms at 50", s.FrameDuration, s.FPS)
	}
}

func TestBreakdownAndLogValue(t *testing.T) {
	var s PerfStats
	s.AvgTickDuration = time.Millisecond
	s.PhasePct[PhaseRender] = 60
	s.PhasePct[PhasePresent] = 0.05

	rows := s.Breakdown()
	if len(rows) != len(Phases()) || rows[2].Phase != PhaseRender || rows[2].Pct != 60 {
		t.Errorf("breakdown = %+v", rows)
	}

	keys := map[string]bool{}
	for _, a := range s.LogValue().Group() {
		keys[a.Key] = true
	}
	if !keys["render_pct"] {
		t.Error("render_pct missing from log group")
	}
	if keys["present_pct"] || keys["simulate_pct"] {
		t.Errorf("negligible phases logged: %v", keys)
	}
	if s.LogValue().Kind() != slog.KindGroup {
		t.Error("LogValue is not a group")
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	var s PerfStats
	s.AvgTickDuration = 2 * time.Millisecond
	s.PhasePct[PhaseSnapshot] = 12.5
	s.PhasePct[PhaseTelemetry] = 3

	row := s.ToCSV(240)
	if row.WindowEnd != 240 || row.AvgTickUS != 2000 {
		t.Errorf("row = %+v", row)
	}
	if row.SnapshotPct != 12.5 || row.TelemetryPct != 3 || row.RenderPct != 0 {
		t.Errorf("phase columns = %+v", row)
	}
}
