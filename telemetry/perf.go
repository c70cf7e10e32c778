// Package telemetry provides frame timing, windowed field statistics and CSV run output.
package telemetry

import (
	"log/slog"
	"time"
)

// Phase is one timed section of a frame.
type Phase int

// Frame phases, in the order Engine.Tick runs them.
const (
	PhaseSimulate Phase = iota
	PhaseSnapshot
	PhaseRender
	PhasePresent
	PhaseTelemetry
	numPhases
)

var phaseNames = [numPhases]string{"simulate", "snapshot", "render", "present", "telemetry"}

func (p Phase) String() string {
	if p < 0 || p >= numPhases {
		return "unknown"
	}
	return phaseNames[p]
}

// Phases returns every phase in frame order.
func Phases() []Phase {
	out := make([]Phase, numPhases)
	for i := range out {
		out[i] = Phase(i)
	}
	return out
}

const noPhase Phase = -1

// frameTiming is one recorded frame.
type frameTiming struct {
	total  time.Duration
	phases [numPhases]time.Duration
}

// PerfCollector times frame phases over a ring of recent frames.
// The frame loop owns it; it is not safe for concurrent use.
type PerfCollector struct {
	ring   []frameTiming
	next   int
	filled int

	cur        frameTiming
	frameStart time.Time
	markAt     time.Time
	open       Phase

	lastPresent time.Time
	interval    time.Duration

	now func() time.Time
}

// NewPerfCollector keeps the last size frames. size < 1 means 60.
func NewPerfCollector(size int) *PerfCollector {
	if size < 1 {
		size = 60
	}
	return &PerfCollector{ring: make([]frameTiming, size), open: noPhase, now: time.Now}
}

// StartTick opens a frame.
func (p *PerfCollector) StartTick() {
	p.cur = frameTiming{}
	p.frameStart = p.now()
	p.markAt = p.frameStart
	p.open = noPhase
}

// StartPhase closes the running phase, if any, and opens phase.
// Re-entering a phase within one frame adds to its total.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := p.now()
	p.closeOpen(now)
	p.open = phase
	p.markAt = now
}

func (p *PerfCollector) closeOpen(now time.Time) {
	if p.open >= 0 && p.open < numPhases {
		p.cur.phases[p.open] += now.Sub(p.markAt)
	}
}

// EndTick closes the frame and stores it in the ring.
func (p *PerfCollector) EndTick() {
	now := p.now()
	p.closeOpen(now)
	p.open = noPhase
	p.cur.total = now.Sub(p.frameStart)

	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	p.filled = min(p.filled+1, len(p.ring))
}

// RecordFrame marks a presented frame; the gap between marks gives FPS.
func (p *PerfCollector) RecordFrame() {
	now := p.now()
	if !p.lastPresent.IsZero() {
		p.interval = now.Sub(p.lastPresent)
	}
	p.lastPresent = now
}

// Frames returns how many frames the ring currently holds.
func (p *PerfCollector) Frames() int {
	return p.filled
}

// PerfStats summarises the frames in the ring.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	PhaseAvg [numPhases]time.Duration
	PhasePct [numPhases]float64 // share of the average frame, 0..100

	TicksPerSecond float64
	FrameDuration  time.Duration
	FPS            float64
}

// PhaseTiming is one row of a PerfStats breakdown.
type PhaseTiming struct {
	Phase Phase
	Avg   time.Duration
	Pct   float64
}

// Breakdown lists every phase in frame order.
func (s PerfStats) Breakdown() []PhaseTiming {
	out := make([]PhaseTiming, 0, numPhases)
	for _, ph := range Phases() {
		out = append(out, PhaseTiming{Phase: ph, Avg: s.PhaseAvg[ph], Pct: s.PhasePct[ph]})
	}
	return out
}

// Stats summarises the ring. Frame pacing is reported even before the
// first frame has been timed.
func (p *PerfCollector) Stats() PerfStats {
	var s PerfStats
	s.FrameDuration = p.interval
	if p.interval > 0 {
		s.FPS = float64(time.Second) / float64(p.interval)
	}
	if p.filled == 0 {
		return s
	}

	var total time.Duration
	var phaseTotal [numPhases]time.Duration
	for i, f := range p.ring[:p.filled] {
		total += f.total
		if i == 0 || f.total < s.MinTickDuration {
			s.MinTickDuration = f.total
		}
		s.MaxTickDuration = max(s.MaxTickDuration, f.total)
		for ph, d := range f.phases {
			phaseTotal[ph] += d
		}
	}

	n := time.Duration(p.filled)
	s.AvgTickDuration = total / n
	for ph := range phaseTotal {
		s.PhaseAvg[ph] = phaseTotal[ph] / n
		if s.AvgTickDuration > 0 {
			s.PhasePct[ph] = 100 * float64(s.PhaseAvg[ph]) / float64(s.AvgTickDuration)
		}
	}
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}
	return s
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, row := range s.Breakdown() {
		if row.Pct >= 0.1 {
			attrs = append(attrs, slog.Float64(row.Phase.String()+"_pct", row.Pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd    int64   `csv:"window_end"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	FPS          float64 `csv:"fps"`
	SimulatePct  float64 `csv:"simulate_pct"`
	SnapshotPct  float64 `csv:"snapshot_pct"`
	RenderPct    float64 `csv:"render_pct"`
	PresentPct   float64 `csv:"present_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV flattens s into a perf.csv row for the window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd int64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgTickUS:    s.AvgTickDuration.Microseconds(),
		MinTickUS:    s.MinTickDuration.Microseconds(),
		MaxTickUS:    s.MaxTickDuration.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		FPS:          s.FPS,
		SimulatePct:  s.PhasePct[PhaseSimulate],
		SnapshotPct:  s.PhasePct[PhaseSnapshot],
		RenderPct:    s.PhasePct[PhaseRender],
		PresentPct:   s.PhasePct[PhasePresent],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
