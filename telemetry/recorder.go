package telemetry

import "log/slog"

// FrameSample is what the recorder needs to know about one frame.
type FrameSample struct {
	Tick          int64
	Particles     int
	Connections   int
	PointerActive bool
	Reseeded      bool
}

// Recorder feeds frames into a Collector and, when a window closes, logs
// and writes the window's field and perf stats.
type Recorder struct {
	collector *Collector
	perf      *PerfCollector
	output    *OutputManager
	logStats  bool

	speeds []float64
	last   WindowStats
	closed int
}

// NewRecorder creates a recorder. perf and output may be nil.
func NewRecorder(collector *Collector, perf *PerfCollector, output *OutputManager, logStats bool) *Recorder {
	return &Recorder{
		collector: collector,
		perf:      perf,
		output:    output,
		logStats:  logStats,
	}
}

// Observe records one frame. speeds is only called when the window closes;
// it appends the current particle speeds to its argument.
// Returns the closed window's stats and true when a window closed.
func (r *Recorder) Observe(f FrameSample, speeds func(dst []float64) []float64) (WindowStats, bool) {
	if f.Reseeded {
		r.collector.RecordReseed()
	}
	r.collector.RecordFrame(f.Connections, f.PointerActive)

	if !r.collector.ShouldFlush(f.Tick) {
		return WindowStats{}, false
	}

	r.speeds = r.speeds[:0]
	if speeds != nil {
		r.speeds = speeds(r.speeds)
	}
	stats := r.collector.Flush(f.Tick, f.Particles, r.speeds)
	r.last = stats
	r.closed++

	if r.logStats {
		stats.LogStats()
	}
	if err := r.output.WriteField(stats); err != nil {
		slog.Error("failed to write field stats", "error", err)
	}

	if r.perf != nil {
		ps := r.perf.Stats()
		if r.logStats {
			slog.Info("perf", "tick", f.Tick, "frames", r.perf.Frames(), "stats", ps)
		}
		if err := r.output.WritePerf(ps, f.Tick); err != nil {
			slog.Error("failed to write perf stats", "error", err)
		}
	}

	return stats, true
}

// Last returns the most recently closed window, if any.
func (r *Recorder) Last() (WindowStats, bool) {
	return r.last, r.closed > 0
}

// Windows returns how many windows have closed.
func (r *Recorder) Windows() int {
	return r.closed
}
