package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated field statistics for a stats window.
type WindowStats struct {
	WindowStartTick int64   `csv:"-" json:"window_start"`
	WindowEndTick   int64   `csv:"window_end" json:"window_end"`
	SimTimeSec      float64 `csv:"sim_time" json:"sim_time"`

	// Field state at window end
	Particles int `csv:"particles" json:"particles"`

	// Connections per frame over the window
	ConnectionsMean float64 `csv:"connections_mean" json:"connections_mean"`
	ConnectionsMax  int     `csv:"connections_max" json:"connections_max"`

	// Speed distribution (sampled at window end)
	SpeedMean float64 `csv:"speed_mean" json:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std" json:"speed_std"`
	SpeedP10  float64 `csv:"speed_p10" json:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50" json:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90" json:"speed_p90"`

	// Fraction of frames with the pointer inside the viewport
	PointerActiveFrac float64 `csv:"pointer_active" json:"pointer_active"`

	Reseeds int `csv:"reseeds" json:"reseeds"`
}

// SpeedStats summarizes a set of particle speeds.
type SpeedStats struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	P10  float64 `json:"p10"`
	P50  float64 `json:"p50"`
	P90  float64 `json:"p90"`
}

// ComputeSpeedStats calculates mean, sample std-dev and empirical
// percentiles. Empty input gives all zeros; a single value has zero std.
func ComputeSpeedStats(speeds []float64) SpeedStats {
	n := len(speeds)
	if n == 0 {
		return SpeedStats{}
	}

	var s SpeedStats
	if n == 1 {
		s.Mean = speeds[0]
	} else {
		s.Mean, s.Std = stat.MeanStdDev(speeds, nil)
	}

	sorted := slices.Clone(speeds)
	slices.Sort(sorted)

	s.P10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	s.P50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	s.P90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)

	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartTick),
		slog.Int64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("particles", s.Particles),
		slog.Float64("connections_mean", s.ConnectionsMean),
		slog.Int("connections_max", s.ConnectionsMax),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("speed_p10", s.SpeedP10),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("pointer_active", s.PointerActiveFrac),
		slog.Int("reseeds", s.Reseeds),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"particles", s.Particles,
		"connections_mean", s.ConnectionsMean,
		"connections_max", s.ConnectionsMax,
		"speed_mean", s.SpeedMean,
		"speed_std", s.SpeedStd,
		"speed_p50", s.SpeedP50,
		"speed_p90", s.SpeedP90,
		"pointer_active", s.PointerActiveFrac,
		"reseeds", s.Reseeds,
	)
}
