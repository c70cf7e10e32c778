package telemetry

// Collector accumulates per-frame observations within a stats window and
// produces WindowStats.
type Collector struct {
	windowDurationTicks int64
	dt                  float64

	// Current window tracking
	windowStartTick int64

	frames         int
	connectionsSum int
	connectionsMax int
	pointerFrames  int
	reseeds        int
}

// NewCollector creates a new stats collector.
// windowTicks: frames per window
// dt: seconds per frame (used for tick-to-time conversion)
func NewCollector(windowTicks int64, dt float64) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowDurationTicks: windowTicks,
		dt:                  dt,
	}
}

// RecordFrame records one rendered frame.
func (c *Collector) RecordFrame(connections int, pointerActive bool) {
	c.frames++
	c.connectionsSum += connections
	c.connectionsMax = max(c.connectionsMax, connections)
	if pointerActive {
		c.pointerFrames++
	}
}

// RecordReseed records a full re-seed of the field.
func (c *Collector) RecordReseed() {
	c.reseeds++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int64) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
// speeds is the current per-particle speed sample.
func (c *Collector) Flush(currentTick int64, particles int, speeds []float64) WindowStats {
	var connMean, pointerFrac float64
	if c.frames > 0 {
		connMean = float64(c.connectionsSum) / float64(c.frames)
		pointerFrac = float64(c.pointerFrames) / float64(c.frames)
	}

	sp := ComputeSpeedStats(speeds)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Particles: particles,

		ConnectionsMean: connMean,
		ConnectionsMax:  c.connectionsMax,

		SpeedMean: sp.Mean,
		SpeedStd:  sp.Std,
		SpeedP10:  sp.P10,
		SpeedP50:  sp.P50,
		SpeedP90:  sp.P90,

		PointerActiveFrac: pointerFrac,
		Reseeds:           c.reseeds,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.frames = 0
	c.connectionsSum = 0
	c.connectionsMax = 0
	c.pointerFrames = 0
	c.reseeds = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int64 {
	return c.windowDurationTicks
}
