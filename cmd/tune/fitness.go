package main

import (
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/pthm-cable/constellation/config"
	"github.com/pthm-cable/constellation/engine"
	"github.com/pthm-cable/constellation/renderer"
	"github.com/pthm-cable/constellation/telemetry"
)

// sweepPeriod is the length of one pointer cycle in ticks: the pointer
// sweeps the field for the first half and is absent for the second.
const sweepPeriod = 600

// failedFitness scores a parameter vector whose runs could not be built.
const failedFitness = 1e9

// Targets are the field statistics the tuner aims for.
type Targets struct {
	ConnectionsMean float64 // mean connections per frame
	SpeedP90        float64 // p90 particle speed at the end of a run, px/frame
}

// FitnessEvaluator runs headless fields and scores them against targets.
type FitnessEvaluator struct {
	params     *ParamVector
	ticks      int64
	seeds      []int64
	baseConfig *config.Config
	targets    Targets

	mu        sync.Mutex
	lastStats telemetry.WindowStats // seed-averaged stats from the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator. It fails if baseCfg cannot
// be turned into engine options.
func NewFitnessEvaluator(params *ParamVector, ticks int64, seeds []int64, baseCfg *config.Config, targets Targets) (*FitnessEvaluator, error) {
	if _, err := engine.OptionsFromConfig(baseCfg); err != nil {
		return nil, fmt.Errorf("invalid base config: %w", err)
	}
	return &FitnessEvaluator{
		params:     params,
		ticks:      ticks,
		seeds:      seeds,
		baseConfig: baseCfg,
		targets:    targets,
	}, nil
}

// LastStats returns the averaged stats from the most recent evaluation.
func (fe *FitnessEvaluator) LastStats() telemetry.WindowStats {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastStats
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	results := make([]telemetry.WindowStats, len(fe.seeds))
	errs := make([]error, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx], errs[idx] = fe.runField(cfg, s)
		}(i, seed)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			slog.Error("evaluation run failed", "seed", fe.seeds[i], "error", err)
			fe.mu.Lock()
			fe.lastStats = telemetry.WindowStats{}
			fe.mu.Unlock()
			return failedFitness
		}
	}

	var avg telemetry.WindowStats
	for _, r := range results {
		avg.ConnectionsMean += r.ConnectionsMean
		avg.SpeedP90 += r.SpeedP90
		avg.SpeedMean += r.SpeedMean
		avg.Particles += r.Particles
	}
	n := float64(len(results))
	avg.ConnectionsMean /= n
	avg.SpeedP90 /= n
	avg.SpeedMean /= n
	avg.Particles /= len(results)

	fe.mu.Lock()
	fe.lastStats = avg
	fe.mu.Unlock()

	return fe.computeFitness(avg)
}

// runField ticks one field directly, without a scheduler, moving the
// pointer along a fixed path, and returns the run as a single window.
func (fe *FitnessEvaluator) runField(base *config.Config, seed int64) (telemetry.WindowStats, error) {
	cfg := *base
	cfg.Screen.Seed = seed

	opts, err := engine.OptionsFromConfig(&cfg)
	if err != nil {
		return telemetry.WindowStats{}, fmt.Errorf("seed %d: %w", seed, err)
	}
	opts.Perf = nil
	width, height := float32(cfg.Screen.Width), float32(cfg.Screen.Height)
	opts.Surface = &renderer.NullSurface{Width: width, Height: height}

	e := engine.New(opts)
	collector := telemetry.NewCollector(fe.ticks, cfg.Derived.FrameInterval)

	e.Start()
	for tick := int64(0); tick < fe.ticks; tick++ {
		if x, y, ok := pointerPath(tick, width, height); ok {
			e.MovePointer(x, y)
		} else {
			e.LeavePointer()
		}
		f := e.Tick()
		collector.RecordFrame(f.Connections, f.PointerActive)
	}
	stats := collector.Flush(fe.ticks, e.Store().Len(), e.Store().Speeds(nil))
	e.Stop()
	return stats, nil
}

// pointerPath returns the scripted pointer position at tick, or false
// while the pointer is absent.
func pointerPath(tick int64, width, height float32) (float32, float32, bool) {
	phase := tick % sweepPeriod
	if phase >= sweepPeriod/2 {
		return 0, 0, false
	}
	t := float64(phase) / float64(sweepPeriod/2) * 2 * math.Pi
	x := float64(width) * (0.5 + 0.35*math.Cos(t))
	y := float64(height) * (0.5 + 0.35*math.Sin(2*t))
	return float32(x), float32(y), true
}

// computeFitness is the sum of squared relative errors against the targets.
func (fe *FitnessEvaluator) computeFitness(s telemetry.WindowStats) float64 {
	return relErr2(s.ConnectionsMean, fe.targets.ConnectionsMean) +
		relErr2(s.SpeedP90, fe.targets.SpeedP90)
}

func relErr2(got, want float64) float64 {
	if want == 0 {
		return got * got
	}
	d := (got - want) / want
	return d * d
}

// copyConfig returns a copy of the base config. Config holds only values.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}
