package engine

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/pthm-cable/constellation/components"
	"github.com/pthm-cable/constellation/config"
	"github.com/pthm-cable/constellation/renderer"
	"github.com/pthm-cable/constellation/systems"
	"github.com/pthm-cable/constellation/telemetry"
)

// Options configures an Engine. Surface and Scheduler are required for
// Start; the rest are optional.
type Options struct {
	Surface   renderer.Surface
	Scheduler Scheduler
	Pointer   PointerNotifier
	Resize    ResizeNotifier

	Rand    *rand.Rand // nil seeds from the clock
	Spawn   systems.SpawnParams
	Physics systems.PhysicsParams
	Style   renderer.Style

	Perf    *telemetry.PerfCollector
	OnFrame func(FrameInfo)
}

// OptionsFromConfig builds options from the loaded configuration.
// Surface, Scheduler and notifiers are left for the caller.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	accent, err := renderer.ParseColor(cfg.Render.Accent)
	if err != nil {
		return Options{}, err
	}
	background, err := renderer.ParseColor(cfg.Render.Background)
	if err != nil {
		return Options{}, err
	}

	seed := cfg.Screen.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return Options{
		Rand: rand.New(rand.NewSource(seed)),
		Spawn: systems.SpawnParams{
			AreaPerParticle: float32(cfg.Particles.AreaPerParticle),
			MaxParticles:    cfg.Particles.MaxCount,
			SpeedScale:      float32(cfg.Particles.SpeedScale),
			MinRadius:       float32(cfg.Particles.MinRadius),
			MaxRadius:       float32(cfg.Particles.MaxRadius),
		},
		Physics: systems.PhysicsParams{
			RepulsionRadius:   float32(cfg.Physics.RepulsionRadius),
			RepulsionStrength: float32(cfg.Physics.RepulsionStrength),
			Damping:           float32(cfg.Physics.Damping),
		},
		Style: renderer.Style{
			Accent:          accent,
			Background:      background,
			ParticleOpacity: float32(cfg.Render.ParticleOpacity),
			LineWidth:       float32(cfg.Render.LineWidth),
			Connections: systems.ConnectionParams{
				Radius:     float32(cfg.Render.ConnectionRadius),
				MaxOpacity: float32(cfg.Render.ConnectionOpacity),
			},
		},
		Perf: telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
	}, nil
}

// FrameInfo describes one completed tick.
type FrameInfo struct {
	Tick          int64
	Particles     int
	Connections   int
	PointerActive bool
	Reseeded      bool // the store was re-seeded since the previous tick
	Paused        bool
	Width, Height float32
}

// Engine drives the particle field. It is not safe for concurrent use:
// Start, Stop, Tick and every notification callback must run on the
// scheduler's goroutine.
type Engine struct {
	surface   renderer.Surface
	scheduler Scheduler
	pointerN  PointerNotifier
	resizeN   ResizeNotifier
	perf      *telemetry.PerfCollector
	onFrame   func(FrameInfo)

	store    *systems.ParticleStore
	input    InputState
	physics  systems.PhysicsParams
	style    renderer.Style
	field    *renderer.FieldRenderer
	snapshot []components.Particle

	running       bool
	pending       FrameToken
	hasPending    bool
	unsubscribers []func()

	tick     int64
	reseeded bool
	paused   bool
	last     FrameInfo
}

// New creates a stopped engine with an empty store.
func New(opts Options) *Engine {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	e := &Engine{
		surface:   opts.Surface,
		scheduler: opts.Scheduler,
		pointerN:  opts.Pointer,
		resizeN:   opts.Resize,
		perf:      opts.Perf,
		onFrame:   opts.OnFrame,
		store:     systems.NewParticleStore(rng, opts.Spawn),
		physics:   opts.Physics,
		style:     opts.Style,
	}
	e.field = renderer.NewFieldRenderer(&e.style)
	return e
}

// Start measures the surface, seeds the store, subscribes to notifications
// and schedules the first frame. Starting a running engine does nothing.
// A stopped engine can be started again; it re-seeds from scratch.
func (e *Engine) Start() {
	if e.running {
		return
	}

	var w, h float32
	if e.surface != nil {
		w, h = e.surface.Size()
	}
	e.input.SetSize(w, h)
	e.input.ClearPointer()
	n := e.store.Initialize(e.input.Bounds().Width, e.input.Bounds().Height)
	e.reseeded = true

	if e.pointerN != nil {
		e.unsubscribers = append(e.unsubscribers, e.pointerN.SubscribePointer(e.onPointerMove, e.onPointerLeave))
	}
	if e.resizeN != nil {
		e.unsubscribers = append(e.unsubscribers, e.resizeN.SubscribeResize(e.onResize))
	}

	e.running = true
	e.scheduleNext()

	slog.Info("field_started", "width", w, "height", h, "particles", n)
}

// Stop unsubscribes from all notifications and cancels the pending frame.
// After Stop returns the store and surface are not touched again by the
// frame loop. Stop is idempotent and safe before Start.
func (e *Engine) Stop() {
	if e.hasPending && e.scheduler != nil {
		e.scheduler.Cancel(e.pending)
	}
	e.hasPending = false
	e.pending = 0

	for _, unsubscribe := range e.unsubscribers {
		if unsubscribe != nil {
			unsubscribe()
		}
	}
	e.unsubscribers = nil

	if !e.running {
		return
	}
	e.running = false
	e.input.ClearPointer()

	slog.Info("field_stopped", "ticks", e.tick)
}

// Running reports whether the frame loop is active.
func (e *Engine) Running() bool {
	return e.running
}

// HasPendingFrame reports whether a frame callback is scheduled.
func (e *Engine) HasPendingFrame() bool {
	return e.hasPending
}

func (e *Engine) scheduleNext() {
	if e.scheduler == nil {
		return
	}
	e.pending = e.scheduler.Schedule(e.frame)
	e.hasPending = true
}

// frame is the scheduler callback: one tick, then request the next.
func (e *Engine) frame() {
	if !e.running {
		return
	}
	e.hasPending = false

	e.Tick()

	// OnFrame may have stopped the engine
	if e.running {
		e.scheduleNext()
	}
}

// Tick runs one simulation step and one render pass. It can be called
// directly without a scheduler.
func (e *Engine) Tick() FrameInfo {
	if e.perf != nil {
		e.perf.StartTick()
		e.perf.StartPhase(telemetry.PhaseSimulate)
	}

	pointer := e.input.Pointer()
	bounds := e.input.Bounds()
	if !e.paused {
		systems.Step(e.store, pointer, bounds, e.physics)
	}

	if e.perf != nil {
		e.perf.StartPhase(telemetry.PhaseSnapshot)
	}
	e.snapshot = e.store.Snapshot(e.snapshot[:0])

	var stats renderer.FrameStats
	if e.surface != nil {
		if e.perf != nil {
			e.perf.StartPhase(telemetry.PhaseRender)
		}
		stats = e.field.Render(e.surface, e.snapshot)

		if p, ok := e.surface.(renderer.Presenter); ok {
			if e.perf != nil {
				e.perf.StartPhase(telemetry.PhasePresent)
			}
			if err := p.Present(); err != nil {
				slog.Error("failed to present frame", "error", err)
			}
		}
	} else {
		stats.Particles = len(e.snapshot)
	}

	e.tick++
	info := FrameInfo{
		Tick:          e.tick,
		Particles:     stats.Particles,
		Connections:   stats.Connections,
		PointerActive: pointer.Active,
		Reseeded:      e.reseeded,
		Paused:        e.paused,
		Width:         bounds.Width,
		Height:        bounds.Height,
	}
	e.reseeded = false
	e.last = info

	if e.onFrame != nil {
		if e.perf != nil {
			e.perf.StartPhase(telemetry.PhaseTelemetry)
		}
		e.onFrame(info)
	}

	if e.perf != nil {
		e.perf.EndTick()
		e.perf.RecordFrame()
	}
	return info
}

func (e *Engine) onPointerMove(x, y float32) {
	e.input.SetPointer(x, y)
}

func (e *Engine) onPointerLeave() {
	e.input.ClearPointer()
}

func (e *Engine) onResize(width, height float32) {
	e.Resize(width, height)
}

// Resize records new dimensions and re-seeds the store for them.
// Existing particles are discarded, not remapped.
func (e *Engine) Resize(width, height float32) {
	e.input.SetSize(width, height)
	e.Reseed()
}

// Reseed replaces every particle with a fresh seeding for the current size.
func (e *Engine) Reseed() {
	b := e.input.Bounds()
	n := e.store.Initialize(b.Width, b.Height)
	e.reseeded = true
	slog.Info("field_reseeded", "width", b.Width, "height", b.Height, "particles", n)
}

// MovePointer updates the pointer as a move notification would.
func (e *Engine) MovePointer(x, y float32) {
	e.onPointerMove(x, y)
}

// LeavePointer clears the pointer as a leave notification would.
func (e *Engine) LeavePointer() {
	e.onPointerLeave()
}

// SetPaused freezes the simulation step; frames are still rendered.
func (e *Engine) SetPaused(paused bool) {
	e.paused = paused
}

// Paused reports whether the simulation step is frozen.
func (e *Engine) Paused() bool {
	return e.paused
}

// SetOnFrame replaces the hook called at the end of every tick.
func (e *Engine) SetOnFrame(fn func(FrameInfo)) {
	e.onFrame = fn
}

// Input returns the current pointer and dimensions.
func (e *Engine) Input() InputState {
	return e.input
}

// Physics returns the live physics parameters. Changes apply next tick.
func (e *Engine) Physics() *systems.PhysicsParams {
	return &e.physics
}

// Style returns the live render style. Changes apply next tick.
func (e *Engine) Style() *renderer.Style {
	return &e.style
}

// Store returns the particle store.
func (e *Engine) Store() *systems.ParticleStore {
	return e.store
}

// Particles returns the particles as of the last tick. The slice is reused
// by the next tick.
func (e *Engine) Particles() []components.Particle {
	return e.snapshot
}

// LastFrame returns the info of the most recent tick.
func (e *Engine) LastFrame() FrameInfo {
	return e.last
}

// Perf returns the perf collector, or nil.
func (e *Engine) Perf() *telemetry.PerfCollector {
	return e.perf
}
