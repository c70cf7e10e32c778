// Package window runs the particle field in a raylib desktop window.
package window

import (
	"context"
	"log/slog"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/constellation/engine"
	"github.com/pthm-cable/constellation/platform"
	"github.com/pthm-cable/constellation/renderer"
	"github.com/pthm-cable/constellation/systems"
	"github.com/pthm-cable/constellation/telemetry"
	"github.com/pthm-cable/constellation/ui"
)

const controlsLegend = "[Space] Pause  [R] Reseed  [D] Tuning  [F] Radius  [V] Velocity  [S] Stats  [P] Perf  [Esc] Quit"

// velocityScale stretches per-frame velocities into visible vectors.
const velocityScale = 20

// Options configures the window.
type Options struct {
	Title     string
	Width     int
	Height    int
	TargetFPS int
}

// Window owns the raylib window and drives an engine from its draw loop.
// All methods run on the main thread.
type Window struct {
	opts    Options
	loop    *platform.Loop
	surface *Surface
	pointer platform.PointerHub
	resize  platform.ResizeHub

	width, height float32
	pointerInside bool

	hud        *ui.HUD
	controls   *ui.ControlsPanel
	perfPanel  *ui.PerfPanel
	statsPanel *ui.FieldStatsPanel
	overlays   *ui.OverlayRegistry

	speeds []float64
}

// Open creates the window. Call Close when done.
func Open(opts Options, background renderer.Color) *Window {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(opts.Width), int32(opts.Height), opts.Title)
	rl.SetTargetFPS(int32(opts.TargetFPS))

	w := &Window{
		opts:       opts,
		loop:       platform.NewLoop(0),
		surface:    NewSurface(background),
		width:      float32(rl.GetScreenWidth()),
		height:     float32(rl.GetScreenHeight()),
		hud:        ui.NewHUD(),
		controls:   ui.NewControlsPanel(10, 100, 300),
		perfPanel:  ui.NewPerfPanel(0, 10, 300),
		statsPanel: ui.NewFieldStatsPanel(0, 10, 260),
		overlays:   ui.NewOverlayRegistry(),
	}
	w.layout()
	return w
}

// Scheduler returns the frame scheduler fired once per drawn frame.
func (w *Window) Scheduler() *platform.Loop { return w.loop }

// Surface returns the drawing surface.
func (w *Window) Surface() *Surface { return w.surface }

// Pointer returns the pointer notifier.
func (w *Window) Pointer() *platform.PointerHub { return &w.pointer }

// Resize returns the resize notifier.
func (w *Window) Resize() *platform.ResizeHub { return &w.resize }

// Run draws frames until the window closes or ctx is done. The engine must
// have been created with this window's scheduler, surface and notifiers.
func (w *Window) Run(ctx context.Context, e *engine.Engine) {
	defaults := *e.Physics()
	defaultStyle := *e.Style()

	for !rl.WindowShouldClose() && ctx.Err() == nil {
		w.pollInput()
		w.handleKeys(e)

		rl.BeginDrawing()
		w.loop.Frame()
		w.drawOverlays(e)

		action := w.controls.Draw(e.Physics(), e.Style(), w.overlays)
		if action.Reseed {
			e.Reseed()
		}
		if action.Reset {
			*e.Physics() = defaults
			*e.Style() = defaultStyle
			slog.Info("tuning_reset")
		}
		rl.EndDrawing()
	}
}

// Close destroys the window.
func (w *Window) Close() {
	rl.CloseWindow()
}

// pollInput turns raylib's polled state into resize and pointer events.
func (w *Window) pollInput() {
	if rl.IsWindowResized() {
		width := float32(rl.GetScreenWidth())
		height := float32(rl.GetScreenHeight())
		if width != w.width || height != w.height {
			w.width, w.height = width, height
			w.layout()
			w.resize.Emit(width, height)
		}
	}

	mouse := rl.GetMousePosition()
	inside := rl.IsCursorOnScreen() && !w.controls.Contains(mouse.X, mouse.Y)
	switch {
	case inside:
		w.pointer.Move(mouse.X, mouse.Y)
	case w.pointerInside:
		w.pointer.Leave()
	}
	w.pointerInside = inside
}

func (w *Window) handleKeys(e *engine.Engine) {
	if rl.IsKeyPressed(rl.KeySpace) {
		e.SetPaused(!e.Paused())
	}
	if rl.IsKeyPressed(rl.KeyR) {
		e.Reseed()
	}
	if rl.IsKeyPressed(rl.KeyD) {
		w.controls.Toggle()
	}
	for _, key := range []int32{rl.KeyF, rl.KeyV, rl.KeyS, rl.KeyP} {
		if rl.IsKeyPressed(key) {
			if id, on, ok := w.overlays.HandleKeyPress(key); ok {
				slog.Debug("overlay_toggled", "overlay", id, "enabled", on)
			}
		}
	}
}

func (w *Window) layout() {
	w.perfPanel.SetPosition(int32(w.width)-310, 10)
	w.statsPanel.SetPosition(int32(w.width)-270, 10)
}

func (w *Window) drawOverlays(e *engine.Engine) {
	accent := toRaylib(e.Style().Accent)

	if w.overlays.IsEnabled(ui.OverlayVelocity) {
		for _, p := range e.Particles() {
			ui.DrawVelocity(p.X, p.Y, p.VX, p.VY, velocityScale, accent)
		}
	}
	if w.overlays.IsEnabled(ui.OverlayRepulsion) {
		if ptr := e.Input().Pointer(); ptr.Active {
			ui.DrawRepulsion(ptr.X, ptr.Y, e.Physics().RepulsionRadius, accent)
		}
	}

	f := e.LastFrame()
	w.hud.Draw(ui.HUDData{
		Title:         w.opts.Title,
		Particles:     f.Particles,
		Connections:   f.Connections,
		Tick:          f.Tick,
		FPS:           rl.GetFPS(),
		Paused:        f.Paused,
		PointerActive: f.PointerActive,
		Width:         f.Width,
		Height:        f.Height,
	})
	w.hud.DrawControls(int32(w.height), controlsLegend)

	if w.overlays.IsEnabled(ui.OverlayPerf) && e.Perf() != nil {
		w.perfPanel.Draw(e.Perf().Stats())
	}
	if w.overlays.IsEnabled(ui.OverlayFieldStats) {
		w.speeds = e.Store().Speeds(w.speeds[:0])
		s := telemetry.ComputeSpeedStats(w.speeds)
		w.statsPanel.Draw(s, speedBarScale(s, e.Store().Params()))
	}
}

// speedBarScale picks the full-scale value for the speed bars: the largest
// initial speed, widened when repulsion pushes particles past it.
func speedBarScale(s telemetry.SpeedStats, spawn systems.SpawnParams) float32 {
	initial := float64(spawn.SpeedScale) * math.Sqrt2 / 2
	return float32(math.Max(initial, s.P90))
}
