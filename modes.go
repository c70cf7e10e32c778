package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/constellation/config"
	"github.com/pthm-cable/constellation/engine"
	"github.com/pthm-cable/constellation/platform"
	"github.com/pthm-cable/constellation/platform/terminal"
	"github.com/pthm-cable/constellation/platform/window"
	"github.com/pthm-cable/constellation/renderer"
	"github.com/pthm-cable/constellation/server"
	"github.com/pthm-cable/constellation/telemetry"
)

func frameInterval(cfg *config.Config) time.Duration {
	return time.Duration(cfg.Derived.FrameInterval * float64(time.Second))
}

// runWindow drives the field from the raylib draw loop on the main thread.
func runWindow(ctx context.Context, cfg *config.Config, opts engine.Options, recorder *telemetry.Recorder, ro runOptions) error {
	w := window.Open(window.Options{
		Title:     cfg.Screen.Title,
		Width:     cfg.Screen.Width,
		Height:    cfg.Screen.Height,
		TargetFPS: cfg.Screen.TargetFPS,
	}, opts.Style.Background)
	defer w.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts.Surface = w.Surface()
	opts.Scheduler = w.Scheduler()
	opts.Pointer = w.Pointer()
	opts.Resize = w.Resize()
	e := engine.New(opts)
	e.SetOnFrame(observe(e, recorder, ro.maxTicks, cancel))

	e.Start()
	defer e.Stop()
	w.Run(ctx, e)
	return nil
}

// runTerminal renders the field into the terminal with tcell.
func runTerminal(ctx context.Context, cfg *config.Config, opts engine.Options, recorder *telemetry.Recorder, ro runOptions) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating terminal screen: %w", err)
	}

	loop := platform.NewLoop(frameInterval(cfg))
	backend, err := terminal.Open(screen, loop, cfg.Terminal.CellWidth, cfg.Terminal.CellHeight, opts.Style.Background)
	if err != nil {
		return err
	}
	defer backend.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts.Surface = backend.Surface()
	opts.Scheduler = loop
	opts.Pointer = backend.Pointer()
	opts.Resize = backend.Resize()
	e := engine.New(opts)
	e.SetOnFrame(observe(e, recorder, ro.maxTicks, cancel))

	backend.OnKey = func(ev *tcell.EventKey) {
		switch ev.Rune() {
		case ' ':
			e.SetPaused(!e.Paused())
		case 'r', 'R':
			e.Reseed()
		}
	}

	// Size the surface now so Start seeds for the real terminal
	backend.Surface().SetCells(screen.Size())

	go backend.Run(ctx, cancel)
	if err := loop.Post(e.Start); err != nil {
		return err
	}
	loop.Run(ctx)
	e.Stop()
	return nil
}

// runServe serves SVG frames and stats over HTTP.
func runServe(ctx context.Context, cfg *config.Config, opts engine.Options, recorder *telemetry.Recorder, ro runOptions) error {
	addr := cfg.Server.Addr
	if ro.addr != "" {
		addr = ro.addr
	}

	loop := platform.NewLoop(frameInterval(cfg))
	surface := renderer.NewSVGSurface(float32(cfg.Server.Width), float32(cfg.Server.Height), opts.Style.Background)
	var pointer platform.PointerHub
	var resize platform.ResizeHub

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts.Surface = surface
	opts.Scheduler = loop
	opts.Pointer = &pointer
	opts.Resize = &resize
	e := engine.New(opts)
	e.SetOnFrame(observe(e, recorder, ro.maxTicks, cancel))

	srv := server.New(server.Options{
		Engine:   e,
		Loop:     loop,
		Surface:  surface,
		Pointer:  &pointer,
		Resize:   &resize,
		Recorder: recorder,
	})

	errCh := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe(ctx, addr)
		if err != nil {
			cancel()
		}
		errCh <- err
	}()

	if err := loop.Post(e.Start); err != nil {
		return err
	}
	loop.Run(ctx)
	e.Stop()
	cancel()

	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// runHeadless ticks the field as fast as possible without drawing.
func runHeadless(ctx context.Context, cfg *config.Config, opts engine.Options, recorder *telemetry.Recorder, ro runOptions) error {
	loop := platform.NewLoop(0)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts.Surface = &renderer.NullSurface{Width: float32(cfg.Screen.Width), Height: float32(cfg.Screen.Height)}
	opts.Scheduler = loop
	e := engine.New(opts)
	e.SetOnFrame(observe(e, recorder, ro.maxTicks, cancel))

	start := time.Now()
	if err := loop.Post(e.Start); err != nil {
		return err
	}
	loop.Run(ctx)
	e.Stop()

	elapsed := time.Since(start)
	ticks := e.LastFrame().Tick
	slog.Info("headless run finished",
		"ticks", ticks,
		"elapsed_ms", elapsed.Milliseconds(),
		"ticks_per_sec", float64(ticks)/elapsed.Seconds(),
	)
	return nil
}
