package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pthm-cable/constellation/config"
	"github.com/pthm-cable/constellation/engine"
	"github.com/pthm-cable/constellation/telemetry"
)

// Run modes.
const (
	modeWindow   = "window"
	modeTerminal = "terminal"
	modeServe    = "serve"
	modeHeadless = "headless"
)

type runOptions struct {
	mode        string
	maxTicks    int64
	logStats    bool
	statsWindow float64
	outputDir   string
	addr        string
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	mode := flag.String("mode", modeWindow, "Run mode: window, terminal, serve or headless")
	seed := flag.Int64("seed", 0, "RNG seed (0 = config or time-based)")
	maxTicks := flag.Int64("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	addr := flag.String("addr", "", "Listen address for serve mode (empty = use config)")
	logFile := flag.String("log-file", "", "Write logs to this file instead of stdout")

	flag.Parse()

	closeLog, err := setupLogging(*mode, *logFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closeLog()

	if err := config.LoadEnv(); err != nil {
		slog.Error("failed to load .env", "error", err)
		os.Exit(1)
	}
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *seed != 0 {
		cfg.Screen.Seed = *seed
	}

	opts := runOptions{
		mode:        *mode,
		maxTicks:    *maxTicks,
		logStats:    *logStats,
		statsWindow: *statsWindow,
		outputDir:   *outputDir,
		addr:        *addr,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, opts); err != nil {
		slog.Error("run failed", "mode", *mode, "error", err)
		closeLog()
		os.Exit(1)
	}
}

// setupLogging installs a JSON slog handler. The terminal backend owns
// stdout, so it logs to the file or nowhere.
func setupLogging(mode, path string) (func(), error) {
	var w io.Writer = os.Stdout
	closeFn := func() {}

	switch {
	case path != "":
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		w = f
		closeFn = func() { f.Close() }
	case mode == modeTerminal:
		w = io.Discard
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(w, nil)))
	return closeFn, nil
}

func run(ctx context.Context, cfg *config.Config, opts runOptions) error {
	base, err := engine.OptionsFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("building engine options: %w", err)
	}

	output, err := telemetry.NewOutputManager(opts.outputDir)
	if err != nil {
		return err
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		return err
	}

	statsWindowTicks := int64(cfg.Derived.StatsWindowTicks)
	if opts.statsWindow > 0 {
		statsWindowTicks = int64(opts.statsWindow / cfg.Derived.FrameInterval)
	}
	recorder := telemetry.NewRecorder(
		telemetry.NewCollector(statsWindowTicks, cfg.Derived.FrameInterval),
		base.Perf,
		output,
		opts.logStats,
	)

	slog.Info("starting",
		"mode", opts.mode,
		"seed", cfg.Screen.Seed,
		"max_ticks", opts.maxTicks,
		"stats_window_ticks", statsWindowTicks,
		"output_dir", output.Dir(),
	)

	switch opts.mode {
	case modeWindow:
		return runWindow(ctx, cfg, base, recorder, opts)
	case modeTerminal:
		return runTerminal(ctx, cfg, base, recorder, opts)
	case modeServe:
		return runServe(ctx, cfg, base, recorder, opts)
	case modeHeadless:
		return runHeadless(ctx, cfg, base, recorder, opts)
	default:
		return fmt.Errorf("unknown mode %q", opts.mode)
	}
}

// observe returns the OnFrame hook shared by every mode: it feeds the
// recorder and calls stop once maxTicks is reached.
func observe(e *engine.Engine, recorder *telemetry.Recorder, maxTicks int64, stop func()) func(engine.FrameInfo) {
	return func(f engine.FrameInfo) {
		recorder.Observe(telemetry.FrameSample{
			Tick:          f.Tick,
			Particles:     f.Particles,
			Connections:   f.Connections,
			PointerActive: f.PointerActive,
			Reseeded:      f.Reseeded,
		}, e.Store().Speeds)

		if maxTicks > 0 && f.Tick >= maxTicks {
			slog.Info("max ticks reached", "tick", f.Tick)
			stop()
		}
	}
}
