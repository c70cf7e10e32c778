// Package config provides configuration loading and access for the particle field.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all field configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Particles ParticlesConfig `yaml:"particles"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Render    RenderConfig    `yaml:"render"`
	Terminal  TerminalConfig  `yaml:"terminal"`
	Server    ServerConfig    `yaml:"server"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings for the window backend.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
	Seed      int64  `yaml:"seed"` // RNG seed (0 = time-based)
}

// ParticlesConfig holds particle seeding parameters.
type ParticlesConfig struct {
	AreaPerParticle float64 `yaml:"area_per_particle"` // Surface area (px²) per particle
	MaxCount        int     `yaml:"max_count"`         // Hard ceiling regardless of area
	SpeedScale      float64 `yaml:"speed_scale"`       // vx, vy = (rand - 0.5) * this
	MinRadius       float64 `yaml:"min_radius"`
	MaxRadius       float64 `yaml:"max_radius"`
}

// PhysicsConfig holds per-frame simulation parameters.
type PhysicsConfig struct {
	RepulsionRadius   float64 `yaml:"repulsion_radius"`   // Pointer influence distance in px
	RepulsionStrength float64 `yaml:"repulsion_strength"` // Velocity impulse at distance 0
	Damping           float64 `yaml:"damping"`            // Per-frame velocity multiplier
}

// RenderConfig holds drawing parameters.
type RenderConfig struct {
	Accent            string  `yaml:"accent"`     // Hex colour for particles and lines
	Background        string  `yaml:"background"` // Hex colour used by opaque surfaces
	ParticleOpacity   float64 `yaml:"particle_opacity"`
	ConnectionRadius  float64 `yaml:"connection_radius"`  // Max distance for a connective line
	ConnectionOpacity float64 `yaml:"connection_opacity"` // Line opacity at distance 0
	LineWidth         float64 `yaml:"line_width"`
}

// TerminalConfig holds the pixel size of one terminal cell.
type TerminalConfig struct {
	CellWidth  int `yaml:"cell_width"`
	CellHeight int `yaml:"cell_height"`
}

// ServerConfig holds HTTP preview server settings.
type ServerConfig struct {
	Addr   string `yaml:"addr"`
	Width  int    `yaml:"width"`  // Initial virtual surface width
	Height int    `yaml:"height"` // Initial virtual surface height
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // Seconds per stats window
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW32        float32 // Screen.Width as float32
	ScreenH32        float32 // Screen.Height as float32
	FrameInterval    float64 // Seconds per frame at TargetFPS
	StatsWindowTicks int     // Telemetry.StatsWindow expressed in frames
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used. Environment overrides
// (see ApplyEnv) are applied after the file.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	fps := c.Screen.TargetFPS
	if fps <= 0 {
		fps = 60
	}
	c.Derived.FrameInterval = 1.0 / float64(fps)

	c.Derived.StatsWindowTicks = int(c.Telemetry.StatsWindow * float64(fps))
	if c.Derived.StatsWindowTicks < 1 {
		c.Derived.StatsWindowTicks = 1
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
