package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables that override loaded values.
const (
	EnvPort         = "PORT"
	EnvMaxParticles = "FIELD_MAX_PARTICLES"
	EnvTargetFPS    = "FIELD_TARGET_FPS"
	EnvSeed         = "FIELD_SEED"
)

// LoadEnv loads variables from the given dotenv files (".env" when none are
// given) into the process environment. Missing files are not an error and
// variables already set in the environment win.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides config fields from environment variables.
func (c *Config) ApplyEnv() error {
	if port, ok := os.LookupEnv(EnvPort); ok && port != "" {
		c.Server.Addr = ":" + port
	}

	if v, ok := os.LookupEnv(EnvMaxParticles); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid %s %q", EnvMaxParticles, v)
		}
		c.Particles.MaxCount = n
	}

	if v, ok := os.LookupEnv(EnvTargetFPS); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid %s %q", EnvTargetFPS, v)
		}
		c.Screen.TargetFPS = n
	}

	if v, ok := os.LookupEnv(EnvSeed); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvSeed, v, err)
		}
		c.Screen.Seed = n
	}

	return nil
}
