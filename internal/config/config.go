// Package config holds the runtime settings shared by the CLI commands.
// Values come from PHENOMENON_* environment variables; flags the user sets
// explicitly override them.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	DeckDir      string `env:"PHENOMENON_DECK_DIR"       envDefault:"input/decks"`
	OutputVideo  string `env:"PHENOMENON_OUTPUT"` // empty derives a name from the deck
	FramesDir    string `env:"PHENOMENON_FRAMES_DIR"`
	KeepFrames   bool   `env:"PHENOMENON_KEEP_FRAMES"`
	FPS          int    `env:"PHENOMENON_FPS"            envDefault:"30"`
	PresentFPS   int    `env:"PHENOMENON_PRESENT_FPS"    envDefault:"60"`
	Workers      int    `env:"PHENOMENON_WORKERS"`
	DPI          int    `env:"PHENOMENON_DPI"            envDefault:"150"`
	VideoEncoder string `env:"PHENOMENON_ENCODER"`
	Quality      int    `env:"PHENOMENON_QUALITY"` // 0 picks a default per encoder
	StatePath    string `env:"PHENOMENON_STATE"          envDefault:".phenomenon/positions.yaml"`
	StopAtPauses bool   `env:"PHENOMENON_STOP_AT_PAUSES" envDefault:"true"`
	LogLevel     string `env:"PHENOMENON_LOG_LEVEL"      envDefault:"info"`
	ShowStats    bool   `env:"PHENOMENON_STATS"`
	BenchmarkLog string `env:"PHENOMENON_BENCHMARK_LOG"`
	BuildVersion string
}

// Load reads the environment into a Config with defaults applied.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.FPS <= 0 || c.FPS > 240 {
		errs = append(errs, fmt.Errorf("fps %d out of range (1..240)", c.FPS))
	}
	if c.PresentFPS <= 0 || c.PresentFPS > 240 {
		errs = append(errs, fmt.Errorf("present fps %d out of range (1..240)", c.PresentFPS))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers cannot be negative"))
	}
	if c.DPI <= 0 {
		errs = append(errs, fmt.Errorf("dpi must be positive"))
	}
	if c.Quality < 0 {
		errs = append(errs, fmt.Errorf("quality cannot be negative"))
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", c.LogLevel))
	}
	return errors.Join(errs...)
}
