package server

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"cleansim/internal/cleaning"
)

// Config is the daemon configuration, loadable from YAML.
type Config struct {
	Addr         string  `yaml:"addr"`
	RoundsPerSec int     `yaml:"rounds_per_sec"`
	AutoStart    bool    `yaml:"auto_start"`
	Sim          SimSpec `yaml:"sim"`
}

// SimSpec is the YAML shape of the simulation parameters.
type SimSpec struct {
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
	Robots       int     `yaml:"robots"`
	DirtFraction float64 `yaml:"dirt_fraction"`
	Termination  string  `yaml:"termination"` // "goal" or "rounds"
	MaxRounds    int     `yaml:"max_rounds"`
	MaxTimeSec   int     `yaml:"max_time_sec"`
	Seed         int64   `yaml:"seed"`
}

// Load reads the YAML config at path, falling back to defaults when
// path is empty.
func Load(path string) (Config, error) {
	cfg := defaults()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("cleansimd.yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("cleansimd.yaml: %w", err)
	}
	return cfg, nil
}

func defaults() Config {
	sim := cleaning.DefaultConfig()
	return Config{
		Addr:         ":8521",
		RoundsPerSec: 10,
		AutoStart:    true,
		Sim: SimSpec{
			Width:        sim.Width,
			Height:       sim.Height,
			Robots:       sim.RobotCount,
			DirtFraction: sim.DirtFraction,
			Termination:  "goal",
			MaxRounds:    sim.MaxRounds,
			MaxTimeSec:   int(sim.MaxTime / time.Second),
			Seed:         sim.Seed,
		},
	}
}

// Validate checks the daemon-level fields; simulation parameters get
// their own validation when the simulation is constructed.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("addr must not be empty")
	}
	if c.RoundsPerSec <= 0 {
		return fmt.Errorf("rounds_per_sec must be positive, got %d", c.RoundsPerSec)
	}
	switch c.Sim.Termination {
	case "goal", "rounds":
	default:
		return fmt.Errorf("termination must be \"goal\" or \"rounds\", got %q", c.Sim.Termination)
	}
	return nil
}

// SimConfig converts the YAML shape into engine parameters.
func (s SimSpec) SimConfig() cleaning.Config {
	cfg := cleaning.Config{
		Width:        s.Width,
		Height:       s.Height,
		RobotCount:   s.Robots,
		DirtFraction: s.DirtFraction,
		MaxRounds:    s.MaxRounds,
		MaxTime:      time.Duration(s.MaxTimeSec) * time.Second,
		Seed:         s.Seed,
	}
	if s.Termination == "rounds" {
		cfg.Termination = cleaning.TerminateAfterRounds
	} else {
		cfg.Termination = cleaning.TerminateOnGoal
	}
	return cfg
}
