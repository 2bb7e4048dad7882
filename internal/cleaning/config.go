package cleaning

import (
	"fmt"
	"time"
)

// Termination selects how a run decides it is finished.
type Termination uint8

const (
	// TerminateOnGoal stops when every initially dirty tile is clean
	// or the wall-clock budget is spent, whichever happens first.
	TerminateOnGoal Termination = iota
	// TerminateAfterRounds stops once the round budget is exhausted.
	TerminateAfterRounds
)

// Config holds the simulation parameters.
type Config struct {
	Width  int
	Height int

	RobotCount   int
	DirtFraction float64

	Termination Termination
	MaxRounds   int           // used by TerminateAfterRounds
	MaxTime     time.Duration // used by TerminateOnGoal

	Seed int64
}

// DefaultConfig returns the stock parameter set: a 10x10 grid, one
// robot, 30% dirt and the goal/time termination variant.
func DefaultConfig() Config {
	return Config{
		Width:        10,
		Height:       10,
		RobotCount:   1,
		DirtFraction: 0.3,
		Termination:  TerminateOnGoal,
		MaxRounds:    100,
		MaxTime:      60 * time.Second,
		Seed:         1337,
	}
}

// Validate reports the first invalid parameter, if any.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("cleaning: grid dimensions must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.RobotCount < 1 {
		return fmt.Errorf("cleaning: robot count must be at least 1, got %d", c.RobotCount)
	}
	if c.DirtFraction < 0 || c.DirtFraction > 1 {
		return fmt.Errorf("cleaning: dirt fraction must be within [0,1], got %g", c.DirtFraction)
	}
	switch c.Termination {
	case TerminateAfterRounds:
		if c.MaxRounds < 0 {
			return fmt.Errorf("cleaning: round budget must not be negative, got %d", c.MaxRounds)
		}
	case TerminateOnGoal:
		if c.MaxTime <= 0 {
			return fmt.Errorf("cleaning: time budget must be positive, got %s", c.MaxTime)
		}
	default:
		return fmt.Errorf("cleaning: unknown termination policy %d", c.Termination)
	}
	return nil
}
