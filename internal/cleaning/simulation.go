package cleaning

import (
	"time"

	"cleansim/internal/core"
)

// Simulation owns the grid, the robots and the scheduler, and drives
// synchronous rounds until its termination predicate fires. Once
// terminated it never runs again.
type Simulation struct {
	cfg Config

	grid      *Grid
	robots    []*Robot
	scheduler *Scheduler
	rng       *core.RNG

	round        int
	remaining    int
	initialDirty int
	cleaned      int

	running bool
	start   time.Time
	now     func() time.Time
}

// Stats is a point-in-time statistics snapshot.
type Stats struct {
	Round          int
	InitialDirty   int
	Cleaned        int
	CompletionPct  float64
	Elapsed        time.Duration
	TotalMovements int
}

// New validates cfg and builds a fully initialized simulation: one
// tile per cell, floor(w*h*dirtFraction) distinct cells dirty, and
// every robot at (1,1), clamped into bounds on degenerate grids.
func New(cfg Config) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rng := core.NewRNG(cfg.Seed)
	grid := NewGrid(cfg.Width, cfg.Height)
	size := grid.Size()

	dirtyCount := int(float64(size.Cells()) * cfg.DirtFraction)
	dirty := make(map[int]bool, dirtyCount)
	for _, idx := range rng.Perm(size.Cells())[:dirtyCount] {
		dirty[idx] = true
	}

	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			pos := core.Coord{X: x, Y: y}
			status := StatusClean
			if dirty[size.Index(pos)] {
				status = StatusDirty
			}
			grid.Place(NewTile(pos, status), pos)
		}
	}

	startPos := core.Coord{X: min(1, cfg.Width-1), Y: min(1, cfg.Height-1)}
	robots := make([]*Robot, cfg.RobotCount)
	for i := range robots {
		robots[i] = NewRobot(i, startPos)
		grid.Place(robots[i], startPos)
	}

	s := &Simulation{
		cfg:          cfg,
		grid:         grid,
		robots:       robots,
		scheduler:    NewScheduler(rng),
		rng:          rng,
		remaining:    cfg.MaxRounds,
		initialDirty: dirtyCount,
		running:      true,
		now:          time.Now,
	}
	s.start = s.now()
	return s, nil
}

// Step advances the simulation by one full round of robot activations.
// The termination predicate is evaluated first; once it holds, the
// simulation flips to terminated and every further Step is a no-op.
func (s *Simulation) Step() {
	if !s.running {
		return
	}
	if s.terminationMet() {
		s.running = false
		return
	}
	s.cleaned += s.scheduler.Round(s.grid, s.robots)
	s.round++
	if s.cfg.Termination == TerminateAfterRounds {
		s.remaining--
	}
}

func (s *Simulation) terminationMet() bool {
	switch s.cfg.Termination {
	case TerminateAfterRounds:
		return s.remaining <= 0
	default:
		if s.cleaned >= s.initialDirty {
			return true
		}
		return s.now().Sub(s.start) >= s.cfg.MaxTime
	}
}

// Running reports whether the simulation has not yet terminated.
func (s *Simulation) Running() bool { return s.running }

// Round returns the number of completed rounds.
func (s *Simulation) Round() int { return s.round }

// Size reports the grid dimensions.
func (s *Simulation) Size() core.Size { return s.grid.Size() }

// Config returns the parameters the simulation was built from.
func (s *Simulation) Config() Config { return s.cfg }

// Statistics returns the current snapshot. Completion is defined as 0
// when the run started with no dirty tiles.
func (s *Simulation) Statistics() Stats {
	moves := 0
	for _, r := range s.robots {
		moves += r.Moves()
	}
	pct := 0.0
	if s.initialDirty > 0 {
		pct = 100 * float64(s.cleaned) / float64(s.initialDirty)
	}
	return Stats{
		Round:          s.round,
		InitialDirty:   s.initialDirty,
		Cleaned:        s.cleaned,
		CompletionPct:  pct,
		Elapsed:        s.now().Sub(s.start),
		TotalMovements: moves,
	}
}
