package cleaning

import (
	"testing"
	"time"

	"cleansim/internal/core"
)

func goalConfig() Config {
	cfg := DefaultConfig()
	cfg.Width = 5
	cfg.Height = 5
	cfg.DirtFraction = 0.2
	cfg.Termination = TerminateOnGoal
	cfg.MaxTime = time.Hour
	cfg.Seed = 99
	return cfg
}

func runToTermination(t *testing.T, s *Simulation) {
	t.Helper()
	for i := 0; s.Running(); i++ {
		if i > 1_000_000 {
			t.Fatal("simulation failed to terminate")
		}
		s.Step()
	}
}

func countEntities(s *Simulation) int {
	size := s.Size()
	total := 0
	for y := 0; y < size.H; y++ {
		for x := 0; x < size.W; x++ {
			total += len(s.grid.Contents(core.Coord{X: x, Y: y}))
		}
	}
	return total
}

func TestDirtSamplingExact(t *testing.T) {
	cfg := goalConfig()
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	dirty := s.DirtyTiles()
	if len(dirty) != 5 {
		t.Fatalf("5x5 grid at 0.2 dirt must start with 5 dirty tiles, got %d", len(dirty))
	}
	seen := map[core.Coord]bool{}
	for _, pos := range dirty {
		if seen[pos] {
			t.Fatalf("dirty coordinate %v sampled twice", pos)
		}
		seen[pos] = true
	}
	if got := s.Statistics().InitialDirty; got != 5 {
		t.Fatalf("InitialDirty = %d, want 5", got)
	}
}

func TestEntityCountInvariant(t *testing.T) {
	cfg := goalConfig()
	cfg.RobotCount = 3
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	want := s.Size().Cells() + cfg.RobotCount
	if got := countEntities(s); got != want {
		t.Fatalf("initial entity count = %d, want %d", got, want)
	}
	for i := 0; i < 10; i++ {
		s.Step()
		if got := countEntities(s); got != want {
			t.Fatalf("entity count after round %d = %d, want %d", i+1, got, want)
		}
	}
}

func TestStepIdempotentAfterTermination(t *testing.T) {
	cfg := goalConfig()
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	runToTermination(t, s)

	round := s.Round()
	robots := s.Robots()
	stats := s.Statistics()
	for i := 0; i < 5; i++ {
		s.Step()
	}
	if s.Round() != round {
		t.Fatalf("round advanced after termination: %d -> %d", round, s.Round())
	}
	after := s.Robots()
	for i := range robots {
		if robots[i] != after[i] {
			t.Fatalf("robot %d moved after termination", robots[i].ID)
		}
	}
	if got := s.Statistics(); got.Cleaned != stats.Cleaned || got.TotalMovements != stats.TotalMovements {
		t.Fatal("statistics changed after termination")
	}
}

func TestCountersMonotonic(t *testing.T) {
	cfg := goalConfig()
	cfg.RobotCount = 2
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	prev := s.Statistics()
	for i := 0; i < 50 && s.Running(); i++ {
		s.Step()
		cur := s.Statistics()
		if cur.Cleaned < prev.Cleaned {
			t.Fatalf("cleaned counter decreased: %d -> %d", prev.Cleaned, cur.Cleaned)
		}
		if cur.TotalMovements < prev.TotalMovements {
			t.Fatalf("movement counter decreased: %d -> %d", prev.TotalMovements, cur.TotalMovements)
		}
		prev = cur
	}
}

func TestCleaningPrecedesMoving(t *testing.T) {
	cfg := goalConfig()
	cfg.DirtFraction = 1
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// Every cell starts dirty, so in round one the robot must clean
	// its starting cell and stay put.
	before := s.Robots()[0]
	s.Step()
	after := s.Robots()[0]
	if before.Pos != after.Pos {
		t.Fatal("robot moved in the round it cleaned")
	}
	if got := s.Statistics(); got.TotalMovements != 0 || got.Cleaned != 1 {
		t.Fatalf("round one on all-dirty grid: cleaned = %d moves = %d, want 1 and 0", got.Cleaned, got.TotalMovements)
	}
}

func TestGoalVariantScenario(t *testing.T) {
	cfg := goalConfig()
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	runToTermination(t, s)

	stats := s.Statistics()
	if stats.Cleaned != 5 {
		t.Fatalf("terminated with %d cleaned, want 5", stats.Cleaned)
	}
	if stats.CompletionPct != 100 {
		t.Fatalf("completion = %v, want 100", stats.CompletionPct)
	}
	if len(s.DirtyTiles()) != 0 {
		t.Fatal("dirty tiles remain after goal termination")
	}
}

func TestRoundBudgetVariant(t *testing.T) {
	cfg := goalConfig()
	cfg.Termination = TerminateAfterRounds
	cfg.MaxRounds = 10
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for i := 0; i < 10; i++ {
		if !s.Running() {
			t.Fatalf("terminated early after %d rounds", i)
		}
		s.Step()
	}
	if s.Round() != 10 {
		t.Fatalf("completed rounds = %d, want 10", s.Round())
	}
	s.Step()
	if s.Running() {
		t.Fatal("still running after the round budget was exhausted")
	}
	if s.Round() != 10 {
		t.Fatalf("terminating step must not run a round, got %d", s.Round())
	}
}

func TestTimeBudgetTermination(t *testing.T) {
	cfg := goalConfig()
	cfg.Width = 50
	cfg.Height = 50
	cfg.DirtFraction = 1
	cfg.MaxTime = time.Minute
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	clock := s.start
	s.now = func() time.Time { return clock }

	s.Step()
	if !s.Running() {
		t.Fatal("terminated before the time budget elapsed")
	}

	clock = clock.Add(time.Minute)
	s.Step()
	if s.Running() {
		t.Fatal("still running after the time budget elapsed")
	}
	if got := s.Statistics().Elapsed; got != time.Minute {
		t.Fatalf("elapsed = %v, want %v", got, time.Minute)
	}
}

func TestZeroDirtTerminatesImmediately(t *testing.T) {
	cfg := goalConfig()
	cfg.DirtFraction = 0
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if got := s.Statistics().CompletionPct; got != 0 {
		t.Fatalf("zero initial dirt must report completion 0, got %v", got)
	}
	s.Step()
	if s.Running() {
		t.Fatal("goal variant with zero dirt must terminate on the first step")
	}
	if s.Round() != 0 {
		t.Fatalf("no round should run, got %d", s.Round())
	}
}

func TestConfigValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero robots", func(c *Config) { c.RobotCount = 0 }},
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"negative height", func(c *Config) { c.Height = -3 }},
		{"dirt above one", func(c *Config) { c.DirtFraction = 1.5 }},
		{"negative dirt", func(c *Config) { c.DirtFraction = -0.1 }},
		{"zero time budget", func(c *Config) { c.MaxTime = 0 }},
	}
	for _, tc := range cases {
		cfg := goalConfig()
		tc.mutate(&cfg)
		if _, err := New(cfg); err == nil {
			t.Fatalf("%s: expected a configuration error", tc.name)
		}
	}
}

func TestDegenerateSingleCellGrid(t *testing.T) {
	cfg := goalConfig()
	cfg.Width = 1
	cfg.Height = 1
	cfg.DirtFraction = 1
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if pos := s.Robots()[0].Pos; pos != (core.Coord{}) {
		t.Fatalf("robot on 1x1 grid placed at %v, want (0,0)", pos)
	}
	runToTermination(t, s)
	stats := s.Statistics()
	if stats.TotalMovements != 0 {
		t.Fatalf("robot moved %d times on a 1x1 grid", stats.TotalMovements)
	}
	if stats.Cleaned != 1 || stats.CompletionPct != 100 {
		t.Fatalf("1x1 all-dirty run finished with cleaned = %d pct = %v", stats.Cleaned, stats.CompletionPct)
	}
}

func TestSeededRunsAreReproducible(t *testing.T) {
	run := func() ([]RobotView, []core.Coord, Stats) {
		cfg := goalConfig()
		cfg.RobotCount = 4
		cfg.Seed = 2024
		s, err := New(cfg)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		for i := 0; i < 25; i++ {
			s.Step()
		}
		return s.Robots(), s.DirtyTiles(), s.Statistics()
	}

	robotsA, dirtyA, statsA := run()
	robotsB, dirtyB, statsB := run()

	for i := range robotsA {
		if robotsA[i] != robotsB[i] {
			t.Fatalf("robot %d diverged between identical seeded runs", robotsA[i].ID)
		}
	}
	if len(dirtyA) != len(dirtyB) {
		t.Fatal("dirty tile sets diverged between identical seeded runs")
	}
	for i := range dirtyA {
		if dirtyA[i] != dirtyB[i] {
			t.Fatal("dirty tile sets diverged between identical seeded runs")
		}
	}
	if statsA.Cleaned != statsB.Cleaned || statsA.TotalMovements != statsB.TotalMovements {
		t.Fatal("statistics diverged between identical seeded runs")
	}
}

func TestContentsViews(t *testing.T) {
	cfg := goalConfig()
	cfg.RobotCount = 2
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	views := s.Contents(core.Coord{X: 1, Y: 1})
	tiles, robots := 0, 0
	for _, v := range views {
		switch v.Kind {
		case KindTile:
			tiles++
		case KindRobot:
			robots++
		}
	}
	if tiles != 1 {
		t.Fatalf("start cell has %d tile views, want 1", tiles)
	}
	if robots != 2 {
		t.Fatalf("start cell has %d robot views, want 2", robots)
	}
}
