package cleaning

import "cleansim/internal/core"

// Scheduler activates every robot exactly once per round in a freshly
// drawn uniform random order. The permutation is redrawn every round;
// a cached order would systematically favor robots listed first.
type Scheduler struct {
	rng *core.RNG
}

// NewScheduler creates a scheduler drawing activation orders from rng.
func NewScheduler(rng *core.RNG) *Scheduler {
	return &Scheduler{rng: rng}
}

// Round activates each robot once, strictly sequentially, so robots
// later in the order observe grid mutations made by earlier ones. It
// returns the number of tiles cleaned during the round.
func (s *Scheduler) Round(g *Grid, robots []*Robot) int {
	cleaned := 0
	for _, i := range s.rng.Perm(len(robots)) {
		if robots[i].Act(g, s.rng) {
			cleaned++
		}
	}
	return cleaned
}
