package cleaning

import "cleansim/internal/core"

// Robot is a cleaning agent. Each round it either cleans the tile
// underneath it or relocates to a random adjacent cell, never both.
// The policy is memoryless: position and counters are the only state
// carried across rounds.
type Robot struct {
	id      int
	pos     core.Coord
	cleaned int
	moves   int
}

// NewRobot creates a robot with the given identifier at pos.
func NewRobot(id int, pos core.Coord) *Robot {
	return &Robot{id: id, pos: pos}
}

// Kind identifies the entity as a robot.
func (r *Robot) Kind() EntityKind { return KindRobot }

// ID returns the robot's run-unique identifier.
func (r *Robot) ID() int { return r.id }

// Pos returns the robot's current coordinate.
func (r *Robot) Pos() core.Coord { return r.pos }

// Cleaned returns how many tiles this robot has cleaned.
func (r *Robot) Cleaned() int { return r.cleaned }

// Moves returns how many cell moves this robot has made.
func (r *Robot) Moves() int { return r.moves }

// Act runs the robot's action for the current round and reports
// whether a tile was cleaned, so the caller can update the global
// counter. A robot that cleans does not move in the same round. On a
// 1x1 grid the neighborhood is empty and the round is a no-op.
func (r *Robot) Act(g *Grid, rng *core.RNG) bool {
	for _, e := range g.Contents(r.pos) {
		switch e.Kind() {
		case KindTile:
			tile := e.(*Tile)
			if tile.Status() == StatusDirty {
				tile.MarkClean()
				r.cleaned++
				return true
			}
		case KindRobot:
			// Co-occupying robots are invisible to the policy.
		}
	}

	neighbors := g.Neighbors(r.pos)
	if len(neighbors) == 0 {
		return false
	}
	next := neighbors[rng.IntN(len(neighbors))]
	g.Move(r, r.pos, next)
	r.pos = next
	r.moves++
	return false
}
