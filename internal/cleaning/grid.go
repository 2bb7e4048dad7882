package cleaning

import (
	"fmt"

	"cleansim/internal/core"
)

// Grid is a bounded multigrid: every cell holds an ordered list of
// entities, and several robots may share a cell with its tile. The
// grid is purely structural; it never reads or writes tile status.
type Grid struct {
	size  core.Size
	cells [][]Entity
}

// NewGrid allocates an empty grid with the given dimensions.
func NewGrid(w, h int) *Grid {
	if w <= 0 || h <= 0 {
		panic(fmt.Sprintf("cleaning: grid dimensions must be positive, got %dx%d", w, h))
	}
	return &Grid{size: core.Size{W: w, H: h}, cells: make([][]Entity, w*h)}
}

// Size reports the grid dimensions.
func (g *Grid) Size() core.Size { return g.size }

// Contents returns the entities occupying pos. The order is
// deterministic for a given grid state: placement order, with movers
// appended on arrival.
func (g *Grid) Contents(pos core.Coord) []Entity {
	g.check("Contents", pos)
	return g.cells[g.size.Index(pos)]
}

// Neighbors returns the Moore neighborhood of pos clipped to the grid
// bounds. The center cell is excluded and there is no wraparound, so a
// corner cell has exactly three neighbors.
func (g *Grid) Neighbors(pos core.Coord) []core.Coord {
	g.check("Neighbors", pos)
	out := make([]core.Coord, 0, 8)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			n := core.Coord{X: pos.X + dx, Y: pos.Y + dy}
			if g.size.Contains(n) {
				out = append(out, n)
			}
		}
	}
	return out
}

// Place registers the entity at pos.
func (g *Grid) Place(e Entity, pos core.Coord) {
	g.check("Place", pos)
	idx := g.size.Index(pos)
	g.cells[idx] = append(g.cells[idx], e)
}

// Move atomically removes the entity from its current cell and appends
// it at to. Other occupants of either cell are untouched.
func (g *Grid) Move(e Entity, from, to core.Coord) {
	g.check("Move", from)
	g.check("Move", to)
	fromIdx := g.size.Index(from)
	occupants := g.cells[fromIdx]
	found := false
	for i, occ := range occupants {
		if occ == e {
			g.cells[fromIdx] = append(occupants[:i], occupants[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		panic(fmt.Sprintf("cleaning: Move of entity not present at (%d,%d)", from.X, from.Y))
	}
	toIdx := g.size.Index(to)
	g.cells[toIdx] = append(g.cells[toIdx], e)
}

// Out-of-bounds coordinates indicate a policy bug, not a recoverable
// condition, so the grid fails loudly instead of clamping.
func (g *Grid) check(op string, pos core.Coord) {
	if !g.size.Contains(pos) {
		panic(fmt.Sprintf("cleaning: %s out of bounds: (%d,%d) on %dx%d grid", op, pos.X, pos.Y, g.size.W, g.size.H))
	}
}
