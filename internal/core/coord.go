package core

// Coord addresses a single cell on a simulation grid.
type Coord struct {
	X int
	Y int
}

// Size describes the dimensions of a simulation grid.
type Size struct {
	W int
	H int
}

// Contains reports whether the coordinate lies inside [0,W)x[0,H).
func (s Size) Contains(c Coord) bool {
	return c.X >= 0 && c.X < s.W && c.Y >= 0 && c.Y < s.H
}

// Index returns the row-major slice index for the coordinate.
func (s Size) Index(c Coord) int { return c.Y*s.W + c.X }

// Cells returns the total cell count.
func (s Size) Cells() int { return s.W * s.H }
