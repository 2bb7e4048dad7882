package cleaning

import "cleansim/internal/core"

// CellView describes one entity at a coordinate in renderable terms.
// The kind-specific field selected by Kind is the only one that is
// meaningful.
type CellView struct {
	Kind  EntityKind
	Dirty bool // tiles
	Robot int  // robot identifier
}

// RobotView pairs a robot identifier with its current coordinate.
type RobotView struct {
	ID  int
	Pos core.Coord
}

// Display cell values, one per palette entry.
const (
	DisplayClean uint8 = iota
	DisplayDirty
	DisplayRobot
)

// Contents returns the renderable view of the entities at pos. This
// is the sole hook the rendering layer needs.
func (s *Simulation) Contents(pos core.Coord) []CellView {
	entities := s.grid.Contents(pos)
	views := make([]CellView, 0, len(entities))
	for _, e := range entities {
		switch e.Kind() {
		case KindTile:
			views = append(views, CellView{Kind: KindTile, Dirty: e.(*Tile).Status() == StatusDirty})
		case KindRobot:
			views = append(views, CellView{Kind: KindRobot, Robot: e.(*Robot).ID()})
		}
	}
	return views
}

// Robots returns every robot's identifier and position in id order.
func (s *Simulation) Robots() []RobotView {
	views := make([]RobotView, len(s.robots))
	for i, r := range s.robots {
		views[i] = RobotView{ID: r.ID(), Pos: r.Pos()}
	}
	return views
}

// DirtyTiles returns the coordinates still dirty, in row-major order.
func (s *Simulation) DirtyTiles() []core.Coord {
	size := s.grid.Size()
	var out []core.Coord
	for y := 0; y < size.H; y++ {
		for x := 0; x < size.W; x++ {
			pos := core.Coord{X: x, Y: y}
			for _, e := range s.grid.Contents(pos) {
				if e.Kind() == KindTile && e.(*Tile).Status() == StatusDirty {
					out = append(out, pos)
				}
			}
		}
	}
	return out
}

// Display fills buf with one palette value per cell, robots drawn
// above tiles. A buffer of the wrong length is replaced.
func (s *Simulation) Display(buf []uint8) []uint8 {
	size := s.grid.Size()
	if len(buf) != size.Cells() {
		buf = make([]uint8, size.Cells())
	}
	for y := 0; y < size.H; y++ {
		for x := 0; x < size.W; x++ {
			pos := core.Coord{X: x, Y: y}
			value := DisplayClean
			for _, e := range s.grid.Contents(pos) {
				switch e.Kind() {
				case KindTile:
					if value == DisplayClean && e.(*Tile).Status() == StatusDirty {
						value = DisplayDirty
					}
				case KindRobot:
					value = DisplayRobot
				}
			}
			buf[size.Index(pos)] = value
		}
	}
	return buf
}
