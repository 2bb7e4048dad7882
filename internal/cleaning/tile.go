package cleaning

import "cleansim/internal/core"

// TileStatus enumerates the cleanliness states of a tile.
type TileStatus uint8

const (
	StatusClean TileStatus = iota
	StatusDirty
)

// Tile is the floor state of one cell. Its coordinate never changes
// and its status only ever transitions dirty to clean.
type Tile struct {
	pos    core.Coord
	status TileStatus
}

// NewTile creates a tile fixed at pos with the given initial status.
func NewTile(pos core.Coord, status TileStatus) *Tile {
	return &Tile{pos: pos, status: status}
}

// Kind identifies the entity as a tile.
func (t *Tile) Kind() EntityKind { return KindTile }

// Pos returns the tile's coordinate.
func (t *Tile) Pos() core.Coord { return t.pos }

// Status reports whether the tile is clean or dirty.
func (t *Tile) Status() TileStatus { return t.status }

// MarkClean transitions a dirty tile to clean. Marking an already
// clean tile is a no-op, so callers need no pre-check.
func (t *Tile) MarkClean() { t.status = StatusClean }
