package cleaning

// EntityKind discriminates the closed set of things that can occupy a
// grid cell.
type EntityKind uint8

const (
	// KindTile marks per-cell floor state.
	KindTile EntityKind = iota
	// KindRobot marks a cleaning agent.
	KindRobot
)

// Entity is anything placeable on the Grid. The implementation set is
// closed: Tile and Robot. Callers dispatch by switching on Kind.
type Entity interface {
	Kind() EntityKind
}
