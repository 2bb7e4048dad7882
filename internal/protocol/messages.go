package protocol

// STATE (server -> client): one frame per completed round.
type StateMsg struct {
	Type            string       `json:"type"`
	ProtocolVersion string       `json:"protocol_version"`
	Round           int          `json:"round"`
	Running         bool         `json:"running"`
	Width           int          `json:"width"`
	Height          int          `json:"height"`
	DirtyTiles      [][2]int     `json:"dirty_tiles"`
	Robots          []RobotState `json:"robots"`
	Stats           RunStats     `json:"stats"`
}

type RobotState struct {
	ID int `json:"id"`
	X  int `json:"x"`
	Y  int `json:"y"`
}

type RunStats struct {
	CompletionPct  float64 `json:"completion_pct"`
	ElapsedMS      int64   `json:"elapsed_ms"`
	TotalMovements int     `json:"total_movements"`
	Cleaned        int     `json:"cleaned"`
	InitialDirty   int     `json:"initial_dirty"`
}

// CONTROL (client -> server).
type ControlMsg struct {
	Type            string     `json:"type"`
	ProtocolVersion string     `json:"protocol_version"`
	Command         string     `json:"command"`
	Params          *RunParams `json:"params,omitempty"`
}

// Control commands.
const (
	CmdStart  = "start"
	CmdPause  = "pause"
	CmdResume = "resume"
	CmdStep   = "step"
	CmdReset  = "reset"
)

// RunParams is the tunable parameter set a client may submit with
// CmdStart. Zero-valued optional fields keep the server defaults.
type RunParams struct {
	Width        int     `json:"width"`
	Height       int     `json:"height"`
	Robots       int     `json:"robots"`
	DirtFraction float64 `json:"dirt_fraction"`
	MaxRounds    int     `json:"max_rounds,omitempty"`
	MaxTimeSec   int     `json:"max_time_sec,omitempty"`
	Seed         int64   `json:"seed,omitempty"`
}

// ERROR (server -> client).
type ErrorMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Code            string `json:"code"`
	Message         string `json:"message"`
}
