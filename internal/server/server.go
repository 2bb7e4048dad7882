package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"cleansim/internal/cleaning"
	"cleansim/internal/protocol"
)

// Server hosts one simulation and streams a state frame to every
// connected websocket client after each round. Control messages can
// pause, resume, single-step or restart the run with new parameters.
type Server struct {
	log *log.Logger

	mu      sync.Mutex
	sim     *cleaning.Simulation
	simCfg  cleaning.Config
	paused  bool
	clients map[string]*client

	upgrader websocket.Upgrader
}

type client struct {
	id  string
	out chan []byte
}

// New builds a server around an initial simulation. A paused server
// still serves state; it just does not advance rounds.
func New(sim *cleaning.Simulation, cfg cleaning.Config, paused bool, logger *log.Logger) *Server {
	return &Server{
		log:     logger,
		sim:     sim,
		simCfg:  cfg,
		paused:  paused,
		clients: map[string]*client{},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

// Routes returns the HTTP mux: websocket stream plus read-only REST.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/ws", s.handleWS)
	mux.HandleFunc("/v1/state", s.handleState)
	mux.HandleFunc("/v1/stats", s.handleStats)
	return mux
}

// Run advances the simulation at the configured round rate and
// broadcasts a frame after every advance, until ctx is cancelled.
func (s *Server) Run(ctx context.Context, roundsPerSec int) {
	if roundsPerSec <= 0 {
		roundsPerSec = 10
	}
	ticker := time.NewTicker(time.Second / time.Duration(roundsPerSec))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.advance(false)
		}
	}
}

// advance runs one round unless paused (force overrides pause for
// single-stepping) and broadcasts the resulting frame.
func (s *Server) advance(force bool) {
	s.mu.Lock()
	if (s.paused && !force) || !s.sim.Running() {
		s.mu.Unlock()
		return
	}
	s.sim.Step()
	frame := s.stateFrameLocked()
	s.mu.Unlock()
	s.broadcast(frame)
}

func (s *Server) stateFrameLocked() []byte {
	msg := stateMsg(s.sim)
	b, err := json.Marshal(msg)
	if err != nil {
		s.log.Printf("marshal state frame: %v", err)
		return nil
	}
	return b
}

func stateMsg(sim *cleaning.Simulation) protocol.StateMsg {
	size := sim.Size()
	stats := sim.Statistics()

	dirty := sim.DirtyTiles()
	tiles := make([][2]int, len(dirty))
	for i, pos := range dirty {
		tiles[i] = [2]int{pos.X, pos.Y}
	}
	robots := make([]protocol.RobotState, 0, len(sim.Robots()))
	for _, r := range sim.Robots() {
		robots = append(robots, protocol.RobotState{ID: r.ID, X: r.Pos.X, Y: r.Pos.Y})
	}

	return protocol.StateMsg{
		Type:            protocol.TypeState,
		ProtocolVersion: protocol.Version,
		Round:           sim.Round(),
		Running:         sim.Running(),
		Width:           size.W,
		Height:          size.H,
		DirtyTiles:      tiles,
		Robots:          robots,
		Stats: protocol.RunStats{
			CompletionPct:  stats.CompletionPct,
			ElapsedMS:      stats.Elapsed.Milliseconds(),
			TotalMovements: stats.TotalMovements,
			Cleaned:        stats.Cleaned,
			InitialDirty:   stats.InitialDirty,
		},
	}
}

func (s *Server) broadcast(frame []byte) {
	if frame == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, c := range s.clients {
		select {
		case c.out <- frame:
		default:
			// Slow consumer: stop feeding it rather than stall the run.
			delete(s.clients, id)
		}
	}
}

func (s *Server) handleWS(rw http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(rw, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	c := &client{id: uuid.New().String(), out: make(chan []byte, 32)}

	s.mu.Lock()
	s.clients[c.id] = c
	frame := s.stateFrameLocked()
	s.mu.Unlock()

	s.log.Printf("client %s connected", c.id)
	if frame != nil {
		c.out <- frame
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Writer goroutine.
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case b, ok := <-c.out:
				if !ok {
					return
				}
				_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
				if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
					cancel()
					return
				}
			}
		}
	}()

	// Reader loop.
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			cancel()
			break
		}
		base, err := protocol.DecodeBase(msg)
		if err != nil || base.Type != protocol.TypeControl {
			continue
		}
		var ctl protocol.ControlMsg
		if err := json.Unmarshal(msg, &ctl); err != nil {
			continue
		}
		if ctl.ProtocolVersion != protocol.Version {
			continue
		}
		s.handleControl(c, ctl)
	}

	s.mu.Lock()
	if _, ok := s.clients[c.id]; ok {
		delete(s.clients, c.id)
		close(c.out)
	}
	s.mu.Unlock()
	s.log.Printf("client %s disconnected", c.id)
}

func (s *Server) handleControl(c *client, ctl protocol.ControlMsg) {
	switch ctl.Command {
	case protocol.CmdPause:
		s.mu.Lock()
		s.paused = true
		s.mu.Unlock()
	case protocol.CmdResume:
		s.mu.Lock()
		s.paused = false
		s.mu.Unlock()
	case protocol.CmdStep:
		s.advance(true)
	case protocol.CmdReset:
		s.mu.Lock()
		err := s.restartLocked(s.simCfg)
		frame := s.stateFrameLocked()
		s.mu.Unlock()
		if err != nil {
			s.sendError(c, "reset_failed", err.Error())
			return
		}
		s.broadcast(frame)
	case protocol.CmdStart:
		if ctl.Params == nil {
			s.sendError(c, "missing_params", "start requires params")
			return
		}
		cfg := paramsToConfig(*ctl.Params)
		s.mu.Lock()
		err := s.restartLocked(cfg)
		frame := s.stateFrameLocked()
		s.mu.Unlock()
		if err != nil {
			s.sendError(c, "bad_params", err.Error())
			return
		}
		s.broadcast(frame)
	}
}

func (s *Server) restartLocked(cfg cleaning.Config) error {
	sim, err := cleaning.New(cfg)
	if err != nil {
		return err
	}
	s.sim = sim
	s.simCfg = cfg
	s.paused = false
	return nil
}

func paramsToConfig(p protocol.RunParams) cleaning.Config {
	cfg := cleaning.DefaultConfig()
	cfg.Width = p.Width
	cfg.Height = p.Height
	cfg.RobotCount = p.Robots
	cfg.DirtFraction = p.DirtFraction
	if p.Seed != 0 {
		cfg.Seed = p.Seed
	}
	if p.MaxRounds > 0 {
		cfg.Termination = cleaning.TerminateAfterRounds
		cfg.MaxRounds = p.MaxRounds
	} else if p.MaxTimeSec > 0 {
		cfg.Termination = cleaning.TerminateOnGoal
		cfg.MaxTime = time.Duration(p.MaxTimeSec) * time.Second
	}
	return cfg
}

func (s *Server) sendError(c *client, code, message string) {
	b, err := json.Marshal(protocol.ErrorMsg{
		Type:            protocol.TypeError,
		ProtocolVersion: protocol.Version,
		Code:            code,
		Message:         message,
	})
	if err != nil {
		return
	}
	select {
	case c.out <- b:
	default:
	}
}

func (s *Server) handleState(rw http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	msg := stateMsg(s.sim)
	s.mu.Unlock()
	writeJSON(rw, msg)
}

func (s *Server) handleStats(rw http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	msg := stateMsg(s.sim).Stats
	s.mu.Unlock()
	writeJSON(rw, msg)
}

func writeJSON(rw http.ResponseWriter, v any) {
	rw.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(rw).Encode(v); err != nil {
		http.Error(rw, err.Error(), http.StatusInternalServerError)
	}
}
