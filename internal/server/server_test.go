package server

import (
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"cleansim/internal/cleaning"
	"cleansim/internal/protocol"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	cfg := cleaning.DefaultConfig()
	cfg.Width = 5
	cfg.Height = 5
	cfg.DirtFraction = 0.2
	cfg.MaxTime = time.Hour
	cfg.Seed = 11
	sim, err := cleaning.New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	srv := New(sim, cfg, true, log.New(os.Stderr, "[test] ", 0))
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return srv, ts
}

func TestRESTStateAndStats(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/v1/state")
	if err != nil {
		t.Fatalf("GET /v1/state: %v", err)
	}
	defer resp.Body.Close()

	var state protocol.StateMsg
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if state.Type != protocol.TypeState || state.Width != 5 || state.Height != 5 {
		t.Fatalf("unexpected state frame: %+v", state)
	}
	if len(state.DirtyTiles) != 5 {
		t.Fatalf("dirty tiles = %d, want 5", len(state.DirtyTiles))
	}

	resp2, err := http.Get(ts.URL + "/v1/stats")
	if err != nil {
		t.Fatalf("GET /v1/stats: %v", err)
	}
	defer resp2.Body.Close()

	var stats protocol.RunStats
	if err := json.NewDecoder(resp2.Body).Decode(&stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.InitialDirty != 5 || stats.Cleaned != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestWebsocketControlStep(t *testing.T) {
	srv, ts := newTestServer(t)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if resp != nil {
		defer resp.Body.Close()
	}
	defer conn.Close()

	readState := func() protocol.StateMsg {
		t.Helper()
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read frame: %v", err)
		}
		var state protocol.StateMsg
		if err := json.Unmarshal(msg, &state); err != nil {
			t.Fatalf("unmarshal frame: %v", err)
		}
		return state
	}

	// The server sends the current state on connect.
	if first := readState(); first.Round != 0 {
		t.Fatalf("initial frame round = %d, want 0", first.Round)
	}

	step, _ := json.Marshal(protocol.ControlMsg{
		Type:            protocol.TypeControl,
		ProtocolVersion: protocol.Version,
		Command:         protocol.CmdStep,
	})
	if err := conn.WriteMessage(websocket.TextMessage, step); err != nil {
		t.Fatalf("write control: %v", err)
	}

	if next := readState(); next.Round != 1 {
		t.Fatalf("frame after step has round = %d, want 1", next.Round)
	}
	if !srv.sim.Running() {
		t.Fatal("simulation terminated unexpectedly")
	}
}

func TestWebsocketStartRejectsBadParams(t *testing.T) {
	_, ts := newTestServer(t)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if resp != nil {
		defer resp.Body.Close()
	}
	defer conn.Close()

	// Drain the connect frame.
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, _, err := conn.ReadMessage(); err != nil {
		t.Fatalf("read connect frame: %v", err)
	}

	start, _ := json.Marshal(protocol.ControlMsg{
		Type:            protocol.TypeControl,
		ProtocolVersion: protocol.Version,
		Command:         protocol.CmdStart,
		Params:          &protocol.RunParams{Width: 10, Height: 10, Robots: 0, DirtFraction: 0.3},
	})
	if err := conn.WriteMessage(websocket.TextMessage, start); err != nil {
		t.Fatalf("write control: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read error frame: %v", err)
	}
	var errMsg protocol.ErrorMsg
	if err := json.Unmarshal(msg, &errMsg); err != nil {
		t.Fatalf("unmarshal error frame: %v", err)
	}
	if errMsg.Type != protocol.TypeError || errMsg.Code != "bad_params" {
		t.Fatalf("unexpected error frame: %+v", errMsg)
	}
}
