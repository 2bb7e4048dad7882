//go:build ebiten

package app

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"cleansim/internal/cleaning"
	"cleansim/internal/core"
	"cleansim/internal/render"
)

// Game adapts a cleaning simulation to the ebiten.Game interface. The
// simulation advances at its own round rate, decoupled from the
// render frame rate.
type Game struct {
	sim *cleaning.Simulation
	cfg cleaning.Config

	painter *render.GridPainter
	palette []color.RGBA
	pacer   *core.FixedStep
	cells   []uint8

	scale    int
	paused   bool
	tickOnce bool
}

// New constructs a Game for the provided simulation.
func New(sim *cleaning.Simulation, cfg cleaning.Config, scale, roundsPerSec int) *Game {
	size := sim.Size()
	return &Game{
		sim:     sim,
		cfg:     cfg,
		painter: render.NewGridPainter(size.W, size.H),
		palette: render.Palette(),
		pacer:   core.NewFixedStep(roundsPerSec),
		scale:   scale,
	}
}

// Reset restarts the run with the provided seed.
func (g *Game) Reset(seed int64) error {
	cfg := g.cfg
	cfg.Seed = seed
	sim, err := cleaning.New(cfg)
	if err != nil {
		return err
	}
	g.sim = sim
	g.cfg = cfg
	g.tickOnce = false
	return nil
}

// Update handles per-frame input and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.Reset(g.cfg.Seed); err != nil {
			return err
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		if err := g.Reset(time.Now().UnixNano()); err != nil {
			return err
		}
	}

	if (!g.paused && g.pacer.ShouldStep()) || g.tickOnce {
		g.sim.Step()
		g.tickOnce = false
	}
	return nil
}

// Draw renders the current simulation state and a stats line.
func (g *Game) Draw(screen *ebiten.Image) {
	g.cells = g.sim.Display(g.cells)
	g.painter.Blit(screen, g.cells, g.palette, g.scale)

	stats := g.sim.Statistics()
	status := "running"
	if !g.sim.Running() {
		status = "done"
	} else if g.paused {
		status = "paused"
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"round %d  %s\ncleaned %d/%d (%.1f%%)  moves %d",
		stats.Round, status, stats.Cleaned, stats.InitialDirty,
		stats.CompletionPct, stats.TotalMovements))
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sim.Size()
	return s.W * g.scale, s.H * g.scale
}
