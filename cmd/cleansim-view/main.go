//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"cleansim/internal/app"
	"cleansim/internal/cleaning"
)

func main() {
	defaults := cleaning.DefaultConfig()
	var (
		width  = flag.Int("width", defaults.Width, "grid width")
		height = flag.Int("height", defaults.Height, "grid height")
		robots = flag.Int("robots", defaults.RobotCount, "number of cleaning robots")
		dirt   = flag.Float64("dirt", defaults.DirtFraction, "fraction of initially dirty cells [0,1]")
		seed   = flag.Int64("seed", defaults.Seed, "simulation seed")
		scale  = flag.Int("scale", 32, "pixel scale multiplier")
		rps    = flag.Int("rps", 10, "rounds per second")
	)
	flag.Parse()

	cfg := defaults
	cfg.Width = *width
	cfg.Height = *height
	cfg.RobotCount = *robots
	cfg.DirtFraction = *dirt
	cfg.Seed = *seed

	sim, err := cleaning.New(cfg)
	if err != nil {
		log.Fatalf("configure simulation: %v", err)
	}

	game := app.New(sim, cfg, *scale, *rps)
	size := sim.Size()

	ebiten.SetWindowTitle("cleansim")
	ebiten.SetWindowSize(size.W*(*scale), size.H*(*scale))

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
