package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"cleansim/internal/cleaning"
	"cleansim/internal/record"
	"cleansim/internal/runstore"
)

func main() {
	defaults := cleaning.DefaultConfig()
	var (
		width  = flag.Int("width", defaults.Width, "grid width")
		height = flag.Int("height", defaults.Height, "grid height")
		robots = flag.Int("robots", defaults.RobotCount, "number of cleaning robots")
		dirt   = flag.Float64("dirt", defaults.DirtFraction, "fraction of initially dirty cells [0,1]")
		seed   = flag.Int64("seed", defaults.Seed, "simulation seed")

		rounds  = flag.Int("rounds", 0, "round budget (0 selects the goal/time variant)")
		maxTime = flag.Duration("max-time", defaults.MaxTime, "wall-clock budget for the goal variant")

		recordPath = flag.String("record", "", "write a per-round record to this file (optional)")
		dbPath     = flag.String("db", "", "append final statistics to this runs database (optional)")
	)
	flag.Parse()

	cfg := defaults
	cfg.Width = *width
	cfg.Height = *height
	cfg.RobotCount = *robots
	cfg.DirtFraction = *dirt
	cfg.Seed = *seed
	if *rounds > 0 {
		cfg.Termination = cleaning.TerminateAfterRounds
		cfg.MaxRounds = *rounds
	} else {
		cfg.Termination = cleaning.TerminateOnGoal
		cfg.MaxTime = *maxTime
	}

	sim, err := cleaning.New(cfg)
	if err != nil {
		log.Fatalf("configure simulation: %v", err)
	}

	var rec *record.Writer
	if *recordPath != "" {
		rec, err = record.NewWriter(*recordPath)
		if err != nil {
			log.Fatalf("open record file: %v", err)
		}
		defer rec.Close()
	}

	lastRound := sim.Round()
	for sim.Running() {
		sim.Step()
		if rec == nil || sim.Round() == lastRound {
			continue
		}
		lastRound = sim.Round()
		if err := rec.Write(roundRecord(sim)); err != nil {
			log.Fatalf("write record: %v", err)
		}
	}

	stats := sim.Statistics()
	fmt.Println("Simulation finished")
	fmt.Printf("  rounds:     %d\n", stats.Round)
	fmt.Printf("  completion: %.2f%% (%d/%d)\n", stats.CompletionPct, stats.Cleaned, stats.InitialDirty)
	fmt.Printf("  movements:  %d\n", stats.TotalMovements)
	fmt.Printf("  elapsed:    %s\n", stats.Elapsed.Round(time.Millisecond))

	if *dbPath != "" {
		store, err := runstore.Open(*dbPath)
		if err != nil {
			log.Fatalf("open runs database: %v", err)
		}
		defer store.Close()
		run, err := store.Insert(context.Background(), runstore.Run{
			Width:         cfg.Width,
			Height:        cfg.Height,
			Robots:        cfg.RobotCount,
			DirtFraction:  cfg.DirtFraction,
			Seed:          cfg.Seed,
			Rounds:        stats.Round,
			Cleaned:       stats.Cleaned,
			InitialDirty:  stats.InitialDirty,
			Movements:     stats.TotalMovements,
			CompletionPct: stats.CompletionPct,
			Elapsed:       stats.Elapsed,
		})
		if err != nil {
			log.Fatalf("store run: %v", err)
		}
		fmt.Printf("  run id:     %s\n", run.ID)
	}
}

func roundRecord(sim *cleaning.Simulation) record.Round {
	stats := sim.Statistics()
	views := sim.Robots()
	robots := make([][2]int, len(views))
	for i, v := range views {
		robots[i] = [2]int{v.Pos.X, v.Pos.Y}
	}
	return record.Round{
		Round:          stats.Round,
		Cleaned:        stats.Cleaned,
		TotalMovements: stats.TotalMovements,
		CompletionPct:  stats.CompletionPct,
		ElapsedMS:      stats.Elapsed.Milliseconds(),
		Robots:         robots,
	}
}
