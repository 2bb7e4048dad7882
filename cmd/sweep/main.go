package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"runtime"
	"sort"
	"sync"
	"time"

	"cleansim/internal/cleaning"
	"cleansim/internal/runstore"
)

type paramSet struct {
	robots int
	dirt   float64
	seed   int64
}

func (p paramSet) String() string {
	return fmt.Sprintf("robots=%d dirt=%.2f seed=%d", p.robots, p.dirt, p.seed)
}

type scenarioResult struct {
	params paramSet
	run    runstore.Run
}

func main() {
	var (
		width   = flag.Int("width", 10, "grid width")
		height  = flag.Int("height", 10, "grid height")
		seeds   = flag.Int("seeds", 5, "seeds per parameter set")
		workers = flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
		dbPath  = flag.String("db", "", "append results to this runs database (optional)")
	)
	flag.Parse()

	robotOptions := []int{1, 2, 3, 5, 8}
	dirtOptions := []float64{0.1, 0.3, 0.5, 0.7, 0.9}

	var sets []paramSet
	for _, robots := range robotOptions {
		for _, dirt := range dirtOptions {
			for s := 0; s < *seeds; s++ {
				sets = append(sets, paramSet{robots: robots, dirt: dirt, seed: int64(1000 + s)})
			}
		}
	}

	fmt.Printf("Sweeping %d scenarios on a %dx%d grid (%d workers)\n",
		len(sets), *width, *height, *workers)

	jobs := make(chan paramSet)
	results := make(chan scenarioResult)
	var wg sync.WaitGroup

	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for params := range jobs {
				results <- runScenario(*width, *height, params)
			}
		}()
	}

	go func() {
		for _, params := range sets {
			jobs <- params
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	var all []scenarioResult
	for res := range results {
		all = append(all, res)
	}

	if *dbPath != "" {
		store, err := runstore.Open(*dbPath)
		if err != nil {
			log.Fatalf("open runs database: %v", err)
		}
		defer store.Close()
		ctx := context.Background()
		for _, res := range all {
			if _, err := store.Insert(ctx, res.run); err != nil {
				log.Fatalf("store run: %v", err)
			}
		}
		fmt.Printf("Stored %d runs in %s\n", len(all), *dbPath)
	}

	// Rank by rounds-to-completion within each robots/dirt pair.
	type key struct {
		robots int
		dirt   float64
	}
	byKey := map[key][]scenarioResult{}
	for _, res := range all {
		k := key{robots: res.params.robots, dirt: res.params.dirt}
		byKey[k] = append(byKey[k], res)
	}
	keys := make([]key, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].dirt != keys[j].dirt {
			return keys[i].dirt < keys[j].dirt
		}
		return keys[i].robots < keys[j].robots
	})

	fmt.Println("\nrobots  dirt   mean-rounds  mean-moves")
	for _, k := range keys {
		group := byKey[k]
		rounds, moves := 0, 0
		for _, res := range group {
			rounds += res.run.Rounds
			moves += res.run.Movements
		}
		fmt.Printf("%6d  %.2f  %11.1f  %10.1f\n",
			k.robots, k.dirt,
			float64(rounds)/float64(len(group)),
			float64(moves)/float64(len(group)))
	}
}

func runScenario(width, height int, params paramSet) scenarioResult {
	cfg := cleaning.DefaultConfig()
	cfg.Width = width
	cfg.Height = height
	cfg.RobotCount = params.robots
	cfg.DirtFraction = params.dirt
	cfg.Seed = params.seed
	cfg.Termination = cleaning.TerminateOnGoal
	cfg.MaxTime = time.Hour

	started := time.Now()
	sim, err := cleaning.New(cfg)
	if err != nil {
		log.Fatalf("scenario %s: %v", params, err)
	}
	for sim.Running() {
		sim.Step()
	}

	stats := sim.Statistics()
	return scenarioResult{
		params: params,
		run: runstore.Run{
			Width:         width,
			Height:        height,
			Robots:        params.robots,
			DirtFraction:  params.dirt,
			Seed:          params.seed,
			Rounds:        stats.Round,
			Cleaned:       stats.Cleaned,
			InitialDirty:  stats.InitialDirty,
			Movements:     stats.TotalMovements,
			CompletionPct: stats.CompletionPct,
			Elapsed:       time.Since(started),
		},
	}
}
