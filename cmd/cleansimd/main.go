package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cleansim/internal/cleaning"
	"cleansim/internal/server"
)

func main() {
	var (
		addr       = flag.String("addr", "", "http listen address (overrides config)")
		configPath = flag.String("config", "", "path to cleansimd.yaml (optional)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[cleansimd] ", log.LstdFlags|log.Lmicroseconds)

	cfg, err := server.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}

	simCfg := cfg.Sim.SimConfig()
	sim, err := cleaning.New(simCfg)
	if err != nil {
		logger.Fatalf("configure simulation: %v", err)
	}

	srv := server.New(sim, simCfg, !cfg.AutoStart, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpSrv := &http.Server{Addr: cfg.Addr, Handler: srv.Routes()}
	go func() {
		logger.Printf("listening on %s (%dx%d grid, %d robots)",
			cfg.Addr, simCfg.Width, simCfg.Height, simCfg.RobotCount)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("http server: %v", err)
		}
	}()

	go srv.Run(ctx, cfg.RoundsPerSec)

	<-ctx.Done()
	logger.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("shutdown: %v", err)
	}
}
