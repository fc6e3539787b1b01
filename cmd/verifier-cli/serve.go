package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nicolaslara/solana-noir-verifier/config"
	"github.com/nicolaslara/solana-noir-verifier/log"
	"github.com/nicolaslara/solana-noir-verifier/simulator"
)

// runServe starts the debug API (and, if configured, the
// auto-finalization watcher) and blocks until it is signaled to stop.
func runServe() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading configuration: %v", err)
	}

	log.Init(cfg.Log.Level, cfg.Log.Output, nil)
	log.Infow("starting verifier-cli", "datadir", cfg.Datadir, "api", fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port))

	sim, err := simulator.New(cfg)
	if err != nil {
		log.Fatalf("setting up simulator: %v", err)
	}
	defer func() {
		if err := sim.Close(); err != nil {
			log.Errorw(err, "closing simulator")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	monitorInterval := time.Duration(cfg.Finalizer.MonitorInterval) * time.Second
	sim.Start(ctx, cfg.API.Host, cfg.API.Port, monitorInterval)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh
	log.Infow("received signal, shutting down", "signal", sig.String())
}
