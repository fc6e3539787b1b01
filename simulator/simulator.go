package simulator

import (
	"context"
	"time"

	"github.com/nicolaslara/solana-noir-verifier/config"
	"github.com/nicolaslara/solana-noir-verifier/ledger"
	simapi "github.com/nicolaslara/solana-noir-verifier/simulator/api"
)

// Simulator bundles a ledger, the debug HTTP surface, and the optional
// auto-finalization watcher behind one lifecycle.
type Simulator struct {
	Ledger    *ledger.Ledger
	API       *simapi.API
	Finalizer *Finalizer
}

// New assembles a Simulator from configuration. cfg.Datadir selects a
// pebble-backed ledger; an empty Datadir uses an in-memory ledger,
// suitable for short-lived CLI invocations and tests.
func New(cfg *config.Config) (*Simulator, error) {
	var l *ledger.Ledger
	var err error
	if cfg.Datadir != "" {
		l, err = ledger.Open(cfg.Datadir)
	} else {
		l = ledger.New()
	}
	if err != nil {
		return nil, err
	}

	a, err := simapi.New(&simapi.Config{Host: cfg.API.Host, Port: cfg.API.Port, Ledger: l})
	if err != nil {
		return nil, err
	}

	sim := &Simulator{Ledger: l, API: a}
	if cfg.Finalizer.Enabled {
		sim.Finalizer = NewFinalizer(l)
	}
	return sim, nil
}

// Start serves the debug API and, if configured, the auto-finalization watcher.
func (s *Simulator) Start(ctx context.Context, host string, port int, monitorInterval time.Duration) {
	s.API.Serve(host, port)
	if s.Finalizer != nil {
		s.Finalizer.Start(ctx, monitorInterval)
	}
}

// Close releases the ledger and stops the finalizer, if running.
func (s *Simulator) Close() error {
	if s.Finalizer != nil {
		s.Finalizer.Close()
	}
	return s.Ledger.Close()
}
