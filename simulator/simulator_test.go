package simulator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nicolaslara/solana-noir-verifier/config"
)

func TestNewInMemorySimulator(t *testing.T) {
	cfg := &config.Config{
		API: config.APIConfig{Host: "127.0.0.1", Port: 0},
	}
	sim, err := New(cfg)
	require.NoError(t, err)
	require.NotNil(t, sim.Ledger)
	require.NotNil(t, sim.API)
	require.Nil(t, sim.Finalizer)
	require.NoError(t, sim.Close())
}

func TestNewSimulatorWithFinalizerEnabled(t *testing.T) {
	cfg := &config.Config{
		API:       config.APIConfig{Host: "127.0.0.1", Port: 0},
		Finalizer: config.FinalizerConfig{Enabled: true, MonitorInterval: 1},
	}
	sim, err := New(cfg)
	require.NoError(t, err)
	require.NotNil(t, sim.Finalizer)
	require.NoError(t, sim.Close())
}

func TestNewPebbleBackedSimulator(t *testing.T) {
	cfg := &config.Config{
		API:     config.APIConfig{Host: "127.0.0.1", Port: 0},
		Datadir: t.TempDir(),
	}
	sim, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, sim.Close())
}
