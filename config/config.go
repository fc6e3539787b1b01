// Package config layers the verifier simulator/CLI's configuration
// from flags, environment variables, and defaults, the way the
// teacher's cmd/davinci-sequencer does for its sequencer binary.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	defaultAPIHost  = "0.0.0.0"
	defaultAPIPort  = 8899
	defaultDatadir  = ".solana-noir-verifier"
	defaultLogLevel = "info"
	defaultLogOutput = "stderr"

	// EnvPrefix is the environment-variable namespace for all config
	// keys (e.g. VERIFIER_API_PORT).
	EnvPrefix = "VERIFIER"
)

// Per-phase compute-unit budgets, the simulator's stand-in for
// Solana's per-transaction compute budget. A real validator enforces
// these; the simulator only tracks and reports them so the CLI and
// tests can flag a phase split that would blow the budget on-chain.
const (
	CUBudgetChunkUpload      = 20_000
	CUBudgetPhase1Challenges = 250_000
	CUBudgetPhase2RoundsStep = 60_000 // per sumcheck round
	CUBudgetPhase2dRelations = 300_000
	CUBudgetPhase3aWeights   = 150_000
	CUBudgetPhase3b1Folding  = 200_000
	CUBudgetPhase3b2Gemini   = 50_000
	CUBudgetPhase3cMSM       = 350_000
	CUBudgetPhase3cPairing   = 150_000
	CUBudgetPhase4Pairing    = 200_000
)

// APIConfig holds the debug HTTP surface's configuration.
type APIConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Output string `mapstructure:"output"`
}

// FinalizerConfig holds the background receipt auto-finalization
// watcher's configuration; purely an off-chain harness convenience.
type FinalizerConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	MonitorInterval int  `mapstructure:"monitorIntervalSeconds"`
}

// Config is the simulator/CLI's top-level configuration.
type Config struct {
	API       APIConfig
	Log       LogConfig
	Finalizer FinalizerConfig
	Datadir   string
}

// Load reads configuration from flags, environment variables, and
// defaults, in that order of precedence (flags win).
func Load() (*Config, error) {
	v := viper.New()

	userHomeDir, err := os.UserHomeDir()
	if err != nil {
		userHomeDir = "."
	}
	defaultDatadirPath := filepath.Join(userHomeDir, defaultDatadir)

	v.SetDefault("api.host", defaultAPIHost)
	v.SetDefault("api.port", defaultAPIPort)
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("log.output", defaultLogOutput)
	v.SetDefault("finalizer.enabled", false)
	v.SetDefault("finalizer.monitorIntervalSeconds", 10)
	v.SetDefault("datadir", defaultDatadirPath)

	flag.StringP("api.host", "h", defaultAPIHost, "debug API host")
	flag.IntP("api.port", "p", defaultAPIPort, "debug API port")
	flag.StringP("log.level", "l", defaultLogLevel, "log level (debug, info, warn, error)")
	flag.String("log.output", defaultLogOutput, "log output (stdout, stderr or filepath)")
	flag.Bool("finalizer.enabled", false, "run the background receipt auto-finalization watcher")
	flag.Int("finalizer.monitorIntervalSeconds", 10, "auto-finalization poll interval in seconds")
	flag.StringP("datadir", "d", defaultDatadirPath, "data directory for the ledger's pebble database")

	flag.CommandLine.SortFlags = false
	if !flag.Parsed() {
		flag.Parse()
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flag.CommandLine); err != nil {
		return nil, fmt.Errorf("config: binding flags: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshaling: %w", err)
	}
	return cfg, nil
}
