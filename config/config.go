package config

import (
	"flag"

	"github.com/rs/zerolog"
	"github.com/sjy-dv/simjoin/pkg/gomath"
)

var SeedFlag = flag.Uint64("seed", 0, "Seed for vantage point and pivot sampling (0 keeps the default)")
var EffortFlag = flag.Int("effort", 0, "Vantage point candidates sampled per VP-tree node (0 keeps the default)")
var RoutinesFlag = flag.Int("routines", 0, "Goroutines for concurrent pivot index builds (0 keeps the default)")
var PivotsFlag = flag.Int("pivots", 0, "Pivot count for pivot candidate filtering (0 keeps the default)")
var LogLevelFlag = flag.String("log-level", "", "zerolog level: trace, debug, info, warn, error, disabled")

type ConfigMap struct {
	Join    Join    `toml:"join"`
	Index   Index   `toml:"index"`
	Logging Logging `toml:"logging"`
}

type Join struct {
	// size of the per-join cache of parsed vector literals
	LiteralCacheSize int `toml:"literal_cache_size"`
	// excluding self matches is off unless a query asks for it
	ExcludeSelf bool `toml:"exclude_self"`
}

type Index struct {
	Seed              uint64 `toml:"seed"`
	Effort            int    `toml:"effort"`
	Pivots            int    `toml:"pivots"`
	ParallelThreshold int    `toml:"parallel_threshold"`
	NumRoutines       int    `toml:"num_routines"`
}

type Logging struct {
	Level string `toml:"level"`
}

var Config = &ConfigMap{
	Join: Join{
		LiteralCacheSize: 1024,
		ExcludeSelf:      false,
	},
	Index: Index{
		Seed:              0x5eed,
		Effort:            5,
		Pivots:            4,
		ParallelThreshold: gomath.DefaultParallelThreshold,
		NumRoutines:       gomath.DefaultNumRoutines,
	},
	Logging: Logging{
		Level: "info",
	},
}

// ApplyFlags copies explicitly set command-line flags over the defaults.
// flag.Parse must have run.
func (c *ConfigMap) ApplyFlags() {
	if *SeedFlag != 0 {
		c.Index.Seed = *SeedFlag
	}
	if *EffortFlag > 0 {
		c.Index.Effort = *EffortFlag
	}
	if *RoutinesFlag > 0 {
		c.Index.NumRoutines = *RoutinesFlag
	}
	if *PivotsFlag > 0 {
		c.Index.Pivots = *PivotsFlag
	}
	if *LogLevelFlag != "" {
		c.Logging.Level = *LogLevelFlag
	}
}

// LogLevel parses Logging.Level, falling back to info.
func (c *ConfigMap) LogLevel() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.Logging.Level)
	if err != nil || c.Logging.Level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}
