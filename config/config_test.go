package config

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	assert.Equal(t, uint64(0x5eed), Config.Index.Seed)
	assert.Equal(t, 5, Config.Index.Effort)
	assert.Equal(t, 4, Config.Index.NumRoutines)
	assert.Equal(t, 4, Config.Index.Pivots)
	assert.Equal(t, 1024, Config.Join.LiteralCacheSize)
	assert.False(t, Config.Join.ExcludeSelf)
}

func TestApplyFlags(t *testing.T) {
	c := &ConfigMap{Index: Index{Seed: 1, Effort: 2, Pivots: 3, NumRoutines: 4}}
	*SeedFlag, *EffortFlag, *PivotsFlag, *LogLevelFlag = 99, 16, 0, "debug"
	*RoutinesFlag = 8
	defer func() {
		*SeedFlag, *EffortFlag, *PivotsFlag, *LogLevelFlag = 0, 0, 0, ""
		*RoutinesFlag = 0
	}()
	c.ApplyFlags()
	assert.Equal(t, uint64(99), c.Index.Seed)
	assert.Equal(t, 16, c.Index.Effort)
	assert.Equal(t, 8, c.Index.NumRoutines)
	assert.Equal(t, 3, c.Index.Pivots)
	assert.Equal(t, zerolog.DebugLevel, c.LogLevel())
}

func TestLogLevelFallback(t *testing.T) {
	c := &ConfigMap{Logging: Logging{Level: "loud"}}
	assert.Equal(t, zerolog.InfoLevel, c.LogLevel())
	c.Logging.Level = ""
	assert.Equal(t, zerolog.InfoLevel, c.LogLevel())
	c.Logging.Level = "disabled"
	assert.Equal(t, zerolog.Disabled, c.LogLevel())
}
