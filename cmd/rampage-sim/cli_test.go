package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/dinorampage/combat/internal/config"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	config.SetDefaults()

	opts, err := parseFlags(nil, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, ".", opts.ConfigDir)
	assert.False(t, opts.LogStdout)
	// unset flags leave defaults in charge
	assert.Equal(t, 3600, viper.GetInt("sim.ticks"))
	assert.Equal(t, "memory", viper.GetString("storage.type"))
}

func TestParseFlags_OverridesConfig(t *testing.T) {
	t.Cleanup(viper.Reset)
	config.SetDefaults()

	opts, err := parseFlags([]string{
		"-c", "/etc/rampage",
		"--log-stdout",
		"--seed=42",
		"--ticks", "120",
		"--agents=3",
		"--time-attack=90s",
		"--storage=sqlite",
		"--log-level=debug",
	}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, "/etc/rampage", opts.ConfigDir)
	assert.True(t, opts.LogStdout)

	sim := config.GetSimConfig()
	assert.Equal(t, int64(42), sim.Seed)
	assert.Equal(t, 120, sim.Ticks)
	assert.Equal(t, 3, sim.AgentCount)
	assert.Equal(t, 90*time.Second, sim.TimeAttack)
	assert.Equal(t, 60, sim.TickRate)
	assert.Equal(t, "sqlite", config.GetStorageConfig().Type)
	assert.Equal(t, "debug", viper.GetString("logLevel"))
}

func TestParseFlags_Help(t *testing.T) {
	t.Cleanup(viper.Reset)
	var out bytes.Buffer

	_, err := parseFlags([]string{"--help"}, &out)
	assert.ErrorIs(t, err, pflag.ErrHelp)
	assert.Contains(t, out.String(), "--storage")
}

func TestParseFlags_Errors(t *testing.T) {
	t.Cleanup(viper.Reset)

	_, err := parseFlags([]string{"--ticks=many"}, &bytes.Buffer{})
	assert.Error(t, err)

	_, err = parseFlags([]string{"extra"}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "unexpected arguments")
}

func TestFlagBindingsExist(t *testing.T) {
	var opts options
	fs := newFlagSet(&opts, &bytes.Buffer{})
	for name := range flagBindings {
		assert.NotNil(t, fs.Lookup(name), name)
	}
}
