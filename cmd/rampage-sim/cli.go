package main

import (
	"fmt"
	"io"

	"github.com/dinorampage/combat/internal/config"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// options are the flags that are not config keys
type options struct {
	ConfigDir  string
	LogStdout  bool
	StatusFile string
	ShowHelp   bool
}

// flagBindings maps command line flags onto config keys. A flag only
// overrides the config file when it is set explicitly.
var flagBindings = map[string]string{
	"seed":        "sim.seed",
	"ticks":       "sim.ticks",
	"tick-rate":   "sim.tickRate",
	"agents":      "sim.agentCount",
	"time-attack": "sim.timeAttack",
	"storage":     "storage.type",
	"output-dir":  "storage.memory.outputDir",
	"log-level":   "logLevel",
	"logs-dir":    "logsDir",
}

func newFlagSet(opts *options, out io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet(ExtensionName, pflag.ContinueOnError)
	fs.SetOutput(out)

	fs.StringVarP(&opts.ConfigDir, "config", "c", ".", "directory containing "+config.ConfigFileName)
	fs.BoolVar(&opts.LogStdout, "log-stdout", false, "log to stdout instead of the session log file")
	fs.StringVar(&opts.StatusFile, "status-file", "", "rewrite a JSON status sample to this path on every monitor tick")
	fs.BoolVarP(&opts.ShowHelp, "help", "h", false, "show usage")

	fs.Int64("seed", 0, "random seed, 0 picks one from the clock")
	fs.Int("ticks", 3600, "number of ticks to simulate")
	fs.Int("tick-rate", 60, "ticks per simulated second")
	fs.Int("agents", 15, "agents spawned at session start")
	fs.Duration("time-attack", 0, "time attack countdown, 0 disables")
	fs.String("storage", "memory", "recording backend: memory, sqlite, postgres or none")
	fs.String("output-dir", "./recordings", "directory for JSON exports and SQLite dumps")
	fs.String("log-level", "info", "DEBUG, INFO, WARN or ERROR")
	fs.String("logs-dir", "./logs", "directory for session log files")

	return fs
}

// parseFlags parses args and binds the config flags into viper.
func parseFlags(args []string, out io.Writer) (options, error) {
	var opts options
	fs := newFlagSet(&opts, out)
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.ShowHelp {
		fs.PrintDefaults()
		return opts, pflag.ErrHelp
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	for name, key := range flagBindings {
		if err := viper.BindPFlag(key, fs.Lookup(name)); err != nil {
			return opts, fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return opts, nil
}
