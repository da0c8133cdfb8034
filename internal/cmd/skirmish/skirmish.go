// Package skirmish parses skirmish command flags and runs scenario
// resolution, in one of three modes: a single scenario file, a
// directory of scenarios resolved concurrently, or a journal dump.
package skirmish

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"

	entrypoint "github.com/louisbranch/skirmish-engine/internal/platform/cmd"
	"github.com/louisbranch/skirmish-engine/internal/ruleset"
)

// Config holds skirmish command configuration.
type Config struct {
	Rules    string `env:"SKIRMISH_RULES"`
	Scenario string `env:"SKIRMISH_SCENARIO"`
	Dir      string `env:"SKIRMISH_DIR"`
	Seed     int64  `env:"SKIRMISH_SEED"`
	Journal  string `env:"SKIRMISH_JOURNAL"`
	Dump     string `env:"SKIRMISH_DUMP"`
	Verbose  bool   `env:"SKIRMISH_VERBOSE"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Rules, "rules", cfg.Rules, "path to a YAML ruleset (empty uses the embedded default)")
	fs.StringVar(&cfg.Scenario, "scenario", cfg.Scenario, "path to a scenario lua file")
	fs.StringVar(&cfg.Dir, "dir", cfg.Dir, "directory of scenario lua files to run concurrently")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "dice seed override (0 draws a random seed)")
	fs.StringVar(&cfg.Journal, "journal", cfg.Journal, "journal database path (a directory in -dir mode)")
	fs.StringVar(&cfg.Dump, "dump", cfg.Dump, "print the rounds recorded in a journal and exit")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "enable verbose logging")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run executes the skirmish command.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}

	modes := 0
	for _, mode := range []string{cfg.Scenario, cfg.Dir, cfg.Dump} {
		if mode != "" {
			modes++
		}
	}
	if modes != 1 {
		return errors.New("exactly one of -scenario, -dir, or -dump is required")
	}

	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceSkirmish, func(ctx context.Context) error {
		if cfg.Dump != "" {
			return runDump(ctx, cfg, out)
		}

		rules, err := loadRules(cfg.Rules)
		if err != nil {
			return err
		}
		logger := log.New(errOut, "", 0)

		if cfg.Dir != "" {
			return runDir(ctx, cfg, rules, logger, out)
		}
		return runScenario(ctx, cfg, rules, logger, out, cfg.Scenario, cfg.Journal)
	})
}

func loadRules(path string) (*ruleset.Ruleset, error) {
	if path == "" {
		rules, err := ruleset.Default()
		if err != nil {
			return nil, fmt.Errorf("load default ruleset: %w", err)
		}
		return rules, nil
	}
	rules, err := ruleset.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load ruleset %s: %w", path, err)
	}
	return rules, nil
}
